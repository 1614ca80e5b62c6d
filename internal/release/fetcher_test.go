package release

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"poolman/internal/install"
	"poolman/internal/logging"
)

func testFetcher(t *testing.T, desc Descriptor) (*Fetcher, install.Paths) {
	t.Helper()
	paths := install.Resolve(t.TempDir())
	f := NewFetcher(paths, logging.NewNop())
	f.descriptor = func() (Descriptor, bool) { return desc, true }
	return f, paths
}

// fakeExtract pretends the archive contained the binary.
func fakeExtract(paths install.Paths) ExtractFunc {
	return func(_ context.Context, archivePath, destDir string) error {
		if _, err := os.Stat(archivePath); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(destDir, install.BinaryName()), []byte("binary"), 0o755)
	}
}

func descriptorFor(url string, body []byte) Descriptor {
	digest := sha256.Sum256(body)
	return Descriptor{
		URL:         url,
		ArchiveName: "p2pool-test.tar.gz",
		SHA256:      hex.EncodeToString(digest[:]),
	}
}

func TestFetchSuccess(t *testing.T) {
	body := []byte("archive-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("missing User-Agent header")
		}
		_, _ = w.Write(body)
	}))
	defer server.Close()

	f, paths := testFetcher(t, descriptorFor(server.URL, body))
	f.extract = fakeExtract(paths)

	result := f.Fetch(context.Background())
	if !result.Succeeded() {
		t.Fatalf("fetch failed: %s (%s)", result.Failure, result.Detail)
	}
	if !paths.Installed() {
		t.Fatal("binary missing after successful fetch")
	}
	if _, err := os.Stat(filepath.Join(paths.InstallDir, "p2pool-test.tar.gz")); !os.IsNotExist(err) {
		t.Fatal("archive file should be removed after extraction")
	}
}

func TestFetchFollowsSingleRedirect(t *testing.T) {
	body := []byte("redirected-bytes")
	var targetHits int
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetHits++
		_, _ = w.Write(body)
	}))
	defer target.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", target.URL+"/asset?token=abc")
		w.WriteHeader(http.StatusFound)
	}))
	defer origin.Close()

	f, paths := testFetcher(t, descriptorFor(origin.URL, body))
	f.extract = fakeExtract(paths)

	result := f.Fetch(context.Background())
	if !result.Succeeded() {
		t.Fatalf("fetch failed: %s (%s)", result.Failure, result.Detail)
	}
	if targetHits != 1 {
		t.Fatalf("redirect target hit %d times, want 1", targetHits)
	}
	if !paths.Installed() {
		t.Fatal("binary missing after redirected fetch")
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f, paths := testFetcher(t, descriptorFor(server.URL, []byte("irrelevant")))

	result := f.Fetch(context.Background())
	if result.Failure != FailureBinaryNotAvailable {
		t.Fatalf("failure %s, want %s", result.Failure, FailureBinaryNotAvailable)
	}
	entries, err := os.ReadDir(paths.InstallDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("install dir should be untouched, found %d entries", len(entries))
	}
}

func TestFetchConnectionIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f, _ := testFetcher(t, descriptorFor(url, []byte("irrelevant")))

	result := f.Fetch(context.Background())
	if result.Failure != FailureConnectionIssue {
		t.Fatalf("failure %s, want %s", result.Failure, FailureConnectionIssue)
	}
	if result.Detail == "" {
		t.Fatal("expected transport error detail")
	}
}

func TestFetchRedirectTargetUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", deadURL)
		w.WriteHeader(http.StatusFound)
	}))
	defer origin.Close()

	f, _ := testFetcher(t, descriptorFor(origin.URL, []byte("irrelevant")))

	result := f.Fetch(context.Background())
	if result.Failure != FailureConnectionIssue {
		t.Fatalf("failure %s, want %s", result.Failure, FailureConnectionIssue)
	}
}

func TestFetchHashMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tampered-bytes"))
	}))
	defer server.Close()

	desc := descriptorFor(server.URL, []byte("expected-bytes"))
	f, paths := testFetcher(t, desc)
	extracted := false
	f.extract = func(context.Context, string, string) error {
		extracted = true
		return nil
	}

	result := f.Fetch(context.Background())
	if result.Failure != FailureHashVerification {
		t.Fatalf("failure %s, want %s", result.Failure, FailureHashVerification)
	}
	if extracted {
		t.Fatal("must not extract an archive that failed verification")
	}
	entries, err := os.ReadDir(paths.InstallDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("install dir should be untouched, found %d entries", len(entries))
	}
}

func TestFetchInstallationFailed(t *testing.T) {
	body := []byte("archive-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	f, paths := testFetcher(t, descriptorFor(server.URL, body))
	// Extraction "succeeds" but never produces the binary.
	f.extract = func(context.Context, string, string) error { return nil }

	result := f.Fetch(context.Background())
	if result.Failure != FailureInstallation {
		t.Fatalf("failure %s, want %s", result.Failure, FailureInstallation)
	}
	if _, err := os.Stat(filepath.Join(paths.InstallDir, "p2pool-test.tar.gz")); !os.IsNotExist(err) {
		t.Fatal("archive should be removed even when installation fails")
	}
}

func TestFetchUnsupportedPlatform(t *testing.T) {
	paths := install.Resolve(t.TempDir())
	f := NewFetcher(paths, logging.NewNop())
	f.descriptor = func() (Descriptor, bool) { return Descriptor{}, false }

	result := f.Fetch(context.Background())
	if result.Failure != FailureBinaryNotAvailable {
		t.Fatalf("failure %s, want %s", result.Failure, FailureBinaryNotAvailable)
	}
}

func TestFailureKindStrings(t *testing.T) {
	kinds := map[FailureKind]string{
		FailureNone:               "none",
		FailureBinaryNotAvailable: "binary_not_available",
		FailureConnectionIssue:    "connection_issue",
		FailureHashVerification:   "hash_verification_failed",
		FailureInstallation:       "installation_failed",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("%d: got %q, want %q", kind, got, want)
		}
	}
}
