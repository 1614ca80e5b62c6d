package release

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"poolman/internal/install"
	"poolman/internal/logging"
)

// FailureKind classifies why a fetch attempt did not produce a working
// installation. Exactly one kind applies per failed attempt.
type FailureKind int

const (
	// FailureNone marks a successful attempt.
	FailureNone FailureKind = iota
	// FailureBinaryNotAvailable: upstream has no archive for this platform
	// or version (HTTP 404, or no descriptor exists for the host).
	FailureBinaryNotAvailable
	// FailureConnectionIssue: the request failed at the transport level.
	FailureConnectionIssue
	// FailureHashVerification: the body digest did not match the pinned one.
	FailureHashVerification
	// FailureInstallation: the archive extracted but the binary is missing.
	FailureInstallation
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureBinaryNotAvailable:
		return "binary_not_available"
	case FailureConnectionIssue:
		return "connection_issue"
	case FailureHashVerification:
		return "hash_verification_failed"
	case FailureInstallation:
		return "installation_failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one fetch attempt.
type Result struct {
	Descriptor Descriptor
	Failure    FailureKind
	Detail     string
}

// Succeeded reports whether the attempt installed a working binary.
func (r Result) Succeeded() bool {
	return r.Failure == FailureNone
}

// ExtractFunc unpacks a gzip tarball into destDir with the top-level path
// component stripped.
type ExtractFunc func(ctx context.Context, archivePath, destDir string) error

const downloadTimeout = 10 * time.Second

// Fetcher downloads and installs a release archive.
type Fetcher struct {
	paths  install.Paths
	logger *slog.Logger

	// Overridable for tests.
	client     *http.Client
	extract    ExtractFunc
	descriptor func() (Descriptor, bool)
	userAgent  func() string
}

// NewFetcher builds a Fetcher for the given installation layout. The HTTP
// client does not follow redirects on its own: the single permitted redirect
// hop is handled explicitly in Fetch.
func NewFetcher(paths install.Paths, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		paths:  paths,
		logger: logging.NewComponentLogger(logger, "release"),
		client: &http.Client{
			Timeout: downloadTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		extract:    tarExtract,
		descriptor: HostDescriptor,
		userAgent:  randomUserAgent,
	}
}

// Fetch performs one download/verify/extract attempt. It is synchronous;
// callers that need fire-and-forget semantics run it on their own goroutine.
func (f *Fetcher) Fetch(ctx context.Context) Result {
	desc, ok := f.descriptor()
	if !ok {
		return f.fail(Result{
			Failure: FailureBinaryNotAvailable,
			Detail:  "no release archive published for this platform",
		})
	}
	result := Result{Descriptor: desc}

	f.logger.Info("downloading release archive",
		logging.String("url", desc.URL),
		logging.String("version", Version))

	body, failure, detail := f.download(ctx, desc)
	if failure != FailureNone {
		result.Failure = failure
		result.Detail = detail
		return f.fail(result)
	}

	digest := sha256.Sum256(body)
	if hex.EncodeToString(digest[:]) != desc.SHA256 {
		result.Failure = FailureHashVerification
		result.Detail = fmt.Sprintf("archive digest %x does not match pinned value", digest)
		return f.fail(result)
	}

	if err := f.installArchive(ctx, desc, body); err != nil {
		result.Failure = FailureInstallation
		result.Detail = err.Error()
		return f.fail(result)
	}

	if !f.paths.Installed() {
		result.Failure = FailureInstallation
		result.Detail = fmt.Sprintf("binary %s missing after extraction", f.paths.BinaryPath)
		return f.fail(result)
	}

	f.logger.Info("release installed",
		logging.String("binary", f.paths.BinaryPath),
		logging.String("version", Version))
	return result
}

// download returns the full response body. It follows at most one redirect:
// a 302 re-targets the request to the Location header and issues exactly one
// more GET; further redirects are not followed.
func (f *Fetcher) download(ctx context.Context, desc Descriptor) ([]byte, FailureKind, string) {
	agent := f.userAgent()

	resp, err := f.get(ctx, desc.URL, agent)
	if err != nil {
		return nil, FailureConnectionIssue, err.Error()
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, FailureBinaryNotAvailable, "release archive not found (404)"
	case http.StatusFound:
		location := resp.Header.Get("Location")
		redirected, err := f.redirect(ctx, desc.URL, location, agent)
		if err != nil {
			return nil, FailureConnectionIssue, err.Error()
		}
		defer redirected.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		body, err := io.ReadAll(redirected.Body)
		if err != nil {
			return nil, FailureConnectionIssue, err.Error()
		}
		return body, FailureNone, ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, FailureConnectionIssue, err.Error()
	}
	return body, FailureNone, ""
}

func (f *Fetcher) redirect(ctx context.Context, origin, location, agent string) (*http.Response, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin url: %w", err)
	}
	target, err := base.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse redirect location: %w", err)
	}
	return f.get(ctx, target.String(), agent)
}

func (f *Fetcher) get(ctx context.Context, rawURL, agent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", agent)
	return f.client.Do(req)
}

// installArchive writes the verified body to disk, extracts it, and removes
// the archive. The archive is removed even when extraction fails; partially
// extracted files are not rolled back.
func (f *Fetcher) installArchive(ctx context.Context, desc Descriptor, body []byte) error {
	if err := os.MkdirAll(f.paths.InstallDir, 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	archivePath := filepath.Join(f.paths.InstallDir, desc.ArchiveName)
	if err := os.WriteFile(archivePath, body, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	defer os.Remove(archivePath)

	if err := f.extract(ctx, archivePath, f.paths.InstallDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}
	return nil
}

func (f *Fetcher) fail(result Result) Result {
	f.logger.Warn("release fetch failed",
		logging.String(logging.FieldEventType, "release_fetch_failed"),
		logging.String("failure", result.Failure.String()),
		logging.String("detail", result.Detail))
	return result
}

// tarExtract shells out to tar, which handles both the gzip tarballs and the
// Windows zip (bsdtar detects the format). --strip=1 drops the release's
// top-level directory so the binary lands directly in destDir.
func tarExtract(ctx context.Context, archivePath, destDir string) error {
	cmd := exec.CommandContext(ctx, "tar", "-xzf", archivePath, "--strip=1", "-C", destDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tar: %w: %s", err, output)
	}
	return nil
}
