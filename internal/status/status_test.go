package status

import (
	"os"
	"path/filepath"
	"testing"

	"poolman/internal/install"
)

func writeStats(t *testing.T, paths install.Paths, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(paths.StatsFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.StatsFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadNotStarted(t *testing.T) {
	paths := install.Resolve(t.TempDir())
	writeStats(t, paths, `{"current_hashrate": 1200}`)

	snap := Read(paths, false)
	if snap.Running || snap.Hashrate != 0 {
		t.Fatalf("got %+v, want stopped with zero hashrate", snap)
	}
}

func TestReadStartedNoStatsFile(t *testing.T) {
	paths := install.Resolve(t.TempDir())

	snap := Read(paths, true)
	if !snap.Running {
		t.Fatal("running flag must follow the start state")
	}
	if snap.Hashrate != 0 {
		t.Fatalf("hashrate %d, want 0 before first status write", snap.Hashrate)
	}
}

func TestReadHashrate(t *testing.T) {
	paths := install.Resolve(t.TempDir())
	writeStats(t, paths, `{"current_hashrate": 3521, "total_hashes": 900}`)

	snap := Read(paths, true)
	if !snap.Running || snap.Hashrate != 3521 {
		t.Fatalf("got %+v, want running at 3521", snap)
	}
}

func TestReadFractionalHashrate(t *testing.T) {
	paths := install.Resolve(t.TempDir())
	writeStats(t, paths, `{"current_hashrate": 1050.7}`)

	snap := Read(paths, true)
	if snap.Hashrate != 1050 {
		t.Fatalf("hashrate %d, want 1050", snap.Hashrate)
	}
}

func TestReadDegradedPayloads(t *testing.T) {
	cases := map[string]string{
		"empty file":        "",
		"not json":          "hashrate=5",
		"truncated":         `{"current_hashrate":`,
		"field missing":     `{"uptime": 12}`,
		"field non-numeric": `{"current_hashrate": "fast"}`,
		"field null":        `{"current_hashrate": null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			paths := install.Resolve(t.TempDir())
			writeStats(t, paths, body)

			snap := Read(paths, true)
			if !snap.Running {
				t.Fatal("running flag must follow the start state")
			}
			if snap.Hashrate != 0 {
				t.Fatalf("hashrate %d, want 0", snap.Hashrate)
			}
		})
	}
}
