package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"poolman/internal/install"
	"poolman/internal/logging"
)

func testSupervisor(t *testing.T) (*Supervisor, install.Paths) {
	t.Helper()
	paths := install.Resolve(t.TempDir())
	return New(paths, logging.NewNop()), paths
}

func TestStartRecreatesStatsDir(t *testing.T) {
	s, paths := testSupervisor(t)

	stale := filepath.Join(paths.StatsDir, "local", "miner")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte(`{"current_hashrate": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotBinary, gotWorkDir string
	var gotArgs []string
	s.launch = func(binary string, args []string, workDir string) error {
		gotBinary, gotArgs, gotWorkDir = binary, args, workDir
		return nil
	}

	if err := s.Start("", "wallet", "mini", "2"); err != nil {
		t.Fatal(err)
	}
	if gotBinary != paths.BinaryPath {
		t.Errorf("binary %q, want %q", gotBinary, paths.BinaryPath)
	}
	if gotWorkDir != paths.InstallDir {
		t.Errorf("workdir %q, want %q", gotWorkDir, paths.InstallDir)
	}
	if len(gotArgs) == 0 {
		t.Fatal("no args passed to launch")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale stats file must be wiped before launch")
	}
	if info, err := os.Stat(paths.StatsDir); err != nil || !info.IsDir() {
		t.Fatal("stats directory must exist after start")
	}
}

func TestStartKeepsStatsDirForCallerDataAPI(t *testing.T) {
	s, paths := testSupervisor(t)

	marker := filepath.Join(paths.StatsDir, "keep")
	if err := os.MkdirAll(paths.StatsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s.launch = func(string, []string, string) error { return nil }

	if err := s.Start("--data-api /custom", "wallet", "main", "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("stats directory must be untouched when caller sets --data-api")
	}
}

func TestStartLaunchFailure(t *testing.T) {
	s, _ := testSupervisor(t)
	s.launch = func(string, []string, string) error {
		return errors.New("exec format error")
	}
	if err := s.Start("", "wallet", "mini", "1"); err == nil {
		t.Fatal("expected launch error")
	}
}

func TestKillRemovesStatsDir(t *testing.T) {
	s, paths := testSupervisor(t)

	if err := os.MkdirAll(paths.StatsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var killed string
	s.kill = func(_ context.Context, name string) error {
		killed = name
		return nil
	}

	if err := s.Kill(context.Background()); err != nil {
		t.Fatal(err)
	}
	if killed != install.BinaryName() {
		t.Errorf("killed %q, want %q", killed, install.BinaryName())
	}
	if _, err := os.Stat(paths.StatsDir); !os.IsNotExist(err) {
		t.Fatal("stats directory must be removed on kill")
	}
}

func TestKillFailureStillRemovesStatsDir(t *testing.T) {
	s, paths := testSupervisor(t)

	stale := filepath.Join(paths.StatsDir, "local", "miner")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte(`{"current_hashrate": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s.kill = func(context.Context, string) error {
		return errors.New("taskkill unavailable")
	}

	if err := s.Kill(context.Background()); err == nil {
		t.Fatal("expected kill error")
	}
	if _, err := os.Stat(paths.StatsDir); !os.IsNotExist(err) {
		t.Fatal("stats directory must be removed even when the kill command fails")
	}
}
