package daemon

import (
	"context"
	"testing"
	"time"

	"poolman/internal/config"
	"poolman/internal/history"
	"poolman/internal/install"
	"poolman/internal/logging"
	"poolman/internal/manager"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.InstallDir = base + "/p2pool"
	cfg.Paths.LogDir = base + "/logs"
	cfg.Daemon.StatusPollInterval = 1
	cfg.Pool.Wallet = "46test-wallet"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func testDaemon(t *testing.T, cfg *config.Config, store *history.Store) *Daemon {
	t.Helper()
	paths := install.Resolve(cfg.Paths.InstallDir)
	mgr := manager.New(paths, logging.NewNop(), store, nil)
	d, err := New(cfg, mgr, store, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStartStop(t *testing.T) {
	cfg := testConfig(t)
	d := testDaemon(t, cfg, nil)

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := d.Status()
	if !st.Running {
		t.Fatal("daemon must report running after start")
	}
	if st.Pool.Running {
		t.Fatal("pool must not report running before StartPool")
	}
	if st.SessionID == "" {
		t.Fatal("missing session id")
	}
	if st.PID == 0 {
		t.Fatal("missing pid")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon must report stopped after stop")
	}
}

func TestStartTwiceFails(t *testing.T) {
	cfg := testConfig(t)
	d := testDaemon(t, cfg, nil)

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second start on the same daemon must fail")
	}
}

func TestSingleInstanceLock(t *testing.T) {
	cfg := testConfig(t)
	first := testDaemon(t, cfg, nil)
	second := testDaemon(t, cfg, nil)

	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop()

	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon instance must fail to acquire the lock")
	}
}

func TestStartPoolFailsWithoutBinary(t *testing.T) {
	cfg := testConfig(t)
	d := testDaemon(t, cfg, nil)

	if d.StartPool() {
		t.Fatal("pool start must fail without an installed binary")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestStartPoolRejectsEmptyWallet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pool.Wallet = ""
	d := testDaemon(t, cfg, nil)

	if d.StartPool() {
		t.Fatal("pool start must fail without a wallet address")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPollLoopRecordsSamples(t *testing.T) {
	cfg := testConfig(t)
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatal(err)
	}

	d := testDaemon(t, cfg, store)
	d.pollInterval = 10 * time.Millisecond

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		samples, err := store.RecentSamples(context.Background(), 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(samples) > 0 {
			if samples[0].Running {
				t.Fatal("samples must record a stopped pool")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no samples recorded before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
}
