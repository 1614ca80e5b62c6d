// Package daemon runs the long-lived supervisor: it owns the manager,
// enforces single-instance execution, and samples the pool daemon's status
// on a fixed interval.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"poolman/internal/config"
	"poolman/internal/history"
	"poolman/internal/logging"
	"poolman/internal/manager"
	"poolman/internal/status"
)

const pruneInterval = time.Hour

// Daemon coordinates the pool manager and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	manager   *manager.Manager
	store     *history.Store
	logger    *slog.Logger
	sessionID string

	lockPath string
	lock     *flock.Flock

	// Overridable for tests.
	pollInterval time.Duration

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Pool         status.Snapshot
	Installed    bool
	SessionID    string
	LockFilePath string
	SocketPath   string
	PID          int
}

// New constructs a daemon with initialized dependencies. The history store
// may be nil when history is disabled.
func New(cfg *config.Config, mgr *manager.Manager, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || mgr == nil || logger == nil {
		return nil, errors.New("daemon requires config, manager, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "poolman.lock")
	return &Daemon{
		cfg:          cfg,
		manager:      mgr,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "daemon"),
		sessionID:    uuid.NewString(),
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
		pollInterval: time.Duration(cfg.Daemon.StatusPollInterval) * time.Second,
	}, nil
}

// Start acquires the daemon lock and begins the status sampling loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another poolman daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go d.pollLoop(d.ctx)

	d.running.Store(true)
	d.logger.Info("poolman daemon started",
		logging.String(logging.FieldSessionID, d.sessionID),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop ends the sampling loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("poolman daemon stopped",
		logging.String(logging.FieldSessionID, d.sessionID))
}

// Close stops the daemon, drains manager background work, and closes the
// history store. The pool daemon itself keeps running; StopPool terminates
// it explicitly.
func (d *Daemon) Close() error {
	d.Stop()
	d.manager.Close()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports the daemon's own state plus the pool snapshot.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Pool:         d.manager.Status(),
		Installed:    d.manager.Installed(),
		SessionID:    d.sessionID,
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.SocketPath(),
		PID:          os.Getpid(),
	}
}

// Installed reports whether the pool binary is present.
func (d *Daemon) Installed() bool {
	return d.manager.Installed()
}

// Download schedules a release download on the manager.
func (d *Daemon) Download(ctx context.Context) {
	d.manager.Download(ctx)
}

// StartPool launches the pool daemon with the configured launch parameters.
// A missing wallet address fails fast; p2pool cannot mine without one.
func (d *Daemon) StartPool() bool {
	if strings.TrimSpace(d.cfg.Pool.Wallet) == "" {
		d.logger.Error("pool start rejected",
			logging.String(logging.FieldEventType, "pool_start_rejected"),
			logging.String(logging.FieldErrorHint, "set pool.wallet in the configuration"))
		return false
	}
	return d.manager.Start(manager.StartConfig{
		Wallet:  d.cfg.Pool.Wallet,
		Chain:   d.cfg.Pool.Chain,
		Threads: d.cfg.Pool.Threads,
		Flags:   d.cfg.Pool.Flags,
	})
}

// StopPool terminates the pool daemon.
func (d *Daemon) StopPool(ctx context.Context) error {
	return d.manager.Exit(ctx)
}

// pollLoop samples the status file on the configured interval, records
// samples to history, and prunes old rows once an hour.
func (d *Daemon) pollLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	lastPrune := time.Now()
	d.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := d.manager.Status()
			d.logger.Debug("status sample",
				logging.Bool("running", snap.Running),
				logging.Int64("hashrate", snap.Hashrate))
			if d.store != nil {
				if err := d.store.RecordSample(ctx, snap.Running, snap.Hashrate); err != nil && ctx.Err() == nil {
					d.logger.Warn("record status sample", logging.Error(err))
				}
			}
			if time.Since(lastPrune) >= pruneInterval {
				d.prune(ctx)
				lastPrune = time.Now()
			}
		}
	}
}

func (d *Daemon) prune(ctx context.Context) {
	if d.store == nil || !d.cfg.History.Enabled {
		return
	}
	retention := time.Duration(d.cfg.History.RetentionDays) * 24 * time.Hour
	if err := d.store.Prune(ctx, retention); err != nil && ctx.Err() == nil {
		d.logger.Warn("prune history", logging.Error(err))
	}
}
