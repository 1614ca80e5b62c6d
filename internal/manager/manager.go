// Package manager ties installation, launch, and status together behind one
// facade. It owns the started flag and serializes start/exit transitions.
package manager

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"poolman/internal/history"
	"poolman/internal/install"
	"poolman/internal/logging"
	"poolman/internal/release"
	"poolman/internal/status"
	"poolman/internal/supervisor"
)

// StartConfig carries the launch parameters for one start attempt.
type StartConfig struct {
	Wallet  string
	Chain   string
	Threads int
	Flags   string
}

// Manager is the lifecycle facade over the pool daemon.
type Manager struct {
	paths    install.Paths
	store    *history.Store
	notifier Notifier
	logger   *slog.Logger

	// Overridable for tests.
	fetch      func(ctx context.Context) release.Result
	startProc  func(flags, wallet, chain, threads string) error
	killProc   func(ctx context.Context) error
	statusRead func(paths install.Paths, started bool) status.Snapshot

	mu      sync.Mutex
	started atomic.Bool
	wg      sync.WaitGroup
}

// New builds a Manager. The history store is optional; with nil, download
// attempts are only logged. A nil notifier falls back to a logging one.
func New(paths install.Paths, logger *slog.Logger, store *history.Store, notifier Notifier) *Manager {
	if notifier == nil {
		notifier = newLogNotifier(logger)
	}
	fetcher := release.NewFetcher(paths, logger)
	super := supervisor.New(paths, logger)
	return &Manager{
		paths:      paths,
		store:      store,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "manager"),
		fetch:      fetcher.Fetch,
		startProc:  super.Start,
		killProc:   super.Kill,
		statusRead: status.Read,
	}
}

// Installed reports whether the daemon binary is present. Lock-free; safe to
// race with Start and Exit.
func (m *Manager) Installed() bool {
	return m.paths.Installed()
}

// Running reports the current started flag.
func (m *Manager) Running() bool {
	return m.started.Load()
}

// Download launches one fetch attempt in the background and returns
// immediately. Concurrent calls each get their own attempt; callers that
// need at-most-one in flight must gate it themselves. The outcome is
// delivered through the Notifier and, when a store is configured, recorded
// as a download attempt.
func (m *Manager) Download(ctx context.Context) {
	attemptID := uuid.NewString()
	m.logger.Info("download scheduled", logging.String(logging.FieldAttemptID, attemptID))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		startedAt := time.Now().UTC()
		result := m.fetch(ctx)
		m.record(ctx, attemptID, startedAt, result)
		if result.Succeeded() {
			m.notifier.DownloadSucceeded(release.Version)
			return
		}
		m.notifier.DownloadFailed(result.Failure, result.Detail)
	}()
}

func (m *Manager) record(ctx context.Context, attemptID string, startedAt time.Time, result release.Result) {
	if m.store == nil {
		return
	}
	err := m.store.RecordAttempt(ctx, history.Attempt{
		ID:         attemptID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Version:    release.Version,
		URL:        result.Descriptor.URL,
		Outcome:    result.Failure.String(),
		Detail:     result.Detail,
	})
	if err != nil {
		m.logger.Warn("record download attempt",
			logging.String(logging.FieldAttemptID, attemptID),
			logging.Error(err))
	}
}

// Start launches the daemon and reports whether the launch was handed off.
// A start while already started is a no-op returning true. Failures are
// also delivered through the Notifier so daemon-side observers see them.
func (m *Manager) Start(cfg StartConfig) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started.Load() {
		return true
	}
	if !m.paths.Installed() {
		m.startFailed("binary not installed")
		return false
	}

	err := m.startProc(cfg.Flags, cfg.Wallet, cfg.Chain, strconv.Itoa(cfg.Threads))
	if err != nil {
		m.startFailed(err.Error())
		return false
	}
	m.started.Store(true)
	return true
}

func (m *Manager) startFailed(reason string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.notifier.ProcessStartFailed(reason)
	}()
}

// Exit terminates the daemon, clears the started flag, and removes the
// stats directory. A no-op when nothing was started.
func (m *Manager) Exit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started.Load() {
		return nil
	}
	m.started.Store(false)
	return m.killProc(ctx)
}

// Status reads the current snapshot. Lock-free; safe to race with Start and
// Exit, in which case it reflects whichever state it observed.
func (m *Manager) Status() status.Snapshot {
	return m.statusRead(m.paths, m.started.Load())
}

// Close blocks until background download goroutines and pending
// notifications finish. It does not stop the daemon; call Exit for that.
func (m *Manager) Close() {
	m.wg.Wait()
}
