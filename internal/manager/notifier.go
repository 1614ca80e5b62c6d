package manager

import (
	"log/slog"

	"poolman/internal/logging"
	"poolman/internal/release"
)

// Notifier receives lifecycle events the manager produces outside its call
// graph: download outcomes arrive from background goroutines, start failures
// from the launch path. Implementations must be safe for concurrent use.
type Notifier interface {
	DownloadSucceeded(version string)
	DownloadFailed(kind release.FailureKind, detail string)
	ProcessStartFailed(reason string)
}

// logNotifier is the default Notifier: it forwards every event to the log.
type logNotifier struct {
	logger *slog.Logger
}

func newLogNotifier(logger *slog.Logger) *logNotifier {
	return &logNotifier{logger: logging.NewComponentLogger(logger, "notify")}
}

func (n *logNotifier) DownloadSucceeded(version string) {
	n.logger.Info("release download succeeded",
		logging.String(logging.FieldEventType, "download_succeeded"),
		logging.String("version", version))
}

func (n *logNotifier) DownloadFailed(kind release.FailureKind, detail string) {
	n.logger.Warn("release download failed",
		logging.String(logging.FieldEventType, "download_failed"),
		logging.String("failure", kind.String()),
		logging.String("detail", detail))
}

func (n *logNotifier) ProcessStartFailed(reason string) {
	n.logger.Error("pool daemon start failed",
		logging.String(logging.FieldEventType, "process_start_failed"),
		logging.String("reason", reason))
}
