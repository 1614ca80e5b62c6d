package ipc

// StartRequest launches the pool daemon with the configured parameters.
type StartRequest struct{}

// StartResponse indicates whether the pool daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest terminates the pool daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool   `json:"stopped"`
	Message string `json:"message"`
}

// StatusRequest fetches combined daemon and pool status.
type StatusRequest struct{}

// StatusResponse represents combined daemon and pool status information.
type StatusResponse struct {
	DaemonRunning bool   `json:"daemon_running"`
	PoolRunning   bool   `json:"pool_running"`
	Hashrate      int64  `json:"hashrate"`
	Installed     bool   `json:"installed"`
	SessionID     string `json:"session_id"`
	LockPath      string `json:"lock_path"`
	PID           int    `json:"pid"`
}

// DownloadRequest schedules a release download.
type DownloadRequest struct{}

// DownloadResponse acknowledges the scheduled download. The outcome arrives
// later through logs and history; the RPC does not wait for it.
type DownloadResponse struct {
	Scheduled bool `json:"scheduled"`
}

// InstalledRequest checks for the pool binary.
type InstalledRequest struct{}

// InstalledResponse reports binary presence.
type InstalledResponse struct {
	Installed bool `json:"installed"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges a pending shutdown.
type ShutdownResponse struct {
	ShuttingDown bool `json:"shutting_down"`
}
