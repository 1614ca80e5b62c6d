// Package status reads the miner status file the pool daemon publishes under
// its stats directory.
package status

import (
	"encoding/json"
	"os"

	"poolman/internal/install"
)

// Snapshot is one point-in-time observation of the daemon.
type Snapshot struct {
	Running  bool  `json:"running"`
	Hashrate int64 `json:"hashrate"`
}

// Read reports whether the daemon is considered running and its current
// hashrate in hashes per second. The running flag is the caller's own start
// state, not a liveness probe: a daemon that crashed after launch still
// reports running until the caller stops it.
//
// The hashrate is zero whenever it cannot be observed: daemon not started,
// status file absent or unreadable, malformed JSON, or the field missing or
// non-numeric. None of these are errors; the daemon rewrites the file on its
// own schedule and transient gaps are normal.
func Read(paths install.Paths, started bool) Snapshot {
	snap := Snapshot{Running: started}
	if !started {
		return snap
	}

	data, err := os.ReadFile(paths.StatsFile)
	if err != nil {
		return snap
	}

	var payload struct {
		CurrentHashrate json.Number `json:"current_hashrate"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return snap
	}
	if rate, err := payload.CurrentHashrate.Int64(); err == nil {
		snap.Hashrate = rate
	} else if rate, err := payload.CurrentHashrate.Float64(); err == nil {
		snap.Hashrate = int64(rate)
	}
	return snap
}
