// Package install resolves the on-disk layout of a p2pool installation and
// answers whether the daemon binary is present.
package install

import (
	"os"
	"path/filepath"
	"runtime"
)

// BinaryName returns the p2pool executable name for the host platform.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "p2pool.exe"
	}
	return "p2pool"
}

// Paths describes the filesystem layout of one installation. Resolved once
// at construction and immutable thereafter.
type Paths struct {
	// InstallDir owns the daemon binary and its runtime data.
	InstallDir string
	// BinaryPath is the full path to the daemon executable.
	BinaryPath string
	// StatsDir is recreated on every start and removed on exit.
	StatsDir string
	// StatsFile is the JSON status file the daemon maintains.
	StatsFile string
}

// Resolve builds the Paths for the given install directory.
func Resolve(installDir string) Paths {
	statsDir := filepath.Join(installDir, "stats")
	return Paths{
		InstallDir: installDir,
		BinaryPath: filepath.Join(installDir, BinaryName()),
		StatsDir:   statsDir,
		StatsFile:  filepath.Join(statsDir, "local", "miner"),
	}
}

// Installed reports whether the daemon binary exists and is a regular file.
// No side effects; safe to call at any time, including mid-download.
func (p Paths) Installed() bool {
	info, err := os.Stat(p.BinaryPath)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
