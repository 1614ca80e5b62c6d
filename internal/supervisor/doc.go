// Package supervisor assembles the p2pool command line and launches or
// terminates the daemon process.
//
// The daemon is launched detached: its lifetime is not tied to poolman, and
// no awaitable handle is retained. Termination is a kill by process name,
// which can hit unrelated p2pool instances; this is a known limitation of
// the detached model.
package supervisor
