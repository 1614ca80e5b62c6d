// Package ipc provides the control channel between the poolman CLI and the
// daemon process.
//
// The transport is JSON-RPC over a Unix domain socket. The daemon owns the
// socket file; clients dial it for the duration of one command.
package ipc
