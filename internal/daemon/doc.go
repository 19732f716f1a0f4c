// Package daemon ties the portal together: it guards single-instance
// execution with a file lock and runs the HTTP API over the task store
// and the log files.
package daemon
