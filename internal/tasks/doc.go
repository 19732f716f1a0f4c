// Package tasks implements the portal's task domain: the SQLite-backed
// store and the service that emits structured log events for every
// mutation.
//
// From the log pipeline's point of view this package is an external
// collaborator; it only talks to the sink through an injected
// *slog.Logger.
package tasks
