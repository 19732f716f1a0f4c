// Package apiclient is the CLI's view of a running daemon: task CRUD
// and log queries over HTTP plus the websocket follow stream.
package apiclient
