// Package main hosts the portal CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon: task management, log tailing and following,
// and configuration scaffolding. Configuration resolution and API
// address discovery live in the shared command context so subcommands
// stay declarative.
package main
