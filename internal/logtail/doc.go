// Package logtail answers "last N matching records" queries against the
// sink's files with bounded memory.
//
// Each call is a single bounded-duration read holding no long-lived state;
// it opens its own read-only handle and never coordinates with the writer.
package logtail
