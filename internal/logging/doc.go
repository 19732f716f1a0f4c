// Package logging owns the process-wide structured log sink: one JSON
// record per line appended to a size-rotated file set and mirrored to the
// console.
//
// The sink is an explicitly constructed, explicitly owned value; emitting
// call sites receive it (or a *slog.Logger backed by its handler adapter)
// by injection. Re-configuration atomically replaces the installed
// destinations, so repeated setup never duplicates output.
//
// Readers never coordinate with the sink beyond the file format contract in
// package logline; see logtail and logfollow.
package logging
