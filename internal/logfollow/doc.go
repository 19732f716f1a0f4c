// Package logfollow implements the live "tail -f" follower: one
// cooperative goroutine per consumer tracking a byte cursor into the
// active log file, surviving rotation, and pushing filtered records to the
// consumer's transport.
//
// Followers are independent of each other and of the writer; the files on
// disk are the only integration point.
package logfollow
