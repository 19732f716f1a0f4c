// Package logline defines the portal's on-disk log record format and the
// filter predicate shared by every log consumer.
//
// A record is one JSON object per line: reserved keys ts/level/logger/msg
// plus caller-supplied fields merged at the top level. Decoding is
// permissive by contract; consumers skip lines that fail to decode instead
// of aborting.
package logline
