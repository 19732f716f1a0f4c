package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"portal/internal/logline"
)

// ErrNotFound reports that the target log file does not exist. It surfaces
// to the caller as a client-visible condition and is never retried here.
var ErrNotFound = errors.New("log file not found")

const (
	// DefaultLimit is the tail count used when a query supplies none.
	DefaultLimit = 300
	// MaxLimit bounds server-side memory for a single tail request.
	MaxLimit = 5000
)

// Clamp bounds a requested tail count to [1, MaxLimit], defaulting when the
// request carries no usable value.
func Clamp(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Tail returns the last n successfully decoded records of the file,
// most-recent-last. Lines that fail to decode are skipped and never consume
// a slot. A missing file yields ErrNotFound; an existing file with no valid
// records yields an empty slice and no error.
//
// The scan is a single forward pass holding at most n decoded records, so
// memory stays bounded regardless of file size.
func Tail(path string, n int) ([]logline.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ring := make([]logline.Record, n)
	count := 0
	idx := 0
	for scanner.Scan() {
		record, err := logline.Decode(scanner.Bytes())
		if err != nil {
			continue
		}
		ring[idx] = record
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	records := make([]logline.Record, count)
	if count == n {
		for i := 0; i < count; i++ {
			records[i] = ring[(idx+i)%n]
		}
	} else {
		copy(records, ring[:count])
	}
	return records, nil
}
