package logfollow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"portal/internal/logline"
	"portal/internal/logtail"
)

// DefaultPollInterval is the follower's only suspension point: the sleep
// between unsuccessful read attempts.
const DefaultPollInterval = 250 * time.Millisecond

// Push delivers one matching record to the consumer. A non-nil error means
// the consumer's transport is gone; the follower stops cleanly.
type Push func(logline.Record) error

// Options configures one consumer's follow session.
type Options struct {
	Path         string
	Tail         int // backlog records to stream before following; 0 skips backlog
	Criteria     logline.Criteria
	PollInterval time.Duration
}

// Run streams the bounded backlog and then follows the active file,
// pushing every record that matches the criteria. It returns nil when the
// consumer disconnects or ctx is canceled, logtail.ErrNotFound when the
// file is absent at start, and the underlying error on an unrecoverable
// read fault. Rotation (the file shrinking under the cursor or the path
// pointing at a new file) is not an error: the follower reopens at offset
// zero and resumes. Records appended to the retired file after the
// rotation boundary are lost; this is a best-effort tail.
func Run(ctx context.Context, opts Options, push Push) error {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if _, err := os.Stat(opts.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", logtail.ErrNotFound, opts.Path)
		}
		return fmt.Errorf("stat log file: %w", err)
	}

	if opts.Tail > 0 {
		backlog, err := logtail.Tail(opts.Path, opts.Tail)
		if err != nil && !errors.Is(err, logtail.ErrNotFound) {
			return err
		}
		for _, record := range backlog {
			if !opts.Criteria.Matches(record) {
				continue
			}
			if err := push(record); err != nil {
				return nil
			}
		}
	}

	file, err := os.Open(opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", logtail.ErrNotFound, opts.Path)
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	// The backlog already covered everything up to this point.
	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	buf := make([]byte, 32*1024)
	var pending []byte

	for {
		progressed := false
		for {
			n, readErr := file.Read(buf)
			if n > 0 {
				offset += int64(n)
				pending = append(pending, buf[:n]...)
				progressed = true
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return fmt.Errorf("read log file: %w", readErr)
			}
		}

		// Complete lines only; a trailing partial line waits for the
		// next tick.
		for {
			nl := bytes.IndexByte(pending, '\n')
			if nl < 0 {
				break
			}
			line := bytes.TrimSpace(pending[:nl])
			pending = pending[nl+1:]
			if len(line) == 0 {
				continue
			}
			record, decodeErr := logline.Decode(line)
			if decodeErr != nil {
				continue
			}
			if !opts.Criteria.Matches(record) {
				continue
			}
			if err := push(record); err != nil {
				return nil
			}
		}

		rotated, waiting, rotErr := detectRotation(file, opts.Path, offset)
		if rotErr != nil {
			return rotErr
		}
		if rotated {
			_ = file.Close()
			file = nil
			reopened, openErr := os.Open(opts.Path)
			if openErr != nil {
				return fmt.Errorf("reopen rotated log file: %w", openErr)
			}
			file = reopened
			offset = 0
			pending = pending[:0]
			continue
		}

		if progressed && !waiting {
			// More data may already be available; only yield to ctx.
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			continue
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// detectRotation reports whether the path no longer refers to the open
// file, or the file shrank below the read cursor. waiting is set while the
// path is briefly absent mid-rotation.
func detectRotation(file *os.File, path string, offset int64) (rotated, waiting bool, err error) {
	pathInfo, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return false, true, nil
		}
		return false, false, fmt.Errorf("stat log file: %w", statErr)
	}
	fileInfo, statErr := file.Stat()
	if statErr != nil {
		return false, false, fmt.Errorf("stat open log file: %w", statErr)
	}
	if !os.SameFile(fileInfo, pathInfo) {
		return true, false, nil
	}
	if pathInfo.Size() < offset {
		return true, false, nil
	}
	return false, false, nil
}
