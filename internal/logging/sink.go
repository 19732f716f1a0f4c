package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"

	"portal/internal/logline"
)

// ActiveFileName is the sink's active log file within the log directory.
const ActiveFileName = "assistant.jsonl"

const (
	defaultMaxBytes   = 10_000_000
	defaultMaxBackups = 10
)

// Options describes sink construction parameters.
type Options struct {
	Dir        string
	FileName   string // defaults to ActiveFileName
	MaxBytes   int64  // rotation threshold, defaults to 10 MB
	MaxBackups int    // retired files kept, defaults to 10; negative keeps none
	MinLevel   string // records below this severity are dropped before encoding
	Console    io.Writer
	// ConsoleFormat selects the mirror encoding: "json", "console", or
	// "auto" (compact form when the console is a terminal).
	ConsoleFormat string
}

// Sink serializes structured events into the active file and the console
// mirror. Emit is safe for concurrent use; appended lines never interleave.
type Sink struct {
	minRank atomic.Int32

	mu          sync.Mutex
	path        string
	file        *os.File
	size        int64
	maxBytes    int64
	maxBackups  int
	console     io.Writer
	consoleJSON bool
	lastStamp   time.Time
}

// NewSink opens (or creates) the active file and installs the destinations.
func NewSink(opts Options) (*Sink, error) {
	s := &Sink{}
	if err := s.Configure(opts); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure atomically replaces the sink's destinations. It is the
// idempotent re-initialization path: the previously open file is closed
// before the new one is installed, so repeated setup calls never stack
// outputs.
func (s *Sink) Configure(opts Options) error {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return fmt.Errorf("sink: log directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure log directory: %w", err)
	}

	name := strings.TrimSpace(opts.FileName)
	if name == "" {
		name = ActiveFileName
	}
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat log file %s: %w", path, err)
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	// The zero value means unset, not "keep no history"; callers that
	// really want rotation without retention pass a negative count.
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	} else if maxBackups < 0 {
		maxBackups = 0
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	s.mu.Lock()
	if s.file != nil {
		_ = s.file.Close()
	}
	s.path = path
	s.file = file
	s.size = info.Size()
	s.maxBytes = maxBytes
	s.maxBackups = maxBackups
	s.console = console
	s.consoleJSON = consoleUsesJSON(opts.ConsoleFormat, console)
	s.mu.Unlock()

	s.minRank.Store(int32(logline.LevelRank(opts.MinLevel)))
	return nil
}

// Enabled reports whether records at the given severity pass the minimum.
func (s *Sink) Enabled(level string) bool {
	return int32(logline.LevelRank(level)) >= s.minRank.Load()
}

// Emit encodes one record and appends it to the active file and the console
// mirror. The append and any rotation it triggers happen inside a single
// critical section, so concurrent emitters are fully serialized.
func (s *Sink) Emit(level, logger, msg string, fields map[string]any) error {
	if !s.Enabled(level) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return fmt.Errorf("sink: closed")
	}

	now := time.Now().UTC()
	if now.Before(s.lastStamp) {
		now = s.lastStamp
	}
	s.lastStamp = now

	record := logline.Record{
		Timestamp: now,
		Level:     logline.ParseLevel(level),
		Logger:    logger,
		Message:   msg,
		Fields:    fields,
	}
	line, err := logline.Encode(record)
	if err != nil {
		return fmt.Errorf("encode log record: %w", err)
	}
	line = append(line, '\n')

	n, err := s.file.Write(line)
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("append log record: %w", err)
	}

	if s.consoleJSON {
		_, _ = s.console.Write(line)
	} else {
		_, _ = io.WriteString(s.console, consoleLine(record))
	}

	if s.size > s.maxBytes {
		if err := s.rotateLocked(); err != nil {
			return fmt.Errorf("rotate log file: %w", err)
		}
	}
	return nil
}

// rotateLocked retires the active file into the numbered backup sequence
// and opens a fresh empty active file. Caller holds s.mu.
func (s *Sink) rotateLocked() error {
	if err := s.file.Close(); err != nil {
		return err
	}
	s.file = nil

	if s.maxBackups > 0 {
		_ = os.Remove(backupName(s.path, s.maxBackups))
		for i := s.maxBackups - 1; i >= 1; i-- {
			_ = os.Rename(backupName(s.path, i), backupName(s.path, i+1))
		}
		if err := os.Rename(s.path, backupName(s.path, 1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else {
		// No retention configured: drop history, keep the path.
		_ = os.Remove(s.path)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	s.file = file
	s.size = 0
	return nil
}

// Path returns the active file path.
func (s *Sink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Close releases the active file handle. Further Emit calls fail.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func backupName(path string, index int) string {
	return fmt.Sprintf("%s.%d", path, index)
}

func consoleUsesJSON(format string, console io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return true
	case "console":
		return false
	default:
		if f, ok := console.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return false
		}
		return true
	}
}
