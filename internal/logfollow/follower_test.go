package logfollow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portal/internal/logfollow"
	"portal/internal/logline"
	"portal/internal/logtail"
)

const testPoll = 20 * time.Millisecond

func appendLine(t *testing.T, path, msg string, fields map[string]any) {
	t.Helper()
	line, err := logline.Encode(logline.Record{
		Timestamp: time.Now().UTC(),
		Level:     logline.LevelInfo,
		Logger:    "assistant.test",
		Message:   msg,
		Fields:    fields,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func appendRaw(t *testing.T, path, raw string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(raw); err != nil {
		t.Fatalf("append raw: %v", err)
	}
}

// startFollower runs the follower in the background and returns a channel
// of pushed messages plus a wait function for its terminal error.
func startFollower(t *testing.T, ctx context.Context, opts logfollow.Options) (<-chan string, func() error) {
	t.Helper()
	pushed := make(chan string, 64)
	done := make(chan error, 1)
	go func() {
		done <- logfollow.Run(ctx, opts, func(record logline.Record) error {
			pushed <- record.Message
			return nil
		})
	}()
	return pushed, func() error {
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("follower did not stop")
			return nil
		}
	}
}

func expectMessage(t *testing.T, pushed <-chan string, want string) {
	t.Helper()
	select {
	case got := <-pushed:
		if got != want {
			t.Fatalf("pushed %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func expectSilence(t *testing.T, pushed <-chan string) {
	t.Helper()
	select {
	case got := <-pushed:
		t.Fatalf("unexpected push %q", got)
	case <-time.After(5 * testPoll):
	}
}

func TestFollowerBacklogThenLive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.jsonl")
	appendLine(t, path, "A", nil)
	appendLine(t, path, "B", nil)
	appendLine(t, path, "C", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pushed, wait := startFollower(t, ctx, logfollow.Options{Path: path, Tail: 2, PollInterval: testPoll})

	expectMessage(t, pushed, "B")
	expectMessage(t, pushed, "C")

	appendLine(t, path, "D", nil)
	expectMessage(t, pushed, "D")

	cancel()
	if err := wait(); err != nil {
		t.Fatalf("follower returned %v after cancel", err)
	}
	expectSilence(t, pushed)
}

func TestFollowerMissingFile(t *testing.T) {
	err := logfollow.Run(context.Background(), logfollow.Options{
		Path:         filepath.Join(t.TempDir(), "absent.jsonl"),
		Tail:         10,
		PollInterval: testPoll,
	}, func(logline.Record) error { return nil })
	if !errors.Is(err, logtail.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFollowerAppliesFilterLive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.jsonl")
	appendLine(t, path, "seed", map[string]any{"category": "http"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pushed, wait := startFollower(t, ctx, logfollow.Options{
		Path:         path,
		Tail:         5,
		Criteria:     logline.Criteria{Category: "http"},
		PollInterval: testPoll,
	})

	expectMessage(t, pushed, "seed")

	appendLine(t, path, "skipped", map[string]any{"category": "tasks"})
	appendLine(t, path, "matched", map[string]any{"category": "http"})
	expectMessage(t, pushed, "matched")

	cancel()
	_ = wait()
}

func TestFollowerSkipsMalformedAndPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.jsonl")
	appendLine(t, path, "seed", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pushed, wait := startFollower(t, ctx, logfollow.Options{Path: path, Tail: 1, PollInterval: testPoll})
	expectMessage(t, pushed, "seed")

	appendRaw(t, path, "{malformed\n")
	// Partial line without terminator must stay unconsumed.
	partial, err := logline.Encode(logline.Record{Level: logline.LevelInfo, Message: "later"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	half := len(partial) / 2
	appendRaw(t, path, string(partial[:half]))
	expectSilence(t, pushed)

	appendRaw(t, path, string(partial[half:])+"\n")
	expectMessage(t, pushed, "later")

	cancel()
	_ = wait()
}

func TestFollowerSurvivesRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.jsonl")
	appendLine(t, path, "old", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pushed, wait := startFollower(t, ctx, logfollow.Options{Path: path, Tail: 1, PollInterval: testPoll})
	expectMessage(t, pushed, "old")

	// Rotate: retire the active file, start a fresh one.
	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	appendLine(t, path, "fresh", nil)

	expectMessage(t, pushed, "fresh")

	cancel()
	_ = wait()
}

func TestFollowerSurvivesTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.jsonl")
	// Longer than anything written afterwards, so the truncation is
	// visible as a shrink relative to the cursor.
	appendLine(t, path, "before", map[string]any{"pad": "0123456789012345678901234567890123456789"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pushed, wait := startFollower(t, ctx, logfollow.Options{Path: path, Tail: 1, PollInterval: testPoll})
	expectMessage(t, pushed, "before")

	if err := os.Truncate(path, 0); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	appendLine(t, path, "after", nil)

	expectMessage(t, pushed, "after")

	cancel()
	_ = wait()
}

func TestFollowerStopsWhenConsumerGone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.jsonl")
	appendLine(t, path, "one", nil)
	appendLine(t, path, "two", nil)

	gone := errors.New("consumer closed")
	calls := 0
	err := logfollow.Run(context.Background(), logfollow.Options{Path: path, Tail: 5, PollInterval: testPoll},
		func(logline.Record) error {
			calls++
			return gone
		})
	if err != nil {
		t.Fatalf("consumer disconnect should end the follower cleanly, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("push called %d times after disconnect, want 1", calls)
	}
}
