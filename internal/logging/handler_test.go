package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"portal/internal/logging"
	"portal/internal/logline"
)

func TestHandlerEmitsThroughSink(t *testing.T) {
	dir := t.TempDir()
	logger, sink, err := logging.New(logging.Options{Dir: dir, Console: &bytes.Buffer{}, ConsoleFormat: "json"})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	access := logging.Named(logger, "assistant.access")
	access.Info("request.end",
		slog.String("category", "http"),
		slog.String("request_id", "req-9"),
		slog.Int("status_code", 200),
		slog.Duration("elapsed", 1500*time.Millisecond),
	)

	records := readRecords(t, sink.Path())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.Logger != "assistant.access" {
		t.Errorf("logger = %q", record.Logger)
	}
	if record.Level != logline.LevelInfo || record.Message != "request.end" {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.Fields["category"] != "http" || record.Fields["request_id"] != "req-9" {
		t.Errorf("fields = %#v", record.Fields)
	}
	// JSON numbers decode as float64.
	if record.Fields["status_code"] != float64(200) {
		t.Errorf("status_code = %#v", record.Fields["status_code"])
	}
	if record.Fields["elapsed"] != "1.5s" {
		t.Errorf("elapsed = %#v", record.Fields["elapsed"])
	}
}

func TestHandlerLevelMapping(t *testing.T) {
	dir := t.TempDir()
	logger, sink, err := logging.New(logging.Options{Dir: dir, MinLevel: "debug", Console: &bytes.Buffer{}, ConsoleFormat: "json"})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Log(context.Background(), logging.LevelCritical, "c")

	records := readRecords(t, sink.Path())
	want := []string{
		logline.LevelDebug,
		logline.LevelInfo,
		logline.LevelWarning,
		logline.LevelError,
		logline.LevelCritical,
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, level := range want {
		if records[i].Level != level {
			t.Errorf("record %d level = %q, want %q", i, records[i].Level, level)
		}
	}
}

func TestHandlerGroupsNest(t *testing.T) {
	dir := t.TempDir()
	logger, sink, err := logging.New(logging.Options{Dir: dir, Console: &bytes.Buffer{}, ConsoleFormat: "json"})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })

	logger.With(slog.String("logger", "assistant.db")).
		WithGroup("db").
		Info("db.ready", slog.String("path", "/tmp/assistant.db"))

	records := readRecords(t, sink.Path())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.Logger != "assistant.db" {
		t.Errorf("logger = %q", record.Logger)
	}
	nested, ok := record.Fields["db"].(map[string]any)
	if !ok || nested["path"] != "/tmp/assistant.db" {
		t.Errorf("grouped field = %#v", record.Fields["db"])
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("nothing happens")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should report disabled")
	}
}
