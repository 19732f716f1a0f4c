package logging

import (
	"context"
	"log/slog"
	"time"

	"portal/internal/logline"
)

// LevelCritical extends slog's built-in levels for CRITICAL records.
const LevelCritical = slog.LevelError + 4

// KeyLogger is the attr key the handler lifts into the record's logger
// name; see Named.
const KeyLogger = "logger"

// Handler adapts the sink to log/slog so application code logs through a
// plain *slog.Logger.
type Handler struct {
	sink   *Sink
	attrs  []preAttr
	groups []string
}

// preAttr remembers the groups that were open when WithAttrs recorded it.
type preAttr struct {
	groups []string
	attr   slog.Attr
}

// NewHandler wraps the sink in a slog.Handler.
func NewHandler(sink *Sink) *Handler {
	return &Handler{sink: sink}
}

// New builds the sink plus a ready-to-use root logger in one call.
func New(opts Options) (*slog.Logger, *Sink, error) {
	sink, err := NewSink(opts)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(NewHandler(sink)), sink, nil
}

// Named returns a logger whose records carry the given subsystem name,
// e.g. "assistant.tasks".
func Named(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(KeyLogger, name))
}

// NewNop returns a logger that discards everything; for tests and wiring
// code that cannot fail.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.sink.Enabled(levelName(level))
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+record.NumAttrs())
	loggerName := ""

	assign := func(groups []string, attr slog.Attr) {
		key, value := flattenAttr(groups, attr, fields)
		if key == KeyLogger && len(groups) == 0 {
			if text, ok := value.(string); ok {
				loggerName = text
				delete(fields, KeyLogger)
			}
		}
	}

	for _, pre := range h.attrs {
		assign(pre.groups, pre.attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		assign(h.groups, attr)
		return true
	})

	return h.sink.Emit(levelName(record.Level), loggerName, record.Message, fields)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, preAttr{groups: clone.groups, attr: attr})
	}
	return clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *Handler) clone() *Handler {
	clone := &Handler{sink: h.sink}
	if len(h.attrs) > 0 {
		clone.attrs = append([]preAttr(nil), h.attrs...)
	}
	if len(h.groups) > 0 {
		clone.groups = append([]string(nil), h.groups...)
	}
	return clone
}

// flattenAttr writes the attr into fields, nesting group values as maps.
// It returns the top-level key and value for reserved-key inspection.
func flattenAttr(groups []string, attr slog.Attr, fields map[string]any) (string, any) {
	if attr.Equal(slog.Attr{}) {
		return "", nil
	}
	attr.Value = attr.Value.Resolve()

	target := fields
	for _, group := range groups {
		child, ok := target[group].(map[string]any)
		if !ok {
			child = make(map[string]any)
			target[group] = child
		}
		target = child
	}

	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		if attr.Key == "" {
			for _, member := range members {
				flattenAttr(groups, member, fields)
			}
			return "", nil
		}
		child := make(map[string]any, len(members))
		for _, member := range members {
			flattenAttr(nil, member, child)
		}
		target[attr.Key] = child
		return attr.Key, child
	}

	value := attrValue(attr.Value)
	target[attr.Key] = value
	return attr.Key, value
}

// attrValue converts a slog value into the record's tagged scalar set:
// string, number, bool, or nested mapping.
func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	default:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return logline.LevelCritical
	case level >= slog.LevelError:
		return logline.LevelError
	case level >= slog.LevelWarn:
		return logline.LevelWarning
	case level >= slog.LevelInfo:
		return logline.LevelInfo
	default:
		return logline.LevelDebug
	}
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NoopHandler{} }
func (NoopHandler) WithGroup(string) slog.Handler             { return NoopHandler{} }
