package logline

import (
	"encoding/json"
	"errors"
	"time"
)

// Reserved top-level keys always present in encoded output.
const (
	KeyTimestamp = "ts"
	KeyLevel     = "level"
	KeyLogger    = "logger"
	KeyMessage   = "msg"
)

// ErrMalformed marks a line that is not a well-formed record. Consumers
// treat it as skippable, never fatal.
var ErrMalformed = errors.New("malformed log line")

// Record is one structured log event. Fields carries open caller-supplied
// context (category, event, request_id, latency, ...); keys colliding with
// the reserved names are overwritten by the reserved values on encode.
type Record struct {
	Timestamp time.Time
	Level     string
	Logger    string
	Message   string
	Fields    map[string]any
}

// MarshalJSON merges caller fields and reserved keys into a single flat
// object. Reserved keys win over caller fields with the same name; this is
// a documented quirk, not an accident.
func (r Record) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(r.Fields)+4)
	for key, value := range r.Fields {
		payload[key] = value
	}
	payload[KeyTimestamp] = r.Timestamp.UTC().Format(time.RFC3339Nano)
	payload[KeyLevel] = ParseLevel(r.Level)
	payload[KeyLogger] = r.Logger
	payload[KeyMessage] = r.Message
	return json.Marshal(payload)
}

// UnmarshalJSON is the permissive inverse of MarshalJSON. Any valid JSON
// object decodes; a reserved key with an unexpected type is ignored rather
// than rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if payload == nil {
		return ErrMalformed
	}
	out := Record{Fields: make(map[string]any, len(payload))}
	for key, value := range payload {
		switch key {
		case KeyTimestamp:
			if text, ok := value.(string); ok {
				if parsed, err := time.Parse(time.RFC3339Nano, text); err == nil {
					out.Timestamp = parsed
				}
			}
		case KeyLevel:
			if text, ok := value.(string); ok {
				out.Level = text
			}
		case KeyLogger:
			if text, ok := value.(string); ok {
				out.Logger = text
			}
		case KeyMessage:
			if text, ok := value.(string); ok {
				out.Message = text
			}
		default:
			out.Fields[key] = value
		}
	}
	*r = out
	return nil
}

// Encode serializes the record as a single self-delimited line, newline
// excluded. encoding/json escapes embedded line terminators, so the result
// never spans lines.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses one line back into a Record. Errors wrap ErrMalformed so
// callers can skip bad lines uniformly.
func Decode(line []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(line, &r); err != nil {
		return Record{}, errors.Join(ErrMalformed, err)
	}
	return r, nil
}

// FieldString returns the named caller field when it is a string.
func (r Record) FieldString(key string) (string, bool) {
	value, ok := r.Fields[key]
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}
