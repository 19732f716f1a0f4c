package logging

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"portal/internal/logline"
)

// consoleLine renders the compact terminal form of a record:
// timestamp, level, logger, message, then sorted key=value fields.
func consoleLine(record logline.Record) string {
	var b strings.Builder
	b.Grow(96 + len(record.Fields)*24)

	b.WriteString(record.Timestamp.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(record.Level)
	b.WriteByte(' ')
	if record.Logger != "" {
		b.WriteString(record.Logger)
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}

	keys := make([]string, 0, len(record.Fields))
	for key := range record.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatFieldValue(record.Fields[key]))
	}

	b.WriteByte('\n')
	return b.String()
}

func formatFieldValue(value any) string {
	switch v := value.(type) {
	case string:
		if needsQuotes(v) {
			return strconv.Quote(v)
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case error:
		return formatFieldValue(v.Error())
	default:
		s := fmt.Sprint(v)
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
