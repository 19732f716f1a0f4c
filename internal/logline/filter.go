package logline

import "strings"

// Criteria is an immutable set of optional predicates. The zero value
// matches every record; present criteria must all match (logical AND).
type Criteria struct {
	Category  string
	Level     string
	RequestID string
	Query     string
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Category) == "" &&
		strings.TrimSpace(c.Level) == "" &&
		strings.TrimSpace(c.RequestID) == "" &&
		strings.TrimSpace(c.Query) == ""
}

// Matches evaluates the criteria against a decoded record. Level compares
// case-insensitively; category and request id compare exactly against the
// record's caller fields; the free-text query is a case-insensitive
// substring match against the full encoded record, so it reaches values
// nested inside the field mapping.
func (c Criteria) Matches(r Record) bool {
	if category := strings.TrimSpace(c.Category); category != "" {
		value, ok := r.FieldString("category")
		if !ok || value != category {
			return false
		}
	}
	if level := strings.TrimSpace(c.Level); level != "" {
		if !strings.EqualFold(level, r.Level) {
			return false
		}
	}
	if requestID := strings.TrimSpace(c.RequestID); requestID != "" {
		value, ok := r.FieldString("request_id")
		if !ok || value != requestID {
			return false
		}
	}
	if query := strings.TrimSpace(c.Query); query != "" {
		encoded, err := Encode(r)
		if err != nil {
			return false
		}
		if !strings.Contains(strings.ToLower(string(encoded)), strings.ToLower(query)) {
			return false
		}
	}
	return true
}
