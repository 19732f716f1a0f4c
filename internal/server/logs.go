package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"portal/internal/logline"
	"portal/internal/logtail"
)

// LogsResponse is the tail endpoint payload. Items are the decoded
// records, oldest first.
type LogsResponse struct {
	Returned int              `json:"returned"`
	Tail     int              `json:"tail"`
	Items    []logline.Record `json:"items"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	tail := parseTail(query.Get("tail"), logtail.DefaultLimit)
	criteria := criteriaFromQuery(query.Get("category"), query.Get("level"), query.Get("request_id"), query.Get("q"))

	records, err := logtail.Tail(s.logPath, tail)
	if err != nil {
		if errors.Is(err, logtail.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]logline.Record, 0, len(records))
	for _, record := range records {
		if criteria.Matches(record) {
			items = append(items, record)
		}
	}

	s.writeJSON(w, http.StatusOK, LogsResponse{
		Returned: len(items),
		Tail:     tail,
		Items:    items,
	})
}

// parseTail clamps the requested tail into [1, MaxLimit], falling back to
// the given default when the value is absent or unparsable. An explicit
// zero or negative count clamps to 1 rather than the default.
func parseTail(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	if n <= 0 {
		return 1
	}
	return logtail.Clamp(n)
}

func criteriaFromQuery(category, level, requestID, q string) logline.Criteria {
	return logline.Criteria{
		Category:  strings.TrimSpace(category),
		Level:     strings.TrimSpace(level),
		RequestID: strings.TrimSpace(requestID),
		Query:     strings.TrimSpace(q),
	}
}
