package server

import (
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessLog emits paired request.start / request.end events with a
// per-request id. The id comes from the X-Request-ID header when the
// caller supplies one and is echoed back either way.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The websocket route hijacks the connection; a wrapped writer
		// would hide the Hijacker interface from the upgrader.
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.log()
		logger.InfoContext(r.Context(), "request.start",
			slog.String("category", "http"),
			slog.String("event", "request.start"),
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("client", r.RemoteAddr),
		)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		event := "request.end"
		level := slog.LevelInfo
		if recorder.status >= http.StatusInternalServerError {
			event = "request.error"
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, event,
			slog.String("category", "http"),
			slog.String("event", event),
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("client", r.RemoteAddr),
			slog.Int("status_code", recorder.status),
			slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000.0),
		)
	})
}
