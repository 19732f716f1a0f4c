package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"

	"portal/internal/logfollow"
	"portal/internal/logline"
	"portal/internal/logtail"
)

// wsDefaultTail is the backlog size for websocket consumers that don't
// ask for one; smaller than the HTTP default because the stream keeps
// going afterwards.
const wsDefaultTail = 200

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Local tooling endpoint; origin enforcement is left to the
		// deployment in front of it.
		return true
	},
}

type wsFrame struct {
	Type    string          `json:"type"`
	Item    *logline.Record `json:"item,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (s *Server) handleLogsWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tail := parseTail(query.Get("tail"), wsDefaultTail)
	criteria := criteriaFromQuery(query.Get("category"), query.Get("level"), query.Get("request_id"), query.Get("q"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: consumers send nothing meaningful, but reading is how we
	// learn the peer went away between pushes.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func(record logline.Record) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(wsFrame{Type: "log", Item: &record})
	}

	err = logfollow.Run(ctx, logfollow.Options{
		Path:         s.logPath,
		Tail:         tail,
		Criteria:     criteria,
		PollInterval: s.pollInterval,
	}, push)
	if err != nil && ctx.Err() == nil {
		message := "log follow failed"
		if errors.Is(err, logtail.ErrNotFound) {
			message = err.Error()
		} else {
			s.log().Warn("log follow failed",
				slog.String("category", "http"),
				slog.String("error", err.Error()),
			)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		_ = conn.WriteJSON(wsFrame{Type: "error", Message: message})
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
