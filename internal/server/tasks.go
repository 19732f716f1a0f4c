package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"portal/internal/tasks"
)

// TaskListResponse wraps the task collection payload.
type TaskListResponse struct {
	Items []*tasks.Task `json:"items"`
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		s.writeError(w, http.StatusNotFound, "task service unavailable")
		return
	}
	switch r.Method {
	case http.MethodGet:
		items, err := s.tasks.List(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []*tasks.Task{}
		}
		s.writeJSON(w, http.StatusOK, TaskListResponse{Items: items})
	case http.MethodPost:
		var payload tasks.NewTask
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		task, err := s.tasks.Create(r.Context(), payload)
		if err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, task)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTaskItem(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		s.writeError(w, http.StatusNotFound, "task service unavailable")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		task, err := s.tasks.Get(r.Context(), id)
		if err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, task)
	case action == "done" && r.Method == http.MethodPost:
		task, err := s.tasks.Complete(r.Context(), id)
		if err != nil {
			s.writeTaskError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, task)
	case action == "" || action == "done":
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		s.writeError(w, http.StatusNotFound, "task not found")
	}
}

func (s *Server) writeTaskError(w http.ResponseWriter, err error) {
	if errors.Is(err, tasks.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
