package tasks

import (
	"context"
	"log/slog"

	"portal/internal/logging"
)

// Service wraps the store with the portal's structured event logging. It
// is the sink's primary in-process emitter; every mutation produces one
// category=tasks event.
type Service struct {
	store  *Store
	logger *slog.Logger
}

// NewService builds a task service logging through the provided logger.
func NewService(store *Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.Named(logger, "assistant.tasks"),
	}
}

// Create validates and stores a new task.
func (s *Service) Create(ctx context.Context, payload NewTask) (*Task, error) {
	s.logger.InfoContext(ctx, "task.create",
		slog.String("category", "tasks"),
		slog.String("event", "task.create"),
		slog.String("title", payload.Title),
	)
	return s.store.Create(ctx, payload)
}

// Get fetches one task by id.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all tasks, newest first.
func (s *Service) List(ctx context.Context) ([]*Task, error) {
	return s.store.List(ctx)
}

// Complete marks a task done.
func (s *Service) Complete(ctx context.Context, id string) (*Task, error) {
	task, err := s.store.MarkDone(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "task.done",
		slog.String("category", "tasks"),
		slog.String("event", "task.done"),
		slog.String("task_id", id),
	)
	return task, nil
}
