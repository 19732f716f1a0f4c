package testsupport

import (
	"context"
	"testing"

	"portal/internal/config"
	"portal/internal/tasks"
)

// MustOpenStore opens a tasks.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *tasks.Store {
	t.Helper()

	store, err := tasks.Open(cfg)
	if err != nil {
		t.Fatalf("tasks.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustCreateTask inserts a task for tests using the provided store.
func MustCreateTask(t testing.TB, store *tasks.Store, title string) *tasks.Task {
	t.Helper()

	task, err := store.Create(context.Background(), tasks.NewTask{Title: title})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return task
}
