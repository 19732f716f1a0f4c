package main

import (
	"strings"
	"testing"
)

func TestTasksAddListShowDone(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tasks", "add", "write", "the", "report", "--priority", "high"}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks add: %v", err)
	}
	requireContains(t, out, "Created task ")
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Created task "))

	out, _, err = runCLI(t, []string{"tasks", "list"}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	requireContains(t, out, "write the report")
	requireContains(t, out, "high")

	out, _, err = runCLI(t, []string{"tasks", "show", id}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks show: %v", err)
	}
	requireContains(t, out, "Title:    write the report")
	requireContains(t, out, "Status:   open")

	out, _, err = runCLI(t, []string{"tasks", "done", id}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks done: %v", err)
	}
	requireContains(t, out, "marked done")

	out, _, err = runCLI(t, []string{"tasks", "show", id}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks show after done: %v", err)
	}
	requireContains(t, out, "Status:   done")
}

func TestTasksAddRejectsBadDue(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"tasks", "add", "x", "--due", "soon"}, env.address, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid due date") {
		t.Fatalf("err = %v", err)
	}
}

func TestTasksShowUnknown(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"tasks", "show", "nope"}, env.address, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "task not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestTasksListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tasks", "list"}, env.address, env.configPath)
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	requireContains(t, out, "No tasks")
}
