package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portal/internal/tasks"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage portal tasks",
	}

	tasksCmd.AddCommand(newTasksAddCommand(ctx))
	tasksCmd.AddCommand(newTasksListCommand(ctx))
	tasksCmd.AddCommand(newTasksShowCommand(ctx))
	tasksCmd.AddCommand(newTasksDoneCommand(ctx))

	return tasksCmd
}

func newTasksAddCommand(ctx *commandContext) *cobra.Command {
	var body string
	var due string
	var priority string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := tasks.NewTask{
				Title:    strings.Join(args, " "),
				Body:     body,
				Priority: tasks.Priority(strings.TrimSpace(priority)),
			}
			if trimmed := strings.TrimSpace(due); trimmed != "" {
				parsed, err := parseDue(trimmed)
				if err != nil {
					return err
				}
				payload.DueAt = &parsed
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			task, err := client.CreateTask(cmd.Context(), payload)
			if err != nil {
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "Longer task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (2006-01-02 or RFC 3339)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium, or high")
	return cmd
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			items, err := client.ListTasks(cmd.Context())
			if err != nil {
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No tasks")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, task := range items {
				rows = append(rows, []string{
					task.ID,
					task.Title,
					string(task.Priority),
					string(task.Status),
					formatDue(task.DueAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Priority", "Status", "Due"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit raw JSON")
	return cmd
}

func newTasksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			task, err := client.GetTask(cmd.Context(), args[0])
			if err != nil {
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}
			printTask(cmd, task)
			return nil
		},
	}
}

func newTasksDoneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			task, err := client.CompleteTask(cmd.Context(), args[0])
			if err != nil {
				address, _ := ctx.apiAddress()
				return wrapUnavailable(err, address)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked done\n", task.ID)
			return nil
		},
	}
}

func printTask(cmd *cobra.Command, task *tasks.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", task.ID)
	fmt.Fprintf(out, "Title:    %s\n", task.Title)
	if task.Body != "" {
		fmt.Fprintf(out, "Body:     %s\n", task.Body)
	}
	fmt.Fprintf(out, "Priority: %s\n", task.Priority)
	fmt.Fprintf(out, "Status:   %s\n", task.Status)
	fmt.Fprintf(out, "Due:      %s\n", formatDue(task.DueAt))
	fmt.Fprintf(out, "Created:  %s\n", task.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Updated:  %s\n", task.UpdatedAt.Local().Format(time.RFC3339))
}

func parseDue(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (expected 2006-01-02 or RFC 3339)", value)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Local().Format("2006-01-02 15:04")
}
