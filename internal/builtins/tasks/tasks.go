// Package tasks registers the task management tools, including local
// aggregation for task statistics.
package tasks

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

// ValidStatuses are the task states the backend accepts.
var ValidStatuses = []string{"todo", "in_progress", "done"}

func validStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type createArgs struct {
	Title       string `json:"title" jsonschema:"the title of the task"`
	Description string `json:"description,omitempty" jsonschema:"the description of the task"`
	Status      string `json:"status,omitempty" jsonschema:"task status: todo, in_progress, or done"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type listArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
	Status string `json:"status,omitempty" jsonschema:"filter by status: todo, in_progress, or done"`
	Skip   int    `json:"skip,omitempty" jsonschema:"number of tasks to skip for pagination"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of tasks to return"`
}

type updateArgs struct {
	TaskID      string `json:"task_id" jsonschema:"UUID of the task to update"`
	Title       string `json:"title,omitempty" jsonschema:"new title for the task"`
	Description string `json:"description,omitempty" jsonschema:"new description for the task"`
	Status      string `json:"status,omitempty" jsonschema:"new status: todo, in_progress, or done"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type taskIDArgs struct {
	TaskID string `json:"task_id" jsonschema:"UUID of the task"`
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type statsArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

// Register adds the tasks tools to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	createTask, err := capability.NewTool("create_task", "Create a new task with the given title and description",
		func(ctx context.Context, in createArgs) (any, error) {
			if in.Title == "" {
				return nil, fmt.Errorf("title is required")
			}
			status := in.Status
			if status == "" {
				status = "todo"
			}
			if !validStatus(status) {
				return nil, fmt.Errorf("invalid status: must be one of %s", strings.Join(ValidStatuses, ", "))
			}
			body := map[string]any{"title": in.Title, "description": in.Description, "status": status}
			return client.Do(ctx, "POST", "/api/v1/tasks/", upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	getTasks, err := capability.NewTool("get_tasks", "Retrieve tasks for the user, optionally filtered by status",
		func(ctx context.Context, in listArgs) (any, error) {
			query := upstream.PageQuery(in.Skip, in.Limit)
			if in.Status != "" {
				query.Set("status", in.Status)
			}
			return client.Get(ctx, "/api/v1/tasks/", upstream.ResolveToken(ctx, in.UserID), query)
		})
	if err != nil {
		return err
	}

	updateTask, err := capability.NewTool("update_task", "Update an existing task's title, description, or status",
		func(ctx context.Context, in updateArgs) (any, error) {
			if in.TaskID == "" {
				return nil, fmt.Errorf("task_id is required")
			}
			if in.Status != "" && !validStatus(in.Status) {
				return nil, fmt.Errorf("invalid status: must be one of %s", strings.Join(ValidStatuses, ", "))
			}
			body := map[string]any{}
			if in.Title != "" {
				body["title"] = in.Title
			}
			if in.Description != "" {
				body["description"] = in.Description
			}
			if in.Status != "" {
				body["status"] = in.Status
			}
			return client.Do(ctx, "PUT", "/api/v1/tasks/"+in.TaskID, upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	completeTask, err := capability.NewTool("complete_task", "Mark a task as completed",
		func(ctx context.Context, in taskIDArgs) (any, error) {
			if in.TaskID == "" {
				return nil, fmt.Errorf("task_id is required")
			}
			body := map[string]any{"status": "done"}
			return client.Do(ctx, "PUT", "/api/v1/tasks/"+in.TaskID, upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	deleteTask, err := capability.NewTool("delete_task", "Delete a task by ID",
		func(ctx context.Context, in taskIDArgs) (any, error) {
			if in.TaskID == "" {
				return nil, fmt.Errorf("task_id is required")
			}
			if _, err := client.Do(ctx, "DELETE", "/api/v1/tasks/"+in.TaskID, upstream.ResolveToken(ctx, in.UserID), nil, nil); err != nil {
				return nil, err
			}
			return map[string]string{"message": fmt.Sprintf("Task %s deleted successfully", in.TaskID)}, nil
		})
	if err != nil {
		return err
	}

	taskStats, err := capability.NewTool("get_task_statistics", "Get task counts by status and the completion rate",
		func(ctx context.Context, in statsArgs) (any, error) {
			tasks, err := client.AllTasks(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			return Statistics(tasks), nil
		})
	if err != nil {
		return err
	}

	for _, c := range []*capability.Capability{createTask, getTasks, updateTask, completeTask, deleteTask, taskStats} {
		c.Source = "builtin/tasks"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Statistics aggregates a task list into per-status counts and a
// completion percentage.
func Statistics(tasks []upstream.Task) map[string]any {
	stats := map[string]any{
		"total":       len(tasks),
		"todo":        0,
		"in_progress": 0,
		"done":        0,
	}
	counts := map[string]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	for _, s := range ValidStatuses {
		stats[s] = counts[s]
	}
	if len(tasks) > 0 {
		stats["completion_percentage"] = math.Round(float64(counts["done"])/float64(len(tasks))*1000) / 10
	} else {
		stats["completion_percentage"] = 0.0
	}
	return stats
}
