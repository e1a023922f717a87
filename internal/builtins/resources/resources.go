// Package resources registers the informational resources: app
// configuration, the tool usage guide, example workflows, the API
// reference, and a live health probe.
package resources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

// Register adds the informational resources to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	caps := []*capability.Capability{
		capability.NewResource("config://notes-app", "notes-app-config",
			"Configuration and API information for the notes app", "application/json",
			func(context.Context) (string, error) { return appConfig(client.BaseURL()) }),
		capability.NewResource("guide://tool-usage", "tool-usage-guide",
			"Guide for using the notes app tools effectively", "text/markdown",
			func(context.Context) (string, error) { return usageGuide, nil }),
		capability.NewResource("examples://workflows", "example-workflows",
			"Example workflows for common use cases", "text/markdown",
			func(context.Context) (string, error) { return workflows, nil }),
		capability.NewResource("schema://api-reference", "api-reference",
			"API reference and data schemas for the notes app", "application/json",
			func(context.Context) (string, error) { return apiReference(client.BaseURL()) }),
		capability.NewResource("status://health", "health-status",
			"Current gateway and backend health", "application/json",
			func(ctx context.Context) (string, error) { return healthStatus(ctx, client) }),
	}
	for _, c := range caps {
		c.Source = "builtin/resources"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func appConfig(baseURL string) (string, error) {
	config := map[string]any{
		"app_name":     "Notes App Gateway",
		"version":      "1.0.0",
		"description":  "A note-taking and task management application exposed over MCP",
		"api_base_url": baseURL,
		"supported_features": []string{
			"Note creation and management",
			"Task tracking and completion",
			"Category organization",
			"Content search",
			"AI-powered assistance",
			"Productivity analytics",
		},
		"authentication": map[string]any{
			"type": "Bearer token",
			"note": "Callers may supply their own JWT; the gateway falls back to its service account",
		},
		"data_models": map[string]any{
			"Note": map[string]any{
				"fields":   []string{"id", "title", "content", "category", "created_at", "updated_at"},
				"required": []string{"title"},
				"optional": []string{"content", "category"},
			},
			"Task": map[string]any{
				"fields":     []string{"id", "title", "description", "status", "priority", "due_date", "category", "created_at", "updated_at"},
				"required":   []string{"title"},
				"statuses":   []string{"todo", "in_progress", "done"},
				"priorities": []string{"low", "medium", "high"},
			},
			"Category": map[string]any{
				"fields":   []string{"id", "name", "description", "created_at", "updated_at"},
				"required": []string{"name"},
			},
		},
	}
	out, err := json.MarshalIndent(config, "", "  ")
	return string(out), err
}

func apiReference(baseURL string) (string, error) {
	reference := map[string]any{
		"api_version": "v1",
		"base_url":    baseURL + "/api/v1",
		"endpoints": map[string]any{
			"notes": map[string]string{
				"GET /notes/":        "List all notes",
				"POST /notes/":       "Create a new note",
				"PUT /notes/{id}":    "Update a note",
				"DELETE /notes/{id}": "Delete a note",
			},
			"tasks": map[string]string{
				"GET /tasks/":        "List all tasks",
				"POST /tasks/":       "Create a new task",
				"PUT /tasks/{id}":    "Update a task",
				"DELETE /tasks/{id}": "Delete a task",
			},
			"categories": map[string]string{
				"GET /notes/categories":  "List all categories",
				"POST /notes/categories": "Create a new category",
			},
			"ai": map[string]string{
				"POST /gemini/chat": "Chat with the AI assistant",
			},
		},
		"authentication": map[string]string{
			"type":        "bearer",
			"description": "Include JWT token in Authorization header",
			"example":     "Authorization: Bearer <token>",
		},
		"error_responses": map[string]string{
			"400": "Bad Request - Invalid input data",
			"401": "Unauthorized - Authentication required",
			"403": "Forbidden - Insufficient permissions",
			"404": "Not Found - Resource not found",
			"429": "Too Many Requests - Rate limit exceeded",
			"500": "Internal Server Error - Server error",
		},
	}
	out, err := json.MarshalIndent(reference, "", "  ")
	return string(out), err
}

// healthStatus probes the backend so readers see live reachability, not a
// cached answer.
func healthStatus(ctx context.Context, client *upstream.Client) (string, error) {
	backendStatus := "operational"
	if err := client.Health(ctx, ""); err != nil {
		backendStatus = "unreachable: " + err.Error()
	}
	status := map[string]any{
		"gateway":        "operational",
		"api_backend":    client.BaseURL(),
		"backend_status": backendStatus,
		"last_updated":   time.Now().UTC().Format(time.RFC3339),
		"capabilities": []string{
			"Notes CRUD operations",
			"Task management",
			"Category organization",
			"AI-powered assistance",
			"Productivity analytics",
			"Content insights",
			"Duplicate detection",
			"Task deadline tracking",
		},
	}
	out, err := json.MarshalIndent(status, "", "  ")
	return string(out), err
}

const usageGuide = `# Tools Usage Guide

## Notes Management Tools

### create_note
Creates a new note with title, content, and optional category.
**Best practices:**
- Use descriptive, searchable titles
- Include relevant content for context
- Assign appropriate categories for organization

### get_notes
Retrieves notes with pagination (skip and limit parameters).

### update_note
Updates an existing note's title, content, or category.
**Note:** Requires the exact note ID.

### search_notes
Searches notes by title and content matching. Case-insensitive, matches
both fields.

## Task Management Tools

### create_task
Creates a new task with status tracking.
**Required:** title. **Optional:** description, status.

### complete_task
Marks a task as completed (status = "done").

### get_task_statistics
Provides task analytics including completion rates and status distribution.

## Category Management Tools

### create_category
Creates organizational categories for notes.

### organize_note_into_category
Associates existing notes with categories. Requires valid note and
category IDs.

## AI-Powered Tools

### chat_with_ai
Direct interaction with the AI assistant.

### summarize_notes
AI-generated summaries of notes, optionally filtered by category.

### generate_task_suggestions
Analyzes notes to suggest actionable tasks.

### improve_note_content
AI-powered content improvement. Types: grammar, clarity, structure, expand.

## Analytics and Productivity Tools

### get_productivity_dashboard
Activity trends, completion rates, category distributions, daily patterns.

### find_duplicate_notes
Identifies potentially duplicate content. similarity_threshold: 0.0 to 1.0
(default 0.8).

### get_overdue_tasks_report
Analyzes task deadlines for overdue and upcoming tasks.

### get_content_insights
Word counts, topics, and writing patterns across all notes.

## General Best Practices

1. Start with get_productivity_dashboard to understand current state
2. Use search_notes before creating new notes to avoid duplicates
3. Leverage AI tools for content improvement and task generation
4. Organize with categories for better information architecture
5. Regular cleanup using duplicate detection and content insights
`

const workflows = `# Example Workflows

## Workflow 1: New User Onboarding

1. **Get Overview**: get_productivity_dashboard
2. **Analyze Content**: get_content_insights
3. **Create Organization**: create_category for main topics
4. **Organize Existing**: organize_note_into_category for key notes
5. **Generate Tasks**: generate_task_suggestions from notes

## Workflow 2: Daily Productivity Review

1. **Check Tasks**: get_overdue_tasks_report
2. **Review Activity**: get_productivity_dashboard (1-7 days)
3. **Complete Tasks**: complete_task for finished items
4. **Create New Tasks**: based on new priorities
5. **Update Notes**: improve_note_content for important notes

## Workflow 3: Content Cleanup and Organization

1. **Find Duplicates**: find_duplicate_notes
2. **Analyze Content**: get_content_insights
3. **Create Categories**: based on content themes
4. **Organize Notes**: organize_note_into_category
5. **Improve Content**: improve_note_content for key notes

## Workflow 4: Research Project Management

1. **Create Category**: for the research project
2. **Create Research Notes**: create_note for each source
3. **Generate Summary**: summarize_notes for the project category
4. **Create Tasks**: generate_task_suggestions for next steps
5. **Track Progress**: regular get_task_statistics

## Workflow 5: Weekly Planning Session

1. **Review Metrics**: get_productivity_dashboard (7-30 days)
2. **Check Overdue**: get_overdue_tasks_report
3. **Analyze Content**: get_content_insights
4. **Plan Tasks**: create tasks for upcoming priorities
5. **Organize Notes**: update categories and improve content
`
