// Package categories registers the category organization tools. The backend
// has no per-category note listing, so the grouping tools fetch the full
// note list and filter locally.
package categories

import (
	"context"
	"fmt"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

type createArgs struct {
	Name   string `json:"name" jsonschema:"the name of the category"`
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type userArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type byCategoryArgs struct {
	CategoryID string `json:"category_id" jsonschema:"UUID of the category"`
	UserID     string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type organizeArgs struct {
	NoteID     string `json:"note_id" jsonschema:"UUID of the note to organize"`
	CategoryID string `json:"category_id" jsonschema:"UUID of the category to assign the note to"`
	UserID     string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

// Register adds the categories tools to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	createCategory, err := capability.NewTool("create_category", "Create a new category for organizing notes",
		func(ctx context.Context, in createArgs) (any, error) {
			if in.Name == "" {
				return nil, fmt.Errorf("name is required")
			}
			body := map[string]any{"name": in.Name}
			return client.Do(ctx, "POST", "/api/v1/notes/categories", upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	getCategories, err := capability.NewTool("get_categories", "Retrieve all categories for the user",
		func(ctx context.Context, in userArgs) (any, error) {
			return client.Get(ctx, "/api/v1/notes/categories", upstream.ResolveToken(ctx, in.UserID), nil)
		})
	if err != nil {
		return err
	}

	notesByCategory, err := capability.NewTool("get_notes_by_category", "Get all notes that belong to a specific category",
		func(ctx context.Context, in byCategoryArgs) (any, error) {
			if in.CategoryID == "" {
				return nil, fmt.Errorf("category_id is required")
			}
			notes, err := client.AllNotes(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			matched := make([]upstream.Note, 0)
			for _, note := range notes {
				if note.Category != nil && note.Category.ID == in.CategoryID {
					matched = append(matched, note)
				}
			}
			return map[string]any{
				"category_id": in.CategoryID,
				"notes":       matched,
				"count":       len(matched),
			}, nil
		})
	if err != nil {
		return err
	}

	organizeNote, err := capability.NewTool("organize_note_into_category", "Assign a note to a category",
		func(ctx context.Context, in organizeArgs) (any, error) {
			if in.NoteID == "" || in.CategoryID == "" {
				return nil, fmt.Errorf("note_id and category_id are required")
			}
			body := map[string]any{"category_id": in.CategoryID}
			return client.Do(ctx, "PUT", "/api/v1/notes/"+in.NoteID, upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	categorySummary, err := capability.NewTool("get_category_summary", "Get a summary of all categories with note counts",
		func(ctx context.Context, in userArgs) (any, error) {
			token := upstream.ResolveToken(ctx, in.UserID)
			categories, err := client.Categories(ctx, token)
			if err != nil {
				return nil, err
			}
			notes, err := client.AllNotes(ctx, token)
			if err != nil {
				return nil, err
			}
			return Summary(categories, notes), nil
		})
	if err != nil {
		return err
	}

	for _, c := range []*capability.Capability{createCategory, getCategories, notesByCategory, organizeNote, categorySummary} {
		c.Source = "builtin/categories"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Summary counts notes per category and reports uncategorized notes.
func Summary(categories []upstream.Category, notes []upstream.Note) map[string]any {
	counts := map[string]int{}
	uncategorized := 0
	for _, note := range notes {
		if note.Category == nil || note.Category.ID == "" {
			uncategorized++
			continue
		}
		counts[note.Category.ID]++
	}

	summary := make([]map[string]any, 0, len(categories))
	for _, cat := range categories {
		summary = append(summary, map[string]any{
			"id":         cat.ID,
			"name":       cat.Name,
			"note_count": counts[cat.ID],
		})
	}

	return map[string]any{
		"categories":          summary,
		"total_categories":    len(categories),
		"uncategorized_notes": uncategorized,
		"total_notes":         len(notes),
	}
}
