// Package notes registers the note management tools. Every tool proxies to
// the backend's notes endpoints with the caller's credential.
package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

type createArgs struct {
	Title      string `json:"title" jsonschema:"the title of the note"`
	Content    string `json:"content,omitempty" jsonschema:"the content body of the note"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"UUID of the category to assign the note to"`
	UserID     string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type listArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
	Skip   int    `json:"skip,omitempty" jsonschema:"number of notes to skip for pagination"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of notes to return"`
}

type updateArgs struct {
	NoteID     string `json:"note_id" jsonschema:"UUID of the note to update"`
	Title      string `json:"title,omitempty" jsonschema:"new title for the note"`
	Content    string `json:"content,omitempty" jsonschema:"new content for the note"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"new category ID for the note"`
	UserID     string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type deleteArgs struct {
	NoteID string `json:"note_id" jsonschema:"UUID of the note to delete"`
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type searchArgs struct {
	Query  string `json:"query" jsonschema:"search query matched against titles and content"`
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

// Register adds the notes tools to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	createNote, err := capability.NewTool("create_note", "Create a new note with the given title and content",
		func(ctx context.Context, in createArgs) (any, error) {
			if in.Title == "" {
				return nil, fmt.Errorf("title is required")
			}
			body := map[string]any{"title": in.Title, "content": in.Content}
			if in.CategoryID != "" {
				body["category_id"] = in.CategoryID
			}
			return client.Do(ctx, "POST", "/api/v1/notes/", upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	getNotes, err := capability.NewTool("get_notes", "Retrieve notes for the user with pagination",
		func(ctx context.Context, in listArgs) (any, error) {
			return client.Get(ctx, "/api/v1/notes/", upstream.ResolveToken(ctx, in.UserID), upstream.PageQuery(in.Skip, in.Limit))
		})
	if err != nil {
		return err
	}

	updateNote, err := capability.NewTool("update_note", "Update an existing note's title, content, or category",
		func(ctx context.Context, in updateArgs) (any, error) {
			if in.NoteID == "" {
				return nil, fmt.Errorf("note_id is required")
			}
			body := map[string]any{}
			if in.Title != "" {
				body["title"] = in.Title
			}
			if in.Content != "" {
				body["content"] = in.Content
			}
			if in.CategoryID != "" {
				body["category_id"] = in.CategoryID
			}
			return client.Do(ctx, "PUT", "/api/v1/notes/"+in.NoteID, upstream.ResolveToken(ctx, in.UserID), body, nil)
		})
	if err != nil {
		return err
	}

	deleteNote, err := capability.NewTool("delete_note", "Delete a note by ID",
		func(ctx context.Context, in deleteArgs) (any, error) {
			if in.NoteID == "" {
				return nil, fmt.Errorf("note_id is required")
			}
			if _, err := client.Do(ctx, "DELETE", "/api/v1/notes/"+in.NoteID, upstream.ResolveToken(ctx, in.UserID), nil, nil); err != nil {
				return nil, err
			}
			return map[string]string{"message": fmt.Sprintf("Note %s deleted successfully", in.NoteID)}, nil
		})
	if err != nil {
		return err
	}

	searchNotes, err := capability.NewTool("search_notes", "Search notes by title and content",
		func(ctx context.Context, in searchArgs) (any, error) {
			notes, err := client.AllNotes(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			query := strings.ToLower(in.Query)
			matches := make([]upstream.Note, 0)
			for _, note := range notes {
				if strings.Contains(strings.ToLower(note.Title), query) ||
					strings.Contains(strings.ToLower(note.Content), query) {
					matches = append(matches, note)
				}
			}
			return map[string]any{
				"query":   in.Query,
				"matches": matches,
				"count":   len(matches),
			}, nil
		})
	if err != nil {
		return err
	}

	for _, c := range []*capability.Capability{createNote, getNotes, updateNote, deleteNote, searchNotes} {
		c.Source = "builtin/notes"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
