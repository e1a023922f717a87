// Package ai registers the AI assistant tools. Each one builds a chat
// payload from the caller's notes or tasks and sends it to the backend's
// Gemini endpoint.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

type chatArgs struct {
	Message string `json:"message" jsonschema:"the message to send to the AI"`
	Model   string `json:"model,omitempty" jsonschema:"Gemini model to use"`
	UserID  string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type summarizeArgs struct {
	CategoryID string `json:"category_id,omitempty" jsonschema:"only summarize notes in this category"`
	UserID     string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type suggestArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

type improveArgs struct {
	NoteID          string `json:"note_id" jsonschema:"UUID of the note to improve"`
	ImprovementType string `json:"improvement_type,omitempty" jsonschema:"type of improvement: grammar, clarity, structure, or expand"`
	UserID          string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

var improvementPrompts = map[string]string{
	"grammar":   "Please improve the grammar and spelling of this note while keeping the original meaning:",
	"clarity":   "Please rewrite this note to make it clearer and more understandable:",
	"structure": "Please reorganize and restructure this note for better flow and readability:",
	"expand":    "Please expand on this note with more details, examples, or related information:",
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Register adds the AI tools to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	chat, err := capability.NewTool("chat_with_ai", "Chat with the AI assistant",
		func(ctx context.Context, in chatArgs) (any, error) {
			if in.Message == "" {
				return nil, fmt.Errorf("message is required")
			}
			resp, err := client.Chat(ctx, upstream.ResolveToken(ctx, in.UserID), in.Model,
				[]upstream.ChatMessage{{Role: "user", Content: in.Message}})
			if err != nil {
				return nil, err
			}
			return resp, nil
		})
	if err != nil {
		return err
	}

	summarize, err := capability.NewTool("summarize_notes", "Use AI to summarize the user's notes, optionally filtered by category",
		func(ctx context.Context, in summarizeArgs) (any, error) {
			token := upstream.ResolveToken(ctx, in.UserID)
			notes, err := client.AllNotes(ctx, token)
			if err != nil {
				return nil, err
			}
			if in.CategoryID != "" {
				filtered := notes[:0]
				for _, n := range notes {
					if n.Category != nil && n.Category.ID == in.CategoryID {
						filtered = append(filtered, n)
					}
				}
				notes = filtered
			}
			if len(notes) == 0 {
				return map[string]any{"summary": "No notes found to summarize.", "note_count": 0}, nil
			}

			prompt := summaryPrompt(notes)
			resp, err := client.Chat(ctx, token, "", []upstream.ChatMessage{{Role: "user", Content: prompt}})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"note_count":      len(notes),
				"category_filter": in.CategoryID,
				"ai_summary":      resp.Message.Content,
				"generated_at":    time.Now().UTC().Format(time.RFC3339),
			}, nil
		})
	if err != nil {
		return err
	}

	suggest, err := capability.NewTool("generate_task_suggestions", "Use AI to analyze notes and suggest tasks to create",
		func(ctx context.Context, in suggestArgs) (any, error) {
			token := upstream.ResolveToken(ctx, in.UserID)
			notes, err := client.AllNotes(ctx, token)
			if err != nil {
				return nil, err
			}
			if len(notes) == 0 {
				return map[string]any{
					"suggestions": []any{},
					"message":     "No notes available to analyze for task suggestions.",
				}, nil
			}
			tasks, err := client.AllTasks(ctx, token)
			if err != nil {
				return nil, err
			}

			prompt := suggestionPrompt(notes, tasks)
			resp, err := client.Chat(ctx, token, "", []upstream.ChatMessage{{Role: "user", Content: prompt}})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"note_count":          len(notes),
				"existing_task_count": len(tasks),
				"suggestions":         ExtractSuggestions(resp.Message.Content),
				"ai_analysis":         resp.Message.Content,
				"generated_at":        time.Now().UTC().Format(time.RFC3339),
			}, nil
		})
	if err != nil {
		return err
	}

	improve, err := capability.NewTool("improve_note_content", "Use AI to improve a note's grammar, clarity, or structure",
		func(ctx context.Context, in improveArgs) (any, error) {
			if in.NoteID == "" {
				return nil, fmt.Errorf("note_id is required")
			}
			kind := in.ImprovementType
			if kind == "" {
				kind = "grammar"
			}
			instruction, ok := improvementPrompts[kind]
			if !ok {
				return nil, fmt.Errorf("invalid improvement_type: must be one of grammar, clarity, structure, expand")
			}

			token := upstream.ResolveToken(ctx, in.UserID)
			notes, err := client.AllNotes(ctx, token)
			if err != nil {
				return nil, err
			}
			var target *upstream.Note
			for i := range notes {
				if notes[i].ID == in.NoteID {
					target = &notes[i]
					break
				}
			}
			if target == nil {
				return nil, fmt.Errorf("note with ID %s not found", in.NoteID)
			}

			prompt := fmt.Sprintf("%s\n\nTitle: %s\nContent: %s", instruction, target.Title, target.Content)
			resp, err := client.Chat(ctx, token, "", []upstream.ChatMessage{{Role: "user", Content: prompt}})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"note_id":          in.NoteID,
				"improvement_type": kind,
				"original_title":   target.Title,
				"original_content": target.Content,
				"improved_content": resp.Message.Content,
				"generated_at":     time.Now().UTC().Format(time.RFC3339),
			}, nil
		})
	if err != nil {
		return err
	}

	for _, c := range []*capability.Capability{chat, summarize, suggest, improve} {
		c.Source = "builtin/ai"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func summaryPrompt(notes []upstream.Note) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Please provide a comprehensive summary of these %d notes.\n", len(notes))
	sb.WriteString("Include key themes, topics, and any patterns you notice:\n\n")
	for _, n := range notes {
		fmt.Fprintf(&sb, "Title: %s\n", n.Title)
		if n.Content != "" {
			fmt.Fprintf(&sb, "Content: %s\n", n.Content)
		}
		if n.Category != nil && n.Category.Name != "" {
			fmt.Fprintf(&sb, "Category: %s\n", n.Category.Name)
		}
		fmt.Fprintf(&sb, "Created: %s\n\n", n.CreatedAt)
	}
	sb.WriteString("Please provide:\n1. A brief overview\n2. Main topics/themes\n3. Key insights\n4. Any suggestions for organization or follow-up actions")
	return sb.String()
}

func suggestionPrompt(notes []upstream.Note, tasks []upstream.Task) string {
	var sb strings.Builder
	sb.WriteString("Analyze these notes and suggest actionable tasks that could be created.\n\nNotes to analyze:\n")
	for _, n := range notes {
		fmt.Fprintf(&sb, "Title: %s\n", n.Title)
		if n.Content != "" {
			fmt.Fprintf(&sb, "Content: %s\n", n.Content)
		}
	}
	sb.WriteString("\nExisting tasks (don't duplicate these):\n")
	for _, t := range tasks {
		sb.WriteString(t.Title)
		sb.WriteString("\n")
	}
	sb.WriteString(`
Please suggest 3-7 specific, actionable tasks in JSON format like:
[
    {
        "title": "Task title",
        "description": "Detailed description",
        "priority": "high|medium|low",
        "category": "work|personal|study|other"
    }
]`)
	return sb.String()
}

// ExtractSuggestions pulls the first JSON array out of an AI reply. Models
// wrap their JSON in prose more often than not; anything unparsable yields
// an empty list rather than an error.
func ExtractSuggestions(content string) []map[string]any {
	match := jsonArrayPattern.FindString(content)
	if match == "" {
		return []map[string]any{}
	}
	var suggestions []map[string]any
	if err := json.Unmarshal([]byte(match), &suggestions); err != nil {
		return []map[string]any{}
	}
	return suggestions
}
