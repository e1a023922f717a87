package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Note is a note record as the backend returns it.
type Note struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  *CategoryRef `json:"category,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

// CategoryRef is the category embedded in a note.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a task record as the backend returns it.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Category    string `json:"category,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Category is a standalone category record.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ChatMessage is one turn in an AI chat exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the backend's answer to a chat request.
type ChatResponse struct {
	Message ChatMessage `json:"message"`
}

// DefaultChatModel is used when a caller does not pick a model.
const DefaultChatModel = "gemini-1.5-flash-latest"

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return env.Data, nil
}

// AllNotes fetches the caller's full note list.
func (c *Client) AllNotes(ctx context.Context, callerToken string) ([]Note, error) {
	raw, err := c.Get(ctx, "/api/v1/notes/", callerToken, url.Values{"limit": {"1000"}})
	if err != nil {
		return nil, err
	}
	return decodeList[Note](raw)
}

// AllTasks fetches the caller's full task list.
func (c *Client) AllTasks(ctx context.Context, callerToken string) ([]Task, error) {
	raw, err := c.Get(ctx, "/api/v1/tasks/", callerToken, url.Values{"limit": {"1000"}})
	if err != nil {
		return nil, err
	}
	return decodeList[Task](raw)
}

// Categories fetches the caller's categories. The backend returns a bare
// array here, not a data envelope.
func (c *Client) Categories(ctx context.Context, callerToken string) ([]Category, error) {
	raw, err := c.Get(ctx, "/api/v1/notes/categories", callerToken, nil)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// Chat sends messages to the backend's AI endpoint and returns the reply.
func (c *Client) Chat(ctx context.Context, callerToken, model string, messages []ChatMessage) (*ChatResponse, error) {
	if model == "" {
		model = DefaultChatModel
	}
	body := map[string]any{
		"messages": messages,
		"model":    model,
		"stream":   false,
	}
	raw, err := c.Do(ctx, "POST", "/api/v1/gemini/chat", callerToken, body, nil)
	if err != nil {
		return nil, err
	}
	var resp ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &resp, nil
}

// PageQuery builds skip/limit pagination values.
func PageQuery(skip, limit int) url.Values {
	if limit <= 0 {
		limit = 20
	}
	return url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
}
