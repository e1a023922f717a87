package productivity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-notegate/notegate/internal/upstream"
)

func TestSimilarity(t *testing.T) {
	a := upstream.Note{Title: "grocery list", Content: "milk eggs bread"}
	b := upstream.Note{Title: "grocery list", Content: "milk eggs bread"}
	assert.Equal(t, 1.0, Similarity(a, b))

	c := upstream.Note{Title: "meeting notes", Content: "quarterly planning agenda"}
	assert.Less(t, Similarity(a, c), 0.2)

	empty := upstream.Note{}
	assert.Equal(t, 0.0, Similarity(a, empty))
}

func TestFindDuplicates(t *testing.T) {
	notes := []upstream.Note{
		{ID: "1", Title: "grocery list", Content: "milk eggs bread"},
		{ID: "2", Title: "grocery list", Content: "milk eggs bread"},
		{ID: "3", Title: "vacation ideas", Content: "mountains lakes hiking trails"},
	}

	result := FindDuplicates(notes, 0.8)
	assert.Equal(t, 3, result["total_notes_analyzed"])
	assert.Equal(t, 1, result["duplicate_groups_found"])

	pairs := result["duplicates"].([]duplicatePair)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1.0, pairs[0].SimilarityScore)
}

func TestFindDuplicates_TooFewNotes(t *testing.T) {
	result := FindDuplicates([]upstream.Note{{ID: "1"}}, 0.8)
	assert.Equal(t, "Not enough notes to check for duplicates", result["message"])
}

func TestOverdueReport(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tasks := []upstream.Task{
		{ID: "1", Title: "very late", Status: "todo", Priority: "high", DueDate: "2026-08-20T00:00:00Z"},
		{ID: "2", Title: "slightly late", Status: "in_progress", DueDate: "2026-08-30T00:00:00Z"},
		{ID: "3", Title: "due soon", Status: "todo", DueDate: "2026-09-02T00:00:00Z"},
		{ID: "4", Title: "far future", Status: "todo", DueDate: "2026-12-01T00:00:00Z"},
		{ID: "5", Title: "already done", Status: "done", DueDate: "2026-08-01T00:00:00Z"},
		{ID: "6", Title: "no due date", Status: "todo"},
	}

	report := OverdueReport(tasks, now)

	summary := report["summary"].(map[string]any)
	assert.Equal(t, 5, summary["total_active_tasks"])
	assert.Equal(t, 2, summary["overdue_count"])
	assert.Equal(t, 1, summary["upcoming_count"])

	overdue := report["overdue_tasks"].([]map[string]any)
	require.Len(t, overdue, 2)
	// Most overdue first.
	assert.Equal(t, "very late", overdue[0]["title"])

	upcoming := report["upcoming_tasks"].([]map[string]any)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "due soon", upcoming[0]["title"])

	recs := report["recommendations"].([]string)
	assert.NotEmpty(t, recs)
}

func TestOverdueReport_NoTasks(t *testing.T) {
	report := OverdueReport(nil, time.Now())
	assert.Equal(t, "No tasks found", report["message"])
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	notes := []upstream.Note{
		{ID: "1", Title: "recent", CreatedAt: "2026-08-30T10:00:00Z",
			Category: &upstream.CategoryRef{ID: "c1", Name: "Work"}},
		{ID: "2", Title: "old", CreatedAt: "2026-01-01T10:00:00Z"},
	}
	tasks := []upstream.Task{
		{ID: "1", Status: "done", CreatedAt: "2026-08-29T10:00:00Z"},
		{ID: "2", Status: "todo", CreatedAt: "2026-08-30T10:00:00Z"},
		{ID: "3", Status: "done", CreatedAt: "2026-01-15T10:00:00Z"},
	}

	dash := Dashboard(notes, tasks, 7, now)

	summary := dash["summary"].(map[string]any)
	assert.Equal(t, 2, summary["total_notes"])
	assert.Equal(t, 1, summary["recent_notes"])
	assert.Equal(t, 2, summary["recent_tasks"])

	completion := dash["task_completion"].(map[string]any)
	assert.Equal(t, 2, completion["total_completed"])
	assert.Equal(t, 1, completion["recent_completed"])
	assert.InDelta(t, 66.67, completion["overall_completion_rate"].(float64), 0.01)

	categories := dash["categories"].(map[string]any)
	noteCats := categories["note_categories"].(map[string]int)
	assert.Equal(t, 1, noteCats["Work"])
	assert.Equal(t, 1, noteCats["Uncategorized"])

	daily := dash["daily_activity"].(map[string]map[string]int)
	assert.Equal(t, 1, daily["2026-08-30"]["notes"])
	assert.Equal(t, 1, daily["2026-08-30"]["tasks"])
}

func TestContentInsights(t *testing.T) {
	notes := []upstream.Note{
		{ID: "1", Title: "project kickoff", Content: "project timeline project scope deliverables"},
		{ID: "2", Title: "empty one", Content: ""},
	}

	insights := ContentInsights(notes)

	stats := insights["content_statistics"].(map[string]any)
	assert.Equal(t, 2, stats["total_notes"])

	topics := insights["top_topics"].(map[string]int)
	assert.Equal(t, 3, topics["project"])

	patterns := insights["writing_patterns"].(map[string]any)
	assert.Equal(t, 1, patterns["notes_with_no_content"])
}

func TestContentInsights_NoNotes(t *testing.T) {
	insights := ContentInsights(nil)
	assert.Equal(t, "No notes found to analyze", insights["message"])
}
