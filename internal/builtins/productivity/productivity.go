// Package productivity registers the analytics tools: the dashboard,
// duplicate detection, the overdue report, and content insights. All of the
// aggregation happens locally over the caller's full note and task lists.
package productivity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

type dashboardArgs struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
	DaysBack int    `json:"days_back,omitempty" jsonschema:"number of days to analyze"`
}

type duplicatesArgs struct {
	UserID              string  `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" jsonschema:"similarity threshold between 0 and 1"`
}

type userArgs struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user ID or JWT token for authentication"`
}

// Register adds the productivity tools to the registry.
func Register(reg *capability.Registry, client *upstream.Client) error {
	dashboard, err := capability.NewTool("get_productivity_dashboard", "Generate a productivity dashboard with notes and tasks analytics",
		func(ctx context.Context, in dashboardArgs) (any, error) {
			days := in.DaysBack
			if days <= 0 {
				days = 7
			}
			token := upstream.ResolveToken(ctx, in.UserID)
			notes, err := client.AllNotes(ctx, token)
			if err != nil {
				return nil, err
			}
			tasks, err := client.AllTasks(ctx, token)
			if err != nil {
				return nil, err
			}
			return Dashboard(notes, tasks, days, time.Now().UTC()), nil
		})
	if err != nil {
		return err
	}

	duplicates, err := capability.NewTool("find_duplicate_notes", "Find potential duplicate notes by title and content similarity",
		func(ctx context.Context, in duplicatesArgs) (any, error) {
			threshold := in.SimilarityThreshold
			if threshold <= 0 {
				threshold = 0.8
			}
			notes, err := client.AllNotes(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			return FindDuplicates(notes, threshold), nil
		})
	if err != nil {
		return err
	}

	overdue, err := capability.NewTool("get_overdue_tasks_report", "Generate a report of overdue and upcoming tasks",
		func(ctx context.Context, in userArgs) (any, error) {
			tasks, err := client.AllTasks(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			return OverdueReport(tasks, time.Now().UTC()), nil
		})
	if err != nil {
		return err
	}

	insights, err := capability.NewTool("get_content_insights", "Analyze notes content for writing patterns and topics",
		func(ctx context.Context, in userArgs) (any, error) {
			notes, err := client.AllNotes(ctx, upstream.ResolveToken(ctx, in.UserID))
			if err != nil {
				return nil, err
			}
			return ContentInsights(notes), nil
		})
	if err != nil {
		return err
	}

	for _, c := range []*capability.Capability{dashboard, duplicates, overdue, insights} {
		c.Source = "builtin/productivity"
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// parseTime accepts the backend's timestamp formats: RFC3339 with or
// without an offset.
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Dashboard builds the productivity dashboard for the given window.
func Dashboard(notes []upstream.Note, tasks []upstream.Task, daysBack int, now time.Time) map[string]any {
	start := now.AddDate(0, 0, -daysBack)

	var recentNotes []upstream.Note
	for _, n := range notes {
		if t, ok := parseTime(n.CreatedAt); ok && !t.Before(start) {
			recentNotes = append(recentNotes, n)
		}
	}
	var recentTasks []upstream.Task
	for _, t := range tasks {
		if ts, ok := parseTime(t.CreatedAt); ok && !ts.Before(start) {
			recentTasks = append(recentTasks, t)
		}
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == "done" {
			completed++
		}
	}
	recentCompleted := 0
	for _, t := range recentTasks {
		if t.Status == "done" {
			recentCompleted++
		}
	}

	completionRate := 0.0
	if len(tasks) > 0 {
		completionRate = float64(completed) / float64(len(tasks)) * 100
	}
	recentCompletionRate := 0.0
	if len(recentTasks) > 0 {
		recentCompletionRate = float64(recentCompleted) / float64(len(recentTasks)) * 100
	}

	noteCategories := map[string]int{}
	for _, n := range notes {
		name := "Uncategorized"
		if n.Category != nil && n.Category.Name != "" {
			name = n.Category.Name
		}
		noteCategories[name]++
	}
	taskCategories := map[string]int{}
	statuses := map[string]int{}
	for _, t := range tasks {
		name := t.Category
		if name == "" {
			name = "Uncategorized"
		}
		taskCategories[name]++
		status := t.Status
		if status == "" {
			status = "unknown"
		}
		statuses[status]++
	}

	daily := map[string]map[string]int{}
	bump := func(created, kind string) {
		t, ok := parseTime(created)
		if !ok {
			return
		}
		day := t.Format("2006-01-02")
		if daily[day] == nil {
			daily[day] = map[string]int{"notes": 0, "tasks": 0}
		}
		daily[day][kind]++
	}
	for _, n := range recentNotes {
		bump(n.CreatedAt, "notes")
	}
	for _, t := range recentTasks {
		bump(t.CreatedAt, "tasks")
	}

	return map[string]any{
		"period": map[string]any{
			"days_analyzed": daysBack,
			"start_date":    start.Format(time.RFC3339),
			"end_date":      now.Format(time.RFC3339),
		},
		"summary": map[string]any{
			"total_notes":   len(notes),
			"total_tasks":   len(tasks),
			"recent_notes":  len(recentNotes),
			"recent_tasks":  len(recentTasks),
			"notes_per_day": round2(float64(len(recentNotes)) / float64(daysBack)),
			"tasks_per_day": round2(float64(len(recentTasks)) / float64(daysBack)),
		},
		"task_completion": map[string]any{
			"total_completed":         completed,
			"recent_completed":        recentCompleted,
			"overall_completion_rate": round2(completionRate),
			"recent_completion_rate":  round2(recentCompletionRate),
			"status_distribution":     statuses,
		},
		"categories": map[string]any{
			"note_categories": noteCategories,
			"task_categories": taskCategories,
		},
		"daily_activity": daily,
		"generated_at":   now.Format(time.RFC3339),
	}
}

// Similarity is Jaccard word overlap between two notes' combined title and
// content.
func Similarity(a, b upstream.Note) float64 {
	wordsA := wordSet(a.Title + " " + a.Content)
	wordsB := wordSet(b.Title + " " + b.Content)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	intersection := 0
	union := len(wordsB)
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

type duplicatePair struct {
	SimilarityScore float64          `json:"similarity_score"`
	Notes           []map[string]any `json:"notes"`
}

func notePreview(n upstream.Note) map[string]any {
	preview := n.Content
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	var category any
	if n.Category != nil {
		category = n.Category.Name
	}
	return map[string]any{
		"id":              n.ID,
		"title":           n.Title,
		"content_preview": preview,
		"created_at":      n.CreatedAt,
		"category":        category,
	}
}

// FindDuplicates compares every pair of notes and reports those whose
// similarity meets the threshold, most similar first, capped at 20 pairs.
func FindDuplicates(notes []upstream.Note, threshold float64) map[string]any {
	if len(notes) < 2 {
		return map[string]any{
			"duplicates": []any{},
			"message":    "Not enough notes to check for duplicates",
		}
	}

	var pairs []duplicatePair
	for i := 0; i < len(notes); i++ {
		for j := i + 1; j < len(notes); j++ {
			score := Similarity(notes[i], notes[j])
			if score >= threshold {
				pairs = append(pairs, duplicatePair{
					SimilarityScore: math.Round(score*1000) / 1000,
					Notes:           []map[string]any{notePreview(notes[i]), notePreview(notes[j])},
				})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].SimilarityScore > pairs[j].SimilarityScore })
	if len(pairs) > 20 {
		pairs = pairs[:20]
	}
	if pairs == nil {
		pairs = []duplicatePair{}
	}

	return map[string]any{
		"total_notes_analyzed":   len(notes),
		"similarity_threshold":   threshold,
		"duplicate_groups_found": len(pairs),
		"duplicates":             pairs,
		"generated_at":           time.Now().UTC().Format(time.RFC3339),
	}
}

// OverdueReport buckets active tasks with due dates into overdue and
// due-within-a-week, with prioritization recommendations.
func OverdueReport(tasks []upstream.Task, now time.Time) map[string]any {
	if len(tasks) == 0 {
		return map[string]any{
			"overdue_tasks":  []any{},
			"upcoming_tasks": []any{},
			"message":        "No tasks found",
		}
	}

	var overdue, upcoming []map[string]any
	active := 0
	for _, t := range tasks {
		if t.Status == "done" {
			continue
		}
		active++
		due, ok := parseTime(t.DueDate)
		if !ok {
			continue
		}

		priority := t.Priority
		if priority == "" {
			priority = "medium"
		}
		info := map[string]any{
			"id":              t.ID,
			"title":           t.Title,
			"description":     t.Description,
			"status":          t.Status,
			"priority":        priority,
			"category":        t.Category,
			"due_date":        t.DueDate,
			"days_difference": int(due.Sub(now).Hours() / 24),
			"created_at":      t.CreatedAt,
		}
		if due.Before(now) {
			info["days_overdue"] = int(now.Sub(due).Hours() / 24)
			overdue = append(overdue, info)
		} else if !due.After(now.AddDate(0, 0, 7)) {
			upcoming = append(upcoming, info)
		}
	}

	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i]["days_overdue"].(int) > overdue[j]["days_overdue"].(int)
	})
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i]["days_difference"].(int) < upcoming[j]["days_difference"].(int)
	})

	overduePct := 0.0
	if active > 0 {
		overduePct = round2(float64(len(overdue)) / float64(active) * 100)
	}
	if overdue == nil {
		overdue = []map[string]any{}
	}
	if upcoming == nil {
		upcoming = []map[string]any{}
	}

	return map[string]any{
		"summary": map[string]any{
			"total_active_tasks": active,
			"overdue_count":      len(overdue),
			"upcoming_count":     len(upcoming),
			"overdue_percentage": overduePct,
		},
		"overdue_tasks":   overdue,
		"upcoming_tasks":  upcoming,
		"recommendations": recommendations(overdue, upcoming),
		"generated_at":    now.Format(time.RFC3339),
	}
}

func recommendations(overdue, upcoming []map[string]any) []string {
	var recs []string
	if len(overdue) > 5 {
		recs = append(recs, "You have many overdue tasks. Consider reviewing and prioritizing them.")
	}
	highPriority := 0
	for _, t := range overdue {
		if t["priority"] == "high" {
			highPriority++
		}
	}
	if highPriority > 0 {
		recs = append(recs, fmt.Sprintf("You have %d high-priority overdue tasks that need immediate attention.", highPriority))
	}
	urgent := 0
	for _, t := range upcoming {
		if d, ok := t["days_difference"].(int); ok && d <= 2 {
			urgent++
		}
	}
	if urgent > 0 {
		recs = append(recs, fmt.Sprintf("You have %d tasks due within 2 days.", urgent))
	}
	if len(overdue) == 0 && len(upcoming) == 0 {
		recs = append(recs, "Great job! No overdue or urgent tasks found.")
	}
	if recs == nil {
		recs = []string{}
	}
	return recs
}

// commonWords are filtered out of topic frequency counts.
var commonWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "can": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "you": true,
	"he": true, "she": true, "it": true, "we": true, "they": true, "me": true,
	"him": true, "her": true, "us": true, "them": true,
}

// ContentInsights reports word statistics, top topics, and writing patterns
// across all notes.
func ContentInsights(notes []upstream.Note) map[string]any {
	if len(notes) == 0 {
		return map[string]any{
			"insights": map[string]any{},
			"message":  "No notes found to analyze",
		}
	}

	totalWords := 0
	totalChars := 0
	frequency := map[string]int{}
	var lengths []int
	categories := map[string]int{}

	for _, n := range notes {
		combined := strings.ToLower(n.Title + " " + n.Content)
		words := strings.Fields(combined)
		lengths = append(lengths, len(words))
		totalWords += len(words)
		totalChars += len(combined)

		for _, w := range words {
			if len(w) > 2 && !commonWords[w] {
				frequency[w]++
			}
		}

		name := "Uncategorized"
		if n.Category != nil && n.Category.Name != "" {
			name = n.Category.Name
		}
		categories[name]++
	}

	avgWords := float64(totalWords) / float64(len(notes))
	avgChars := float64(totalChars) / float64(len(notes))

	sort.Ints(lengths)
	median := lengths[len(lengths)/2]
	shortest := lengths[0]
	longest := lengths[len(lengths)-1]

	type wordCount struct {
		word  string
		count int
	}
	var counts []wordCount
	for w, c := range frequency {
		counts = append(counts, wordCount{w, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})
	topTopics := map[string]int{}
	for i, wc := range counts {
		if i >= 20 {
			break
		}
		topTopics[wc.word] = wc.count
	}

	empty, long, short := 0, 0, 0
	for _, n := range notes {
		contentWords := len(strings.Fields(n.Content))
		if strings.TrimSpace(n.Content) == "" {
			empty++
		}
		if float64(contentWords) > avgWords*2 {
			long++
		}
		if float64(contentWords) < avgWords/2 {
			short++
		}
	}

	return map[string]any{
		"content_statistics": map[string]any{
			"total_notes":                 len(notes),
			"total_words":                 totalWords,
			"total_characters":            totalChars,
			"average_words_per_note":      round2(avgWords),
			"average_characters_per_note": round2(avgChars),
		},
		"note_length_distribution": map[string]any{
			"shortest_note_words": shortest,
			"longest_note_words":  longest,
			"median_note_words":   median,
			"average_note_words":  round2(avgWords),
		},
		"top_topics":            topTopics,
		"category_distribution": categories,
		"writing_patterns": map[string]any{
			"notes_with_no_content":    empty,
			"notes_with_long_content":  long,
			"notes_with_short_content": short,
		},
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}
}
