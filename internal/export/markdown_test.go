package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func day(d int) *time.Time {
	t := time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func pianoSection() Section {
	goal := &model.GoalSummary{
		Goal: model.Goal{
			ID:          1,
			Title:       "Learn Piano",
			Description: ptr("Play a full piece\nfrom memory"),
			Status:      model.GoalStatusOnHold,
			TargetDate:  day(31),
			Quarter:     ptr("Q1"),
			Year:        ptr(2026),
		},
		GoalTypeName: ptr("Music"),
		GoalTypeIcon: ptr("🎹"),
		Progress:     50,
	}

	entries := []*model.ProgressEntry{
		{ID: 1, Title: "First lesson", ProgressDelta: 30, DateAchieved: day(1), ImageCount: 2},
		{ID: 2, Title: "Quiet week", Notes: ptr("practiced today\nscales only"), ProgressDelta: 0, DateAchieved: day(5)},
		{ID: 3, Title: "Recital | part 1", ProgressDelta: 20, DateAchieved: day(10)},
	}
	model.SortEntriesNewestFirst(entries)

	return Section{Goal: goal, Entries: entries}
}

func TestMarkdownRendersGoalSection(t *testing.T) {
	c := NewComposer(time.UTC)
	doc := c.Markdown(Document{
		ExportedAt: time.Date(2026, time.April, 2, 8, 30, 0, 0, time.UTC),
		Sections:   []Section{pianoSection()},
	})

	assert.True(t, strings.HasPrefix(doc, "---\ntitle: \"Goals Export\"\nexported_at: 2026-04-02T08:30:00Z\ngoal_count: 1\n---\n"))
	assert.Contains(t, doc, "# Goals Export")
	assert.Contains(t, doc, "## 🎹 Learn Piano")
	assert.Contains(t, doc, "> Play a full piece\n> from memory\n")
	assert.Contains(t, doc, "- **Status:** On Hold\n")
	assert.Contains(t, doc, "- **Progress:** 50%\n")
	assert.Contains(t, doc, "- **Target date:** Mar 31, 2026\n")
	assert.Contains(t, doc, "- **Period:** Q1 2026\n")

	assert.Contains(t, doc, "| 3 | Mar 10, 2026 | Recital \\| part 1 | +20% |  |  |\n")
	assert.Contains(t, doc, "| 2 | Mar 5, 2026 | 💭 Quiet week | - |  | practiced today<br>scales only |\n")
	assert.Contains(t, doc, "| 1 | Mar 1, 2026 | First lesson | +30% | 📷 2 |  |\n")

	// newest first
	assert.Less(t, strings.Index(doc, "| 3 |"), strings.Index(doc, "| 2 |"))
	assert.Less(t, strings.Index(doc, "| 2 |"), strings.Index(doc, "| 1 |"))

	assert.NotContains(t, doc, "Attached Images")
}

func TestMarkdownUsesDisplayLocation(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*60*60)
	c := NewComposer(loc)

	section := pianoSection()
	section.Entries = []*model.ProgressEntry{
		{ID: 9, Title: "Late", ProgressDelta: 5, DateAchieved: ptr(time.Date(2026, time.March, 2, 3, 0, 0, 0, time.UTC))},
	}

	doc := c.Markdown(Document{ExportedAt: time.Now(), Sections: []Section{section}})
	assert.Contains(t, doc, "| 1 | Mar 1, 2026 | Late | +5% |")
}

func TestMarkdownDefaultsAndEmptySections(t *testing.T) {
	c := NewComposer(nil)

	goal := &model.GoalSummary{Goal: model.Goal{Title: "Untyped", Status: model.GoalStatusActive}}
	doc := c.Markdown(Document{ExportedAt: time.Now(), Sections: []Section{{Goal: goal}}})

	assert.Contains(t, doc, "## 🎯 Untyped")
	assert.Contains(t, doc, "_No progress updates yet._")
	assert.NotContains(t, doc, "Target date")
	assert.NotContains(t, doc, "Period")

	empty := c.Markdown(Document{ExportedAt: time.Now()})
	assert.Contains(t, empty, "goal_count: 0")
	assert.Contains(t, empty, "_No goals selected._")
}

func TestMarkdownAttachedImages(t *testing.T) {
	c := NewComposer(time.UTC)
	section := pianoSection()
	section.Attachments = map[int64][]Attachment{
		1: {
			{Filename: "a.jpg", Caption: ptr("Sheet [music]")},
			{Filename: "b.jpg"},
		},
	}

	doc := c.Markdown(Document{ExportedAt: time.Now(), Sections: []Section{section}})

	require.Contains(t, doc, "### Attached Images")
	assert.Contains(t, doc, "#### 1. First lesson")
	assert.Contains(t, doc, "![Sheet \\[music\\]](images/a.jpg)\n*Sheet [music]*\n")
	assert.Contains(t, doc, "![b.jpg](images/b.jpg)\n")
	assert.NotContains(t, doc, "#### 3.")
}

func TestStatusLabelAndDelta(t *testing.T) {
	assert.Equal(t, "Active", StatusLabel(model.GoalStatusActive))
	assert.Equal(t, "On Hold", StatusLabel(model.GoalStatusOnHold))

	assert.Equal(t, "+15%", Delta(15))
	assert.Equal(t, "-", Delta(0))
	assert.Equal(t, "-", Delta(-10))
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "Q2", period(ptr("Q2"), nil))
	assert.Equal(t, "2027", period(nil, ptr(2027)))
	assert.Equal(t, "", period(nil, nil))
}
