package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveDate(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	achieved := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	e := &ProgressEntry{CreatedAt: created}
	assert.Equal(t, created, e.EffectiveDate())

	e.DateAchieved = &achieved
	assert.Equal(t, achieved, e.EffectiveDate())
}

func TestSortEntriesNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	backdated := day(1)

	entries := []*ProgressEntry{
		{ID: 1, CreatedAt: day(5)},
		{ID: 2, CreatedAt: day(9), DateAchieved: &backdated},
		{ID: 3, CreatedAt: day(7)},
		{ID: 4, CreatedAt: day(7)},
	}
	SortEntriesNewestFirst(entries)

	var ids []int64
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{4, 3, 1, 2}, ids)
}

func TestGoalAcceptsEntries(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Goal{Status: GoalStatusActive}).AcceptsEntries())
	assert.True(t, (&Goal{Status: GoalStatusOnHold}).AcceptsEntries())
	assert.False(t, (&Goal{Status: GoalStatusCompleted}).AcceptsEntries())
	assert.False(t, (&Goal{Status: GoalStatusArchived}).AcceptsEntries())
	assert.False(t, (&Goal{Status: GoalStatusActive, DeletedAt: &now}).AcceptsEntries())
}
