package model

import (
	"sort"
	"time"
)

type ProgressEntry struct {
	ID             int64      `db:"id" json:"id"`
	GoalID         int64      `db:"goal_id" json:"goal_id"`
	ProgressTypeID *int64     `db:"progress_type_id" json:"progress_type_id"`
	Title          string     `db:"title" json:"title"`
	Notes          *string    `db:"notes" json:"notes"`
	ProgressDelta  int        `db:"progress_delta" json:"progress_delta"`
	DateAchieved   *time.Time `db:"date_achieved" json:"date_achieved"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	ImageCount     int        `db:"image_count" json:"image_count"`
	Images         []*Image   `db:"-" json:"images,omitempty"`
}

// IsReflection reports whether the entry carries no progress.
func (e *ProgressEntry) IsReflection() bool {
	return e.ProgressDelta == 0
}

// EffectiveDate is the date used for ordering: date achieved when present,
// creation time otherwise.
func (e *ProgressEntry) EffectiveDate() time.Time {
	if e.DateAchieved != nil {
		return *e.DateAchieved
	}
	return e.CreatedAt
}

// SortEntriesNewestFirst orders entries by effective date descending, ties
// broken by id descending.
func SortEntriesNewestFirst(entries []*ProgressEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].EffectiveDate(), entries[j].EffectiveDate()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return entries[i].ID > entries[j].ID
	})
}

type NewProgressEntry struct {
	Title          string
	Notes          *string
	Delta          int
	DateAchieved   *time.Time
	ProgressTypeID *int64
}

type ProgressEntryPatch struct {
	Title          Optional[string]
	Notes          Optional[*string]
	Delta          Optional[int]
	DateAchieved   Optional[*time.Time]
	ProgressTypeID Optional[*int64]
}

const DefaultProgressEmoji = "📝"

// ProgressType classifies progress entries (e.g. "practice", "lesson").
type ProgressType struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Emoji       string    `db:"emoji" json:"emoji"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdateCount int       `db:"update_count" json:"update_count"`
}

type ProgressTypePatch struct {
	Name        Optional[string]
	Description Optional[*string]
	Emoji       Optional[string]
}
