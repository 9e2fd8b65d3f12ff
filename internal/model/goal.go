package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusOnHold    = "on_hold"
	GoalStatusArchived  = "archived"
)

var GoalStatuses = []string{GoalStatusActive, GoalStatusCompleted, GoalStatusOnHold, GoalStatusArchived}

var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

type Goal struct {
	ID          int64      `db:"id" json:"id"`
	GoalTypeID  *int64     `db:"goal_type_id" json:"goal_type_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	TargetDate  *time.Time `db:"target_date" json:"target_date"`
	Quarter     *string    `db:"quarter" json:"quarter"`
	Year        *int       `db:"year" json:"year"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at"`
}

// IsLive reports whether the goal is outside the trash.
func (g *Goal) IsLive() bool {
	return g.DeletedAt == nil
}

// AcceptsEntries reports whether progress entries may be moved onto the goal.
func (g *Goal) AcceptsEntries() bool {
	return g.IsLive() && g.Status != GoalStatusArchived && g.Status != GoalStatusCompleted
}

// GoalSummary is a goal joined with its type and the values computed from
// its progress entries. Progress is the sum of entry deltas at read time.
type GoalSummary struct {
	Goal
	GoalTypeName  *string `db:"goal_type_name" json:"goal_type_name"`
	GoalTypeColor *string `db:"goal_type_color" json:"goal_type_color"`
	GoalTypeIcon  *string `db:"goal_type_icon" json:"goal_type_icon"`
	UpdateCount   int     `db:"update_count" json:"update_count"`
	ImageCount    int     `db:"image_count" json:"image_count"`
	Progress      int     `db:"progress" json:"progress"`
}

// GoalDetail is a summary plus its tags and milestones.
type GoalDetail struct {
	GoalSummary
	Tags       []*Tag       `json:"tags"`
	Milestones []*Milestone `json:"milestones"`
}

type NewGoal struct {
	GoalTypeID  *int64
	Title       string
	Description *string
	TargetDate  *time.Time
	Quarter     *string
	Year        *int
}

// GoalPatch lists the goal fields an update may touch. Progress is not
// stored; setting it runs milestone evaluation with that value.
type GoalPatch struct {
	Title       Optional[string]
	Description Optional[*string]
	GoalTypeID  Optional[*int64]
	Status      Optional[string]
	Progress    Optional[int]
	TargetDate  Optional[*time.Time]
	Quarter     Optional[*string]
	Year        Optional[*int]
}

type GoalStats struct {
	TotalGoals     int     `db:"total_goals" json:"total_goals"`
	ActiveGoals    int     `db:"active_goals" json:"active_goals"`
	CompletedGoals int     `db:"completed_goals" json:"completed_goals"`
	OnHoldGoals    int     `db:"on_hold_goals" json:"on_hold_goals"`
	ArchivedGoals  int     `db:"archived_goals" json:"archived_goals"`
	TrashedGoals   int     `db:"trashed_goals" json:"trashed_goals"`
	AvgProgress    float64 `db:"avg_progress" json:"avg_progress"`
}
