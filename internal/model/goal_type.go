package model

import (
	"time"
)

const DefaultGoalIcon = "🎯"

type GoalType struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	GoalCount   int       `db:"goal_count" json:"goal_count"`
}

type GoalTypePatch struct {
	Name        Optional[string]
	Description Optional[*string]
	Color       Optional[string]
	Icon        Optional[string]
}
