package model

import (
	"time"
)

// Milestone is a one-way achievement: Achieved never reverts and AchievedAt
// is set exactly when Achieved becomes true.
type Milestone struct {
	ID         int64      `db:"id" json:"id"`
	GoalID     int64      `db:"goal_id" json:"goal_id"`
	Title      string     `db:"title" json:"title"`
	Threshold  int        `db:"threshold" json:"threshold"`
	Achieved   bool       `db:"achieved" json:"achieved"`
	AchievedAt *time.Time `db:"achieved_at" json:"achieved_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
