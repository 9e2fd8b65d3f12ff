package model

const DefaultColor = "#3b82f6"

type Tag struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Color     string `db:"color" json:"color"`
	GoalCount int    `db:"goal_count" json:"goal_count"`
}

type TagPatch struct {
	Name  Optional[string]
	Color Optional[string]
}
