package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortTitle    = "title"
)

var (
	ErrGoalNotFound        = apperr.NotFound("goal not found")
	ErrTrashedGoalNotFound = apperr.NotFound("deleted goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(id int64) (*model.Goal, error)
	Summary(id int64) (*model.GoalSummary, error)
	Summaries(status, sortBy string) ([]*model.GoalSummary, error)
	TrashedSummaries() ([]*model.GoalSummary, error)
	SummariesByIDs(ids []int64) ([]*model.GoalSummary, error)
	Update(id int64, patch model.GoalPatch, now time.Time) error
	Touch(id int64, now time.Time) error
	SoftDelete(id int64, now time.Time) error
	Restore(id int64, now time.Time) error
	Delete(id int64) error
	Archive(id int64, now time.Time) error
	Unarchive(id int64, now time.Time) error
	CountByGoalType(goalTypeID int64) (int, error)
	Stats() (*model.GoalStats, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// goalSummarySelect computes progress and counts with correlated subqueries
// so that joining images never multiplies the delta sum.
const goalSummarySelect = `
	SELECT g.*,
		gt.name AS goal_type_name,
		gt.color AS goal_type_color,
		gt.icon AS goal_type_icon,
		(SELECT COUNT(*) FROM progress_entries pe WHERE pe.goal_id = g.id) AS update_count,
		(SELECT COUNT(*) FROM images i
			JOIN progress_entries pe ON pe.id = i.progress_entry_id
			WHERE pe.goal_id = g.id) AS image_count,
		(SELECT COALESCE(SUM(pe.progress_delta), 0) FROM progress_entries pe WHERE pe.goal_id = g.id) AS progress
	FROM goals g
	LEFT JOIN goal_types gt ON gt.id = g.goal_type_id`

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (goal_type_id, title, description, status, target_date, quarter, year, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		goal.GoalTypeID,
		goal.Title,
		goal.Description,
		goal.Status,
		goal.TargetDate,
		goal.Quarter,
		goal.Year,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return err
	}

	goal.ID, err = result.LastInsertId()
	return err
}

func (r *goalRepository) ByID(id int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = ? AND deleted_at IS NULL`

	err := r.db.Get(goal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Summary(id int64) (*model.GoalSummary, error) {
	summary := &model.GoalSummary{}
	query := goalSummarySelect + ` WHERE g.id = ? AND g.deleted_at IS NULL`

	err := r.db.Get(summary, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *goalRepository) Summaries(status, sortBy string) ([]*model.GoalSummary, error) {
	var goals []*model.GoalSummary

	var orderBy string
	switch sortBy {
	case GoalSortProgress:
		orderBy = ` ORDER BY progress DESC, g.updated_at DESC`
	case GoalSortTitle:
		orderBy = ` ORDER BY LOWER(g.title) ASC`
	default: // GoalSortRecent or empty
		orderBy = ` ORDER BY g.updated_at DESC`
	}

	query := goalSummarySelect + ` WHERE g.deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND g.status = ?`
		args = append(args, status)
	}

	err := r.db.Select(&goals, query+orderBy, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) TrashedSummaries() ([]*model.GoalSummary, error) {
	var goals []*model.GoalSummary
	query := goalSummarySelect + ` WHERE g.deleted_at IS NOT NULL ORDER BY g.deleted_at DESC`

	err := r.db.Select(&goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// SummariesByIDs returns the live goals among ids ordered by goal type, then
// title. Unknown and trashed ids are dropped.
func (r *goalRepository) SummariesByIDs(ids []int64) ([]*model.GoalSummary, error) {
	var goals []*model.GoalSummary
	if len(ids) == 0 {
		return goals, nil
	}

	query, args, err := sqlx.In(goalSummarySelect+` WHERE g.id IN (?) AND g.deleted_at IS NULL ORDER BY g.goal_type_id, g.title`, ids)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&goals, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(id int64, patch model.GoalPatch, now time.Time) error {
	b := newUpdateBuilder("goals")

	if v, ok := patch.Title.Get(); ok {
		b.set("title", v)
	}
	if v, ok := patch.Description.Get(); ok {
		b.set("description", v)
	}
	if v, ok := patch.GoalTypeID.Get(); ok {
		b.set("goal_type_id", v)
	}
	if v, ok := patch.Status.Get(); ok {
		b.set("status", v)
		if v == model.GoalStatusCompleted {
			b.set("completed_at", now)
		}
	}
	if v, ok := patch.TargetDate.Get(); ok {
		b.set("target_date", v)
	}
	if v, ok := patch.Quarter.Get(); ok {
		b.set("quarter", v)
	}
	if v, ok := patch.Year.Get(); ok {
		b.set("year", v)
	}
	b.set("updated_at", now)

	return b.exec(r.db, ErrGoalNotFound, "id = ? AND deleted_at IS NULL", id)
}

func (r *goalRepository) Touch(id int64, now time.Time) error {
	query := `UPDATE goals SET updated_at = ? WHERE id = ?`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalNotFound)
}

func (r *goalRepository) SoftDelete(id int64, now time.Time) error {
	query := `UPDATE goals SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalNotFound)
}

// Restore clears deleted_at and stamps updated_at.
func (r *goalRepository) Restore(id int64, now time.Time) error {
	query := `UPDATE goals SET deleted_at = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NOT NULL`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrTrashedGoalNotFound)
}

// Delete removes a trashed goal. Entries, images, milestones and tag links
// go with it through ON DELETE CASCADE.
func (r *goalRepository) Delete(id int64) error {
	query := `DELETE FROM goals WHERE id = ? AND deleted_at IS NOT NULL`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrTrashedGoalNotFound)
}

func (r *goalRepository) Archive(id int64, now time.Time) error {
	query := `UPDATE goals
	          SET status = ?, completed_at = ?, updated_at = ?
	          WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, model.GoalStatusCompleted, now, now, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalNotFound)
}

func (r *goalRepository) Unarchive(id int64, now time.Time) error {
	query := `UPDATE goals
	          SET status = ?, completed_at = NULL, updated_at = ?
	          WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, model.GoalStatusActive, now, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalNotFound)
}

// CountByGoalType counts every goal referencing the type, trashed ones included.
func (r *goalRepository) CountByGoalType(goalTypeID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE goal_type_id = ?`
	err := r.db.Get(&count, query, goalTypeID)
	return count, err
}

func (r *goalRepository) Stats() (*model.GoalStats, error) {
	stats := &model.GoalStats{}
	query := `
		SELECT
			COUNT(*) AS total_goals,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active_goals,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_goals,
			COALESCE(SUM(CASE WHEN status = 'on_hold' THEN 1 ELSE 0 END), 0) AS on_hold_goals,
			COALESCE(SUM(CASE WHEN status = 'archived' THEN 1 ELSE 0 END), 0) AS archived_goals,
			(SELECT COUNT(*) FROM goals WHERE deleted_at IS NOT NULL) AS trashed_goals,
			COALESCE(AVG(CASE WHEN status = 'active' THEN
				(SELECT COALESCE(SUM(pe.progress_delta), 0) FROM progress_entries pe WHERE pe.goal_id = g.id)
			END), 0.0) AS avg_progress
		FROM goals g
		WHERE g.deleted_at IS NULL`

	err := r.db.Get(stats, query)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
