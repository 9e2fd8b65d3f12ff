package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

var (
	ErrMilestoneNotFound = apperr.NotFound("milestone not found")
)

type MilestoneRepository interface {
	Create(milestone *model.Milestone) error
	ByID(id int64) (*model.Milestone, error)
	Milestones(goalID int64) ([]*model.Milestone, error)
	Pending(goalID int64, progress int) ([]*model.Milestone, error)
	MarkAchieved(id int64, at time.Time) (bool, error)
	Delete(id int64) error
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

func (r *milestoneRepository) Create(milestone *model.Milestone) error {
	query := `INSERT INTO milestones (goal_id, title, threshold, achieved, achieved_at, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		milestone.GoalID,
		milestone.Title,
		milestone.Threshold,
		milestone.Achieved,
		milestone.AchievedAt,
		milestone.CreatedAt,
	)
	if err != nil {
		return err
	}

	milestone.ID, err = result.LastInsertId()
	return err
}

func (r *milestoneRepository) ByID(id int64) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT * FROM milestones WHERE id = ?`

	err := r.db.Get(milestone, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}

	return milestone, nil
}

func (r *milestoneRepository) Milestones(goalID int64) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones WHERE goal_id = ? ORDER BY threshold, id`

	err := r.db.Select(&milestones, query, goalID)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// Pending returns unachieved milestones whose threshold is reached by progress.
func (r *milestoneRepository) Pending(goalID int64, progress int) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones
	          WHERE goal_id = ? AND achieved = 0 AND threshold <= ?
	          ORDER BY threshold, id`

	err := r.db.Select(&milestones, query, goalID, progress)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// MarkAchieved flips achieved once. It reports false when the milestone was
// already achieved, leaving achieved_at untouched.
func (r *milestoneRepository) MarkAchieved(id int64, at time.Time) (bool, error) {
	query := `UPDATE milestones SET achieved = 1, achieved_at = ? WHERE id = ? AND achieved = 0`

	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *milestoneRepository) Delete(id int64) error {
	query := `DELETE FROM milestones WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrMilestoneNotFound)
}
