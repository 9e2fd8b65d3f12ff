package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

var (
	ErrGoalTypeNotFound  = apperr.NotFound("goal type not found")
	ErrGoalTypeNameTaken = apperr.Conflict("goal type with this name already exists")
)

type GoalTypeRepository interface {
	Create(goalType *model.GoalType) error
	ByID(id int64) (*model.GoalType, error)
	GoalTypes() ([]*model.GoalType, error)
	Update(id int64, patch model.GoalTypePatch) error
	Delete(id int64) error
}

type goalTypeRepository struct {
	db *sqlx.DB
}

func NewGoalTypeRepository(db *sqlx.DB) GoalTypeRepository {
	return &goalTypeRepository{db: db}
}

const goalTypeSelect = `
	SELECT gt.*, (SELECT COUNT(*) FROM goals g WHERE g.goal_type_id = gt.id) AS goal_count
	FROM goal_types gt`

func (r *goalTypeRepository) Create(goalType *model.GoalType) error {
	query := `INSERT INTO goal_types (name, description, color, icon, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		goalType.Name,
		goalType.Description,
		goalType.Color,
		goalType.Icon,
		goalType.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrGoalTypeNameTaken
	}
	if err != nil {
		return err
	}

	goalType.ID, err = result.LastInsertId()
	return err
}

func (r *goalTypeRepository) ByID(id int64) (*model.GoalType, error) {
	goalType := &model.GoalType{}
	query := goalTypeSelect + ` WHERE gt.id = ?`

	err := r.db.Get(goalType, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalTypeNotFound
	}
	if err != nil {
		return nil, err
	}

	return goalType, nil
}

func (r *goalTypeRepository) GoalTypes() ([]*model.GoalType, error) {
	var goalTypes []*model.GoalType
	query := goalTypeSelect + ` ORDER BY gt.name`

	err := r.db.Select(&goalTypes, query)
	if err != nil {
		return nil, err
	}

	return goalTypes, nil
}

func (r *goalTypeRepository) Update(id int64, patch model.GoalTypePatch) error {
	b := newUpdateBuilder("goal_types")

	if v, ok := patch.Name.Get(); ok {
		b.set("name", v)
	}
	if v, ok := patch.Description.Get(); ok {
		b.set("description", v)
	}
	if v, ok := patch.Color.Get(); ok {
		b.set("color", v)
	}
	if v, ok := patch.Icon.Get(); ok {
		b.set("icon", v)
	}

	if b.empty() {
		_, err := r.ByID(id)
		return err
	}

	err := b.exec(r.db, ErrGoalTypeNotFound, "id = ?", id)
	if isUniqueViolation(err) {
		return ErrGoalTypeNameTaken
	}
	return err
}

func (r *goalTypeRepository) Delete(id int64) error {
	query := `DELETE FROM goal_types WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalTypeNotFound)
}
