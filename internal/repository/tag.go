package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

var (
	ErrTagNotFound       = apperr.NotFound("tag not found")
	ErrTagNameTaken      = apperr.Conflict("tag with this name already exists")
	ErrGoalTagNotFound   = apperr.NotFound("tag not found on this goal")
	ErrGoalTagAlreadySet = apperr.Conflict("tag already added to this goal")
)

type TagRepository interface {
	Create(tag *model.Tag) error
	ByID(id int64) (*model.Tag, error)
	Tags() ([]*model.Tag, error)
	GoalTags(goalID int64) ([]*model.Tag, error)
	Update(id int64, patch model.TagPatch) error
	Delete(id int64) error
	AddToGoal(goalID, tagID int64) error
	RemoveFromGoal(goalID, tagID int64) error
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

const tagSelect = `
	SELECT t.*, (SELECT COUNT(*) FROM goal_tags gt WHERE gt.tag_id = t.id) AS goal_count
	FROM tags t`

func (r *tagRepository) Create(tag *model.Tag) error {
	query := `INSERT INTO tags (name, color) VALUES (?, ?)`

	result, err := r.db.Exec(query, tag.Name, tag.Color)
	if isUniqueViolation(err) {
		return ErrTagNameTaken
	}
	if err != nil {
		return err
	}

	tag.ID, err = result.LastInsertId()
	return err
}

func (r *tagRepository) ByID(id int64) (*model.Tag, error) {
	tag := &model.Tag{}
	query := tagSelect + ` WHERE t.id = ?`

	err := r.db.Get(tag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (r *tagRepository) Tags() ([]*model.Tag, error) {
	var tags []*model.Tag
	query := tagSelect + ` ORDER BY t.name`

	err := r.db.Select(&tags, query)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *tagRepository) GoalTags(goalID int64) ([]*model.Tag, error) {
	var tags []*model.Tag
	query := tagSelect + `
		INNER JOIN goal_tags link ON link.tag_id = t.id
		WHERE link.goal_id = ?
		ORDER BY t.name`

	err := r.db.Select(&tags, query, goalID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *tagRepository) Update(id int64, patch model.TagPatch) error {
	b := newUpdateBuilder("tags")

	if v, ok := patch.Name.Get(); ok {
		b.set("name", v)
	}
	if v, ok := patch.Color.Get(); ok {
		b.set("color", v)
	}

	if b.empty() {
		_, err := r.ByID(id)
		return err
	}

	err := b.exec(r.db, ErrTagNotFound, "id = ?", id)
	if isUniqueViolation(err) {
		return ErrTagNameTaken
	}
	return err
}

// Delete removes the tag; its goal links cascade.
func (r *tagRepository) Delete(id int64) error {
	query := `DELETE FROM tags WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrTagNotFound)
}

func (r *tagRepository) AddToGoal(goalID, tagID int64) error {
	query := `INSERT INTO goal_tags (goal_id, tag_id) VALUES (?, ?)`

	_, err := r.db.Exec(query, goalID, tagID)
	if isUniqueViolation(err) {
		return ErrGoalTagAlreadySet
	}
	return err
}

func (r *tagRepository) RemoveFromGoal(goalID, tagID int64) error {
	query := `DELETE FROM goal_tags WHERE goal_id = ? AND tag_id = ?`

	result, err := r.db.Exec(query, goalID, tagID)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrGoalTagNotFound)
}
