package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

var (
	ErrProgressTypeNotFound  = apperr.NotFound("progress type not found")
	ErrProgressTypeNameTaken = apperr.Conflict("progress type with this name already exists")
)

type ProgressTypeRepository interface {
	Create(progressType *model.ProgressType) error
	ByID(id int64) (*model.ProgressType, error)
	ProgressTypes() ([]*model.ProgressType, error)
	Update(id int64, patch model.ProgressTypePatch) error
	Delete(id int64) error
}

type progressTypeRepository struct {
	db *sqlx.DB
}

func NewProgressTypeRepository(db *sqlx.DB) ProgressTypeRepository {
	return &progressTypeRepository{db: db}
}

const progressTypeSelect = `
	SELECT pt.*, (SELECT COUNT(*) FROM progress_entries pe WHERE pe.progress_type_id = pt.id) AS update_count
	FROM progress_types pt`

func (r *progressTypeRepository) Create(progressType *model.ProgressType) error {
	query := `INSERT INTO progress_types (name, description, emoji, created_at) VALUES (?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		progressType.Name,
		progressType.Description,
		progressType.Emoji,
		progressType.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrProgressTypeNameTaken
	}
	if err != nil {
		return err
	}

	progressType.ID, err = result.LastInsertId()
	return err
}

func (r *progressTypeRepository) ByID(id int64) (*model.ProgressType, error) {
	progressType := &model.ProgressType{}
	query := progressTypeSelect + ` WHERE pt.id = ?`

	err := r.db.Get(progressType, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgressTypeNotFound
	}
	if err != nil {
		return nil, err
	}

	return progressType, nil
}

func (r *progressTypeRepository) ProgressTypes() ([]*model.ProgressType, error) {
	var progressTypes []*model.ProgressType
	query := progressTypeSelect + ` ORDER BY pt.name`

	err := r.db.Select(&progressTypes, query)
	if err != nil {
		return nil, err
	}

	return progressTypes, nil
}

func (r *progressTypeRepository) Update(id int64, patch model.ProgressTypePatch) error {
	b := newUpdateBuilder("progress_types")

	if v, ok := patch.Name.Get(); ok {
		b.set("name", v)
	}
	if v, ok := patch.Description.Get(); ok {
		b.set("description", v)
	}
	if v, ok := patch.Emoji.Get(); ok {
		b.set("emoji", v)
	}

	if b.empty() {
		_, err := r.ByID(id)
		return err
	}

	err := b.exec(r.db, ErrProgressTypeNotFound, "id = ?", id)
	if isUniqueViolation(err) {
		return ErrProgressTypeNameTaken
	}
	return err
}

func (r *progressTypeRepository) Delete(id int64) error {
	query := `DELETE FROM progress_types WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrProgressTypeNotFound)
}
