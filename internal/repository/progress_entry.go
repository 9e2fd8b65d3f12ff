package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/model"
)

var (
	ErrProgressEntryNotFound = apperr.NotFound("progress entry not found")
)

type ProgressEntryRepository interface {
	Create(entry *model.ProgressEntry) error
	ByID(id int64) (*model.ProgressEntry, error)
	Entries(goalID int64) ([]*model.ProgressEntry, error)
	SumDeltas(goalID int64) (int, error)
	Update(id int64, patch model.ProgressEntryPatch) error
	Move(id, goalID int64) error
	Delete(id int64) error
	CountByProgressType(progressTypeID int64) (int, error)
}

type progressEntryRepository struct {
	db *sqlx.DB
}

func NewProgressEntryRepository(db *sqlx.DB) ProgressEntryRepository {
	return &progressEntryRepository{db: db}
}

const progressEntrySelect = `
	SELECT pe.*,
		(SELECT COUNT(*) FROM images i WHERE i.progress_entry_id = pe.id) AS image_count
	FROM progress_entries pe`

func (r *progressEntryRepository) Create(entry *model.ProgressEntry) error {
	query := `INSERT INTO progress_entries (goal_id, progress_type_id, title, notes, progress_delta, date_achieved, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		entry.GoalID,
		entry.ProgressTypeID,
		entry.Title,
		entry.Notes,
		entry.ProgressDelta,
		entry.DateAchieved,
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	entry.ID, err = result.LastInsertId()
	return err
}

func (r *progressEntryRepository) ByID(id int64) (*model.ProgressEntry, error) {
	entry := &model.ProgressEntry{}
	query := progressEntrySelect + ` WHERE pe.id = ?`

	err := r.db.Get(entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgressEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Entries returns a goal's entries newest first by effective date.
func (r *progressEntryRepository) Entries(goalID int64) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := progressEntrySelect + ` WHERE pe.goal_id = ?`

	err := r.db.Select(&entries, query, goalID)
	if err != nil {
		return nil, err
	}

	model.SortEntriesNewestFirst(entries)
	return entries, nil
}

func (r *progressEntryRepository) SumDeltas(goalID int64) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(progress_delta), 0) FROM progress_entries WHERE goal_id = ?`
	err := r.db.Get(&total, query, goalID)
	return total, err
}

func (r *progressEntryRepository) Update(id int64, patch model.ProgressEntryPatch) error {
	b := newUpdateBuilder("progress_entries")

	if v, ok := patch.Title.Get(); ok {
		b.set("title", v)
	}
	if v, ok := patch.Notes.Get(); ok {
		b.set("notes", v)
	}
	if v, ok := patch.Delta.Get(); ok {
		b.set("progress_delta", v)
	}
	if v, ok := patch.DateAchieved.Get(); ok {
		b.set("date_achieved", v)
	}
	if v, ok := patch.ProgressTypeID.Get(); ok {
		b.set("progress_type_id", v)
	}

	if b.empty() {
		_, err := r.ByID(id)
		return err
	}

	return b.exec(r.db, ErrProgressEntryNotFound, "id = ?", id)
}

// Move reassigns the entry to another goal in a single statement.
func (r *progressEntryRepository) Move(id, goalID int64) error {
	query := `UPDATE progress_entries SET goal_id = ? WHERE id = ?`

	result, err := r.db.Exec(query, goalID, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrProgressEntryNotFound)
}

func (r *progressEntryRepository) Delete(id int64) error {
	query := `DELETE FROM progress_entries WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrProgressEntryNotFound)
}

func (r *progressEntryRepository) CountByProgressType(progressTypeID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM progress_entries WHERE progress_type_id = ?`
	err := r.db.Get(&count, query, progressTypeID)
	return count, err
}
