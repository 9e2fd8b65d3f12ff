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
	ErrImageNotFound = apperr.NotFound("image not found")
)

type ImageRepository interface {
	Create(image *model.NewImage, createdAt time.Time) (int64, error)
	ByID(id int64) (*model.Image, error)
	Images(entryID int64) ([]*model.Image, error)
	ImagesByEntries(entryIDs []int64) ([]*model.Image, error)
	Data(filename, variant string) (*model.ImageData, error)
	Delete(id int64) error
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

const imageSelect = `
	SELECT id, progress_entry_id, filename, mime_type, caption, created_at,
		display_data IS NOT NULL AS has_data
	FROM images`

func (r *imageRepository) Create(image *model.NewImage, createdAt time.Time) (int64, error) {
	query := `INSERT INTO images (progress_entry_id, filename, display_data, thumbnail_data, mime_type, caption, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		image.ProgressEntryID,
		image.Filename,
		image.DisplayData,
		image.ThumbnailData,
		image.MimeType,
		image.Caption,
		createdAt,
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (r *imageRepository) ByID(id int64) (*model.Image, error) {
	image := &model.Image{}
	query := imageSelect + ` WHERE id = ?`

	err := r.db.Get(image, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (r *imageRepository) Images(entryID int64) ([]*model.Image, error) {
	var images []*model.Image
	query := imageSelect + ` WHERE progress_entry_id = ? ORDER BY id`

	err := r.db.Select(&images, query, entryID)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) ImagesByEntries(entryIDs []int64) ([]*model.Image, error) {
	var images []*model.Image
	if len(entryIDs) == 0 {
		return images, nil
	}

	query, args, err := sqlx.In(imageSelect+` WHERE progress_entry_id IN (?) ORDER BY id`, entryIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&images, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return images, nil
}

// Data loads one payload variant. A row whose payload is NULL is reported
// as not found.
func (r *imageRepository) Data(filename, variant string) (*model.ImageData, error) {
	column := "display_data"
	if variant == model.ImageVariantThumbnail {
		column = "thumbnail_data"
	}

	var row struct {
		Data     []byte `db:"data"`
		MimeType string `db:"mime_type"`
	}
	query := `SELECT ` + column + ` AS data, mime_type FROM images WHERE filename = ?`

	err := r.db.Get(&row, query, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.Data == nil {
		return nil, apperr.NotFoundf("image %s has no %s payload", filename, variant)
	}

	return &model.ImageData{Data: row.Data, MimeType: row.MimeType}, nil
}

func (r *imageRepository) Delete(id int64) error {
	query := `DELETE FROM images WHERE id = ?`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, ErrImageNotFound)
}
