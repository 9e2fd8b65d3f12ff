package model

import (
	"time"
)

const (
	ImageVariantDisplay   = "display"
	ImageVariantThumbnail = "thumbnail"
)

// Image is the metadata of an attachment. Payloads are fetched separately.
type Image struct {
	ID              int64     `db:"id" json:"id"`
	ProgressEntryID int64     `db:"progress_entry_id" json:"progress_entry_id"`
	Filename        string    `db:"filename" json:"filename"`
	MimeType        string    `db:"mime_type" json:"mime_type"`
	Caption         *string   `db:"caption" json:"caption"`
	HasData         bool      `db:"has_data" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type ImageRef struct {
	ID       int64   `json:"id"`
	Filename string  `json:"filename"`
	Caption  *string `json:"caption"`
}

type ImageData struct {
	Data     []byte
	MimeType string
}

// NewImage is a processed attachment ready to be stored.
type NewImage struct {
	ProgressEntryID int64
	Filename        string
	DisplayData     []byte
	ThumbnailData   []byte
	MimeType        string
	Caption         *string
}
