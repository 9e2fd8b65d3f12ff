package service

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image/jpeg"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/imaging"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

func TestAttachStoresBothVariants(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Climb")
	entry := f.entry(t, goal.ID, "Crag day", 10)

	refs, err := f.images.Attach(entry.ID, []ImageUpload{
		{Data: pngImage(t, 200, 100), Caption: ptr("overhang")},
		{Data: pngImage(t, 10, 10)},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "overhang", *refs[0].Caption)
	assert.Nil(t, refs[1].Caption)
	assert.NotEqual(t, refs[0].Filename, refs[1].Filename)

	display, err := f.images.Image(refs[0].Filename, "")
	require.NoError(t, err)
	assert.Equal(t, imaging.MimeType, display.MimeType)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(display.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)

	thumb, err := f.images.Image(refs[0].Filename, model.ImageVariantThumbnail)
	require.NoError(t, err)
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)

	images, err := f.images.Images(entry.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	stored, err := f.progress.Entry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ImageCount)
	assert.Len(t, stored.Images, 2)
}

func TestAttachRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Climb")
	entry := f.entry(t, goal.ID, "Crag day", 10)

	_, err := f.images.Attach(9999, []ImageUpload{{Data: pngImage(t, 10, 10)}})
	assert.ErrorIs(t, err, repository.ErrProgressEntryNotFound)

	_, err = f.images.Attach(entry.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = f.images.Attach(entry.ID, []ImageUpload{
		{Data: pngImage(t, 10, 10)},
		{Data: []byte("not an image")},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	images, err := f.images.Images(entry.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageLookupErrors(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Climb")
	entry := f.entry(t, goal.ID, "Crag day", 10)
	refs, err := f.images.Attach(entry.ID, []ImageUpload{{Data: pngImage(t, 10, 10)}})
	require.NoError(t, err)

	_, err = f.images.Image("missing.jpg", "")
	assert.ErrorIs(t, err, repository.ErrImageNotFound)

	_, err = f.images.Image(refs[0].Filename, "original")
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = f.db.Exec(`UPDATE images SET thumbnail_data = NULL WHERE id = ?`, refs[0].ID)
	require.NoError(t, err)
	_, err = f.images.Image(refs[0].Filename, model.ImageVariantThumbnail)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, f.images.Remove(refs[0].ID))
	assert.ErrorIs(t, f.images.Remove(refs[0].ID), repository.ErrImageNotFound)
}

func TestAttachRejectsOversizedImage(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Climb")
	entry := f.entry(t, goal.ID, "Crag day", 10)

	data := pngImage(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:20], 30000)
	binary.BigEndian.PutUint32(data[20:24], 30000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := f.images.Attach(entry.ID, []ImageUpload{{Data: data}})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	images, err := f.images.Images(entry.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImagesOfTrashedGoalAreFrozen(t *testing.T) {
	f := newFixture(t)
	goal := f.goal(t, "Climb")
	entry := f.entry(t, goal.ID, "Crag day", 10)
	refs, err := f.images.Attach(entry.ID, []ImageUpload{{Data: pngImage(t, 10, 10)}})
	require.NoError(t, err)
	require.NoError(t, f.goals.Delete(goal.ID))

	_, err = f.images.Attach(entry.ID, []ImageUpload{{Data: pngImage(t, 10, 10)}})
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = f.images.Images(entry.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	assert.ErrorIs(t, f.images.Remove(refs[0].ID), repository.ErrGoalNotFound)

	require.NoError(t, f.goals.Restore(goal.ID))
	images, err := f.images.Images(entry.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestImageFilename(t *testing.T) {
	at := time.UnixMilli(1760000000123)
	name := imageFilename(at, 2)
	assert.Regexp(t, regexp.MustCompile(`^1760000000123-2-[0-9a-f]{8}\.jpg$`), name)
}
