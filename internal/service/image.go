package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/imaging"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
)

// ImageUpload is one raw image with its optional caption.
type ImageUpload struct {
	Data    []byte
	Caption *string
}

type ImageService struct {
	repo      repository.ImageRepository
	entryRepo repository.ProgressEntryRepository
	goalRepo  repository.GoalRepository
	processor *imaging.Processor
	now       func() time.Time
}

func NewImageService(
	repo repository.ImageRepository,
	entryRepo repository.ProgressEntryRepository,
	goalRepo repository.GoalRepository,
	processor *imaging.Processor,
) *ImageService {
	return &ImageService{
		repo:      repo,
		entryRepo: entryRepo,
		goalRepo:  goalRepo,
		processor: processor,
		now:       utcNow,
	}
}

// Attach derives the display and thumbnail variants of every upload and
// stores them on the entry. All uploads are processed before any is stored,
// so one undecodable image rejects the batch. The entry's goal must be live.
func (s *ImageService) Attach(entryID int64, uploads []ImageUpload) ([]*model.ImageRef, error) {
	_, err := liveEntry(s.entryRepo, s.goalRepo, entryID)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, apperr.Invalid("no images provided")
	}

	now := s.now()
	images := make([]*model.NewImage, len(uploads))
	for i, upload := range uploads {
		derived, err := s.processor.Derive(upload.Data)
		if err != nil {
			return nil, apperr.Invalidf("image %d could not be processed: %v", i+1, err)
		}

		images[i] = &model.NewImage{
			ProgressEntryID: entryID,
			Filename:        imageFilename(now, i),
			DisplayData:     derived.Display,
			ThumbnailData:   derived.Thumbnail,
			MimeType:        imaging.MimeType,
			Caption:         upload.Caption,
		}
	}

	refs := make([]*model.ImageRef, 0, len(images))
	for _, img := range images {
		id, err := s.repo.Create(img, now)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		refs = append(refs, &model.ImageRef{ID: id, Filename: img.Filename, Caption: img.Caption})
	}

	return refs, nil
}

// Image returns one payload variant. An empty variant means display.
func (s *ImageService) Image(filename, variant string) (*model.ImageData, error) {
	switch variant {
	case "":
		variant = model.ImageVariantDisplay
	case model.ImageVariantDisplay, model.ImageVariantThumbnail:
	default:
		return nil, apperr.Invalidf("unknown image variant %q", variant)
	}

	return s.repo.Data(filename, variant)
}

func (s *ImageService) Images(entryID int64) ([]*model.Image, error) {
	_, err := liveEntry(s.entryRepo, s.goalRepo, entryID)
	if err != nil {
		return nil, err
	}

	return s.repo.Images(entryID)
}

func (s *ImageService) Remove(id int64) error {
	image, err := s.repo.ByID(id)
	if err != nil {
		return err
	}

	_, err = liveEntry(s.entryRepo, s.goalRepo, image.ProgressEntryID)
	if err != nil {
		return err
	}

	return s.repo.Delete(id)
}

// imageFilename is unique per upload: creation millis, batch index and a
// random suffix.
func imageFilename(now time.Time, index int) string {
	return fmt.Sprintf("%d-%d-%s%s", now.UnixMilli(), index, uuid.NewString()[:8], imaging.Extension)
}
