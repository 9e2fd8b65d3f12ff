package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/export"
	"github.com/templui/goaltrack/internal/markdown"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
	"github.com/templui/goaltrack/internal/storage"
)

var ErrPublishingDisabled = apperr.New(apperr.CodeUnavailable, "export publishing is not configured")

// PublishedExport is an archive uploaded to object storage.
type PublishedExport struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type ExportService struct {
	goalRepo         repository.GoalRepository
	entryRepo        repository.ProgressEntryRepository
	imageRepo        repository.ImageRepository
	composer         *export.Composer
	parser           *markdown.Parser
	storage          storage.Storage
	compressionLevel int
	now              func() time.Time
}

// NewExportService creates the export composer. store may be nil, in which
// case Publish reports ErrPublishingDisabled.
func NewExportService(
	goalRepo repository.GoalRepository,
	entryRepo repository.ProgressEntryRepository,
	imageRepo repository.ImageRepository,
	composer *export.Composer,
	parser *markdown.Parser,
	store storage.Storage,
	compressionLevel int,
) *ExportService {
	return &ExportService{
		goalRepo:         goalRepo,
		entryRepo:        entryRepo,
		imageRepo:        imageRepo,
		composer:         composer,
		parser:           parser,
		storage:          store,
		compressionLevel: compressionLevel,
		now:              utcNow,
	}
}

// Markdown renders the selected goals. Ids that are unknown or trashed are
// skipped.
func (s *ExportService) Markdown(goalIDs []int64) (string, error) {
	sections, err := s.sections(goalIDs)
	if err != nil {
		return "", err
	}

	return s.composer.Markdown(export.Document{
		ExportedAt: s.now(),
		Sections:   sections,
	}), nil
}

// WriteArchive streams a zip holding the Markdown document and the display
// payload of every attached image. An image without a payload is logged and
// left out of both the archive and the document.
func (s *ExportService) WriteArchive(w io.Writer, goalIDs []int64) error {
	sections, err := s.sections(goalIDs)
	if err != nil {
		return err
	}

	now := s.now()
	archive, err := export.NewArchive(w, s.compressionLevel, now)
	if err != nil {
		return err
	}

	for i := range sections {
		err = s.addImages(archive, &sections[i])
		if err != nil {
			return err
		}
	}

	doc := s.composer.Markdown(export.Document{ExportedAt: now, Sections: sections})
	err = archive.AddMarkdown(doc)
	if err != nil {
		return err
	}

	return archive.Close()
}

// PreviewHTML renders the Markdown export as HTML.
func (s *ExportService) PreviewHTML(goalIDs []int64) ([]byte, error) {
	doc, err := s.Markdown(goalIDs)
	if err != nil {
		return nil, err
	}

	html, err := s.parser.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to render export preview: %w", err)
	}
	return html, nil
}

// Publish uploads an archive of the selected goals and returns a presigned
// download link.
func (s *ExportService) Publish(goalIDs []int64) (*PublishedExport, error) {
	if s.storage == nil {
		return nil, ErrPublishingDisabled
	}

	var buf bytes.Buffer
	err := s.WriteArchive(&buf, goalIDs)
	if err != nil {
		return nil, err
	}

	filename := export.Filename(s.now(), ".zip")
	key := "exports/" + filename

	err = s.storage.Save(key, &buf, "application/zip")
	if err != nil {
		return nil, fmt.Errorf("failed to publish export: %w", err)
	}

	url, err := s.storage.URL(key)
	if err != nil {
		// An unreachable object is useless, drop it.
		deleteErr := s.storage.Delete(key)
		if deleteErr != nil {
			slog.Error("failed to remove unsigned export", "error", deleteErr, "key", key)
		}
		return nil, fmt.Errorf("failed to sign export URL: %w", err)
	}

	return &PublishedExport{Key: key, Filename: filename, URL: url}, nil
}

func (s *ExportService) sections(goalIDs []int64) ([]export.Section, error) {
	goals, err := s.goalRepo.SummariesByIDs(uniqueIDs(goalIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load goals for export: %w", err)
	}

	sections := make([]export.Section, 0, len(goals))
	for _, goal := range goals {
		entries, err := s.entryRepo.Entries(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress entries for export: %w", err)
		}
		sections = append(sections, export.Section{Goal: goal, Entries: entries})
	}

	return sections, nil
}

func (s *ExportService) addImages(archive *export.Archive, section *export.Section) error {
	ids := make([]int64, 0, len(section.Entries))
	for _, e := range section.Entries {
		if e.ImageCount > 0 {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	images, err := s.imageRepo.ImagesByEntries(ids)
	if err != nil {
		return fmt.Errorf("failed to load images for export: %w", err)
	}

	section.Attachments = make(map[int64][]export.Attachment)
	for _, img := range images {
		data, err := s.payload(img)
		if err != nil {
			return err
		}
		if data == nil {
			continue
		}

		err = archive.AddImage(img.Filename, data)
		if err != nil {
			return err
		}
		section.Attachments[img.ProgressEntryID] = append(section.Attachments[img.ProgressEntryID], export.Attachment{
			Filename: img.Filename,
			Caption:  img.Caption,
		})
	}

	return nil
}

// payload returns nil for images that have no stored bytes.
func (s *ExportService) payload(img *model.Image) ([]byte, error) {
	if img.HasData {
		data, err := s.imageRepo.Data(img.Filename, model.ImageVariantDisplay)
		if err == nil {
			return data.Data, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("failed to load image for export: %w", err)
		}
	}

	slog.Warn("skipping image without data in export",
		"image_id", img.ID,
		"filename", img.Filename,
		"entry_id", img.ProgressEntryID,
	)
	return nil, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
