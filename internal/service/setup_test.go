package service

import (
	"bytes"
	"compress/flate"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/db"
	"github.com/templui/goaltrack/internal/export"
	"github.com/templui/goaltrack/internal/imaging"
	"github.com/templui/goaltrack/internal/markdown"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/repository"
	"github.com/templui/goaltrack/internal/storage"
)

type fixture struct {
	db *sqlx.DB

	goalRepo  repository.GoalRepository
	entryRepo repository.ProgressEntryRepository
	imageRepo repository.ImageRepository

	goals         *GoalService
	progress      *ProgressService
	milestones    *MilestoneService
	images        *ImageService
	exports       *ExportService
	tags          *TagService
	goalTypes     *GoalTypeService
	progressTypes *ProgressTypeService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	followLedger bool
	storage      storage.Storage
}

func withoutLedgerEvaluation() fixtureOption {
	return func(c *fixtureConfig) { c.followLedger = false }
}

func withStorage(s storage.Storage) fixtureOption {
	return func(c *fixtureConfig) { c.storage = s }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{followLedger: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := filepath.Join(t.TempDir(), "goals.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	goalRepo := repository.NewGoalRepository(database)
	entryRepo := repository.NewProgressEntryRepository(database)
	imageRepo := repository.NewImageRepository(database)
	milestoneRepo := repository.NewMilestoneRepository(database)
	tagRepo := repository.NewTagRepository(database)
	goalTypeRepo := repository.NewGoalTypeRepository(database)
	progressTypeRepo := repository.NewProgressTypeRepository(database)

	processor := imaging.NewProcessor(
		imaging.Variant{MaxWidth: 64, Quality: 85},
		imaging.Variant{MaxWidth: 16, Quality: 80},
	)

	milestones := NewMilestoneService(milestoneRepo, goalRepo, entryRepo, cfg.followLedger)

	return &fixture{
		db:        database,
		goalRepo:  goalRepo,
		entryRepo: entryRepo,
		imageRepo: imageRepo,

		goals:      NewGoalService(goalRepo, goalTypeRepo, tagRepo, milestones),
		progress:   NewProgressService(entryRepo, goalRepo, progressTypeRepo, imageRepo, milestones),
		milestones: milestones,
		images:     NewImageService(imageRepo, entryRepo, goalRepo, processor),
		exports: NewExportService(goalRepo, entryRepo, imageRepo,
			export.NewComposer(time.UTC), markdown.NewParser(), cfg.storage, flate.BestCompression),
		tags:          NewTagService(tagRepo, goalRepo),
		goalTypes:     NewGoalTypeService(goalTypeRepo, goalRepo),
		progressTypes: NewProgressTypeService(progressTypeRepo, entryRepo),
	}
}

func (f *fixture) goal(t *testing.T, title string) *model.GoalDetail {
	t.Helper()
	goal, err := f.goals.Create(model.NewGoal{Title: title})
	require.NoError(t, err)
	return goal
}

func (f *fixture) entry(t *testing.T, goalID int64, title string, delta int) *model.ProgressEntry {
	t.Helper()
	entry, _, err := f.progress.Append(goalID, model.NewProgressEntry{Title: title, Delta: delta})
	require.NoError(t, err)
	return entry
}

func ptr[T any](v T) *T {
	return &v
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fixedClock returns a clock stuck at the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
