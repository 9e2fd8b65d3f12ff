package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltrack/internal/config"
	"github.com/templui/goaltrack/internal/db"
	"github.com/templui/goaltrack/internal/export"
	"github.com/templui/goaltrack/internal/imaging"
	"github.com/templui/goaltrack/internal/markdown"
	"github.com/templui/goaltrack/internal/repository"
	"github.com/templui/goaltrack/internal/service"
	"github.com/templui/goaltrack/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	GoalService         *service.GoalService
	ProgressService     *service.ProgressService
	MilestoneService    *service.MilestoneService
	ImageService        *service.ImageService
	ExportService       *service.ExportService
	TagService          *service.TagService
	GoalTypeService     *service.GoalTypeService
	ProgressTypeService *service.ProgressTypeService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Storage is only needed for publishing exports
	var exportStorage storage.Storage
	if cfg.PublishingEnabled() {
		exportStorage, err = storage.New(cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	}

	return build(cfg, database, exportStorage), nil
}

func build(cfg *config.Config, database *sqlx.DB, exportStorage storage.Storage) *App {
	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	progressEntryRepository := repository.NewProgressEntryRepository(database)
	imageRepository := repository.NewImageRepository(database)
	milestoneRepository := repository.NewMilestoneRepository(database)
	tagRepository := repository.NewTagRepository(database)
	goalTypeRepository := repository.NewGoalTypeRepository(database)
	progressTypeRepository := repository.NewProgressTypeRepository(database)

	processor := imaging.NewProcessor(
		imaging.Variant{MaxWidth: cfg.ImageMaxWidth, Quality: cfg.ImageQuality},
		imaging.Variant{MaxWidth: cfg.ThumbnailMaxWidth, Quality: cfg.ThumbnailQuality},
	)

	// Services
	milestoneService := service.NewMilestoneService(
		milestoneRepository,
		goalRepository,
		progressEntryRepository,
		cfg.MilestonesFollowLedger,
	)
	goalService := service.NewGoalService(goalRepository, goalTypeRepository, tagRepository, milestoneService)
	progressService := service.NewProgressService(
		progressEntryRepository,
		goalRepository,
		progressTypeRepository,
		imageRepository,
		milestoneService,
	)
	imageService := service.NewImageService(imageRepository, progressEntryRepository, goalRepository, processor)
	exportService := service.NewExportService(
		goalRepository,
		progressEntryRepository,
		imageRepository,
		export.NewComposer(cfg.DisplayTimezone),
		markdown.NewParser(),
		exportStorage,
		cfg.ExportCompressionLevel,
	)
	tagService := service.NewTagService(tagRepository, goalRepository)
	goalTypeService := service.NewGoalTypeService(goalTypeRepository, goalRepository)
	progressTypeService := service.NewProgressTypeService(progressTypeRepository, progressEntryRepository)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		GoalService:         goalService,
		ProgressService:     progressService,
		MilestoneService:    milestoneService,
		ImageService:        imageService,
		ExportService:       exportService,
		TagService:          tagService,
		GoalTypeService:     goalTypeService,
		ProgressTypeService: progressTypeService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
