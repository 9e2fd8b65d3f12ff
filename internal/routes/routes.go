package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/templui/goaltrack/internal/app"
	"github.com/templui/goaltrack/internal/handler"
	"github.com/templui/goaltrack/internal/middleware"
)

// SetupRoutes builds the handler tree. Background work started here ends
// with ctx.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService, app.TagService)
	progress := handler.NewProgressHandler(app.ProgressService)
	milestone := handler.NewMilestoneHandler(app.MilestoneService)
	image := handler.NewImageHandler(app.ImageService, app.Cfg.ImageMaxUploadSize)
	exports := handler.NewExportHandler(app.ExportService)
	taxonomy := handler.NewTaxonomyHandler(app.TagService, app.GoalTypeService, app.ProgressTypeService)

	// Image processing and uploads to object storage are the expensive calls
	uploadLimiter := middleware.RateLimit(ctx, 30, time.Minute, app.Cfg.TrustProxyHeaders)
	publishLimiter := middleware.RateLimit(ctx, 10, time.Minute, app.Cfg.TrustProxyHeaders)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Check)

	// ============================================================================
	// GOALS
	// ============================================================================

	mux.HandleFunc("GET /api/goals", goal.List)
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("GET /api/goals/stats", goal.Stats)
	mux.HandleFunc("GET /api/goals/trash", goal.Trash)
	mux.HandleFunc("GET /api/goals/{id}", goal.Get)
	mux.HandleFunc("PATCH /api/goals/{id}", goal.Update)

	// Lifecycle
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Delete)
	mux.HandleFunc("PATCH /api/goals/{id}/restore", goal.Restore)
	mux.HandleFunc("DELETE /api/goals/{id}/permanent", goal.PermanentDelete)
	mux.HandleFunc("PATCH /api/goals/{id}/archive", goal.Archive)
	mux.HandleFunc("PATCH /api/goals/{id}/unarchive", goal.Unarchive)

	// Tags on goals
	mux.HandleFunc("POST /api/goals/{id}/tags/{tagID}", goal.AddTag)
	mux.HandleFunc("DELETE /api/goals/{id}/tags/{tagID}", goal.RemoveTag)

	// Export
	mux.HandleFunc("POST /api/goals/export", exports.Markdown)
	mux.HandleFunc("POST /api/goals/export-zip", exports.Archive)
	mux.HandleFunc("POST /api/goals/export-preview", exports.Preview)
	mux.HandleFunc("POST /api/goals/export-publish", publishLimiter(exports.Publish))

	// ============================================================================
	// PROGRESS LEDGER
	// ============================================================================

	mux.HandleFunc("GET /api/goals/{id}/progress", progress.List)
	mux.HandleFunc("POST /api/goals/{id}/progress", progress.Create)
	mux.HandleFunc("GET /api/goals/{id}/aggregate", progress.Aggregate)
	mux.HandleFunc("GET /api/progress/{id}", progress.Get)
	mux.HandleFunc("PATCH /api/progress/{id}", progress.Update)
	mux.HandleFunc("PATCH /api/progress/{id}/move", progress.Move)
	mux.HandleFunc("DELETE /api/progress/{id}", progress.Delete)

	// Images
	mux.HandleFunc("GET /api/progress/{id}/images", image.List)
	mux.HandleFunc("POST /api/progress/{id}/images", uploadLimiter(image.Upload))
	mux.HandleFunc("GET /api/images/{filename}", image.Serve)
	mux.HandleFunc("DELETE /api/images/{id}", image.Delete)

	// ============================================================================
	// MILESTONES
	// ============================================================================

	mux.HandleFunc("GET /api/goals/{id}/milestones", milestone.List)
	mux.HandleFunc("POST /api/goals/{id}/milestones", milestone.Create)
	mux.HandleFunc("POST /api/goals/{id}/milestones/evaluate", milestone.Evaluate)
	mux.HandleFunc("DELETE /api/milestones/{id}", milestone.Delete)

	// ============================================================================
	// TAXONOMY
	// ============================================================================

	mux.HandleFunc("GET /api/tags", taxonomy.ListTags)
	mux.HandleFunc("POST /api/tags", taxonomy.CreateTag)
	mux.HandleFunc("GET /api/tags/{id}", taxonomy.GetTag)
	mux.HandleFunc("PATCH /api/tags/{id}", taxonomy.UpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", taxonomy.DeleteTag)

	mux.HandleFunc("GET /api/goal-types", taxonomy.ListGoalTypes)
	mux.HandleFunc("POST /api/goal-types", taxonomy.CreateGoalType)
	mux.HandleFunc("GET /api/goal-types/{id}", taxonomy.GetGoalType)
	mux.HandleFunc("PATCH /api/goal-types/{id}", taxonomy.UpdateGoalType)
	mux.HandleFunc("DELETE /api/goal-types/{id}", taxonomy.DeleteGoalType)

	mux.HandleFunc("GET /api/progress-types", taxonomy.ListProgressTypes)
	mux.HandleFunc("POST /api/progress-types", taxonomy.CreateProgressType)
	mux.HandleFunc("GET /api/progress-types/{id}", taxonomy.GetProgressType)
	mux.HandleFunc("PATCH /api/progress-types/{id}", taxonomy.UpdateProgressType)
	mux.HandleFunc("DELETE /api/progress-types/{id}", taxonomy.DeleteProgressType)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
