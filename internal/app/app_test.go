package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/goaltrack/internal/config"
	"github.com/templui/goaltrack/internal/model"
	"github.com/templui/goaltrack/internal/service"
)

func TestNewWiresServices(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_CONNECTION", "file:"+filepath.Join(t.TempDir(), "app.db")+"?_pragma=foreign_keys(1)&_time_format=sqlite")
	t.Setenv("S3_BUCKET", "")

	a, err := New(config.Load())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	goal, err := a.GoalService.Create(model.NewGoal{Title: "Learn Piano"})
	require.NoError(t, err)

	_, _, err = a.ProgressService.Append(goal.ID, model.NewProgressEntry{Title: "Scales", Delta: 30})
	require.NoError(t, err)

	progress, err := a.ProgressService.Aggregate(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, progress)

	_, err = a.ExportService.Publish([]int64{goal.ID})
	assert.ErrorIs(t, err, service.ErrPublishingDisabled)
}
