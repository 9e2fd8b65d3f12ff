package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionHandlerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, false, "", "production"))

	log.Debug("hidden")
	log.Info("goal archived", "goal_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "goal archived", line["msg"])
	assert.EqualValues(t, 7, line["goal_id"])
}

func TestDevelopmentHandlerLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, true, "", "development"))

	log.Debug("entry moved", "entry_id", 3)
	assert.Contains(t, buf.String(), "entry moved")
	assert.Contains(t, buf.String(), "entry_id=3")
}

func TestSentryFanout(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, false, "https://public@o0.ingest.sentry.io/1", "test")

	log := slog.New(h)
	log.Info("fanned out")
	assert.Contains(t, buf.String(), "fanned out")
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
}
