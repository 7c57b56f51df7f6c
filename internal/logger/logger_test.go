package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionHandlerWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, false, ""))

	log.Debug("hidden")
	log.Info("goal created", "goal_id", "g1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "goal created", line["msg"])
	assert.Equal(t, "g1", line["goal_id"])
}

func TestDevelopmentHandlerLogsDebugText(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, true, ""))

	log.Debug("toggling step", "step_id", "s1")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "step_id=s1")
}
