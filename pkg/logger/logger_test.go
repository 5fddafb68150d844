package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devraulu/politecrawl/pkg/config"
)

func TestNew_JSONUsesBunyanLevels(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	New(&buf, cfg).Warn("robots fetch failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, 40, entry["level"])
	assert.Equal(t, "politecrawl", entry["name"])
	assert.Equal(t, "robots fetch failed", entry["msg"])
}

func TestNew_RespectsLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	l := New(&buf, cfg)
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Error("shown")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "msg=shown")
}
