package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogFileNameFor(t *testing.T) {
	at := time.Date(2025, 1, 6, 9, 30, 5, 0, time.UTC)

	assert.Equal(t, "prod_2025-01-06_09-30-05.log", logFileNameFor("prod", at))
	assert.Equal(t, "default_2025-01-06_09-30-05.log", logFileNameFor("", at))
}

func TestInitLogger_WritesDebugToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := InitLogger("test", dir, false)
	require.NoError(t, err)

	logger.Debug("engine decision", zap.String("store_id", "s1"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(content))), &line))
	assert.Equal(t, "engine decision", line["msg"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "s1", line["store_id"])
	assert.Equal(t, "test", line["env"])
	assert.Contains(t, line, "timestamp")
}
