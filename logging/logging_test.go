package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := New("info", format)
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zap.DebugLevel))
		assert.True(t, log.Core().Enabled(zap.InfoLevel))
	}
}

func TestNew_Rejects(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestBuild_JSONFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := build("debug", "json", []string{path})
	require.NoError(t, err)
	log.Info("run finished", zap.String("run_id", "abc"), zap.Float64("final_balance", 104.79))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "run finished", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, 104.79, entry["final_balance"])
}
