package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/enthus-golang/cloudprint/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug level", cfg: config.LogConfig{Level: "debug"}, wantDebug: true, wantInfo: true},
		{name: "upper case level", cfg: config.LogConfig{Level: "WARN"}, wantDebug: false, wantInfo: false},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "chatty"}, wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.wantInfo, logger.Core().Enabled(zap.InfoLevel))
		})
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudprint.log")

	logger, err := New(config.LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("job submitted", zap.String("job_id", "J1"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "job submitted", entry["message"])
	assert.Equal(t, "J1", entry["job_id"])
	assert.Equal(t, "INFO", entry["level"])
}
