package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/pfrederiksen/boatrace-odds/internal/config"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier_LogsDedupBackend(t *testing.T) {
	tests := []struct {
		name     string
		redisURL string
		stateDir string
		oneShot  bool
		want     string
	}{
		{"redis", "redis://localhost:6379/0", "", true, dedupRedis},
		{"file for one-shot runs", "", "state", true, dedupFile},
		{"memory when serving", "", "state", false, dedupMemory},
		{"memory without state dir", "", "", true, dedupMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger.SetDefault(logger.New(logger.LevelInfo, &logs))

			cfg := &config.Config{}
			cfg.Upstream.Timeout = time.Second
			cfg.Alert.WebhookURL = "http://127.0.0.1:1/hook"
			cfg.Alert.DedupTTL = time.Minute
			cfg.Alert.RedisURL = tt.redisURL
			if tt.stateDir != "" {
				cfg.Alert.StateDir = t.TempDir()
			}

			a := &app{cfg: cfg}
			n, closeNotifier, err := a.newNotifier(false, tt.oneShot)
			require.NoError(t, err)
			defer closeNotifier()
			require.NotNil(t, n)

			assert.Contains(t, logs.String(), "alert channels configured")
			assert.Contains(t, logs.String(), `"dedup":"`+tt.want+`"`)
		})
	}
}

func TestNewNotifier_NoChannels(t *testing.T) {
	a := &app{cfg: &config.Config{}}

	n, closeNotifier, err := a.newNotifier(false, true)
	require.NoError(t, err)
	closeNotifier()
	assert.Nil(t, n)
}
