package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Values from the file override defaults", func(t *testing.T) {
		// Given: a config file with a few sections
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
admin-key: secret
rooms:
  room-ttl: 30s
  auto-create-on-join: true
rate-limit:
  limit: 1
  window: 1s
persistence:
  driver: sqlite
telemetry:
  otel-endpoint: http://collector:4318
`), 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: file values win and the rest keeps defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "secret", conf.AdminKey)
		assert.Equal(t, 30*time.Second, conf.Rooms.RoomTTL)
		assert.True(t, conf.Rooms.AutoCreateOnJoin)
		assert.Equal(t, time.Minute, conf.Rooms.GCInterval)
		assert.Equal(t, 1, conf.RateLimit.Limit)
		assert.Equal(t, "sqlite", conf.Persistence.Driver)
		assert.Equal(t, 2*time.Second, conf.AI.DecisionTimeout)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "http://collector:4318", conf.Telemetry.Endpoint)
		assert.Equal(t, "tictactoe-coordinator", conf.Telemetry.ServiceName)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}
