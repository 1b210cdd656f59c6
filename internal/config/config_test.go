package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
physics:
  ball_speed: 10
  fixed_delta_time: 16ms
  collision_mask: 11
arena:
  width: 24
server:
  enabled: true
  port: 9000
log:
  level: debug
levels: [a.yaml, b.yaml]
`))
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Physics.BallSpeed)
	assert.Equal(t, 16*time.Millisecond, cfg.Physics.FixedDeltaTime)
	assert.Equal(t, physics.LayerDefault|physics.LayerBricks|physics.LayerBounds, cfg.Physics.CollisionMask)
	assert.Equal(t, physics.DefaultSettings().BallSpeedMax, cfg.Physics.BallSpeedMax)
	assert.Equal(t, 24.0, cfg.Arena.Width)
	assert.Equal(t, Default().Arena.Height, cfg.Arena.Height)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, log.LevelDebug, cfg.LogLevel())
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Levels)
}

func TestDecodeEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("physics:\n  gravity: 9.8\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gravity")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Physics.BallRadius = -1
	cfg.Arena.Width = 2
	cfg.Paddle.Y = 100
	cfg.Server.Enabled = true
	cfg.Server.Port = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, physics.ErrInvalidSettings)
	for _, want := range []string{"ball_radius", "paddle.width", "paddle.y", "server.port", "log.level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arkanoid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paddle:\n  width: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Paddle.Width)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "arkanoid.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Levels)
}
