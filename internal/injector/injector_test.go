package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arkanoid/internal/config"
	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/physics"
	"github.com/zeusync/arkanoid/internal/game"
)

func TestInitializeRuntime(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "silent"

	rt, cleanup, err := InitializeRuntime(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Physics, rt.World.Settings())
	assert.Equal(t, game.StateIdle, rt.Session.State())
	// walls, death zone and paddle
	assert.Equal(t, 5, rt.World.Registry().Len())
	assert.Equal(t, 1, rt.World.Events().SubscriberCount(physics.EventBallLost))

	require.NoError(t, rt.World.Events().Publish(bus.NewEvent("injector.test", "test", nil)))
	events := rt.Server.Stats().Events
	require.NotNil(t, events, "the server reports the world's bus")
	assert.Equal(t, uint64(1), events.Published)

	cleanup()
	assert.Zero(t, rt.World.Registry().Len())
	assert.Zero(t, rt.World.Events().SubscriberCount(physics.EventBallLost))
}

func TestInitializeRuntimeRejectsBadPhysics(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "silent"
	cfg.Physics.BallRadius = 0

	_, _, err := InitializeRuntime(cfg)
	assert.ErrorIs(t, err, physics.ErrInvalidSettings)
}
