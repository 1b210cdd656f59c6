// Package injector wires the runtime together with google/wire.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/arkanoid/internal/config"
	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/geometry"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
	"github.com/zeusync/arkanoid/internal/game"
	"github.com/zeusync/arkanoid/internal/server"
)

// Runtime is everything cmd/arkanoid drives.
type Runtime struct {
	Config  config.Config
	Logger  log.Log
	World   *physics.World
	Session *game.Session
	Server  *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideEventBus,
	ProvideSpace,
	wire.Bind(new(physics.Provider), new(*geometry.Space)),
	ProvideWorld,
	ProvideSession,
	ProvideServer,
	wire.Struct(new(Runtime), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, func()) {
	logger := log.New(cfg.LogLevel())
	return logger, func() { _ = logger.Sync() }
}

// ProvideEventBus returns a bus that traces deliveries and collects metrics
// for /healthz.
func ProvideEventBus(logger log.Log) bus.EventBus {
	events := bus.New()
	events.AddObserver(bus.NewLogObserver(logger))
	return events
}

func ProvideSpace(logger log.Log) *geometry.Space {
	return geometry.NewSpace(geometry.WithLogger(logger))
}

func ProvideWorld(cfg config.Config, provider physics.Provider, events bus.EventBus, logger log.Log) (*physics.World, func(), error) {
	world, err := physics.NewWorld(cfg.Physics, provider,
		physics.WithLogger(logger),
		physics.WithEventBus(events),
	)
	if err != nil {
		return nil, nil, err
	}
	return world, func() { _ = world.Close() }, nil
}

func ProvideSession(cfg config.Config, world *physics.World, space *geometry.Space, logger log.Log) (*game.Session, func(), error) {
	session, err := game.NewSession(cfg, world, space, logger)
	if err != nil {
		return nil, nil, err
	}
	return session, func() { _ = session.Close() }, nil
}

func ProvideServer(cfg config.Config, logger log.Log, events bus.EventBus) (*server.Server, func()) {
	srv := server.New(cfg.Server, logger, server.WithEventMetrics(events))
	return srv, func() { _ = srv.Close() }
}
