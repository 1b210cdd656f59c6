package game

import (
	"slices"

	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

// BallManager spawns balls into a world and retires the ones the world
// reports lost.
type BallManager struct {
	world  *physics.World
	logger log.Log
	active []*Ball
	lost   bus.Subscription

	onSpawned []func(*Ball)
	onLost    []func(*Ball)
	onAllLost []func()
}

func NewBallManager(world *physics.World, logger log.Log) (*BallManager, error) {
	m := &BallManager{world: world, logger: logger}
	sub, err := world.OnBallLost(m.handleLost)
	if err != nil {
		return nil, err
	}
	m.lost = sub
	return m, nil
}

func (m *BallManager) OnBallSpawned(fn func(*Ball)) { m.onSpawned = append(m.onSpawned, fn) }
func (m *BallManager) OnBallLost(fn func(*Ball))    { m.onLost = append(m.onLost, fn) }
func (m *BallManager) OnAllBallsLost(fn func())     { m.onAllLost = append(m.onAllLost, fn) }

// Spawn creates a held ball at position using the world's ball settings.
func (m *BallManager) Spawn(position physics.Vec2) (*Ball, error) {
	s := m.world.Settings()
	ball := NewBall(position, s.BallRadius, s.BallSpeed)
	if err := ball.Attach(m.world); err != nil {
		return nil, err
	}
	m.active = append(m.active, ball)
	m.logger.Debug("ball spawned", log.Stringer("id", ball.ID()))
	for _, fn := range m.onSpawned {
		fn(ball)
	}
	return ball, nil
}

// SpawnOnPaddle spawns a ball riding offset above paddle.
func (m *BallManager) SpawnOnPaddle(paddle *Paddle, offset float64) (*Ball, error) {
	ball, err := m.Spawn(paddle.Position().Add(physics.Vec2{Y: offset}))
	if err != nil {
		return nil, err
	}
	ball.HoldOn(paddle, offset)
	return ball, nil
}

func (m *BallManager) handleLost(body physics.Body) {
	ball, ok := body.(*Ball)
	if !ok || !slices.Contains(m.active, ball) {
		return
	}
	ball.Detach()
	m.active = slices.DeleteFunc(m.active, func(b *Ball) bool { return b == ball })
	m.logger.Info("ball lost",
		log.Stringer("id", ball.ID()),
		log.Int("remaining", len(m.active)),
	)

	for _, fn := range m.onLost {
		fn(ball)
	}
	if len(m.active) == 0 {
		for _, fn := range m.onAllLost {
			fn()
		}
	}
}

// StopAll puts every ball on hold.
func (m *BallManager) StopAll() {
	for _, b := range m.active {
		b.Stop()
	}
}

// RemoveAll detaches every ball without reporting them lost.
func (m *BallManager) RemoveAll() {
	for _, b := range m.active {
		b.Detach()
	}
	m.active = nil
}

// Close removes every ball and stops listening to the world.
func (m *BallManager) Close() error {
	m.RemoveAll()
	return m.lost.Cancel()
}

func (m *BallManager) ActiveCount() int { return len(m.active) }

// Balls returns a copy of the live balls.
func (m *BallManager) Balls() []*Ball { return slices.Clone(m.active) }

func (m *BallManager) followPaddle() {
	for _, b := range m.active {
		b.followPaddle()
	}
}
