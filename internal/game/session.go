// Package game owns the bodies of an arkanoid round and drives them through
// the physics world.
package game

import (
	"errors"
	"math"
	"math/rand/v2"

	"go.uber.org/multierr"

	"github.com/zeusync/arkanoid/internal/config"
	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/geometry"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
	"github.com/zeusync/arkanoid/internal/level"
)

var (
	ErrNoLevel       = errors.New("game: no level loaded")
	ErrSessionClosed = errors.New("game: session closed")
)

// launchSpread is the largest random launch angle off vertical, in degrees.
const launchSpread = 30.0

// holdGap separates a held ball from the paddle top.
const holdGap = 0.05

// Autopilot paddle offsets, as fractions of the paddle half width. A centered
// hit sends the ball straight back up.
const (
	minAimOffset = 0.15
	maxAimOffset = 0.9
)

type SessionOption func(*Session)

// WithRand fixes the source of launch angles.
func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = r }
}

// Session is one playfield: border walls, a death zone along the bottom, the
// paddle, the bricks of the current level and the balls in play. It is not
// safe for concurrent use.
type Session struct {
	world  *physics.World
	space  *geometry.Space
	logger log.Log
	rng    *rand.Rand

	walls  []*Wall
	death  *DeathZone
	paddle *Paddle
	bricks *BrickManager
	balls  *BallManager
	level  *level.Level

	// paddleSpeed caps Autopilot, in units per second.
	paddleSpeed float64

	state  State
	ticks  uint64
	subs   []bus.Subscription
	closed bool
}

// NewSession builds the arena described by cfg inside world and space.
func NewSession(cfg config.Config, world *physics.World, space *geometry.Space, logger log.Log, opts ...SessionOption) (*Session, error) {
	s := &Session{
		world:  world,
		space:  space,
		logger: logger.Named("game"),
		bricks: NewBrickManager(),

		paddleSpeed: cfg.Paddle.Speed,
	}
	for _, opt := range opts {
		opt(s)
	}

	balls, err := NewBallManager(world, s.logger)
	if err != nil {
		return nil, err
	}
	s.balls = balls
	s.balls.OnAllBallsLost(func() { s.finish(StateLost) })
	s.bricks.OnAllBricksDestroyed(func() { s.finish(StateWon) })

	if err = s.buildArena(cfg); err != nil {
		return nil, multierr.Append(err, s.Close())
	}

	truncated, err := world.OnSweepTruncated(func(e physics.SweepTruncatedEvent) {
		s.logger.Debug("sweep truncated",
			log.Int("collisions", e.Collisions),
			log.Float64("remaining", e.Remaining),
		)
	})
	if err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	s.subs = append(s.subs, truncated)
	return s, nil
}

func (s *Session) buildArena(cfg config.Config) error {
	w, h, t := cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.WallThickness

	s.walls = []*Wall{
		NewWall(bounds(-t, -t, 0, h+t)),  // left
		NewWall(bounds(w, -t, w+t, h+t)), // right
		NewWall(bounds(-t, h, w+t, h+t)), // top
	}
	for _, wall := range s.walls {
		if err := s.place(wall, &wall.obstacle, physics.LayerBounds); err != nil {
			return err
		}
	}

	s.death = NewDeathZone(bounds(-t, -t, w+t, 0))
	if err := s.place(s.death, &s.death.obstacle, physics.LayerBounds); err != nil {
		return err
	}

	half := physics.Vec2{X: cfg.Paddle.Width / 2, Y: cfg.Paddle.Height / 2}
	center := physics.Vec2{X: w / 2, Y: cfg.Paddle.Y}
	s.paddle = NewPaddle(physics.Bounds{Min: center.Sub(half), Max: center.Add(half)}, 0, w)
	s.paddle.space = s.space
	return s.place(s.paddle, &s.paddle.obstacle, physics.LayerPaddle)
}

// place gives body a box collider and registers it with the world.
func (s *Session) place(body physics.Body, o *obstacle, layer physics.Layer) error {
	c, err := s.space.AddBox(o.bounds, geometry.WithOwner(body), geometry.WithLayer(layer))
	if err != nil {
		return err
	}
	o.collider = c
	return s.world.Register(body)
}

func (s *Session) unplace(body physics.Body, o *obstacle) {
	s.world.Unregister(body)
	s.space.Remove(o.collider)
	o.collider = nil
}

// LoadLevel replaces the bricks with those of lvl and puts a fresh ball on
// the paddle. The round is idle until Launch.
func (s *Session) LoadLevel(lvl *level.Level) error {
	if s.closed {
		return ErrSessionClosed
	}
	if lvl == nil {
		return ErrNoLevel
	}
	s.clearBricks()
	s.balls.RemoveAll()
	s.level = nil
	s.state = StateIdle

	cells := lvl.Cells()
	for _, cell := range cells {
		brick := NewBrick(cell.Brick.Name, cell.Bounds, cell.Brick.Health, cell.Brick.Score, cell.PowerUp)
		brick.world, brick.space = s.world, s.space
		if err := s.place(brick, &brick.obstacle, physics.LayerBricks); err != nil {
			if brick.collider != nil {
				s.unplace(brick, &brick.obstacle)
			}
			s.clearBricks()
			return err
		}
		s.bricks.Add(brick)
	}

	if _, err := s.balls.SpawnOnPaddle(s.paddle, s.holdOffset()); err != nil {
		s.clearBricks()
		return err
	}
	s.level = lvl

	checksum, err := lvl.Checksum()
	if err != nil {
		s.logger.Warn("level checksum failed", log.Error(err))
	}
	s.logger.Info("level loaded",
		log.String("level", lvl.Name),
		log.Int("bricks", len(cells)),
		log.Uint64("checksum", checksum),
	)
	return nil
}

func (s *Session) clearBricks() {
	for _, b := range s.bricks.Bricks() {
		s.unplace(b, &b.obstacle)
	}
	s.bricks.Clear()
}

func (s *Session) holdOffset() float64 {
	return s.paddle.Bounds().HalfExtents().Y + s.world.Settings().BallRadius + holdGap
}

// Launch frees every held ball at degrees off vertical and starts the round.
func (s *Session) Launch(degrees float64) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.level == nil {
		return ErrNoLevel
	}
	if s.state.Done() {
		return nil
	}
	for _, b := range s.balls.Balls() {
		if b.State() == BallHold {
			b.LaunchAngle(degrees)
		}
	}
	s.state = StatePlaying
	return nil
}

// LaunchRandom launches at a random angle within the launch spread.
func (s *Session) LaunchRandom() error {
	return s.Launch((s.randFloat()*2 - 1) * launchSpread)
}

// MovePaddle centers the paddle on x. Held balls follow it.
func (s *Session) MovePaddle(x float64) error {
	if err := s.paddle.MoveTo(x); err != nil {
		return err
	}
	s.balls.followPaddle()
	return nil
}

// Autopilot steers the paddle, by at most one tick's worth of paddle speed,
// toward where the lowest falling ball will meet it. The paddle meets the
// ball off center so the bounce heads for the lowest brick.
func (s *Session) Autopilot() error {
	var target *Ball
	for _, b := range s.balls.Balls() {
		if b.State() != BallFree || b.Velocity().Y >= 0 {
			continue
		}
		if target == nil || b.Position().Y < target.Position().Y {
			target = b
		}
	}
	if target == nil {
		return nil
	}

	impact := s.predictImpact(target)
	want := impact.X - s.aimOffset(impact)*s.paddle.Bounds().HalfExtents().X
	maxStep := s.paddleSpeed * s.world.Settings().FixedDeltaTime.Seconds()
	dx := want - s.paddle.Position().X
	return s.paddle.MoveBy(max(-maxStep, min(maxStep, dx)))
}

// predictImpact returns the center of b when it comes down to the paddle
// top, folding its path at the side walls.
func (s *Session) predictImpact(b *Ball) physics.Vec2 {
	r := b.Radius()
	pos, vel := b.Position(), b.Velocity()
	y := s.paddle.Bounds().Max.Y + r
	t := max((pos.Y-y)/-vel.Y, 0)

	lo, hi := s.paddle.minX+r, s.paddle.maxX-r
	span := hi - lo
	if !(span > 0) {
		return physics.Vec2{X: pos.X, Y: y}
	}
	u := math.Mod(pos.X+vel.X*t-lo, 2*span)
	if u < 0 {
		u += 2 * span
	}
	if u > span {
		u = 2*span - u
	}
	return physics.Vec2{X: lo + u, Y: y}
}

// aimOffset picks the paddle offset, in half widths, that bounces a ball
// hitting at impact toward the lowest brick. It never returns less than
// minAimOffset in magnitude.
func (s *Session) aimOffset(impact physics.Vec2) float64 {
	var (
		goal  physics.Vec2
		found bool
	)
	for _, b := range s.bricks.Bricks() {
		c := b.Bounds().Center()
		closer := math.Abs(c.X-impact.X) < math.Abs(goal.X-impact.X)
		if !found || c.Y < goal.Y || (c.Y == goal.Y && closer) {
			goal, found = c, true
		}
	}

	offset := 0.0
	if maxAngle := s.world.Settings().MaxPaddleBounceAngleDegrees; found && maxAngle > 0 {
		d := goal.Sub(impact)
		angle := math.Atan2(d.X, d.Y) * 180 / math.Pi
		offset = max(-maxAimOffset, min(maxAimOffset, angle/maxAngle))
	}
	if math.Abs(offset) < minAimOffset {
		switch {
		case offset > 0:
			offset = minAimOffset
		case offset < 0:
			offset = -minAimOffset
		case s.randFloat() < 0.5:
			offset = -minAimOffset
		default:
			offset = minAimOffset
		}
	}
	return offset
}

func (s *Session) randFloat() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// Tick advances the world by one fixed step. Finished rounds do not tick.
func (s *Session) Tick() {
	if s.closed || s.state.Done() {
		return
	}
	s.balls.followPaddle()
	s.world.Tick()
	s.ticks++
	if s.state.Done() {
		s.balls.StopAll()
	}
}

func (s *Session) finish(state State) {
	if s.state.Done() {
		return
	}
	s.state = state
	s.logger.Info("round finished",
		log.Stringer("state", state),
		log.Int("score", s.bricks.Score()),
		log.Uint64("ticks", s.ticks),
	)
}

func (s *Session) State() State          { return s.state }
func (s *Session) Score() int            { return s.bricks.Score() }
func (s *Session) Ticks() uint64         { return s.ticks }
func (s *Session) Level() *level.Level   { return s.level }
func (s *Session) Paddle() *Paddle       { return s.paddle }
func (s *Session) Balls() *BallManager   { return s.balls }
func (s *Session) Bricks() *BrickManager { return s.bricks }
func (s *Session) World() *physics.World { return s.world }

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:  s.ticks,
		State: s.state,
		Score: s.bricks.Score(),
	}
	if s.level != nil {
		snap.Level = s.level.Name
	}
	if s.paddle != nil {
		snap.Paddle = s.paddle.Bounds()
	}
	for _, b := range s.balls.Balls() {
		snap.Balls = append(snap.Balls, BallSnapshot{
			ID:       b.ID(),
			Position: b.Position(),
			Velocity: b.Velocity(),
			Radius:   b.Radius(),
			State:    b.State(),
		})
	}
	for _, b := range s.bricks.Bricks() {
		snap.Bricks = append(snap.Bricks, BrickSnapshot{
			ID:      b.ID(),
			Name:    b.Name(),
			Bounds:  b.Bounds(),
			Health:  b.Health(),
			PowerUp: b.HasPowerUp(),
		})
	}
	return snap
}

// Close removes every body the session placed and cancels its world
// subscriptions. The world and space stay usable.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	for _, sub := range s.subs {
		err = multierr.Append(err, sub.Cancel())
	}
	s.subs = nil
	if s.balls != nil {
		err = multierr.Append(err, s.balls.Close())
	}
	s.clearBricks()
	for _, wall := range s.walls {
		if wall.collider != nil {
			s.unplace(wall, &wall.obstacle)
		}
	}
	if s.death != nil && s.death.collider != nil {
		s.unplace(s.death, &s.death.obstacle)
	}
	if s.paddle != nil && s.paddle.collider != nil {
		s.unplace(s.paddle, &s.paddle.obstacle)
	}
	return err
}

func bounds(minX, minY, maxX, maxY float64) physics.Bounds {
	return physics.Bounds{Min: physics.Vec2{X: minX, Y: minY}, Max: physics.Vec2{X: maxX, Y: maxY}}
}
