package game

import (
	"math"

	"github.com/google/uuid"

	"github.com/zeusync/arkanoid/internal/core/physics"
)

type BallState uint8

const (
	// BallHold rides on the paddle until launched.
	BallHold BallState = iota
	BallFree
)

func (s BallState) String() string {
	if s == BallFree {
		return "free"
	}
	return "hold"
}

func (s BallState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var _ physics.MovableBody = (*Ball)(nil)

// Ball is the only body the world moves.
type Ball struct {
	id       uuid.UUID
	position physics.Vec2
	velocity physics.Vec2
	radius   float64
	speed    float64
	state    BallState
	enabled  bool

	world      *physics.World
	registered bool
	// paddle and holdOffset place a held ball.
	paddle     *Paddle
	holdOffset float64
	hits       int
}

func NewBall(position physics.Vec2, radius, speed float64) *Ball {
	return &Ball{
		id:       uuid.New(),
		position: position,
		radius:   radius,
		speed:    speed,
		state:    BallHold,
		enabled:  true,
	}
}

func (b *Ball) ID() uuid.UUID              { return b.id }
func (b *Ball) Position() physics.Vec2     { return b.position }
func (b *Ball) Velocity() physics.Vec2     { return b.velocity }
func (b *Ball) Radius() float64            { return b.radius }
func (b *Ball) Category() physics.Category { return physics.CategoryBall }
func (b *Ball) IsActive() bool             { return b.enabled }
func (b *Ball) SetPosition(p physics.Vec2) { b.position = p }
func (b *Ball) SetVelocity(v physics.Vec2) { b.velocity = v }
func (b *Ball) State() BallState           { return b.state }
func (b *Ball) Speed() float64             { return b.speed }
func (b *Ball) Hits() int                  { return b.hits }

func (b *Ball) OnCollision(record physics.CollisionRecord) {
	b.hits++
	if record.OtherCategory == physics.CategoryDeathZone {
		b.Stop()
	}
}

// Launch frees a held ball along direction at the ball's speed. A zero
// direction launches straight up.
func (b *Ball) Launch(direction physics.Vec2) {
	if direction.IsZero() || !direction.IsFinite() {
		direction = physics.Vec2{Y: 1}
	}
	b.state = BallFree
	b.velocity = direction.Normalize().Scale(b.speed)
}

// LaunchAngle launches at degrees off vertical, positive to the right.
func (b *Ball) LaunchAngle(degrees float64) {
	rad := degrees * math.Pi / 180
	b.Launch(physics.Vec2{X: math.Sin(rad), Y: math.Cos(rad)})
}

// Stop puts the ball back on hold.
func (b *Ball) Stop() {
	b.state = BallHold
	b.velocity = physics.Vec2{}
}

// SetSpeed rescales a moving ball immediately.
func (b *Ball) SetSpeed(speed float64) {
	b.speed = speed
	if b.state == BallFree && !b.velocity.IsZero() {
		b.velocity = b.velocity.WithLength(speed)
	}
}

// HoldOn makes the ball ride offset above paddle while held.
func (b *Ball) HoldOn(paddle *Paddle, offset float64) {
	b.paddle = paddle
	b.holdOffset = offset
	b.followPaddle()
}

func (b *Ball) followPaddle() {
	if b.state != BallHold || b.paddle == nil {
		return
	}
	b.position = b.paddle.Position().Add(physics.Vec2{Y: b.holdOffset})
}

// Attach makes w the ball's world and registers it while enabled. Attaching
// to the same world twice is a no-op.
func (b *Ball) Attach(w *physics.World) error {
	if b.world == w && (b.registered || !b.enabled) {
		return nil
	}
	b.Detach()
	b.world = w
	if !b.enabled {
		return nil
	}
	return b.register()
}

// Detach unregisters the ball and forgets its world.
func (b *Ball) Detach() {
	if b.world != nil && b.registered {
		b.world.Unregister(b)
	}
	b.registered = false
	b.world = nil
}

// SetEnabled toggles the ball. Registration follows the transition: a
// disabled ball leaves its world and an enabled one rejoins it.
func (b *Ball) SetEnabled(enabled bool) error {
	if b.enabled == enabled {
		return nil
	}
	b.enabled = enabled
	if b.world == nil {
		return nil
	}
	if !enabled {
		b.world.Unregister(b)
		b.registered = false
		return nil
	}
	return b.register()
}

func (b *Ball) register() error {
	if err := b.world.Register(b); err != nil {
		return err
	}
	b.registered = true
	return nil
}
