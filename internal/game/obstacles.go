package game

import (
	"github.com/google/uuid"

	"github.com/zeusync/arkanoid/internal/core/geometry"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

// obstacle is the shared part of every static body backed by a collider.
type obstacle struct {
	id       uuid.UUID
	bounds   physics.Bounds
	collider *geometry.Collider
	active   bool
}

func newObstacle(bounds physics.Bounds) obstacle {
	return obstacle{id: uuid.New(), bounds: bounds, active: true}
}

func (o *obstacle) ID() uuid.UUID          { return o.id }
func (o *obstacle) Position() physics.Vec2 { return o.bounds.Center() }
func (o *obstacle) Velocity() physics.Vec2 { return physics.Vec2{} }
func (o *obstacle) Radius() float64        { return 0 }
func (o *obstacle) IsActive() bool         { return o.active }
func (o *obstacle) Bounds() physics.Bounds { return o.bounds }

// Wall is a solid arena border.
type Wall struct {
	obstacle
	hits int
}

func NewWall(bounds physics.Bounds) *Wall {
	return &Wall{obstacle: newObstacle(bounds)}
}

func (w *Wall) Category() physics.Category          { return physics.CategoryWall }
func (w *Wall) OnCollision(physics.CollisionRecord) { w.hits++ }
func (w *Wall) Hits() int                           { return w.hits }

// DeathZone swallows balls. It does not react to contacts itself.
type DeathZone struct {
	obstacle
}

func NewDeathZone(bounds physics.Bounds) *DeathZone {
	return &DeathZone{obstacle: newObstacle(bounds)}
}

func (d *DeathZone) Category() physics.Category          { return physics.CategoryDeathZone }
func (d *DeathZone) OnCollision(physics.CollisionRecord) {}

// Paddle is a kinematic box steered by the player. It moves only along x and
// stays within [minX, maxX].
type Paddle struct {
	obstacle
	space      *geometry.Space
	minX, maxX float64
	hits       int
}

func NewPaddle(bounds physics.Bounds, minX, maxX float64) *Paddle {
	return &Paddle{obstacle: newObstacle(bounds), minX: minX, maxX: maxX}
}

func (p *Paddle) Category() physics.Category { return physics.CategoryPaddle }

func (p *Paddle) OnCollision(record physics.CollisionRecord) {
	if record.OtherCategory == physics.CategoryBall {
		p.hits++
	}
}

func (p *Paddle) Hits() int { return p.hits }

// MoveTo centers the paddle on x, clamped to the arena.
func (p *Paddle) MoveTo(x float64) error {
	half := p.bounds.HalfExtents().X
	x = max(p.minX+half, min(p.maxX-half, x))
	delta := physics.Vec2{X: x - p.bounds.Center().X}
	if delta.IsZero() {
		return nil
	}
	p.bounds = p.bounds.Translate(delta)
	if p.space == nil || p.collider == nil {
		return nil
	}
	return p.space.MoveTo(p.collider, p.bounds.Center())
}

// MoveBy shifts the paddle by dx.
func (p *Paddle) MoveBy(dx float64) error {
	return p.MoveTo(p.bounds.Center().X + dx)
}
