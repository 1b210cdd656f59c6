package game

import (
	"github.com/zeusync/arkanoid/internal/core/geometry"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

// Brick takes one point of damage per ball strike and leaves the world when
// its health runs out.
type Brick struct {
	obstacle
	name      string
	health    int
	maxHealth int
	score     int
	powerUp   bool

	world *physics.World
	space *geometry.Space

	onDamaged   func(b *Brick, health int)
	onDestroyed func(b *Brick)
}

func NewBrick(name string, bounds physics.Bounds, health, score int, powerUp bool) *Brick {
	health = max(health, 1)
	return &Brick{
		obstacle:  newObstacle(bounds),
		name:      name,
		health:    health,
		maxHealth: health,
		score:     score,
		powerUp:   powerUp,
	}
}

func (b *Brick) Category() physics.Category { return physics.CategoryBrick }
func (b *Brick) Name() string               { return b.name }
func (b *Brick) Health() int                { return b.health }
func (b *Brick) MaxHealth() int             { return b.maxHealth }
func (b *Brick) Score() int                 { return b.score }
func (b *Brick) HasPowerUp() bool           { return b.powerUp }

func (b *Brick) OnCollision(record physics.CollisionRecord) {
	if record.OtherCategory != physics.CategoryBall {
		return
	}
	b.TakeDamage(1)
}

// TakeDamage lowers health and destroys the brick at zero. Damage to a
// destroyed brick is ignored.
func (b *Brick) TakeDamage(damage int) {
	if !b.active || damage <= 0 {
		return
	}
	b.health -= damage
	if b.onDamaged != nil {
		b.onDamaged(b, b.health)
	}
	if b.health <= 0 {
		b.destroy()
	}
}

func (b *Brick) destroy() {
	b.active = false
	if b.world != nil {
		b.world.Unregister(b)
	}
	if b.space != nil {
		b.space.Remove(b.collider)
	}
	if b.onDestroyed != nil {
		b.onDestroyed(b)
	}
}
