package physics

import (
	"fmt"
	"strings"
)

// Category classifies a body. It never changes after the body is created.
type Category uint8

const (
	categoryUnspecified Category = iota
	CategoryBall
	CategoryWall
	CategoryPaddle
	CategoryBrick
	CategoryDeathZone
)

var categoryNames = map[Category]string{
	CategoryBall:      "ball",
	CategoryWall:      "wall",
	CategoryPaddle:    "paddle",
	CategoryBrick:     "brick",
	CategoryDeathZone: "death_zone",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is one of the named categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory accepts the names produced by String, case-insensitively.
// "deathzone" and "death-zone" are accepted as well.
func ParseCategory(s string) (Category, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if norm == "deathzone" {
		norm = "death_zone"
	}
	for c, name := range categoryNames {
		if name == norm {
			return c, nil
		}
	}
	return categoryUnspecified, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// orWall resolves an unspecified category the way untagged colliders are treated.
func (c Category) orWall() Category {
	if c.Valid() {
		return c
	}
	return CategoryWall
}

// Body is anything the world can sweep or collide with. Implementations must be
// comparable (pointer types), since the registry tracks bodies by identity.
type Body interface {
	Position() Vec2
	// Velocity is non-zero only for an active ball.
	Velocity() Vec2
	// Radius is positive for balls and zero for box-shaped obstacles.
	Radius() float64
	Category() Category
	// IsActive false bodies are skipped by the sweep and ignored by collider queries.
	IsActive() bool
	// OnCollision is invoked whenever this body strikes or is struck.
	OnCollision(record CollisionRecord)
}

// MovableBody is a body whose state the world writes back after a sweep.
// Every CategoryBall body must implement it.
type MovableBody interface {
	Body
	SetPosition(Vec2)
	SetVelocity(Vec2)
}

// Layer is a collision layer bit mask.
type Layer uint32

const (
	LayerNone    Layer = 0
	LayerDefault Layer = 1 << 0
	LayerBricks  Layer = 1 << 1
	LayerPaddle  Layer = 1 << 2
	LayerBounds  Layer = 1 << 3
	LayerAll     Layer = ^Layer(0)
)

// Has reports whether any bit of o is set in l.
func (l Layer) Has(o Layer) bool { return l&o != 0 }
