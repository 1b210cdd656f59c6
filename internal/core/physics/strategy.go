package physics

import "math"

// Strategy maps an incoming velocity and the contact onto the outgoing
// velocity. Implementations preserve speed; the world clamps afterwards.
type Strategy interface {
	Reflect(velocity Vec2, record CollisionRecord) Vec2
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(velocity Vec2, record CollisionRecord) Vec2

func (f StrategyFunc) Reflect(velocity Vec2, record CollisionRecord) Vec2 {
	return f(velocity, record)
}

// ReflectStrategy mirrors the velocity about the contact normal.
type ReflectStrategy struct{}

func (ReflectStrategy) Reflect(velocity Vec2, record CollisionRecord) Vec2 {
	n := record.Normal.Normalize()
	if n.IsZero() {
		return velocity
	}
	return velocity.Reflect(n)
}

// PaddleStrategy steers the ball by where it struck the paddle rather than by
// the surface normal: the center sends it straight up, the edges send it out
// at MaxBounceAngleDegrees from vertical.
type PaddleStrategy struct {
	MaxBounceAngleDegrees float64
	// MinVerticalComponent is the floor for the outgoing direction's Y.
	MinVerticalComponent float64
}

func (p PaddleStrategy) Reflect(velocity Vec2, record CollisionRecord) Vec2 {
	speed := velocity.Len()
	return p.Direction(record).Scale(speed)
}

// Direction returns the unit outgoing direction for a paddle contact.
func (p PaddleStrategy) Direction(record CollisionRecord) Vec2 {
	center := record.OtherBounds.Center().X
	half := record.OtherBounds.HalfExtents().X
	if record.OtherBounds.Empty() && record.Other != nil {
		center, half = record.Other.Position().X, 0
	}

	offset := 0.0
	if half > 0 {
		offset = clamp((record.ContactPoint.X-center)/half, -1, 1)
	}

	angle := offset * p.MaxBounceAngleDegrees * math.Pi / 180
	dir := Vec2{X: math.Sin(angle), Y: math.Cos(angle)}
	if dir.Y < p.MinVerticalComponent {
		dir.Y = p.MinVerticalComponent
		dir = dir.Normalize()
	}
	return dir
}

// StrategyTable dispatches on the struck body's category. Categories without
// an entry use the fallback.
type StrategyTable struct {
	byCategory map[Category]Strategy
	fallback   Strategy
}

func NewStrategyTable(fallback Strategy) *StrategyTable {
	if fallback == nil {
		fallback = ReflectStrategy{}
	}
	return &StrategyTable{
		byCategory: make(map[Category]Strategy),
		fallback:   fallback,
	}
}

// DefaultStrategies maps walls and bricks to reflection and the paddle to
// steering.
func DefaultStrategies(s Settings) *StrategyTable {
	t := NewStrategyTable(ReflectStrategy{})
	t.Set(CategoryWall, ReflectStrategy{})
	t.Set(CategoryBrick, ReflectStrategy{})
	t.Set(CategoryPaddle, PaddleStrategy{
		MaxBounceAngleDegrees: s.MaxPaddleBounceAngleDegrees,
		MinVerticalComponent:  s.MinVerticalBounceComponent,
	})
	return t
}

// Set installs strategy for c; a nil strategy removes the entry.
func (t *StrategyTable) Set(c Category, strategy Strategy) {
	if strategy == nil {
		delete(t.byCategory, c)
		return
	}
	t.byCategory[c] = strategy
}

func (t *StrategyTable) Lookup(c Category) Strategy {
	if s, ok := t.byCategory[c]; ok {
		return s
	}
	return t.fallback
}
