package geometry

import (
	"github.com/jakecoffman/cp"

	"github.com/zeusync/arkanoid/internal/core/physics"
)

type shapeKind uint8

const (
	kindBox shapeKind = iota + 1
	kindSegment
)

// Collider is one static obstacle shape. Its owner, if any, is reported as the
// struck body on hits.
type Collider struct {
	shape    *cp.Shape
	kind     shapeKind
	owner    physics.Body
	category physics.Category
	layer    physics.Layer

	// box
	bounds physics.Bounds
	// segment
	a, b      physics.Vec2
	thickness float64
}

type ColliderOption func(*Collider)

// WithOwner reports body as the struck body and takes its category.
func WithOwner(body physics.Body) ColliderOption {
	return func(c *Collider) {
		c.owner = body
		if body != nil {
			c.category = body.Category()
		}
	}
}

// WithCategory tags an ownerless collider.
func WithCategory(category physics.Category) ColliderOption {
	return func(c *Collider) { c.category = category }
}

// WithLayer sets the collision layer. Colliders default to LayerDefault.
func WithLayer(layer physics.Layer) ColliderOption {
	return func(c *Collider) { c.layer = layer }
}

func (c *Collider) Owner() physics.Body        { return c.owner }
func (c *Collider) Category() physics.Category { return c.category }
func (c *Collider) Layer() physics.Layer       { return c.layer }

// Bounds returns the axis-aligned extent of the collider.
func (c *Collider) Bounds() physics.Bounds {
	if c.kind == kindBox {
		return c.bounds
	}
	pad := physics.Vec2{X: c.thickness, Y: c.thickness}
	return physics.Bounds{
		Min: physics.Vec2{X: min(c.a.X, c.b.X), Y: min(c.a.Y, c.b.Y)}.Sub(pad),
		Max: physics.Vec2{X: max(c.a.X, c.b.X), Y: max(c.a.Y, c.b.Y)}.Add(pad),
	}
}

func (c *Collider) build(static *cp.Body) *cp.Shape {
	var shape *cp.Shape
	switch c.kind {
	case kindBox:
		shape = cp.NewBox2(static, cp.BB{L: c.bounds.Min.X, B: c.bounds.Min.Y, R: c.bounds.Max.X, T: c.bounds.Max.Y}, 0)
	default:
		shape = cp.NewSegment(static, toCP(c.a), toCP(c.b), c.thickness)
	}
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(c.layer), Mask: cp.ALL_CATEGORIES})
	return shape
}

func (c *Collider) translate(delta physics.Vec2) {
	c.bounds = c.bounds.Translate(delta)
	c.a = c.a.Add(delta)
	c.b = c.b.Add(delta)
}

func toCP(v physics.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromCP(v cp.Vector) physics.Vec2 { return physics.Vec2{X: v.X, Y: v.Y} }
