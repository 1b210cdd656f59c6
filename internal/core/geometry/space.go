// Package geometry provides the static obstacle geometry the physics world
// casts against, backed by a chipmunk space used purely for queries.
package geometry

import (
	"fmt"
	"math"
	"sync"

	"github.com/jakecoffman/cp"

	"github.com/zeusync/arkanoid/internal/core/observability/log"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

var _ physics.Provider = (*Space)(nil)

// Space holds static colliders and answers swept-circle casts against them.
// The chipmunk space is never stepped.
type Space struct {
	mu        sync.RWMutex
	space     *cp.Space
	colliders map[*cp.Shape]*Collider
	logger    log.Log
}

type Option func(*Space)

func WithLogger(l log.Log) Option {
	return func(s *Space) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSpace(opts ...Option) *Space {
	s := &Space{
		space:     cp.NewSpace(),
		colliders: make(map[*cp.Shape]*Collider),
		logger:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("geometry")
	return s
}

// AddBox adds an axis-aligned box collider.
func (s *Space) AddBox(bounds physics.Bounds, opts ...ColliderOption) (*Collider, error) {
	if bounds.Empty() || !bounds.Min.IsFinite() || !bounds.Max.IsFinite() {
		return nil, fmt.Errorf("%w: box %v", ErrDegenerateShape, bounds)
	}
	return s.add(&Collider{kind: kindBox, bounds: bounds}, opts)
}

// AddSegment adds a capsule from a to b with the given thickness radius.
func (s *Space) AddSegment(a, b physics.Vec2, thickness float64, opts ...ColliderOption) (*Collider, error) {
	if a == b || !a.IsFinite() || !b.IsFinite() || thickness < 0 || math.IsInf(thickness, 0) {
		return nil, fmt.Errorf("%w: segment %v-%v", ErrDegenerateShape, a, b)
	}
	return s.add(&Collider{kind: kindSegment, a: a, b: b, thickness: thickness}, opts)
}

func (s *Space) add(c *Collider, opts []ColliderOption) (*Collider, error) {
	c.layer = physics.LayerDefault
	for _, opt := range opts {
		opt(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.shape = s.space.AddShape(c.build(s.space.StaticBody))
	s.colliders[c.shape] = c
	s.logger.Debug("collider added",
		log.Stringer("category", c.category),
		log.Uint64("layer", uint64(c.layer)),
	)
	return c, nil
}

// Remove drops c from the space. Removing twice is a no-op.
func (s *Space) Remove(c *Collider) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colliders[c.shape]; !ok {
		return
	}
	s.space.RemoveShape(c.shape)
	delete(s.colliders, c.shape)
}

// MoveTo recenters c on center. Static shapes cannot move in place, so the
// shape is rebuilt.
func (s *Space) MoveTo(c *Collider, center physics.Vec2) error {
	if c == nil {
		return ErrUnknownCollider
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colliders[c.shape]; !ok {
		return ErrUnknownCollider
	}
	delta := center.Sub(c.Bounds().Center())
	if delta.IsZero() {
		return nil
	}

	s.space.RemoveShape(c.shape)
	delete(s.colliders, c.shape)

	c.translate(delta)
	c.shape = s.space.AddShape(c.build(s.space.StaticBody))
	s.colliders[c.shape] = c
	return nil
}

func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.colliders)
}

// CastCircle returns the nearest hit on a collider whose layer intersects mask
// and whose owner, if any, is active.
func (s *Space) CastCircle(origin physics.Vec2, radius float64, direction physics.Vec2, maxDistance float64, mask physics.Layer) (physics.Hit, bool) {
	if !(maxDistance > 0) || radius < 0 || direction.IsZero() || !direction.IsFinite() || !origin.IsFinite() {
		return physics.Hit{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  *Collider
		hit   physics.Hit
		alpha = math.Inf(1)
	)
	start, end := toCP(origin), toCP(origin.Add(direction.Scale(maxDistance)))
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}

	// cp.Space.SegmentQuery walks its index with the bare segment and misses
	// shapes only the circle grazes, so candidates come from the swept box.
	sweep := cp.BB{
		L: math.Min(start.X, end.X) - radius,
		B: math.Min(start.Y, end.Y) - radius,
		R: math.Max(start.X, end.X) + radius,
		T: math.Max(start.Y, end.Y) + radius,
	}
	s.space.BBQuery(sweep, filter, func(shape *cp.Shape, _ interface{}) {
		c, ok := s.colliders[shape]
		if !ok {
			return
		}
		if c.owner != nil && !c.owner.IsActive() {
			return
		}
		var info cp.SegmentQueryInfo
		if !shape.SegmentQuery(start, end, radius, &info) || info.Alpha >= alpha {
			return
		}
		if info.Alpha == 0 {
			// The circle already overlaps the shape. cp leaves Point at the
			// segment end, so take contact and normal from the nearest surface
			// and ignore shapes the circle is leaving.
			nearest := shape.PointQuery(start)
			info.Point, info.Normal = nearest.Point, nearest.Gradient
			if fromCP(info.Normal).Dot(direction) >= 0 {
				return
			}
		}
		best, alpha = c, info.Alpha
		hit = physics.Hit{
			Point:    fromCP(info.Point),
			Normal:   fromCP(info.Normal),
			Distance: info.Alpha * maxDistance,
			Body:     c.owner,
			Category: c.category,
			Bounds:   c.Bounds(),
		}
	}, nil)

	return hit, best != nil
}
