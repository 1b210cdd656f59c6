package physics

// CollisionRecord describes one contact. Normal is unit length and points away
// from the struck surface toward the mover.
type CollisionRecord struct {
	ContactPoint  Vec2
	Normal        Vec2
	Other         Body // nil when the obstacle carries no body
	OtherCategory Category
	OtherBounds   Bounds
	Distance      float64
}

// mirror builds the record handed to the struck body: the normal flips and the
// ball becomes the other party.
func (r CollisionRecord) mirror(ball Body, ballPosition Vec2) CollisionRecord {
	return CollisionRecord{
		ContactPoint:  r.ContactPoint,
		Normal:        r.Normal.Neg(),
		Other:         ball,
		OtherCategory: ball.Category(),
		OtherBounds:   CircleBounds(ballPosition, ball.Radius()),
		Distance:      r.Distance,
	}
}

// Hit is a geometry provider's answer to a circle cast.
type Hit struct {
	Point    Vec2
	Normal   Vec2
	Distance float64
	// Body owning the struck collider, if any.
	Body Body
	// Category of the collider; consulted only when Body is nil.
	Category Category
	// Bounds of the struck collider.
	Bounds Bounds
}

//go:generate mockgen -source=collision.go -destination=mocks/provider.go -package=mocks Provider

// Provider answers swept-circle queries against the obstacle geometry.
type Provider interface {
	// CastCircle moves a circle of radius from origin along the unit direction
	// for up to maxDistance and returns the nearest hit on a collider whose
	// layer intersects mask.
	CastCircle(origin Vec2, radius float64, direction Vec2, maxDistance float64, mask Layer) (Hit, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(origin Vec2, radius float64, direction Vec2, maxDistance float64, mask Layer) (Hit, bool)

func (f ProviderFunc) CastCircle(origin Vec2, radius float64, direction Vec2, maxDistance float64, mask Layer) (Hit, bool) {
	return f(origin, radius, direction, maxDistance, mask)
}
