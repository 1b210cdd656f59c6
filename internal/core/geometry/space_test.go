package geometry_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arkanoid/internal/core/geometry"
	"github.com/zeusync/arkanoid/internal/core/physics"
)

const tol = 1e-6

type owner struct {
	pos      physics.Vec2
	vel      physics.Vec2
	radius   float64
	category physics.Category
	inactive bool
	hits     int
}

func (o *owner) Position() physics.Vec2              { return o.pos }
func (o *owner) Velocity() physics.Vec2              { return o.vel }
func (o *owner) Radius() float64                     { return o.radius }
func (o *owner) Category() physics.Category          { return o.category }
func (o *owner) IsActive() bool                      { return !o.inactive }
func (o *owner) OnCollision(physics.CollisionRecord) { o.hits++ }
func (o *owner) SetPosition(p physics.Vec2)          { o.pos = p }
func (o *owner) SetVelocity(v physics.Vec2)          { o.vel = v }

func box(minX, minY, maxX, maxY float64) physics.Bounds {
	return physics.Bounds{Min: physics.Vec2{X: minX, Y: minY}, Max: physics.Vec2{X: maxX, Y: maxY}}
}

var right = physics.Vec2{X: 1}

func TestCastCircleHitsBoxFace(t *testing.T) {
	s := geometry.NewSpace()
	wall := &owner{category: physics.CategoryWall}
	_, err := s.AddBox(box(1, -5, 1.1, 5), geometry.WithOwner(wall))
	require.NoError(t, err)

	hit, ok := s.CastCircle(physics.Vec2{}, 0.25, right, 5, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 0.75, hit.Distance, tol)
	assert.InDelta(t, -1, hit.Normal.X, tol)
	assert.InDelta(t, 0, hit.Normal.Y, tol)
	assert.InDelta(t, 1, hit.Point.X, tol)
	assert.Same(t, wall, hit.Body.(*owner))
	assert.Equal(t, box(1, -5, 1.1, 5), hit.Bounds)
}

func TestCastCircleDoesNotTunnelThroughThinWalls(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(2, -1, 2.001, 1), geometry.WithCategory(physics.CategoryWall))
	require.NoError(t, err)

	hit, ok := s.CastCircle(physics.Vec2{}, 0.1, right, 100, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 1.9, hit.Distance, tol)
	assert.Nil(t, hit.Body)
	assert.Equal(t, physics.CategoryWall, hit.Category)
}

func TestCastCircleCatchesGrazingCorner(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(1, 0.3, 1.5, 1))
	require.NoError(t, err)

	// the center path passes below the box, the circle clips its corner
	hit, ok := s.CastCircle(physics.Vec2{}, 0.5, right, 5, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 0.6, hit.Distance, tol)
	assert.InDelta(t, 1, hit.Normal.Len(), tol)
	assert.Less(t, hit.Normal.Y, 0.0)
}

func TestCastCircleReturnsNearest(t *testing.T) {
	s := geometry.NewSpace()
	far := &owner{category: physics.CategoryBrick}
	near := &owner{category: physics.CategoryBrick}
	_, err := s.AddBox(box(3, -1, 3.5, 1), geometry.WithOwner(far))
	require.NoError(t, err)
	_, err = s.AddBox(box(1, -1, 1.5, 1), geometry.WithOwner(near))
	require.NoError(t, err)

	hit, ok := s.CastCircle(physics.Vec2{}, 0.25, right, 10, physics.LayerAll)
	require.True(t, ok)
	assert.Same(t, near, hit.Body.(*owner))
	assert.InDelta(t, 0.75, hit.Distance, tol)
}

func TestCastCircleRespectsRange(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(1, -1, 1.5, 1))
	require.NoError(t, err)

	_, ok := s.CastCircle(physics.Vec2{}, 0.25, right, 0.5, physics.LayerAll)
	assert.False(t, ok)

	_, ok = s.CastCircle(physics.Vec2{}, 0.25, physics.Vec2{X: -1}, 10, physics.LayerAll)
	assert.False(t, ok)
}

func TestCastCircleFiltersByLayer(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(1, -1, 1.5, 1), geometry.WithLayer(physics.LayerBricks))
	require.NoError(t, err)

	_, ok := s.CastCircle(physics.Vec2{}, 0.25, right, 5, physics.LayerPaddle|physics.LayerBounds)
	assert.False(t, ok)

	_, ok = s.CastCircle(physics.Vec2{}, 0.25, right, 5, physics.LayerBricks)
	assert.True(t, ok)
}

func TestCastCircleSkipsInactiveOwners(t *testing.T) {
	s := geometry.NewSpace()
	broken := &owner{category: physics.CategoryBrick, inactive: true}
	behind := &owner{category: physics.CategoryWall}
	_, err := s.AddBox(box(1, -1, 1.5, 1), geometry.WithOwner(broken))
	require.NoError(t, err)
	_, err = s.AddBox(box(4, -1, 4.5, 1), geometry.WithOwner(behind))
	require.NoError(t, err)

	hit, ok := s.CastCircle(physics.Vec2{}, 0.25, right, 10, physics.LayerAll)
	require.True(t, ok)
	assert.Same(t, behind, hit.Body.(*owner))
	assert.InDelta(t, 3.75, hit.Distance, tol)
}

func TestCastCircleSegment(t *testing.T) {
	s := geometry.NewSpace()
	c, err := s.AddSegment(physics.Vec2{X: -5, Y: -1}, physics.Vec2{X: 5, Y: -1}, 0, geometry.WithCategory(physics.CategoryDeathZone))
	require.NoError(t, err)
	assert.Equal(t, physics.CategoryDeathZone, c.Category())

	hit, ok := s.CastCircle(physics.Vec2{}, 0.25, physics.Vec2{Y: -1}, 5, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 0.75, hit.Distance, tol)
	assert.InDelta(t, 1, hit.Normal.Y, tol)
	assert.Equal(t, physics.CategoryDeathZone, hit.Category)
}

func TestCastCircleStartingInsideShape(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(7, 0.8, 9, 1.2))
	require.NoError(t, err)

	// bottom of the circle sits 0.005 below the top face
	origin := physics.Vec2{X: 8, Y: 1.445}

	_, ok := s.CastCircle(origin, 0.25, physics.Vec2{Y: 1}, 0.16, physics.LayerAll)
	assert.False(t, ok, "leaving the box")
	_, ok = s.CastCircle(origin, 0.25, right, 0.16, physics.LayerAll)
	assert.False(t, ok, "sliding along the face")

	hit, ok := s.CastCircle(origin, 0.25, physics.Vec2{Y: -1}, 0.16, physics.LayerAll)
	require.True(t, ok)
	assert.Zero(t, hit.Distance)
	assert.InDelta(t, 1, hit.Normal.Y, tol)
	assert.InDelta(t, 8, hit.Point.X, tol)
	assert.InDelta(t, 1.2, hit.Point.Y, tol)
}

func TestCastCircleRejectsDegenerateQueries(t *testing.T) {
	s := geometry.NewSpace()
	_, err := s.AddBox(box(1, -1, 1.5, 1))
	require.NoError(t, err)

	queries := []struct {
		name   string
		origin physics.Vec2
		radius float64
		dir    physics.Vec2
		dist   float64
	}{
		{"zero direction", physics.Vec2{}, 0.25, physics.Vec2{}, 5},
		{"zero distance", physics.Vec2{}, 0.25, right, 0},
		{"nan distance", physics.Vec2{}, 0.25, right, math.NaN()},
		{"negative radius", physics.Vec2{}, -1, right, 5},
		{"nan origin", physics.Vec2{X: math.NaN()}, 0.25, right, 5},
	}
	for _, q := range queries {
		t.Run(q.name, func(t *testing.T) {
			_, ok := s.CastCircle(q.origin, q.radius, q.dir, q.dist, physics.LayerAll)
			assert.False(t, ok)
		})
	}
}

func TestAddRejectsDegenerateShapes(t *testing.T) {
	s := geometry.NewSpace()

	_, err := s.AddBox(box(1, 1, 1, 2))
	assert.ErrorIs(t, err, geometry.ErrDegenerateShape)

	_, err = s.AddSegment(physics.Vec2{X: 1}, physics.Vec2{X: 1}, 0.1)
	assert.ErrorIs(t, err, geometry.ErrDegenerateShape)

	_, err = s.AddSegment(physics.Vec2{}, physics.Vec2{X: 1}, -0.1)
	assert.ErrorIs(t, err, geometry.ErrDegenerateShape)

	assert.Zero(t, s.Len())
}

func TestMoveToAndRemove(t *testing.T) {
	s := geometry.NewSpace()
	paddle := &owner{category: physics.CategoryPaddle}
	c, err := s.AddBox(box(-1, -2, 1, -1.5), geometry.WithOwner(paddle), geometry.WithLayer(physics.LayerPaddle))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.MoveTo(c, physics.Vec2{X: 3, Y: -1.75}))
	assert.Equal(t, box(2, -2, 4, -1.5), c.Bounds())

	_, ok := s.CastCircle(physics.Vec2{}, 0.25, physics.Vec2{Y: -1}, 5, physics.LayerAll)
	assert.False(t, ok, "old position must be gone")

	hit, ok := s.CastCircle(physics.Vec2{X: 3}, 0.25, physics.Vec2{Y: -1}, 5, physics.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 1.25, hit.Distance, tol)
	assert.Equal(t, box(2, -2, 4, -1.5), hit.Bounds)
	assert.Equal(t, 1, s.Len())

	s.Remove(c)
	s.Remove(c)
	assert.Zero(t, s.Len())
	assert.ErrorIs(t, s.MoveTo(c, physics.Vec2{}), geometry.ErrUnknownCollider)

	_, ok = s.CastCircle(physics.Vec2{X: 3}, 0.25, physics.Vec2{Y: -1}, 5, physics.LayerAll)
	assert.False(t, ok)
}

func TestWorldBouncesOffSpaceWalls(t *testing.T) {
	s := geometry.NewSpace()
	wall := &owner{category: physics.CategoryWall}
	_, err := s.AddBox(box(0.75, -5, 1, 5), geometry.WithOwner(wall), geometry.WithLayer(physics.LayerBounds))
	require.NoError(t, err)

	settings := physics.DefaultSettings()
	settings.FixedDeltaTime = 100 * time.Millisecond
	w, err := physics.NewWorld(settings, s)
	require.NoError(t, err)

	ball := &owner{vel: physics.Vec2{X: 10}, radius: 0.25, category: physics.CategoryBall}
	require.NoError(t, w.Register(ball))
	require.NoError(t, w.Register(wall))

	w.Tick()

	assert.InDelta(t, -0.01, ball.pos.X, tol)
	assert.InDelta(t, -10, ball.vel.X, tol)
	assert.Equal(t, 1, ball.hits)
	assert.Equal(t, 1, wall.hits)
}
