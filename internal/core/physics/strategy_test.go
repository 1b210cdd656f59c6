package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestReflectStrategyFollowsReflectionLaw(t *testing.T) {
	cases := []struct {
		name   string
		v      Vec2
		normal Vec2
		want   Vec2
	}{
		{"floor", Vec2{3, -4}, Vec2{0, 1}, Vec2{3, 4}},
		{"left wall", Vec2{5, 1}, Vec2{-1, 0}, Vec2{-5, 1}},
		{"diagonal", Vec2{1, 0}, Vec2{-math.Sqrt2 / 2, math.Sqrt2 / 2}, Vec2{0, 1}},
		{"unnormalized normal", Vec2{0, -2}, Vec2{0, 10}, Vec2{0, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReflectStrategy{}.Reflect(tc.v, CollisionRecord{Normal: tc.normal})
			assert.InDelta(t, tc.want.X, got.X, tol)
			assert.InDelta(t, tc.want.Y, got.Y, tol)
			assert.InDelta(t, tc.v.Len(), got.Len(), tol)
		})
	}
}

func TestReflectStrategyZeroNormalKeepsVelocity(t *testing.T) {
	v := Vec2{1, 2}
	assert.Equal(t, v, ReflectStrategy{}.Reflect(v, CollisionRecord{}))
}

func paddleRecord(contactX float64) CollisionRecord {
	return CollisionRecord{
		ContactPoint:  Vec2{contactX, 0},
		Normal:        Vec2{0, 1},
		OtherCategory: CategoryPaddle,
		OtherBounds:   Bounds{Min: Vec2{-1, -0.25}, Max: Vec2{1, 0.25}},
	}
}

func TestPaddleStrategyCenterHitGoesStraightUp(t *testing.T) {
	p := PaddleStrategy{MaxBounceAngleDegrees: 75, MinVerticalComponent: 0.3}
	got := p.Reflect(Vec2{3, -4}, paddleRecord(0))
	assert.InDelta(t, 0, got.X, tol)
	assert.InDelta(t, 5, got.Y, tol)
}

func TestPaddleStrategyEdgeHitUsesMaxAngle(t *testing.T) {
	p := PaddleStrategy{MaxBounceAngleDegrees: 60, MinVerticalComponent: 0.3}
	rad := 60 * math.Pi / 180

	right := p.Reflect(Vec2{0, -10}, paddleRecord(1))
	assert.InDelta(t, 10*math.Sin(rad), right.X, tol)
	assert.InDelta(t, 10*math.Cos(rad), right.Y, tol)

	left := p.Reflect(Vec2{0, -10}, paddleRecord(-1))
	assert.InDelta(t, -10*math.Sin(rad), left.X, tol)
	assert.InDelta(t, 10*math.Cos(rad), left.Y, tol)
}

func TestPaddleStrategyClampsOffsetBeyondEdge(t *testing.T) {
	p := PaddleStrategy{MaxBounceAngleDegrees: 45}
	beyond := p.Direction(paddleRecord(5))
	edge := p.Direction(paddleRecord(1))
	assert.InDelta(t, edge.X, beyond.X, tol)
	assert.InDelta(t, edge.Y, beyond.Y, tol)
}

func TestPaddleStrategyAppliesVerticalFloor(t *testing.T) {
	// cos(85°) ≈ 0.087 is below the 0.3 floor
	p := PaddleStrategy{MaxBounceAngleDegrees: 85, MinVerticalComponent: 0.3}
	dir := p.Direction(paddleRecord(1))

	rad := 85 * math.Pi / 180
	want := Vec2{math.Sin(rad), 0.3}.Normalize()
	assert.InDelta(t, want.X, dir.X, tol)
	assert.InDelta(t, want.Y, dir.Y, tol)
	assert.InDelta(t, 1, dir.Len(), tol)

	v := p.Reflect(Vec2{7, 0}, paddleRecord(1))
	assert.InDelta(t, 7, v.Len(), tol)
}

func TestPaddleStrategyWithoutBoundsUsesBodyCenter(t *testing.T) {
	p := PaddleStrategy{MaxBounceAngleDegrees: 75}
	rec := CollisionRecord{ContactPoint: Vec2{3, 0}, Other: &staticBody{pos: Vec2{2, 0}, cat: CategoryPaddle}}
	dir := p.Direction(rec)
	assert.InDelta(t, 0, dir.X, tol)
	assert.InDelta(t, 1, dir.Y, tol)
}

func TestStrategyTableLookupFallsBackToReflect(t *testing.T) {
	table := DefaultStrategies(DefaultSettings())
	assert.IsType(t, ReflectStrategy{}, table.Lookup(CategoryWall))
	assert.IsType(t, ReflectStrategy{}, table.Lookup(CategoryBrick))
	assert.IsType(t, PaddleStrategy{}, table.Lookup(CategoryPaddle))
	assert.IsType(t, ReflectStrategy{}, table.Lookup(CategoryDeathZone))
	assert.IsType(t, ReflectStrategy{}, table.Lookup(Category(200)))

	absorb := StrategyFunc(func(Vec2, CollisionRecord) Vec2 { return Vec2{} })
	table.Set(CategoryBrick, absorb)
	assert.Equal(t, Vec2{}, table.Lookup(CategoryBrick).Reflect(Vec2{1, 1}, CollisionRecord{}))

	table.Set(CategoryBrick, nil)
	assert.IsType(t, ReflectStrategy{}, table.Lookup(CategoryBrick))
}

func TestClampSpeed(t *testing.T) {
	assert.InDelta(t, 5, ClampSpeed(Vec2{1, 0}, 5, 15).Len(), tol)
	assert.InDelta(t, 15, ClampSpeed(Vec2{0, -40}, 5, 15).Len(), tol)
	assert.Equal(t, Vec2{6, 8}, ClampSpeed(Vec2{6, 8}, 5, 15))
	assert.Equal(t, Vec2{}, ClampSpeed(Vec2{}, 5, 15))

	dir := ClampSpeed(Vec2{0, -40}, 5, 15).Normalize()
	assert.InDelta(t, -1, dir.Y, tol)
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	bad := DefaultSettings()
	bad.BallRadius = 0
	bad.BallSpeedMax = 1
	bad.MaxCollisionsPerSweep = 0
	bad.FixedDeltaTime = 0
	bad.CollisionMask = LayerNone

	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSettings))
	for _, field := range []string{"ball_radius", "ball_speed_max", "max_collisions_per_sweep", "fixed_delta_time", "collision_mask"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestSettingsValidateBounds(t *testing.T) {
	tests := map[string]struct {
		mutate func(s *Settings)
		field  string
	}{
		"zero contact offset":     {func(s *Settings) { s.ContactOffset = 0 }, "contact_offset"},
		"negative contact offset": {func(s *Settings) { s.ContactOffset = -0.01 }, "contact_offset"},
		"nan contact offset":      {func(s *Settings) { s.ContactOffset = math.NaN() }, "contact_offset"},
		"right angle":             {func(s *Settings) { s.MaxPaddleBounceAngleDegrees = 90 }, "max_paddle_bounce_angle_degrees"},
		"zero angle":              {func(s *Settings) { s.MaxPaddleBounceAngleDegrees = 0 }, "max_paddle_bounce_angle_degrees"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	s := DefaultSettings()
	s.ContactOffset = 1e-6
	s.MaxPaddleBounceAngleDegrees = 89.9
	assert.NoError(t, s.Validate())
}

func TestSettingsValidateRejectsOutOfRangePaddleTuning(t *testing.T) {
	s := DefaultSettings()
	s.MaxPaddleBounceAngleDegrees = 120
	s.MinVerticalBounceComponent = 1
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_paddle_bounce_angle_degrees")
	assert.Contains(t, err.Error(), "min_vertical_bounce_component")
}

func TestCategoryText(t *testing.T) {
	for _, c := range []Category{CategoryBall, CategoryWall, CategoryPaddle, CategoryBrick, CategoryDeathZone} {
		text, err := c.MarshalText()
		require.NoError(t, err)
		var back Category
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	c, err := ParseCategory("DeathZone")
	require.NoError(t, err)
	assert.Equal(t, CategoryDeathZone, c)

	_, err = ParseCategory("lava")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	assert.Equal(t, CategoryWall, categoryUnspecified.orWall())
	assert.Equal(t, CategoryBrick, CategoryBrick.orWall())
}

func TestVectorHelpers(t *testing.T) {
	v := Vec2{3, 4}
	assert.Equal(t, 5.0, v.Len())
	assert.Equal(t, 25.0, v.LenSq())
	assert.InDelta(t, 1, v.Normalize().Len(), tol)
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
	assert.InDelta(t, 10, v.WithLength(10).Len(), tol)
	assert.False(t, Vec2{math.NaN(), 0}.IsFinite())

	b := BoundsFromCenter(Vec2{1, 1}, Vec2{4, 2})
	assert.Equal(t, Vec2{1, 1}, b.Center())
	assert.Equal(t, Vec2{2, 1}, b.HalfExtents())
	assert.True(t, b.Contains(Vec2{2.5, 1.5}))
	assert.False(t, b.Empty())
	assert.True(t, Bounds{}.Empty())
}

// staticBody is a minimal in-package Body for table and registry tests.
type staticBody struct {
	pos    Vec2
	cat    Category
	radius float64
	off    bool
}

func (b *staticBody) Position() Vec2              { return b.pos }
func (b *staticBody) Velocity() Vec2              { return Vec2{} }
func (b *staticBody) Radius() float64             { return b.radius }
func (b *staticBody) Category() Category          { return b.cat }
func (b *staticBody) IsActive() bool              { return !b.off }
func (b *staticBody) OnCollision(CollisionRecord) {}
