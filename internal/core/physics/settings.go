package physics

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"
)

// Settings is fixed for the lifetime of a World.
type Settings struct {
	// Ball
	BallSpeed    float64 `yaml:"ball_speed"`
	BallSpeedMin float64 `yaml:"ball_speed_min"`
	BallSpeedMax float64 `yaml:"ball_speed_max"`
	BallRadius   float64 `yaml:"ball_radius"`

	// Collision
	ContactOffset         float64 `yaml:"contact_offset"`
	MaxCollisionsPerSweep int     `yaml:"max_collisions_per_sweep"`
	CollisionMask         Layer   `yaml:"collision_mask"`

	// Paddle
	MaxPaddleBounceAngleDegrees float64 `yaml:"max_paddle_bounce_angle_degrees"`
	MinVerticalBounceComponent  float64 `yaml:"min_vertical_bounce_component"`

	FixedDeltaTime time.Duration `yaml:"fixed_delta_time"`
}

// DefaultSettings returns the tuning the game ships with.
func DefaultSettings() Settings {
	return Settings{
		BallSpeed:                   8,
		BallSpeedMin:                5,
		BallSpeedMax:                15,
		BallRadius:                  0.25,
		ContactOffset:               0.01,
		MaxCollisionsPerSweep:       5,
		CollisionMask:               LayerAll,
		MaxPaddleBounceAngleDegrees: 75,
		MinVerticalBounceComponent:  0.3,
		FixedDeltaTime:              20 * time.Millisecond,
	}
}

// Validate reports every problem at once, wrapped in ErrInvalidSettings.
func (s Settings) Validate() error {
	var err error
	add := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf(format, args...))
	}

	if !(s.BallRadius > 0) || math.IsInf(s.BallRadius, 0) {
		add("ball_radius must be positive, got %v", s.BallRadius)
	}
	if !(s.BallSpeedMin > 0) {
		add("ball_speed_min must be positive, got %v", s.BallSpeedMin)
	}
	if !(s.BallSpeedMax >= s.BallSpeedMin) || math.IsInf(s.BallSpeedMax, 0) {
		add("ball_speed_max (%v) must not be below ball_speed_min (%v)", s.BallSpeedMax, s.BallSpeedMin)
	}
	if s.BallSpeed < s.BallSpeedMin || s.BallSpeed > s.BallSpeedMax || math.IsNaN(s.BallSpeed) {
		add("ball_speed (%v) must lie within [%v, %v]", s.BallSpeed, s.BallSpeedMin, s.BallSpeedMax)
	}
	if !(s.ContactOffset > 0) || math.IsInf(s.ContactOffset, 0) {
		add("contact_offset must be positive, got %v", s.ContactOffset)
	}
	if s.MaxCollisionsPerSweep < 1 {
		add("max_collisions_per_sweep must be at least 1, got %d", s.MaxCollisionsPerSweep)
	}
	if !(s.MaxPaddleBounceAngleDegrees > 0 && s.MaxPaddleBounceAngleDegrees < 90) {
		add("max_paddle_bounce_angle_degrees must lie in (0, 90), got %v", s.MaxPaddleBounceAngleDegrees)
	}
	if !(s.MinVerticalBounceComponent >= 0 && s.MinVerticalBounceComponent < 1) {
		add("min_vertical_bounce_component must lie in [0, 1), got %v", s.MinVerticalBounceComponent)
	}
	if s.CollisionMask == LayerNone {
		add("collision_mask must select at least one layer")
	}
	if s.FixedDeltaTime <= 0 {
		add("fixed_delta_time must be positive, got %v", s.FixedDeltaTime)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// ClampSpeed rescales v so its length lies in [lo, hi]. A zero vector has no
// direction to rescale and stays zero; the world never feeds it one.
func ClampSpeed(v Vec2, lo, hi float64) Vec2 {
	speed := v.Len()
	switch {
	case speed == 0:
		return v
	case speed < lo:
		return v.Scale(lo / speed)
	case speed > hi:
		return v.Scale(hi / speed)
	default:
		return v
	}
}
