package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
)

// Epsilon is the travel distance below which a sweep stops.
const Epsilon = 1e-4

// Stats are cumulative counters over the world's lifetime.
type Stats struct {
	Ticks       uint64
	BallsSwept  uint64
	Casts       uint64
	Collisions  uint64
	BallsLost   uint64
	Truncations uint64
	InvalidHits uint64
}

// World sweeps every active ball through its per-tick displacement against the
// geometry supplied by a Provider, resolving any number of bounces (up to
// Settings.MaxCollisionsPerSweep) inside one tick.
//
// A World is driven from a single goroutine; Tick and every callback it
// triggers run synchronously.
type World struct {
	settings   Settings
	provider   Provider
	registry   *Registry
	strategies *StrategyTable
	events     bus.EventBus
	logger     log.Log
	stats      Stats
}

type Option func(*World)

func WithLogger(l log.Log) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithEventBus publishes world events on b instead of a private bus.
func WithEventBus(b bus.EventBus) Option {
	return func(w *World) {
		if b != nil {
			w.events = b
		}
	}
}

// WithStrategy overrides the response strategy for one category.
func WithStrategy(c Category, s Strategy) Option {
	return func(w *World) {
		w.strategies.Set(c, s)
	}
}

// NewWorld validates settings and builds a world on top of provider.
func NewWorld(settings Settings, provider Provider, opts ...Option) (*World, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrNilProvider
	}

	w := &World{
		settings:   settings,
		provider:   provider,
		registry:   NewRegistry(),
		strategies: DefaultStrategies(settings),
		events:     bus.New(),
		logger:     log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named("physics")

	w.logger.Info("physics world created",
		log.Float64("ball_speed_min", settings.BallSpeedMin),
		log.Float64("ball_speed_max", settings.BallSpeedMax),
		log.Int("max_collisions_per_sweep", settings.MaxCollisionsPerSweep),
		log.Duration("fixed_delta_time", settings.FixedDeltaTime),
	)
	return w, nil
}

// Register adds body to the world. Balls need a positive radius and must
// implement MovableBody. Mid-tick registrations take effect after the tick.
func (w *World) Register(body Body) error {
	if body == nil {
		return fmt.Errorf("%w: nil body", ErrInvalidBody)
	}
	if body.Category() == CategoryBall {
		if _, ok := body.(MovableBody); !ok {
			return fmt.Errorf("%w: ball does not implement MovableBody", ErrInvalidBody)
		}
		if r := body.Radius(); !(r > 0) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: ball radius %v", ErrInvalidBody, r)
		}
	}
	w.registry.Register(body)
	return nil
}

// Unregister removes body. Unknown bodies and repeated calls are ignored.
func (w *World) Unregister(body Body) {
	w.registry.Unregister(body)
}

// ActiveBalls returns the balls that are swept this tick, in registration order.
func (w *World) ActiveBalls() []Body { return w.registry.ActiveBalls() }

// Registry exposes the body set, mostly for inspection.
func (w *World) Registry() *Registry { return w.registry }

func (w *World) Settings() Settings { return w.settings }

func (w *World) Stats() Stats { return w.stats }

// SetStrategy replaces the response strategy for c. Passing nil restores the
// reflective fallback for that category.
func (w *World) SetStrategy(c Category, s Strategy) {
	w.strategies.Set(c, s)
}

// Tick advances the world by Settings.FixedDeltaTime.
func (w *World) Tick() {
	w.Step(w.settings.FixedDeltaTime)
}

// Step advances the world by dt. Non-positive dt does nothing.
func (w *World) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	if w.registry.InTick() {
		w.logger.Warn("nested tick ignored")
		return
	}

	balls := w.registry.begin()
	defer w.registry.end()

	w.stats.Ticks++
	seconds := dt.Seconds()
	for _, body := range balls {
		if !body.IsActive() {
			continue
		}
		ball, ok := body.(MovableBody)
		if !ok {
			continue
		}
		w.sweep(ball, seconds)
	}
}

// Clear unregisters every body.
func (w *World) Clear() {
	w.registry.Clear()
}

// Close releases the body set. The world must not be ticked afterwards.
func (w *World) Close() error {
	w.Clear()
	w.logger.Info("physics world closed", log.Uint64("ticks", w.stats.Ticks))
	return nil
}

func (w *World) sweep(ball MovableBody, dt float64) {
	position := ball.Position()
	velocity := ball.Velocity()
	radius := ball.Radius()
	remaining := velocity.Len() * dt
	collisions := 0

	w.stats.BallsSwept++

	for remaining > Epsilon && collisions < w.settings.MaxCollisionsPerSweep {
		direction := velocity.Normalize()

		w.stats.Casts++
		hit, ok := w.provider.CastCircle(position, radius, direction, remaining, w.settings.CollisionMask)
		if ok && !w.acceptHit(ball, &hit, direction, remaining) {
			ok = false
		}
		if !ok {
			position = position.Add(direction.Scale(remaining))
			remaining = 0
			break
		}

		advance := math.Max(hit.Distance-w.settings.ContactOffset, 0)
		position = position.Add(direction.Scale(advance))

		record := recordFromHit(hit)
		w.stats.Collisions++

		ball.OnCollision(record)
		w.publish(EventCollision, CollisionEvent{Ball: ball, Record: record})
		if record.Other != nil {
			record.Other.OnCollision(record.mirror(ball, position))
		}

		if record.OtherCategory == CategoryDeathZone {
			w.stats.BallsLost++
			w.publish(EventBallLost, BallLostEvent{Ball: ball})
			return
		}

		velocity = w.bounce(velocity, record)

		remaining -= advance + w.settings.ContactOffset
		collisions++
	}

	if remaining > Epsilon {
		w.stats.Truncations++
		w.logger.Debug("sweep truncated",
			log.Int("collisions", collisions),
			log.Float64("remaining", remaining),
		)
		w.publish(EventSweepTruncated, SweepTruncatedEvent{Ball: ball, Collisions: collisions, Remaining: remaining})
	}

	ball.SetPosition(position)
	ball.SetVelocity(velocity)
}

// bounce applies the strategy of the struck category and clamps the result
// to the speed bounds. A strategy answer without a direction falls back to
// plain reflection.
func (w *World) bounce(velocity Vec2, record CollisionRecord) Vec2 {
	next := w.strategies.Lookup(record.OtherCategory).Reflect(velocity, record)
	if next.IsZero() || !next.IsFinite() {
		w.logger.Debug("strategy returned no direction, reflecting",
			log.Stringer("category", record.OtherCategory),
		)
		next = ReflectStrategy{}.Reflect(velocity, record)
	}
	return ClampSpeed(next, w.settings.BallSpeedMin, w.settings.BallSpeedMax)
}

// acceptHit rejects anomalous provider answers so they count as "no hit". The
// normal is normalized in place.
func (w *World) acceptHit(ball Body, hit *Hit, direction Vec2, remaining float64) bool {
	reason := ""
	switch {
	case math.IsNaN(hit.Distance) || hit.Distance < 0:
		reason = "bad distance"
	case hit.Distance > remaining+Epsilon:
		reason = "beyond cast range"
	case !hit.Normal.IsFinite() || hit.Normal.IsZero():
		reason = "degenerate normal"
	case hit.Normal.Dot(direction) >= 0:
		reason = "receding surface"
	case !hit.Point.IsFinite():
		reason = "bad contact point"
	case hit.Body == ball:
		reason = "self hit"
	}
	if reason != "" {
		w.stats.InvalidHits++
		w.logger.Debug("ignoring provider hit",
			log.String("reason", reason),
			log.Float64("distance", hit.Distance),
		)
		return false
	}
	hit.Normal = hit.Normal.Normalize()
	return true
}

func recordFromHit(hit Hit) CollisionRecord {
	category := hit.Category
	if hit.Body != nil {
		category = hit.Body.Category()
	}
	return CollisionRecord{
		ContactPoint:  hit.Point,
		Normal:        hit.Normal,
		Other:         hit.Body,
		OtherCategory: category.orWall(),
		OtherBounds:   hit.Bounds,
		Distance:      hit.Distance,
	}
}

func (w *World) publish(eventType string, data any) {
	if err := w.events.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		w.logger.Warn("event handler failed",
			log.String("event", eventType),
			log.Error(err),
		)
	}
}
