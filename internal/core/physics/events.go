package physics

import "github.com/zeusync/arkanoid/internal/core/events/bus"

// Event types published by the world.
const (
	EventCollision      = "physics.collision"
	EventBallLost       = "physics.ball_lost"
	EventSweepTruncated = "physics.sweep_truncated"

	eventSource = "physics.world"
)

// CollisionEvent is the payload of EventCollision, published once per contact
// from the ball's point of view.
type CollisionEvent struct {
	Ball   Body
	Record CollisionRecord
}

// BallLostEvent is the payload of EventBallLost.
type BallLostEvent struct {
	Ball Body
}

// SweepTruncatedEvent is the payload of EventSweepTruncated: the ball hit the
// per-sweep collision limit with travel left over.
type SweepTruncatedEvent struct {
	Ball       Body
	Collisions int
	Remaining  float64
}

// OnCollisionDetected subscribes fn to every contact. Cancel the returned
// subscription when the listener goes away.
func (w *World) OnCollisionDetected(fn func(ball Body, record CollisionRecord)) (bus.Subscription, error) {
	return w.events.Subscribe(EventCollision, func(e bus.Event) error {
		if ev, ok := e.Data().(CollisionEvent); ok {
			fn(ev.Ball, ev.Record)
		}
		return nil
	})
}

// OnBallLost subscribes fn to death-zone contacts.
func (w *World) OnBallLost(fn func(ball Body)) (bus.Subscription, error) {
	return w.events.Subscribe(EventBallLost, func(e bus.Event) error {
		if ev, ok := e.Data().(BallLostEvent); ok {
			fn(ev.Ball)
		}
		return nil
	})
}

// OnSweepTruncated subscribes fn to sweeps cut short by MaxCollisionsPerSweep.
func (w *World) OnSweepTruncated(fn func(SweepTruncatedEvent)) (bus.Subscription, error) {
	return w.events.Subscribe(EventSweepTruncated, func(e bus.Event) error {
		if ev, ok := e.Data().(SweepTruncatedEvent); ok {
			fn(ev)
		}
		return nil
	})
}

// Events exposes the bus the world publishes on.
func (w *World) Events() bus.EventBus { return w.events }
