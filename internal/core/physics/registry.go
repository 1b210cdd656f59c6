package physics

import "slices"

// Registry is the set of bodies known to a World. Bodies are kept in
// registration order. While a tick is running, registrations and removals are
// buffered and applied once the tick ends, so collision callbacks can
// (un)register bodies without disturbing the sweep.
//
// Registry is not safe for concurrent use; the world runs on one goroutine.
type Registry struct {
	bodies        []Body
	pendingAdd    []Body
	pendingRemove []Body
	tickBalls     []Body
	ticking       bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds body if it is not present yet. During a tick the addition is
// deferred, and a pending removal of the same body is dropped instead.
func (r *Registry) Register(body Body) {
	if body == nil {
		return
	}
	if !r.ticking {
		if !slices.Contains(r.bodies, body) {
			r.bodies = append(r.bodies, body)
		}
		return
	}
	if i := slices.Index(r.pendingRemove, body); i >= 0 {
		r.pendingRemove = slices.Delete(r.pendingRemove, i, i+1)
		return
	}
	if !slices.Contains(r.bodies, body) && !slices.Contains(r.pendingAdd, body) {
		r.pendingAdd = append(r.pendingAdd, body)
	}
}

// Unregister removes body. Removing an absent body is a no-op. During a tick
// the removal is deferred, and a pending addition of the same body is dropped
// instead.
func (r *Registry) Unregister(body Body) {
	if body == nil {
		return
	}
	if !r.ticking {
		r.bodies = slices.DeleteFunc(r.bodies, func(b Body) bool { return b == body })
		return
	}
	if i := slices.Index(r.pendingAdd, body); i >= 0 {
		r.pendingAdd = slices.Delete(r.pendingAdd, i, i+1)
		return
	}
	if slices.Contains(r.bodies, body) && !slices.Contains(r.pendingRemove, body) {
		r.pendingRemove = append(r.pendingRemove, body)
	}
}

// ActiveBalls returns the active ball bodies in registration order. During a
// tick it returns the set captured when the tick started.
func (r *Registry) ActiveBalls() []Body {
	if r.ticking {
		return slices.Clone(r.tickBalls)
	}
	return r.collectBalls()
}

// Contains reports whether body is in the working set. Pending additions are
// not counted until the tick ends.
func (r *Registry) Contains(body Body) bool {
	return slices.Contains(r.bodies, body)
}

func (r *Registry) Len() int { return len(r.bodies) }

// Bodies returns a copy of the working set.
func (r *Registry) Bodies() []Body { return slices.Clone(r.bodies) }

// Pending returns the sizes of the deferred buffers.
func (r *Registry) Pending() (adds, removes int) {
	return len(r.pendingAdd), len(r.pendingRemove)
}

// InTick reports whether a tick is in progress.
func (r *Registry) InTick() bool { return r.ticking }

// Clear drops every body. During a tick all bodies are queued for removal.
func (r *Registry) Clear() {
	if r.ticking {
		r.pendingAdd = r.pendingAdd[:0]
		r.pendingRemove = append(r.pendingRemove[:0], r.bodies...)
		return
	}
	r.bodies = nil
	r.pendingAdd = nil
	r.pendingRemove = nil
}

// begin opens a tick and captures the balls to sweep.
func (r *Registry) begin() []Body {
	r.flush()
	r.ticking = true
	r.tickBalls = r.collectBalls()
	return r.tickBalls
}

// end closes the tick and applies the deferred buffers.
func (r *Registry) end() {
	r.ticking = false
	r.tickBalls = nil
	r.flush()
}

func (r *Registry) flush() {
	for _, body := range r.pendingRemove {
		r.bodies = slices.DeleteFunc(r.bodies, func(b Body) bool { return b == body })
	}
	r.pendingRemove = r.pendingRemove[:0]
	for _, body := range r.pendingAdd {
		if !slices.Contains(r.bodies, body) {
			r.bodies = append(r.bodies, body)
		}
	}
	r.pendingAdd = r.pendingAdd[:0]
}

func (r *Registry) collectBalls() []Body {
	var balls []Body
	for _, b := range r.bodies {
		if b.Category() == CategoryBall && b.IsActive() {
			balls = append(balls, b)
		}
	}
	return balls
}
