package game

import "slices"

// BrickManager tracks the standing bricks and the score they are worth.
type BrickManager struct {
	active []*Brick
	score  int

	onDestroyed    []func(b *Brick, score int)
	onAllDestroyed []func()
	onScore        []func(total int)
}

func NewBrickManager() *BrickManager {
	return &BrickManager{}
}

// Add starts tracking bricks. Each brick reports its destruction back here.
func (m *BrickManager) Add(bricks ...*Brick) {
	for _, b := range bricks {
		if b == nil || !b.active || slices.Contains(m.active, b) {
			continue
		}
		b.onDestroyed = m.handleDestroyed
		m.active = append(m.active, b)
	}
}

func (m *BrickManager) OnBrickDestroyed(fn func(b *Brick, score int)) {
	m.onDestroyed = append(m.onDestroyed, fn)
}

func (m *BrickManager) OnAllBricksDestroyed(fn func()) {
	m.onAllDestroyed = append(m.onAllDestroyed, fn)
}

func (m *BrickManager) OnScoreChanged(fn func(total int)) {
	m.onScore = append(m.onScore, fn)
}

func (m *BrickManager) handleDestroyed(b *Brick) {
	b.onDestroyed = nil
	m.active = slices.DeleteFunc(m.active, func(x *Brick) bool { return x == b })

	m.score += b.score
	for _, fn := range m.onScore {
		fn(m.score)
	}
	for _, fn := range m.onDestroyed {
		fn(b, b.score)
	}
	if len(m.active) == 0 {
		for _, fn := range m.onAllDestroyed {
			fn()
		}
	}
}

// Clear stops tracking every brick without destroying them.
func (m *BrickManager) Clear() {
	for _, b := range m.active {
		b.onDestroyed = nil
	}
	m.active = nil
}

func (m *BrickManager) ResetScore() {
	m.score = 0
	for _, fn := range m.onScore {
		fn(0)
	}
}

func (m *BrickManager) ActiveCount() int { return len(m.active) }
func (m *BrickManager) Score() int       { return m.score }

// Bricks returns a copy of the standing bricks.
func (m *BrickManager) Bricks() []*Brick { return slices.Clone(m.active) }
