package game

import (
	"github.com/google/uuid"

	"github.com/zeusync/arkanoid/internal/core/physics"
)

type State uint8

const (
	StateIdle State = iota
	StatePlaying
	StateWon
	StateLost
)

var stateNames = [...]string{"idle", "playing", "won", "lost"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Done reports whether the round is over.
func (s State) Done() bool { return s == StateWon || s == StateLost }

// Snapshot is a render-ready copy of the session.
type Snapshot struct {
	Tick   uint64          `json:"tick"`
	Level  string          `json:"level"`
	State  State           `json:"state"`
	Score  int             `json:"score"`
	Balls  []BallSnapshot  `json:"balls"`
	Paddle physics.Bounds  `json:"paddle"`
	Bricks []BrickSnapshot `json:"bricks"`
}

type BallSnapshot struct {
	ID       uuid.UUID    `json:"id"`
	Position physics.Vec2 `json:"position"`
	Velocity physics.Vec2 `json:"velocity"`
	Radius   float64      `json:"radius"`
	State    BallState    `json:"state"`
}

type BrickSnapshot struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Bounds  physics.Bounds `json:"bounds"`
	Health  int            `json:"health"`
	PowerUp bool           `json:"power_up,omitempty"`
}
