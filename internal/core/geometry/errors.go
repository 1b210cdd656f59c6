package geometry

import "errors"

var (
	ErrDegenerateShape = errors.New("geometry: degenerate shape")
	ErrUnknownCollider = errors.New("geometry: collider not in space")
)
