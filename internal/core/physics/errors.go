package physics

import "errors"

var (
	ErrInvalidSettings = errors.New("invalid physics settings")
	ErrInvalidBody     = errors.New("invalid physics body")
	ErrNilProvider     = errors.New("geometry provider is nil")
	ErrUnknownCategory = errors.New("unknown body category")
)
