package salah

import "errors"

var (
	// ErrInvalidLocation is returned for coordinates or offsets out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUnreachableAngle is returned when the sun never reaches the
	// requested depression on the given day, as happens at high latitudes.
	ErrUnreachableAngle = errors.New("sun does not reach the required angle")
)
