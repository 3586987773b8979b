package clock

import "errors"

var (
	// ErrInvalidDate indicates input that does not name a calendar instant.
	ErrInvalidDate = errors.New("clock: invalid date")

	// ErrInvalidScale indicates a zero, NaN or infinite time scale.
	ErrInvalidScale = errors.New("clock: invalid time scale")

	ErrScaleStep     = errors.New("clock: scale step out of range")
	ErrUnknownPreset = errors.New("clock: unknown scale preset")
)
