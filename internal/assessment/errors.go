package assessment

import "errors"

var (
	// ErrInvalidCategory is returned when a (level, category) pair is not configured.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidConfiguration is returned for unusable weight, threshold or total tables.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidDelta is returned when an adjustment is not +1 or -1.
	ErrInvalidDelta = errors.New("invalid delta")
	// ErrUnknownLevel is returned when parsing an unrecognized level name.
	ErrUnknownLevel = errors.New("unknown level")
)
