package sim

import (
	"errors"

	"github.com/propulsor-sim/propulsor-sim/sim/surrogate"
)

var (
	// ErrUnsupportedSurrogate reports an unrecognized surrogate_type.
	ErrUnsupportedSurrogate = surrogate.ErrUnsupported

	// ErrInvalidConfig reports a configuration value out of range.
	ErrInvalidConfig = errors.New("invalid propulsor configuration")

	// ErrUninitialized is returned when evaluating before a surrogate was built.
	ErrUninitialized = errors.New("propulsor surrogate not built")

	// ErrEmptyTable is returned when building from a deck with no rows.
	ErrEmptyTable = errors.New("engine deck has no rows")

	// ErrDegenerateColumn is returned when a normalizing column maximum is not
	// a positive finite number.
	ErrDegenerateColumn = errors.New("engine deck column cannot be normalized")

	// ErrAnchorPrediction is returned when the surrogate predicts zero or a
	// non-finite value at an anchor condition.
	ErrAnchorPrediction = errors.New("surrogate prediction at anchor is unusable")

	// ErrMisalignedState is returned when flight state batches differ in length.
	ErrMisalignedState = errors.New("flight state batches are not aligned")
)
