package conflict

import "github.com/pkg/errors"

var (
	// ErrNilSource indicates New was called without a row source.
	ErrNilSource = errors.New("conflict: nil row source")

	// ErrRowIndexOutOfRange indicates a row or conflict id outside [0, TotalRowCount).
	ErrRowIndexOutOfRange = errors.New("conflict: row index out of range")

	// ErrDuplicateRow indicates the row source yielded the same index twice.
	ErrDuplicateRow = errors.New("conflict: duplicate row index")

	// ErrMissingRow indicates the row source yielded fewer rows than it counted.
	ErrMissingRow = errors.New("conflict: row missing from source")

	// ErrInvalidEpsilon indicates ε outside (0, 1], not finite, or too small to
	// sample (see MaxSampleCount).
	ErrInvalidEpsilon = errors.New("conflict: epsilon must be in (0, 1]")

	// ErrInvalidOption indicates an option with an unusable value.
	ErrInvalidOption = errors.New("conflict: invalid option")
)
