package period

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFormat is returned for malformed period or frequency text.
	ErrInvalidFormat = errors.New("invalid period format")

	// ErrOutOfRange is returned for negative components or factors.
	ErrOutOfRange = errors.New("period component out of range")

	// ErrOverflow is returned when arithmetic exceeds the component range.
	ErrOverflow = errors.New("period arithmetic overflow")

	// ErrMixedUnits is returned when a result would combine weeks with
	// years, months or days.
	ErrMixedUnits = errors.New("weeks cannot be combined with years, months or days")

	// ErrTermArithmetic is returned when a Term frequency is used for date
	// arithmetic, reciprocal or division.
	ErrTermArithmetic = errors.New("term frequency has no periodicity")

	// ErrZeroFrequency is returned when a frequency is built from the zero
	// period. Use Term instead.
	ErrZeroFrequency = errors.New("zero period is not a frequency, use Term")

	// ErrNotExact is returned when a frequency has no exact events per year
	// or does not divide evenly.
	ErrNotExact = errors.New("frequency is not exact")

	// ErrIncompatible is returned when two frequencies have different bases.
	ErrIncompatible = errors.New("frequencies are not compatible")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FormatError describes why a period or frequency text was rejected.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid period %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

func formatErr(input, reason string) error {
	return &FormatError{Input: input, Reason: reason}
}

// IsUsageError reports errors caused by calling an operation on a value that
// cannot support it, as opposed to malformed input.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrTermArithmetic) ||
		errors.Is(err, ErrZeroFrequency) ||
		errors.Is(err, ErrNotExact) ||
		errors.Is(err, ErrIncompatible)
}
