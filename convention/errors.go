package convention

import (
	"errors"
	"fmt"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/period"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned by the registries for unknown names.
	ErrNotFound = errors.New("convention not found")

	// ErrInvalidDay is returned for a day-of-month roll outside 1-31.
	ErrInvalidDay = errors.New("day of month out of range")

	// ErrInvalidWeekday is returned for a weekday outside Sunday-Saturday.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrScheduleInfoRequired is returned by day counts that need the
	// coupon period (Act/365L, Act/Act ICMA) when it is not supplied.
	ErrScheduleInfoRequired = errors.New("day count requires schedule info")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError names the family and the name that failed to resolve.
type NotFoundError struct {
	Family string // "roll", "business day", "day count", "period addition"
	Name   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s convention %q", e.Family, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input:
// malformed text, out-of-range values, unordered dates or a missing
// precondition.
func IsClientError(err error) bool {
	return errors.Is(err, period.ErrInvalidFormat) ||
		errors.Is(err, period.ErrOutOfRange) ||
		errors.Is(err, period.ErrOverflow) ||
		errors.Is(err, period.ErrMixedUnits) ||
		period.IsUsageError(err) ||
		errors.Is(err, dates.ErrUnordered) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidWeekday) ||
		errors.Is(err, ErrScheduleInfoRequired) ||
		errors.Is(err, name.ErrEmpty) ||
		errors.Is(err, name.ErrTooLong) ||
		errors.Is(err, holiday.ErrReserved) ||
		errors.Is(err, holiday.ErrNoBusinessDay)
}

// IsNotFound returns true if the error indicates an unknown convention or
// calendar name.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, holiday.ErrNotFound)
}
