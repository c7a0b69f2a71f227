/*
Package dates provides the day-granularity date value used by every
convention in the engine.

PURPOSE:
  Conventions work on calendar days, never instants. Date wraps a UTC
  midnight time.Time so values are comparable with == and usable as map
  keys, and adds the month arithmetic the market conventions assume.

MONTH ARITHMETIC:
  AddMonths and AddYears clamp to the last day of the target month:

    Jan 31 + 1 month  = Feb 28 (Feb 29 in leap years)
    Feb 29 + 1 year   = Feb 28

  time.Time.AddDate would normalize Jan 31 + 1 month to Mar 3 instead,
  which breaks end-of-month rolling.

TEXT FORMAT:
  ISO "YYYY-MM-DD", parsed and printed through civil.Date.
*/
package dates

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ErrUnordered is returned by interval operations when the start is not
// before the end.
var ErrUnordered = errors.New("dates out of order")

// UnorderedError carries the offending interval.
type UnorderedError struct {
	First  Date
	Second Date
}

func (e *UnorderedError) Error() string {
	return fmt.Sprintf("dates out of order: %s is after %s", e.First, e.Second)
}

func (e *UnorderedError) Unwrap() error { return ErrUnordered }

// =============================================================================
// DATE
// =============================================================================

// Date is a calendar day. The zero value is January 1, year 1.
type Date struct {
	t time.Time
}

// New builds a date. Out-of-range values normalize the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock and location of t, keeping its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// FromCivil converts a civil.Date.
func FromCivil(d civil.Date) Date { return New(d.Year, d.Month, d.Day) }

// Parse reads an ISO "YYYY-MM-DD" date.
func Parse(s string) (Date, error) {
	cd, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromCivil(cd), nil
}

// MustParse is Parse for tests and fixed tables. Panics on invalid input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) Compare(other Date) int        { return d.t.Compare(other.t) }

// Properties
func (d Date) Year() int               { return d.t.Year() }
func (d Date) Month() time.Month       { return d.t.Month() }
func (d Date) Day() int                { return d.t.Day() }
func (d Date) Weekday() time.Weekday   { return d.t.Weekday() }
func (d Date) YearDay() int            { return d.t.YearDay() }
func (d Date) Time() time.Time         { return d.t }
func (d Date) IsZero() bool            { return d.t.IsZero() }
func (d Date) Civil() civil.Date       { return civil.DateOf(d.t) }
func (d Date) IsLeapYear() bool        { return IsLeapYear(d.Year()) }
func (d Date) DaysInMonth() int        { return DaysIn(d.Year(), d.Month()) }
func (d Date) IsEndOfMonth() bool      { return d.Day() == d.DaysInMonth() }
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths moves n months, clamping the day to the target month's length.
func (d Date) AddMonths(n int) Date {
	// First of the target month, then clamp.
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(d.Day(), DaysIn(first.Year(), first.Month()))
	return New(first.Year(), first.Month(), day)
}

// AddYears moves n years, clamping Feb 29 to Feb 28 in non-leap years.
func (d Date) AddYears(n int) Date { return d.AddMonths(12 * n) }

// DaysSince returns the signed number of days from other to d. Counted in
// whole days, so spans beyond the time.Duration range stay exact.
func (d Date) DaysSince(other Date) int {
	return d.Civil().DaysSince(other.Civil())
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return New(d.Year(), d.Month(), 1) }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date { return New(d.Year(), d.Month(), d.DaysInMonth()) }

// WithDay returns d's year and month with the day replaced, clamped to the
// month's length.
func (d Date) WithDay(day int) Date {
	return New(d.Year(), d.Month(), min(max(day, 1), d.DaysInMonth()))
}

// NextOrSame returns d if it falls on wd, else the next date that does.
func (d Date) NextOrSame(wd time.Weekday) Date {
	return d.AddDays((int(wd) - int(d.Weekday()) + 7) % 7)
}

// PreviousOrSame returns d if it falls on wd, else the previous date that does.
func (d Date) PreviousOrSame(wd time.Weekday) Date {
	return d.AddDays(-((int(d.Weekday()) - int(wd) + 7) % 7))
}

func (d Date) String() string { return d.Civil().String() }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// =============================================================================
// CALENDAR UTILITIES
// =============================================================================

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear returns 366 for leap years, else 365.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// CheckOrdered returns an UnorderedError unless first is strictly before second.
func CheckOrdered(first, second Date) error {
	if !first.Before(second) {
		return &UnorderedError{First: first, Second: second}
	}
	return nil
}

// ContainsLeapDay reports whether a February 29 falls in (from, to].
func ContainsLeapDay(from, to Date) bool {
	for y := from.Year(); y <= to.Year(); y++ {
		if !IsLeapYear(y) {
			continue
		}
		feb29 := New(y, time.February, 29)
		if feb29.After(from) && !feb29.After(to) {
			return true
		}
	}
	return false
}
