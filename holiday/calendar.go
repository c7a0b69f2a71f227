/*
Package holiday provides business-day calendars and the navigation
algorithms built on them.

PURPOSE:
  A Calendar is a named predicate: IsHoliday(date). Everything else
  (next business day, month-end business day, counting) is derived from
  that predicate by the package functions in this file, so a calendar
  implementation only has to answer one question.

KEY CONCEPTS:
  - Calendar: Name + IsHoliday. Weekends count as holidays.
  - Combined(a, b): holiday if either calendar says so (fewer business days)
  - Linked(a, b): holiday only if both say so (more business days)
  - DateSet: explicit holiday list on top of a weekend calendar

OVERRIDING DERIVED ALGORITHMS:
  Go interfaces have no default methods. A calendar that can answer Next or
  Previous faster than day-by-day stepping implements Nexter or Previouser;
  the package functions use those when present.

EXAMPLE:
  cal, _ := holiday.Of("Sat/Sun+US")
  holiday.Next(cal, dates.New(2024, time.July, 3))   // 2024-07-05
  n, _ := holiday.BusinessDaysBetween(cal, start, end)

SEE ALSO:
  - combine.go: Combined and Linked
  - builtin.go: weekend, market and date-set calendars
  - registry.go: lookup by name
*/
package holiday

import (
	"errors"
	"fmt"
	"iter"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/name"
)

var (
	// ErrNotFound is returned by Of for unknown calendar names.
	ErrNotFound = errors.New("calendar not found")

	// ErrReserved is returned when a run-time calendar name is a built-in
	// name or uses composite syntax.
	ErrReserved = errors.New("calendar name is reserved")

	// ErrNoBusinessDay is returned by CheckBusinessDays.
	ErrNoBusinessDay = errors.New("calendar has no business day in search range")
)

// maxSearchDays bounds business-day searches. A calendar with no business
// day in this window is misconfigured.
const maxSearchDays = 3660

// Calendar classifies dates as holidays (non-business days).
type Calendar interface {
	Name() name.Name
	IsHoliday(d dates.Date) bool
}

// Nexter is implemented by calendars with a faster Next.
type Nexter interface {
	Next(d dates.Date) dates.Date
}

// Previouser is implemented by calendars with a faster Previous.
type Previouser interface {
	Previous(d dates.Date) dates.Date
}

// Equal compares calendars by name.
func Equal(a, b Calendar) bool { return a.Name().Equal(b.Name()) }

// IsBusinessDay is the negation of IsHoliday.
func IsBusinessDay(c Calendar, d dates.Date) bool { return !c.IsHoliday(d) }

// Next returns the first business day strictly after d.
func Next(c Calendar, d dates.Date) dates.Date {
	if n, ok := c.(Nexter); ok {
		return n.Next(d)
	}
	return search(c, d, 1)
}

// Previous returns the first business day strictly before d.
func Previous(c Calendar, d dates.Date) dates.Date {
	if p, ok := c.(Previouser); ok {
		return p.Previous(d)
	}
	return search(c, d, -1)
}

func search(c Calendar, d dates.Date, step int) dates.Date {
	for i := 0; i < maxSearchDays; i++ {
		d = d.AddDays(step)
		if !c.IsHoliday(d) {
			return d
		}
	}
	panic(fmt.Sprintf("holiday: calendar %s has no business day within %d days of %s", c.Name(), maxSearchDays, d))
}

// CheckBusinessDays fails when d sits in a run of holidays too long for
// Next and Previous to cross.
func CheckBusinessDays(c Calendar, d dates.Date) error {
	if !c.IsHoliday(d) {
		return nil
	}
	run := 1
	for _, step := range []int{1, -1} {
		for x := d.AddDays(step); c.IsHoliday(x); x = x.AddDays(step) {
			if run++; run >= maxSearchDays {
				return fmt.Errorf("%w: %s around %s", ErrNoBusinessDay, c.Name(), d)
			}
		}
	}
	return nil
}

// NextOrSame returns d if it is a business day, else Next(d).
func NextOrSame(c Calendar, d dates.Date) dates.Date {
	if IsBusinessDay(c, d) {
		return d
	}
	return Next(c, d)
}

// PreviousOrSame returns d if it is a business day, else Previous(d).
func PreviousOrSame(c Calendar, d dates.Date) dates.Date {
	if IsBusinessDay(c, d) {
		return d
	}
	return Previous(c, d)
}

// Shift moves |n| business days forward (n > 0) or backward (n < 0).
func Shift(c Calendar, d dates.Date, n int) dates.Date {
	for ; n > 0; n-- {
		d = Next(c, d)
	}
	for ; n < 0; n++ {
		d = Previous(c, d)
	}
	return d
}

// NextSameOrLastInMonth returns NextOrSame(d) unless that leaves d's month,
// in which case it returns Previous(d). This is modified following.
func NextSameOrLastInMonth(c Calendar, d dates.Date) dates.Date {
	next := NextOrSame(c, d)
	if !next.SameMonth(d) {
		return Previous(c, d)
	}
	return next
}

// IsLastBusinessDayOfMonth reports whether d is a business day and the next
// business day falls in another month.
func IsLastBusinessDayOfMonth(c Calendar, d dates.Date) bool {
	return IsBusinessDay(c, d) && !Next(c, d).SameMonth(d)
}

// LastBusinessDayOfMonth returns the last business day of d's month.
func LastBusinessDayOfMonth(c Calendar, d dates.Date) dates.Date {
	return PreviousOrSame(c, d.EndOfMonth())
}

// =============================================================================
// RANGES - [start, end), start must be before end
// =============================================================================

// BusinessDays streams the business days in [start, end).
func BusinessDays(c Calendar, start, end dates.Date) (iter.Seq[dates.Date], error) {
	return filter(c, start, end, false)
}

// Holidays streams the holidays in [start, end).
func Holidays(c Calendar, start, end dates.Date) (iter.Seq[dates.Date], error) {
	return filter(c, start, end, true)
}

// BusinessDaysBetween counts the business days in [start, end).
func BusinessDaysBetween(c Calendar, start, end dates.Date) (int, error) {
	return count(c, start, end, false)
}

// HolidaysBetween counts the holidays in [start, end).
func HolidaysBetween(c Calendar, start, end dates.Date) (int, error) {
	return count(c, start, end, true)
}

func filter(c Calendar, start, end dates.Date, holidays bool) (iter.Seq[dates.Date], error) {
	if err := dates.CheckOrdered(start, end); err != nil {
		return nil, err
	}
	return func(yield func(dates.Date) bool) {
		for d := start; d.Before(end); d = d.AddDays(1) {
			if c.IsHoliday(d) == holidays && !yield(d) {
				return
			}
		}
	}, nil
}

func count(c Calendar, start, end dates.Date, holidays bool) (int, error) {
	seq, err := filter(c, start, end, holidays)
	if err != nil {
		return 0, err
	}
	n := 0
	for range seq {
		n++
	}
	return n, nil
}
