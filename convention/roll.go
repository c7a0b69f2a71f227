package convention

import (
	"fmt"
	"time"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/period"
)

// =============================================================================
// ROLL CONVENTIONS
// =============================================================================

// Roll selects the canonical day within a month (or week) for recurring
// dates such as coupon or reset dates.
type Roll interface {
	Name() name.Name

	// DayOfMonth is the target day for day-of-month rolls, 31 for end of
	// month and 0 for rolls that do not target a fixed day.
	DayOfMonth() int

	// Adjust moves d to the roll position of its month (or week).
	Adjust(d dates.Date) dates.Date

	// Matches reports whether d already sits on the roll position.
	Matches(d dates.Date) bool

	// Next steps one frequency forward and rolls.
	Next(d dates.Date, f period.Frequency) (dates.Date, error)

	// Previous steps one frequency back and rolls.
	Previous(d dates.Date, f period.Frequency) (dates.Date, error)
}

// monthlyRoll is the shared Next/Previous for rolls that adjust within a
// month. The result is strictly after (before) d: if the adjustment pulls
// the candidate back onto or past d, it is bumped by one month.
type monthlyRoll struct {
	adjust func(dates.Date) dates.Date
}

func (r monthlyRoll) Adjust(d dates.Date) dates.Date { return r.adjust(d) }

func (r monthlyRoll) Matches(d dates.Date) bool { return r.adjust(d) == d }

func (r monthlyRoll) Next(d dates.Date, f period.Frequency) (dates.Date, error) {
	stepped, err := f.AddTo(d)
	if err != nil {
		return dates.Date{}, err
	}
	candidate := r.adjust(stepped)
	if candidate.After(d) {
		return candidate, nil
	}
	return r.adjust(candidate.AddMonths(1)), nil
}

func (r monthlyRoll) Previous(d dates.Date, f period.Frequency) (dates.Date, error) {
	stepped, err := f.SubtractFrom(d)
	if err != nil {
		return dates.Date{}, err
	}
	candidate := r.adjust(stepped)
	if candidate.Before(d) {
		return candidate, nil
	}
	return r.adjust(candidate.AddMonths(-1)), nil
}

// dayOfMonth rolls to a fixed day 1-30, clamped to the month's length.
type dayOfMonth struct {
	monthlyRoll
	name name.Name
	day  int
}

func newDayOfMonth(day int) *dayOfMonth {
	r := &dayOfMonth{name: name.MustNew(fmt.Sprintf("Day%d", day)), day: day}
	r.adjust = func(d dates.Date) dates.Date { return d.WithDay(day) }
	return r
}

func (r *dayOfMonth) Name() name.Name { return r.name }
func (r *dayOfMonth) DayOfMonth() int { return r.day }

// Matches accepts the target day, or the last day of a month shorter than
// the target.
func (r *dayOfMonth) Matches(d dates.Date) bool {
	return d.Day() == r.day || (d.DaysInMonth() < r.day && d.IsEndOfMonth())
}

// endOfMonth rolls to the last calendar day of the month.
type endOfMonth struct {
	monthlyRoll
	name name.Name
}

func (r *endOfMonth) Name() name.Name { return r.name }
func (r *endOfMonth) DayOfMonth() int { return 31 }

// ruleRoll is a named rule within the month (IMM dates and the like).
type ruleRoll struct {
	monthlyRoll
	name name.Name
}

func (r *ruleRoll) Name() name.Name { return r.name }
func (r *ruleRoll) DayOfMonth() int { return 0 }

// nthWeekday returns the n-th wd on or after day `from` of d's month.
func nthWeekday(d dates.Date, from int, wd time.Weekday, n int) dates.Date {
	return dates.New(d.Year(), d.Month(), from).NextOrSame(wd).AddDays(7 * (n - 1))
}

// dayOfWeek rolls forward to a fixed weekday.
//
// Next and Previous step by the frequency and then search for the weekday
// (forward for Next, backward for Previous). Unlike the monthly rolls they
// do not bump a result that lands on d itself.
type dayOfWeek struct {
	name name.Name
	wd   time.Weekday
}

func (r *dayOfWeek) Name() name.Name                { return r.name }
func (r *dayOfWeek) DayOfMonth() int                { return 0 }
func (r *dayOfWeek) Adjust(d dates.Date) dates.Date { return d.NextOrSame(r.wd) }
func (r *dayOfWeek) Matches(d dates.Date) bool      { return d.Weekday() == r.wd }

func (r *dayOfWeek) Next(d dates.Date, f period.Frequency) (dates.Date, error) {
	stepped, err := f.AddTo(d)
	if err != nil {
		return dates.Date{}, err
	}
	return stepped.NextOrSame(r.wd), nil
}

func (r *dayOfWeek) Previous(d dates.Date, f period.Frequency) (dates.Date, error) {
	stepped, err := f.SubtractFrom(d)
	if err != nil {
		return dates.Date{}, err
	}
	return stepped.PreviousOrSame(r.wd), nil
}

// =============================================================================
// INSTANCES
// =============================================================================

var (
	dayRolls = func() (rolls [30]*dayOfMonth) {
		for i := range rolls {
			rolls[i] = newDayOfMonth(i + 1)
		}
		return rolls
	}()

	EOM Roll = &endOfMonth{
		monthlyRoll: monthlyRoll{adjust: dates.Date.EndOfMonth},
		name:        name.MustNew("EOM"),
	}

	// IMM is the third Wednesday of the month.
	IMM Roll = &ruleRoll{
		monthlyRoll: monthlyRoll{adjust: func(d dates.Date) dates.Date {
			return nthWeekday(d, 1, time.Wednesday, 3)
		}},
		name: name.MustNew("IMM"),
	}

	// IMMNZD is the first Wednesday on or after the 9th.
	IMMNZD Roll = &ruleRoll{
		monthlyRoll: monthlyRoll{adjust: func(d dates.Date) dates.Date {
			return nthWeekday(d, 9, time.Wednesday, 1)
		}},
		name: name.MustNew("IMMNZD"),
	}

	// SFE is the second Friday of the month (Sydney Futures Exchange).
	SFE Roll = &ruleRoll{
		monthlyRoll: monthlyRoll{adjust: func(d dates.Date) dates.Date {
			return nthWeekday(d, 1, time.Friday, 2)
		}},
		name: name.MustNew("SFE"),
	}

	weekdayRolls = func() (rolls [7]*dayOfWeek) {
		abbrev := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
		for wd := range rolls {
			rolls[wd] = &dayOfWeek{name: name.MustNew(abbrev[wd]), wd: time.Weekday(wd)}
		}
		return rolls
	}()
)

// DayOfMonthRoll returns the roll for a fixed day. 31 returns EOM.
func DayOfMonthRoll(day int) (Roll, error) {
	switch {
	case day == 31:
		return EOM, nil
	case day >= 1 && day <= 30:
		return dayRolls[day-1], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidDay, day)
}

// DayOfWeekRoll returns the roll for a fixed weekday.
func DayOfWeekRoll(wd time.Weekday) (Roll, error) {
	if wd < time.Sunday || wd > time.Saturday {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, wd)
	}
	return weekdayRolls[wd], nil
}
