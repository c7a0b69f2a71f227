package convention

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/period"
)

// =============================================================================
// DAY COUNT CONVENTIONS
// =============================================================================
//
// A day count turns the accrual interval [first, second] into a year
// fraction. Every variant requires first <= second; equal dates accrue 0
// (except 1/1, which is always 1).

// ScheduleInfo describes the coupon period that contains an accrual
// interval. Act/365L and Act/Act ICMA need it; the others ignore it.
type ScheduleInfo struct {
	Start     dates.Date
	End       dates.Date
	Frequency period.Frequency

	// PeriodEnd optionally returns the scheduled coupon date that closes the
	// period containing a date. When nil, End anchors the nominal periods.
	PeriodEnd func(dates.Date) dates.Date
}

// DayCount converts a date interval into days and a year fraction.
type DayCount interface {
	Name() name.Name
	DayCount(first, second dates.Date, info *ScheduleInfo) (int, error)
	YearFraction(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error)
}

func checkInterval(first, second dates.Date) error {
	if first.After(second) {
		return &dates.UnorderedError{First: first, Second: second}
	}
	return nil
}

func ratio(num, den int) decimal.Decimal {
	return decimal.NewFromInt(int64(num)).Div(decimal.NewFromInt(int64(den)))
}

// actualDays counts calendar days; the year fraction is supplied per variant.
type actualDays struct {
	name     name.Name
	fraction func(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error)
}

func (a *actualDays) Name() name.Name { return a.name }

func (a *actualDays) DayCount(first, second dates.Date, _ *ScheduleInfo) (int, error) {
	if err := checkInterval(first, second); err != nil {
		return 0, err
	}
	return second.DaysSince(first), nil
}

func (a *actualDays) YearFraction(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error) {
	if err := checkInterval(first, second); err != nil {
		return decimal.Zero, err
	}
	if first == second {
		return decimal.Zero, nil
	}
	return a.fraction(first, second, info)
}

func fixedBasis(basis int) func(dates.Date, dates.Date, *ScheduleInfo) (decimal.Decimal, error) {
	return func(first, second dates.Date, _ *ScheduleInfo) (decimal.Decimal, error) {
		return ratio(second.DaysSince(first), basis), nil
	}
}

var (
	// OneOne is the degenerate 1/1 convention: one day, one year.
	OneOne DayCount = oneOne{name: name.MustNew("1/1")}

	// ActActISDA splits the interval at year boundaries and divides each
	// part by the length of its own year.
	ActActISDA DayCount = &actualDays{name: name.MustNew("Act/Act ISDA"), fraction: actActISDA}

	// Act365A divides by 366 when a February 29 falls in (first, second].
	Act365A DayCount = &actualDays{name: name.MustNew("Act/365A"), fraction: act365A}

	// Act365L picks 365 or 366 from the coupon period.
	Act365L DayCount = &actualDays{name: name.MustNew("Act/365L"), fraction: act365L}

	// ActActICMA divides the days in each nominal coupon period by the
	// period's length times the coupon frequency.
	ActActICMA DayCount = &actualDays{name: name.MustNew("Act/Act ICMA"), fraction: actActICMA}

	Act360  DayCount = &actualDays{name: name.MustNew("Act/360"), fraction: fixedBasis(360)}
	Act365F DayCount = &actualDays{name: name.MustNew("Act/365F"), fraction: fixedBasis(365)}

	// Thirty360 is the ISDA 30/360 bond basis.
	Thirty360 DayCount = thirty360{name: name.MustNew("30/360")}

	// ThirtyE360 is the 30E/360 eurobond basis.
	ThirtyE360 DayCount = thirty360{name: name.MustNew("30E/360"), european: true}
)

// =============================================================================
// ACTUAL VARIANTS
// =============================================================================

func actActISDA(first, second dates.Date, _ *ScheduleInfo) (decimal.Decimal, error) {
	y1, y2 := first.Year(), second.Year()
	len1, len2 := dates.DaysInYear(y1), dates.DaysInYear(y2)
	if y1 == y2 {
		return ratio(second.YearDay()-first.YearDay(), len1), nil
	}
	head := ratio(len1-first.YearDay()+1, len1)
	tail := ratio(second.YearDay()-1, len2)
	return head.Add(tail).Add(decimal.NewFromInt(int64(y2 - y1 - 1))), nil
}

func act365A(first, second dates.Date, _ *ScheduleInfo) (decimal.Decimal, error) {
	basis := 365
	if dates.ContainsLeapDay(first, second) {
		basis = 366
	}
	return ratio(second.DaysSince(first), basis), nil
}

func act365L(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error) {
	if info == nil || info.Start.IsZero() || info.End.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: Act/365L needs the coupon period", ErrScheduleInfoRequired)
	}
	if info.Frequency.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: Act/365L needs the coupon frequency", ErrScheduleInfoRequired)
	}
	if err := checkInterval(info.Start, info.End); err != nil {
		return decimal.Zero, err
	}
	basis := 365
	if info.Frequency.IsAnnual() {
		if dates.ContainsLeapDay(info.Start, info.End) {
			basis = 366
		}
	} else if info.End.IsLeapYear() {
		basis = 366
	}
	return ratio(second.DaysSince(first), basis), nil
}

// actActICMA walks the nominal periods of the coupon frequency that overlap
// [first, second). Nominal period boundaries are the anchor shifted by whole
// multiples of the frequency, so long and short stubs are measured against
// regular periods rather than their own length.
func actActICMA(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error) {
	if info == nil || info.End.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: Act/Act ICMA needs the coupon period", ErrScheduleInfoRequired)
	}
	f := info.Frequency
	if f.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: Act/Act ICMA needs the coupon frequency", ErrScheduleInfoRequired)
	}
	if f.IsTerm() {
		return decimal.Zero, fmt.Errorf("nominal periods: %w", period.ErrTermArithmetic)
	}

	anchor := info.End
	if info.PeriodEnd != nil {
		anchor = info.PeriodEnd(second)
	}
	grid := nominalGrid(anchor, f)

	k := 0
	for grid(k).After(first) {
		k--
	}
	for !grid(k + 1).After(first) {
		k++
	}

	sum := decimal.Zero
	for d := first; d.Before(second); k++ {
		lo, hi := grid(k), grid(k+1)
		end := hi
		if second.Before(end) {
			end = second
		}
		sum = sum.Add(ratio(end.DaysSince(d), hi.DaysSince(lo)))
		d = end
	}
	return sum.Div(f.EventsPerYearEstimate()), nil
}

// nominalGrid returns the k-th nominal period boundary relative to anchor.
// Month-end anchors stay at month end for month-based frequencies.
func nominalGrid(anchor dates.Date, f period.Frequency) func(int) dates.Date {
	p := f.Period()
	eom := f.IsMonthBased() && anchor.IsEndOfMonth()
	return func(k int) dates.Date {
		n := k
		if n < 0 {
			n = -n
		}
		step, err := p.Mul(n)
		if err != nil {
			panic(fmt.Sprintf("convention: nominal period %s x %d: %v", p, n, err))
		}
		d := step.AddTo(anchor)
		if k < 0 {
			d = step.SubtractFrom(anchor)
		}
		if eom {
			d = d.EndOfMonth()
		}
		return d
	}
}

// =============================================================================
// FIXED VARIANTS
// =============================================================================

type oneOne struct{ name name.Name }

func (o oneOne) Name() name.Name { return o.name }

func (oneOne) DayCount(first, second dates.Date, _ *ScheduleInfo) (int, error) {
	if err := checkInterval(first, second); err != nil {
		return 0, err
	}
	return 1, nil
}

func (oneOne) YearFraction(first, second dates.Date, _ *ScheduleInfo) (decimal.Decimal, error) {
	if err := checkInterval(first, second); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(1), nil
}

// thirty360 counts every month as 30 days. Day 31 becomes 30; the bond
// basis only adjusts the second date when the first one was adjusted.
type thirty360 struct {
	name     name.Name
	european bool
}

func (t thirty360) Name() name.Name { return t.name }

func (t thirty360) DayCount(first, second dates.Date, _ *ScheduleInfo) (int, error) {
	if err := checkInterval(first, second); err != nil {
		return 0, err
	}
	d1, d2 := min(first.Day(), 30), second.Day()
	if t.european || d1 == 30 {
		d2 = min(d2, 30)
	}
	return 360*(second.Year()-first.Year()) +
		30*(int(second.Month())-int(first.Month())) +
		(d2 - d1), nil
}

func (t thirty360) YearFraction(first, second dates.Date, info *ScheduleInfo) (decimal.Decimal, error) {
	days, err := t.DayCount(first, second, info)
	if err != nil {
		return decimal.Zero, err
	}
	return ratio(days, 360), nil
}
