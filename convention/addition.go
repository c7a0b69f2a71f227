package convention

import (
	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/period"
)

// =============================================================================
// PERIOD ADDITION CONVENTIONS
// =============================================================================

// PeriodAddition adds a period to a date with an optional end-of-month rule.
type PeriodAddition interface {
	Name() name.Name

	// IsMonthBased reports whether the rule only makes sense for periods
	// measured in months or years.
	IsMonthBased() bool

	Adjust(d dates.Date, p period.Period, c holiday.Calendar) dates.Date
}

type periodAddition struct {
	name       name.Name
	monthBased bool
	adjust     func(dates.Date, period.Period, holiday.Calendar) dates.Date
}

func (a *periodAddition) Name() name.Name    { return a.name }
func (a *periodAddition) IsMonthBased() bool { return a.monthBased }

func (a *periodAddition) Adjust(d dates.Date, p period.Period, c holiday.Calendar) dates.Date {
	return a.adjust(d, p, c)
}

var (
	// PlainAddition adds the period with month clamping only.
	PlainAddition PeriodAddition = &periodAddition{
		name: name.MustNew("None"),
		adjust: func(d dates.Date, p period.Period, _ holiday.Calendar) dates.Date {
			return p.AddTo(d)
		},
	}

	// LastDay keeps month-end dates at month end: when d is the last
	// calendar day of its month, so is the result.
	LastDay PeriodAddition = &periodAddition{
		name:       name.MustNew("LastDay"),
		monthBased: true,
		adjust: func(d dates.Date, p period.Period, _ holiday.Calendar) dates.Date {
			result := p.AddTo(d)
			if d.IsEndOfMonth() {
				return result.EndOfMonth()
			}
			return result
		},
	}

	// LastBusinessDay keeps month-end business dates at month end: when d is
	// the last business day of its month, so is the result.
	LastBusinessDay PeriodAddition = &periodAddition{
		name:       name.MustNew("LastBusinessDay"),
		monthBased: true,
		adjust: func(d dates.Date, p period.Period, c holiday.Calendar) dates.Date {
			result := p.AddTo(d)
			if holiday.IsLastBusinessDayOfMonth(c, d) {
				return holiday.LastBusinessDayOfMonth(c, result)
			}
			return result
		},
	}
)
