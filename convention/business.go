package convention

import (
	"time"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
)

// =============================================================================
// BUSINESS DAY CONVENTIONS
// =============================================================================

// BusinessDay moves a date that is not a business day in a calendar to a
// nearby business day. Business days are returned unchanged by every
// convention.
type BusinessDay interface {
	Name() name.Name
	Adjust(d dates.Date, c holiday.Calendar) dates.Date
}

type businessDay struct {
	name   name.Name
	adjust func(dates.Date, holiday.Calendar) dates.Date
}

func (b *businessDay) Name() name.Name { return b.name }

func (b *businessDay) Adjust(d dates.Date, c holiday.Calendar) dates.Date {
	return b.adjust(d, c)
}

func newBusinessDay(n string, adjust func(dates.Date, holiday.Calendar) dates.Date) *businessDay {
	return &businessDay{name: name.MustNew(n), adjust: adjust}
}

var (
	NoAdjust BusinessDay = newBusinessDay("NoAdjust", func(d dates.Date, _ holiday.Calendar) dates.Date {
		return d
	})

	Following BusinessDay = newBusinessDay("Following", func(d dates.Date, c holiday.Calendar) dates.Date {
		return holiday.NextOrSame(c, d)
	})

	// ModifiedFollowing is Following unless that changes month, then Preceding.
	ModifiedFollowing BusinessDay = newBusinessDay("ModifiedFollowing", holidayArgs(holiday.NextSameOrLastInMonth))

	// ModifiedFollowingBiMonthly also falls back when Following crosses the
	// middle of the month (from day 15 or earlier to day 16 or later).
	ModifiedFollowingBiMonthly BusinessDay = newBusinessDay("ModifiedFollowingBiMonthly", func(d dates.Date, c holiday.Calendar) dates.Date {
		next := holiday.NextOrSame(c, d)
		if !next.SameMonth(d) || (d.Day() <= 15 && next.Day() > 15) {
			return holiday.Previous(c, d)
		}
		return next
	})

	Preceding BusinessDay = newBusinessDay("Preceding", func(d dates.Date, c holiday.Calendar) dates.Date {
		return holiday.PreviousOrSame(c, d)
	})

	// ModifiedPreceding is Preceding unless that changes month, then Following.
	ModifiedPreceding BusinessDay = newBusinessDay("ModifiedPreceding", func(d dates.Date, c holiday.Calendar) dates.Date {
		prev := holiday.PreviousOrSame(c, d)
		if !prev.SameMonth(d) {
			return holiday.Next(c, d)
		}
		return prev
	})

	// Nearest approximates the closest business day by weekday: holidays on
	// Sunday or Monday move forward, all others move back.
	Nearest BusinessDay = newBusinessDay("Nearest", func(d dates.Date, c holiday.Calendar) dates.Date {
		if holiday.IsBusinessDay(c, d) {
			return d
		}
		if wd := d.Weekday(); wd == time.Sunday || wd == time.Monday {
			return holiday.Next(c, d)
		}
		return holiday.Previous(c, d)
	})
)

// holidayArgs adapts a holiday package function to the adjust signature.
func holidayArgs(fn func(holiday.Calendar, dates.Date) dates.Date) func(dates.Date, holiday.Calendar) dates.Date {
	return func(d dates.Date, c holiday.Calendar) dates.Date { return fn(c, d) }
}
