package holiday

import (
	"slices"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/name"
)

// =============================================================================
// NO HOLIDAYS - identity element of Combined
// =============================================================================

type noHolidays struct{ name name.Name }

func (c noHolidays) Name() name.Name                { return c.name }
func (noHolidays) IsHoliday(dates.Date) bool        { return false }
func (noHolidays) Next(d dates.Date) dates.Date     { return d.AddDays(1) }
func (noHolidays) Previous(d dates.Date) dates.Date { return d.AddDays(-1) }

// None has no holidays; every day is a business day.
var None Calendar = noHolidays{name: name.MustNew("None")}

// =============================================================================
// WEEKEND CALENDARS
// =============================================================================

// Weekend is a calendar whose only holidays are fixed weekdays.
type Weekend struct {
	name name.Name
	days [7]bool
}

// NewWeekend builds a weekend calendar from its non-business weekdays.
func NewWeekend(n name.Name, days ...time.Weekday) *Weekend {
	w := &Weekend{name: n}
	for _, d := range days {
		w.days[d] = true
	}
	return w
}

func (w *Weekend) Name() name.Name             { return w.name }
func (w *Weekend) IsHoliday(d dates.Date) bool { return w.days[d.Weekday()] }

var (
	SatSun = NewWeekend(name.MustNew("Sat/Sun"), time.Saturday, time.Sunday)
	Sun    = NewWeekend(name.MustNew("Sun"), time.Sunday)
	Sat    = NewWeekend(name.MustNew("Sat"), time.Saturday)
	FriSat = NewWeekend(name.MustNew("Fri/Sat"), time.Friday, time.Saturday)
	ThuFri = NewWeekend(name.MustNew("Thu/Fri"), time.Thursday, time.Friday)
)

// =============================================================================
// MARKET CALENDARS - backed by github.com/rickar/cal
// =============================================================================

// Market adapts a cal.BusinessCalendar. Observed holidays and the
// calendar's non-workdays are holidays.
type Market struct {
	name name.Name
	bc   *cal.BusinessCalendar
}

// NewMarket wraps a business calendar; bc must not be modified afterwards.
func NewMarket(n name.Name, bc *cal.BusinessCalendar) *Market {
	return &Market{name: n, bc: bc}
}

func (m *Market) Name() name.Name { return m.name }
func (m *Market) IsHoliday(d dates.Date) bool {
	return !m.bc.IsWorkday(d.Time())
}

func usFederal() *cal.BusinessCalendar {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return bc
}

// US is the US federal holiday calendar on a Saturday/Sunday weekend.
var US = NewMarket(name.MustNew("US"), usFederal())

// =============================================================================
// DATE SET - explicit holiday lists
// =============================================================================

// Entry is one holiday in a DateSet. Recurring entries match the same month
// and day every year.
type Entry struct {
	Date      dates.Date
	Name      string
	Recurring bool
}

type monthDay struct {
	month time.Month
	day   int
}

// DateSet is a weekend calendar plus an explicit list of holidays. It is
// immutable once built.
type DateSet struct {
	name      name.Name
	weekend   Calendar
	fixed     map[dates.Date]struct{}
	recurring map[monthDay]struct{}
	entries   []Entry
}

// NewDateSet builds a DateSet. A nil weekend means Sat/Sun.
func NewDateSet(n name.Name, weekend Calendar, entries ...Entry) *DateSet {
	if weekend == nil {
		weekend = SatSun
	}
	s := &DateSet{
		name:      n,
		weekend:   weekend,
		fixed:     make(map[dates.Date]struct{}),
		recurring: make(map[monthDay]struct{}),
		entries:   slices.Clone(entries),
	}
	for _, e := range entries {
		if e.Recurring {
			s.recurring[monthDay{e.Date.Month(), e.Date.Day()}] = struct{}{}
		} else {
			s.fixed[e.Date] = struct{}{}
		}
	}
	slices.SortFunc(s.entries, func(a, b Entry) int { return a.Date.Compare(b.Date) })
	return s
}

func (s *DateSet) Name() name.Name { return s.name }

func (s *DateSet) IsHoliday(d dates.Date) bool {
	if s.weekend.IsHoliday(d) {
		return true
	}
	if _, ok := s.fixed[d]; ok {
		return true
	}
	_, ok := s.recurring[monthDay{d.Month(), d.Day()}]
	return ok
}

// Entries returns the holidays sorted by date.
func (s *DateSet) Entries() []Entry { return slices.Clone(s.entries) }

// Weekend returns the base calendar.
func (s *DateSet) Weekend() Calendar { return s.weekend }
