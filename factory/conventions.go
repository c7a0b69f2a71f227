/*
Package factory converts JSON convention sets into resolved Go values.

PURPOSE:
  A convention set names the calendar, business day convention, roll,
  day count, period addition rule and frequency that together describe how
  one stream of dates is generated and accrued. The JSON form stores names
  only; the factory resolves every name through the registries so a bad
  name fails at load time rather than at first use.

JSON SCHEMA:
  {
    "id": "usd-semi-bond",
    "calendar": "US",
    "business_day": "ModifiedFollowing",
    "roll": "EOM",
    "day_count": "30/360",
    "period_addition": "LastDay",
    "frequency": "P6M"
  }

DEFAULTS:
  - calendar: None
  - business_day: NoAdjust
  - period_addition: None
  - frequency: Term
  - roll: unset (Conventions.Roll is nil)
  - day_count: required

USAGE:
  f := factory.NewConventionFactory()
  set, err := f.ParseConventions(jsonString)
  paid := set.Adjust(date)

SEE ALSO:
  - convention/registry.go: name lookup for every convention family
  - holiday/registry.go: calendar lookup, including "A+B" composites
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/convention-engine/convention"
	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/period"
)

// ErrDayCountRequired is returned when a convention set has no day count.
var ErrDayCountRequired = errors.New("day_count is required")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConventionsJSON is the JSON representation of a convention set.
type ConventionsJSON struct {
	ID             string `json:"id"`
	Calendar       string `json:"calendar,omitempty"`
	BusinessDay    string `json:"business_day,omitempty"`
	Roll           string `json:"roll,omitempty"`
	DayCount       string `json:"day_count"`
	PeriodAddition string `json:"period_addition,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
}

// Conventions is a resolved convention set.
type Conventions struct {
	ID             string
	Calendar       holiday.Calendar
	BusinessDay    convention.BusinessDay
	Roll           convention.Roll // nil when the set has no roll
	DayCount       convention.DayCount
	PeriodAddition convention.PeriodAddition
	Frequency      period.Frequency
}

// Adjust applies the business day convention in the set's calendar.
func (c *Conventions) Adjust(d dates.Date) dates.Date {
	return c.BusinessDay.Adjust(d, c.Calendar)
}

// Add adds p with the period addition rule, then adjusts the result.
func (c *Conventions) Add(d dates.Date, p period.Period) dates.Date {
	return c.Adjust(c.PeriodAddition.Adjust(d, p, c.Calendar))
}

// Step moves one frequency forward from d. With a roll the step follows
// Roll.Next; without one it adds the frequency's period.
func (c *Conventions) Step(d dates.Date) (dates.Date, error) {
	if c.Roll != nil {
		return c.Roll.Next(d, c.Frequency)
	}
	switch {
	case c.Frequency.IsZero():
		return dates.Date{}, fmt.Errorf("step: %w", period.ErrZeroFrequency)
	case c.Frequency.IsTerm():
		return dates.Date{}, fmt.Errorf("step: %w", period.ErrTermArithmetic)
	}
	return c.PeriodAddition.Adjust(d, c.Frequency.Period(), c.Calendar), nil
}

// YearFraction accrues [first, second] with the set's day count. The set's
// frequency fills info.Frequency when it is unset.
func (c *Conventions) YearFraction(first, second dates.Date, info *convention.ScheduleInfo) (decimal.Decimal, error) {
	if info != nil && info.Frequency.IsZero() {
		withFreq := *info
		withFreq.Frequency = c.Frequency
		info = &withFreq
	}
	return c.DayCount.YearFraction(first, second, info)
}

// =============================================================================
// CONVENTION FACTORY
// =============================================================================

// ConventionFactory converts JSON convention sets to Go values.
type ConventionFactory struct{}

// NewConventionFactory creates a new convention factory.
func NewConventionFactory() *ConventionFactory {
	return &ConventionFactory{}
}

// ParseConventions parses a JSON string into a resolved convention set.
func (f *ConventionFactory) ParseConventions(jsonStr string) (*Conventions, error) {
	var cj ConventionsJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("failed to parse conventions JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON resolves every name in cj. The first failing field is reported.
func (f *ConventionFactory) FromJSON(cj ConventionsJSON) (*Conventions, error) {
	if cj.DayCount == "" {
		return nil, fmt.Errorf("conventions %q: %w", cj.ID, ErrDayCountRequired)
	}

	c := &Conventions{ID: cj.ID}
	var err error
	if c.Calendar, err = parseCalendar(cj.Calendar); err != nil {
		return nil, fieldErr(cj.ID, "calendar", err)
	}
	if c.BusinessDay, err = convention.BusinessDayOf(orDefault(cj.BusinessDay, "NoAdjust")); err != nil {
		return nil, fieldErr(cj.ID, "business_day", err)
	}
	if cj.Roll != "" {
		if c.Roll, err = convention.RollOf(cj.Roll); err != nil {
			return nil, fieldErr(cj.ID, "roll", err)
		}
	}
	if c.DayCount, err = convention.DayCountOf(cj.DayCount); err != nil {
		return nil, fieldErr(cj.ID, "day_count", err)
	}
	if c.PeriodAddition, err = convention.PeriodAdditionOf(orDefault(cj.PeriodAddition, "None")); err != nil {
		return nil, fieldErr(cj.ID, "period_addition", err)
	}
	if c.Frequency, err = period.ParseFrequency(orDefault(cj.Frequency, "Term")); err != nil {
		return nil, fieldErr(cj.ID, "frequency", err)
	}
	return c, nil
}

// ToJSON converts a convention set back to its names.
func (f *ConventionFactory) ToJSON(c *Conventions) ConventionsJSON {
	cj := ConventionsJSON{
		ID:             c.ID,
		Calendar:       c.Calendar.Name().String(),
		BusinessDay:    c.BusinessDay.Name().String(),
		DayCount:       c.DayCount.Name().String(),
		PeriodAddition: c.PeriodAddition.Name().String(),
		Frequency:      c.Frequency.String(),
	}
	if c.Roll != nil {
		cj.Roll = c.Roll.Name().String()
	}
	return cj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseCalendar(s string) (holiday.Calendar, error) {
	if s == "" {
		return holiday.None, nil
	}
	return holiday.Of(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fieldErr(id, field string, err error) error {
	return fmt.Errorf("conventions %q: %s: %w", id, field, err)
}
