/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Dates, periods and
  frequencies decode through their TextUnmarshaler implementations, so a
  malformed value fails while decoding the body.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

VALIDATION:
  Name lookups and ordering checks happen in handlers. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/conventions.go: ConventionsJSON type
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/period"
)

// =============================================================================
// CATALOG
// =============================================================================

// CatalogDTO lists every known name per family.
type CatalogDTO struct {
	Rolls           []string `json:"rolls"`
	BusinessDays    []string `json:"business_days"`
	DayCounts       []string `json:"day_counts"`
	PeriodAdditions []string `json:"period_additions"`
	Calendars       []string `json:"calendars"`
}

// PeriodDTO describes a parsed period or frequency.
type PeriodDTO struct {
	Input       string        `json:"input"`
	Canonical   string        `json:"canonical"`
	Normalized  string        `json:"normalized,omitempty"`
	TotalMonths int           `json:"total_months"`
	WeekBased   bool          `json:"week_based"`
	Frequency   *FrequencyDTO `json:"frequency,omitempty"`
}

// FrequencyDTO describes the events-per-year classification.
type FrequencyDTO struct {
	Term          bool            `json:"term"`
	EventsPerYear *int            `json:"events_per_year"` // null when not exact
	Estimate      decimal.Decimal `json:"estimate"`
	Base          string          `json:"base"` // term, month, week, day, mixed
	Reciprocal    string          `json:"reciprocal,omitempty"`
}

// =============================================================================
// DATE OPERATIONS
// =============================================================================

// AdjustRequest applies a business day convention.
type AdjustRequest struct {
	Date        dates.Date `json:"date"`
	Calendar    string     `json:"calendar"`
	BusinessDay string     `json:"business_day"`
}

// AdjustDTO is the adjusted date.
type AdjustDTO struct {
	Date          dates.Date `json:"date"`
	Adjusted      dates.Date `json:"adjusted"`
	IsBusinessDay bool       `json:"is_business_day"`
}

// RollRequest applies a roll convention. Direction is "adjust" (default),
// "next" or "previous"; next and previous need a frequency.
type RollRequest struct {
	Date      dates.Date        `json:"date"`
	Roll      string            `json:"roll"`
	Frequency *period.Frequency `json:"frequency,omitempty"`
	Direction string            `json:"direction,omitempty"`
}

// RollDTO is the rolled date.
type RollDTO struct {
	Date    dates.Date `json:"date"`
	Result  dates.Date `json:"result"`
	Matches bool       `json:"matches"`
}

// AddRequest adds a period with a period addition convention and an
// optional business day adjustment.
type AddRequest struct {
	Date           dates.Date    `json:"date"`
	Period         period.Period `json:"period"`
	Calendar       string        `json:"calendar,omitempty"`
	PeriodAddition string        `json:"period_addition,omitempty"`
	BusinessDay    string        `json:"business_day,omitempty"`
}

// AddDTO is the resulting date.
type AddDTO struct {
	Date   dates.Date `json:"date"`
	Result dates.Date `json:"result"`
}

// YearFractionRequest accrues [first, second]. Start, end and frequency
// describe the coupon period for day counts that need it.
type YearFractionRequest struct {
	First     dates.Date        `json:"first"`
	Second    dates.Date        `json:"second"`
	DayCount  string            `json:"day_count"`
	Start     *dates.Date       `json:"start,omitempty"`
	End       *dates.Date       `json:"end,omitempty"`
	Frequency *period.Frequency `json:"frequency,omitempty"`
}

// YearFractionDTO is the accrual result.
type YearFractionDTO struct {
	DayCount     string          `json:"day_count"`
	Days         int             `json:"days"`
	YearFraction decimal.Decimal `json:"year_fraction"`
}

// =============================================================================
// CALENDARS
// =============================================================================

// BusinessDaysDTO counts business days in [start, end).
type BusinessDaysDTO struct {
	Calendar     string       `json:"calendar"`
	Start        dates.Date   `json:"start"`
	End          dates.Date   `json:"end"`
	BusinessDays int          `json:"business_days"`
	Holidays     []dates.Date `json:"holidays"`
}

// HolidayDTO is one stored holiday.
type HolidayDTO struct {
	Date      dates.Date `json:"date"`
	Name      string     `json:"name"`
	Recurring bool       `json:"recurring"`
}

// CreateHolidayRequest adds a holiday to a custom calendar.
type CreateHolidayRequest struct {
	Date      dates.Date `json:"date"`
	Name      string     `json:"name"`
	Recurring bool       `json:"recurring"`
}

// SaveCalendarRequest creates a custom calendar or changes its weekend.
type SaveCalendarRequest struct {
	Weekend string `json:"weekend"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toHolidayDTOs(entries []holiday.Entry) []HolidayDTO {
	dtos := make([]HolidayDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, HolidayDTO{Date: e.Date, Name: e.Name, Recurring: e.Recurring})
	}
	return dtos
}

func toFrequencyDTO(f period.Frequency) *FrequencyDTO {
	dto := &FrequencyDTO{Term: f.IsTerm(), Estimate: f.EventsPerYearEstimate()}
	if n, ok := f.EventsPerYear(); ok {
		dto.EventsPerYear = &n
	}
	switch {
	case f.IsTerm():
		dto.Base = "term"
	case f.IsMonthBased():
		dto.Base = "month"
	case f.IsWeekBased():
		dto.Base = "week"
	case f.IsDayBased():
		dto.Base = "day"
	default:
		dto.Base = "mixed"
	}
	if r, ok := f.TryReciprocal(); ok {
		dto.Reciprocal = r.String()
	}
	return dto
}
