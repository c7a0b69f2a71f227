/*
handlers.go - HTTP API handlers for the convention engine

PURPOSE:
  Exposes the date-convention engine via REST API. Handles HTTP
  request/response and JSON serialization, and delegates to the holiday,
  convention and period packages.

ENDPOINTS:
  Catalog:
    GET    /api/conventions                          All names per family
    POST   /api/conventions/resolve                  Validate a convention set
    GET    /api/periods/{text}                       Parse a period/frequency

  Date operations:
    POST   /api/adjust                               Business day adjustment
    POST   /api/roll                                 Roll adjust/next/previous
    POST   /api/add                                  Period addition
    POST   /api/year-fraction                        Day count

  Calendars:
    GET    /api/calendars/{name}/business-days       Count over [start, end)
    PUT    /api/calendars/{name}                     Create/update custom calendar
    DELETE /api/calendars/{name}                     Delete custom calendar
    GET    /api/calendars/{name}/holidays            Stored holidays
    POST   /api/calendars/{name}/holidays            Add holiday
    DELETE /api/calendars/{name}/holidays/{date}     Remove holiday

  Calendar names containing "/" (e.g. "Sat/Sun") are path-escaped
  ("Sat%2FSun").

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input, unordered dates, missing schedule info
  - 404: Unknown convention, calendar or stored holiday
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/warp/convention-engine/convention"
	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/factory"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/period"
	"github.com/warp/convention-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the API's dependencies.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.ConventionFactory
}

// NewHandler creates a handler backed by store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewConventionFactory(),
	}
}

// LoadCalendars registers every stored calendar with the holiday registry.
func (h *Handler) LoadCalendars(ctx context.Context) (int, error) {
	return h.Store.LoadAll(ctx)
}

// =============================================================================
// CATALOG ENDPOINTS
// =============================================================================

// ListConventions returns every known name per family.
// GET /api/conventions
func (h *Handler) ListConventions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogDTO{
		Rolls:           convention.RollNames(),
		BusinessDays:    convention.BusinessDayNames(),
		DayCounts:       convention.DayCountNames(),
		PeriodAdditions: convention.PeriodAdditionNames(),
		Calendars:       holiday.Names(),
	})
}

// ResolveConventions validates a convention set and returns it with
// canonical names.
// POST /api/conventions/resolve
func (h *Handler) ResolveConventions(w http.ResponseWriter, r *http.Request) {
	var req factory.ConventionsJSON
	if !decode(w, r, &req) {
		return
	}

	set, err := h.Factory.FromJSON(req)
	if err != nil {
		writeDomainError(w, "Invalid convention set", err)
		return
	}

	writeJSON(w, http.StatusOK, h.Factory.ToJSON(set))
}

// GetPeriod parses a period or frequency.
// GET /api/periods/{text}
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	text := chi.URLParam(r, "text")

	p, err := period.Parse(text)
	if err != nil {
		// "Term" is a frequency, not a period
		f, ferr := period.ParseFrequency(text)
		if ferr != nil || !f.IsTerm() {
			writeError(w, http.StatusBadRequest, "Invalid period", err)
			return
		}
		writeJSON(w, http.StatusOK, PeriodDTO{Input: text, Canonical: f.String(), Frequency: toFrequencyDTO(f)})
		return
	}

	dto := PeriodDTO{
		Input:       text,
		Canonical:   p.String(),
		Normalized:  p.Normalized().String(),
		TotalMonths: p.TotalMonths(),
		WeekBased:   p.IsWeekBased(),
	}
	if f, err := period.NewFrequency(p); err == nil {
		dto.Frequency = toFrequencyDTO(f)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// DATE OPERATION ENDPOINTS
// =============================================================================

// Adjust applies a business day convention.
// POST /api/adjust
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date.IsZero() || req.Calendar == "" || req.BusinessDay == "" {
		writeError(w, http.StatusBadRequest, "date, calendar and business_day are required", nil)
		return
	}

	cal, err := holiday.Of(req.Calendar)
	if err != nil {
		writeDomainError(w, "Unknown calendar", err)
		return
	}
	bdc, err := convention.BusinessDayOf(req.BusinessDay)
	if err != nil {
		writeDomainError(w, "Unknown business day convention", err)
		return
	}

	writeJSON(w, http.StatusOK, AdjustDTO{
		Date:          req.Date,
		Adjusted:      bdc.Adjust(req.Date, cal),
		IsBusinessDay: holiday.IsBusinessDay(cal, req.Date),
	})
}

// Roll applies a roll convention.
// POST /api/roll
func (h *Handler) Roll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date.IsZero() || req.Roll == "" {
		writeError(w, http.StatusBadRequest, "date and roll are required", nil)
		return
	}

	roll, err := convention.RollOf(req.Roll)
	if err != nil {
		writeDomainError(w, "Unknown roll convention", err)
		return
	}

	var result dates.Date
	switch req.Direction {
	case "", "adjust":
		result = roll.Adjust(req.Date)
	case "next", "previous":
		if req.Frequency == nil {
			writeError(w, http.StatusBadRequest, "frequency is required for next and previous", nil)
			return
		}
		step := roll.Next
		if req.Direction == "previous" {
			step = roll.Previous
		}
		if result, err = step(req.Date, *req.Frequency); err != nil {
			writeDomainError(w, "Cannot roll", err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "direction must be adjust, next or previous", nil)
		return
	}

	writeJSON(w, http.StatusOK, RollDTO{Date: req.Date, Result: result, Matches: roll.Matches(req.Date)})
}

// Add adds a period to a date.
// POST /api/add
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "date is required", nil)
		return
	}

	set, err := h.Factory.FromJSON(factory.ConventionsJSON{
		ID:             "add",
		Calendar:       req.Calendar,
		BusinessDay:    req.BusinessDay,
		PeriodAddition: req.PeriodAddition,
		DayCount:       convention.OneOne.Name().String(),
	})
	if err != nil {
		writeDomainError(w, "Invalid conventions", err)
		return
	}

	writeJSON(w, http.StatusOK, AddDTO{Date: req.Date, Result: set.Add(req.Date, req.Period)})
}

// YearFraction accrues an interval with a day count.
// POST /api/year-fraction
func (h *Handler) YearFraction(w http.ResponseWriter, r *http.Request) {
	var req YearFractionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.First.IsZero() || req.Second.IsZero() || req.DayCount == "" {
		writeError(w, http.StatusBadRequest, "first, second and day_count are required", nil)
		return
	}

	dc, err := convention.DayCountOf(req.DayCount)
	if err != nil {
		writeDomainError(w, "Unknown day count", err)
		return
	}

	var info *convention.ScheduleInfo
	if req.End != nil {
		info = &convention.ScheduleInfo{End: *req.End}
		if req.Start != nil {
			info.Start = *req.Start
		}
		if req.Frequency != nil {
			info.Frequency = *req.Frequency
		}
	}

	days, err := dc.DayCount(req.First, req.Second, info)
	if err != nil {
		writeDomainError(w, "Cannot count days", err)
		return
	}
	yf, err := dc.YearFraction(req.First, req.Second, info)
	if err != nil {
		writeDomainError(w, "Cannot compute year fraction", err)
		return
	}

	writeJSON(w, http.StatusOK, YearFractionDTO{DayCount: dc.Name().String(), Days: days, YearFraction: yf})
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// BusinessDays counts business days and lists holidays in [start, end).
// GET /api/calendars/{name}/business-days?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) BusinessDays(w http.ResponseWriter, r *http.Request) {
	calName, ok := calendarParam(w, r)
	if !ok {
		return
	}
	cal, err := holiday.Of(calName)
	if err != nil {
		writeDomainError(w, "Unknown calendar", err)
		return
	}

	start, err := dates.Parse(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := dates.Parse(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}

	count, err := holiday.BusinessDaysBetween(cal, start, end)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}
	seq, err := holiday.Holidays(cal, start, end)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}

	writeJSON(w, http.StatusOK, BusinessDaysDTO{
		Calendar:     cal.Name().String(),
		Start:        start,
		End:          end,
		BusinessDays: count,
		Holidays:     append([]dates.Date{}, slices.Collect(seq)...),
	})
}

// SaveCalendar creates a custom calendar or changes its weekend base.
// PUT /api/calendars/{name}
func (h *Handler) SaveCalendar(w http.ResponseWriter, r *http.Request) {
	n, ok := customCalendar(w, r)
	if !ok {
		return
	}
	var req SaveCalendarRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Weekend == "" {
		req.Weekend = holiday.SatSun.Name().String()
	}

	if err := h.Store.SaveCalendar(r.Context(), n, req.Weekend); err != nil {
		writeDomainError(w, "Failed to save calendar", err)
		return
	}
	if !h.sync(r.Context(), w, n) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "calendar": n.String()})
}

// DeleteCalendar removes a custom calendar and its holidays. Composites
// naming it stop resolving.
// DELETE /api/calendars/{name}
func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	n, ok := customCalendar(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeleteCalendar(r.Context(), n); err != nil {
		writeDomainError(w, "Failed to delete calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "calendar": n.String()})
}

// ListHolidays returns the stored holidays of a custom calendar.
// GET /api/calendars/{name}/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	n, ok := customCalendar(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.Holidays(r.Context(), n)
	if err != nil {
		writeDomainError(w, "Failed to get holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"calendar": n.String(), "holidays": toHolidayDTOs(entries)})
}

// CreateHoliday adds a holiday to a custom calendar, creating the calendar
// if needed, and re-registers it.
// POST /api/calendars/{name}/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	n, ok := customCalendar(w, r)
	if !ok {
		return
	}
	var req CreateHolidayRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "date is required", nil)
		return
	}

	entry := holiday.Entry{Date: req.Date, Name: req.Name, Recurring: req.Recurring}
	if err := h.Store.SaveHoliday(r.Context(), n, entry); err != nil {
		writeDomainError(w, "Failed to create holiday", err)
		return
	}
	if !h.sync(r.Context(), w, n) {
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"holiday": HolidayDTO{Date: entry.Date, Name: entry.Name, Recurring: entry.Recurring},
	})
}

// DeleteHoliday removes a holiday and re-registers the calendar.
// DELETE /api/calendars/{name}/holidays/{date}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	n, ok := customCalendar(w, r)
	if !ok {
		return
	}
	date, err := dates.Parse(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), n, date); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	if !h.sync(r.Context(), w, n) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (h *Handler) sync(ctx context.Context, w http.ResponseWriter, n name.Name) bool {
	if _, err := h.Store.Sync(ctx, n); err != nil {
		writeDomainError(w, "Failed to load calendar", err)
		return false
	}
	return true
}

// =============================================================================
// HELPERS
// =============================================================================

func calendarParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar name", err)
		return "", false
	}
	return raw, true
}

func customCalendar(w http.ResponseWriter, r *http.Request) (name.Name, bool) {
	raw, ok := calendarParam(w, r)
	if !ok {
		return name.Name{}, false
	}
	n, err := name.New(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar name", err)
		return name.Name{}, false
	}
	return n, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case convention.IsNotFound(err), errors.Is(err, sqlite.ErrNotFound):
		return http.StatusNotFound
	case convention.IsClientError(err),
		errors.Is(err, sqlite.ErrBuiltin),
		errors.Is(err, factory.ErrDayCountRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

