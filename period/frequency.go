package period

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/convention-engine/dates"
)

// =============================================================================
// FREQUENCY - A period classified by events per year
// =============================================================================

// NotExact is the EventsPerYear sentinel for frequencies that do not divide
// the year into a whole number of events.
const NotExact = -1

type base int

const (
	baseUnset base = iota // zero Frequency{}
	baseTerm
	baseMonth
	baseWeek
	baseDay
	baseMixed // months and days together; never exact
)

// Frequency is a non-zero Period (or Term) with its events-per-year
// classification computed once at construction:
//
//	month based: 12 / totalMonths
//	week based:  52 / weeks
//	day based:   364 / days
//	Term:        0
//
// Frequencies are immutable and comparable with ==. The zero value is not
// a valid frequency and is not Term; see IsZero.
type Frequency struct {
	period Period
	base   base
	exact  int
	// estimate = num / den, kept as integers so the value stays comparable
	num, den int
}

var (
	Term       = Frequency{period: Max, base: baseTerm, exact: 0, num: 0, den: 1}
	Annual     = mustFrequency(OfYears(1))
	SemiAnnual = mustFrequency(OfMonths(6))
	Quarterly  = mustFrequency(OfMonths(3))
	Monthly    = mustFrequency(OfMonths(1))
	Weekly     = mustFrequency(OfWeeks(1))
	Daily      = mustFrequency(OfDays(1))
)

func mustFrequency(p Period) Frequency {
	f, err := NewFrequency(p)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFrequency classifies p. The zero period is rejected; Max yields Term.
func NewFrequency(p Period) (Frequency, error) {
	if p == Max {
		return Term, nil
	}
	if p.IsZero() {
		return Frequency{}, ErrZeroFrequency
	}
	p = p.Normalized()
	f := Frequency{period: p}
	months := p.TotalMonths()
	switch {
	case p.weeks > 0:
		f.base, f.num, f.den = baseWeek, 52, p.weeks
	case months > 0 && p.days == 0:
		f.base, f.num, f.den = baseMonth, 12, months
	case months == 0 && p.days > 0:
		f.base, f.num, f.den = baseDay, 364, p.days
	default:
		// 364 / (months*364/12 + days), scaled by 12 to stay integral
		f.base, f.num, f.den = baseMixed, 364*12, months*364+12*p.days
	}
	f.exact = NotExact
	if f.base != baseMixed && f.num%f.den == 0 {
		f.exact = f.num / f.den
	}
	return f, nil
}

// MustFrequency is NewFrequency for constants. Panics on error.
func MustFrequency(p Period) Frequency { return mustFrequency(p) }

// Period returns the underlying period (Max for Term).
func (f Frequency) Period() Period { return f.period }

// EventsPerYear returns the exact number of events per year, and false
// when the frequency is not exact. Term returns (0, true).
func (f Frequency) EventsPerYear() (int, bool) {
	if f.IsZero() {
		return 0, false
	}
	return f.exact, f.exact != NotExact
}

// EventsPerYearEstimate returns the fractional events per year.
func (f Frequency) EventsPerYearEstimate() decimal.Decimal {
	if f.den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(f.num)).Div(decimal.NewFromInt(int64(f.den)))
}

// IsZero reports whether f is the unset Frequency{}.
func (f Frequency) IsZero() bool { return f.base == baseUnset }

// periodic fails for frequencies with no period to step by.
func (f Frequency) periodic() error {
	switch {
	case f.IsZero():
		return ErrZeroFrequency
	case f.IsTerm():
		return ErrTermArithmetic
	}
	return nil
}

// Predicates
func (f Frequency) IsTerm() bool       { return f.base == baseTerm }
func (f Frequency) IsMonthBased() bool { return f.base == baseMonth }
func (f Frequency) IsWeekBased() bool  { return f.base == baseWeek }
func (f Frequency) IsDayBased() bool   { return f.base == baseDay }
func (f Frequency) IsAnnual() bool     { return f.monthsEqual(12) }
func (f Frequency) IsSemiAnnual() bool { return f.monthsEqual(6) }
func (f Frequency) IsQuarterly() bool  { return f.monthsEqual(3) }
func (f Frequency) IsMonthly() bool    { return f.monthsEqual(1) }

func (f Frequency) monthsEqual(n int) bool {
	return f.base == baseMonth && f.period.TotalMonths() == n
}

// Reciprocal returns the frequency whose unit count equals f's events per
// year: monthly -> 12 months (annual), quarterly -> 4 months, weekly -> 52
// weeks. Fails for Term and for inexact frequencies.
func (f Frequency) Reciprocal() (Frequency, error) {
	if err := f.periodic(); err != nil {
		return Frequency{}, err
	}
	n, ok := f.EventsPerYear()
	if !ok {
		return Frequency{}, ErrNotExact
	}
	switch f.base {
	case baseWeek:
		return NewFrequency(OfWeeks(n))
	case baseDay:
		return NewFrequency(OfDays(n))
	default:
		return NewFrequency(OfMonths(n))
	}
}

// TryReciprocal is Reciprocal without the error detail.
func (f Frequency) TryReciprocal() (Frequency, bool) {
	r, err := f.Reciprocal()
	return r, err == nil
}

// IsCompatibleWith reports whether either side is Term or both share the
// same base unit (months, weeks or days). The zero value is compatible
// with nothing.
func (f Frequency) IsCompatibleWith(other Frequency) bool {
	if f.IsZero() || other.IsZero() {
		return false
	}
	if f.IsTerm() || other.IsTerm() {
		return true
	}
	return f.base == other.base && f.base != baseMixed
}

// ExactDivide returns n such that f == sub × n.
func (f Frequency) ExactDivide(sub Frequency) (int, error) {
	if err := f.periodic(); err != nil {
		return 0, err
	}
	if err := sub.periodic(); err != nil {
		return 0, err
	}
	if f.base != sub.base || f.base == baseMixed {
		return 0, ErrIncompatible
	}
	whole, part := f.units(), sub.units()
	if part > whole || whole%part != 0 {
		return 0, ErrNotExact
	}
	return whole / part, nil
}

// TryExactDivide is ExactDivide without the error detail.
func (f Frequency) TryExactDivide(sub Frequency) (int, bool) {
	n, err := f.ExactDivide(sub)
	return n, err == nil
}

func (f Frequency) units() int {
	switch f.base {
	case baseWeek:
		return f.period.weeks
	case baseDay:
		return f.period.days
	default:
		return f.period.TotalMonths()
	}
}

// AddTo moves d forward by one period.
func (f Frequency) AddTo(d dates.Date) (dates.Date, error) {
	if err := f.periodic(); err != nil {
		return d, err
	}
	return f.period.AddTo(d), nil
}

// SubtractFrom moves d backward by one period.
func (f Frequency) SubtractFrom(d dates.Date) (dates.Date, error) {
	if err := f.periodic(); err != nil {
		return d, err
	}
	return f.period.SubtractFrom(d), nil
}

// Adjuster returns a function stepping dates forward by one period.
func (f Frequency) Adjuster() (func(dates.Date) dates.Date, error) {
	if err := f.periodic(); err != nil {
		return nil, err
	}
	return f.period.AddTo, nil
}

// ReverseAdjuster returns a function stepping dates backward by one period.
func (f Frequency) ReverseAdjuster() (func(dates.Date) dates.Date, error) {
	if err := f.periodic(); err != nil {
		return nil, err
	}
	return f.period.SubtractFrom, nil
}

// =============================================================================
// TEXT
// =============================================================================

// String returns "Term" or the canonical period text.
func (f Frequency) String() string {
	if f.IsTerm() {
		return "Term"
	}
	return f.period.String()
}

// ParseFrequency reads "Term" (any case) or period text.
func ParseFrequency(s string) (Frequency, error) {
	if strings.EqualFold(strings.TrimSpace(s), "Term") {
		return Term, nil
	}
	p, err := Parse(s)
	if err != nil {
		return Frequency{}, err
	}
	return NewFrequency(p)
}

// TryParseFrequency is ParseFrequency without the error detail.
func TryParseFrequency(s string) (Frequency, bool) {
	f, err := ParseFrequency(s)
	return f, err == nil
}

// MustParseFrequency is ParseFrequency for constants. Panics on error.
func MustParseFrequency(s string) Frequency {
	f, err := ParseFrequency(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Frequency) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Frequency) UnmarshalText(b []byte) error {
	v, err := ParseFrequency(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
