/*
Package period provides the calendar-agnostic duration (Period) and the
periodicity built on it (Frequency).

PERIOD:
  Four non-negative components: years, months, weeks, days. A period is
  either week based (weeks only) or date based (any of years, months,
  days). Periods are immutable values comparable with ==.

TEXT FORMAT (ISO-8601 like):
  P[nY][nM][nW][nD]   units in any order, each at most once
  ZERO                alias for the zero period (case-insensitive)

  Canonical output orders units Y, M, W, D, omits zero components and
  prints the zero period as P0D.

  Parse("P1Y6M")  -> 1 year 6 months
  Parse("P6M1Y")  -> same value, String() == "P1Y6M"
  Parse("P2W")    -> 2 weeks
  Parse("P1W2D")  -> error (weeks mixed with days)

DATE ARITHMETIC:
  Week based periods add weeks*7 days. Date based periods apply years,
  then months, then days, with month-end clamping (see dates.Date.AddMonths).

SEE ALSO:
  - frequency.go: Frequency classification and division
*/
package period

import (
	"math"
	"strconv"
	"strings"

	"github.com/warp/convention-engine/dates"
)

// maxComponent bounds every component so arithmetic overflow is detectable.
// Components stay strictly below it; a component equal to it belongs to Max.
const maxComponent = math.MaxInt32

// Period is an immutable years/months/weeks/days duration.
type Period struct {
	years  int
	months int
	weeks  int
	days   int
}

var (
	// Zero is the empty period.
	Zero = Period{}

	// Max is the sentinel period behind the Term frequency. It is never
	// produced by parsing or arithmetic.
	Max = Period{years: maxComponent}
)

// New validates the components.
func New(years, months, weeks, days int) (Period, error) {
	for _, c := range []int{years, months, weeks, days} {
		if c < 0 {
			return Zero, ErrOutOfRange
		}
		if c >= maxComponent {
			return Zero, ErrOverflow
		}
	}
	if weeks > 0 && (years > 0 || months > 0 || days > 0) {
		return Zero, ErrMixedUnits
	}
	return Period{years: years, months: months, weeks: weeks, days: days}, nil
}

func must(p Period, err error) Period {
	if err != nil {
		panic(err)
	}
	return p
}

// OfDays, OfWeeks, OfMonths and OfYears build single-unit periods.
// A negative count is a programming error and panics; use New to validate
// untrusted input.
func OfDays(n int) Period   { return must(New(0, 0, 0, n)) }
func OfWeeks(n int) Period  { return must(New(0, 0, n, 0)) }
func OfMonths(n int) Period { return must(New(0, n, 0, 0)) }
func OfYears(n int) Period  { return must(New(n, 0, 0, 0)) }

// Accessors
func (p Period) Years() int        { return p.years }
func (p Period) Months() int       { return p.months }
func (p Period) Weeks() int        { return p.weeks }
func (p Period) Days() int         { return p.days }
func (p Period) IsZero() bool      { return p == Zero }
func (p Period) IsWeekBased() bool { return p.weeks > 0 }

// TotalMonths returns years*12 + months, ignoring weeks and days.
func (p Period) TotalMonths() int { return p.years*12 + p.months }

// Normalized folds whole years out of the months component.
func (p Period) Normalized() Period {
	return Period{years: p.years + p.months/12, months: p.months % 12, weeks: p.weeks, days: p.days}
}

// Add sums component-wise and folds months into years.
func (p Period) Add(other Period) (Period, error) {
	weeks, err := checkedAdd(p.weeks, other.weeks)
	if err != nil {
		return Zero, err
	}
	years, err := checkedAdd(p.years, other.years)
	if err != nil {
		return Zero, err
	}
	months, err := checkedAdd(p.months, other.months)
	if err != nil {
		return Zero, err
	}
	days, err := checkedAdd(p.days, other.days)
	if err != nil {
		return Zero, err
	}
	if years, err = checkedAdd(years, months/12); err != nil {
		return Zero, err
	}
	return New(years, months%12, weeks, days)
}

// Mul multiplies every component by a non-negative factor.
func (p Period) Mul(factor int) (Period, error) {
	if factor < 0 {
		return Zero, ErrOutOfRange
	}
	var out [4]int
	for i, c := range [4]int{p.years, p.months, p.weeks, p.days} {
		v, err := checkedMul(c, factor)
		if err != nil {
			return Zero, err
		}
		out[i] = v
	}
	return Period{years: out[0], months: out[1], weeks: out[2], days: out[3]}, nil
}

// AddTo moves d forward by the period.
func (p Period) AddTo(d dates.Date) dates.Date {
	if p.weeks > 0 {
		return d.AddDays(7 * p.weeks)
	}
	return d.AddYears(p.years).AddMonths(p.months).AddDays(p.days)
}

// SubtractFrom moves d backward by the period, applying the components in
// the same order as AddTo.
func (p Period) SubtractFrom(d dates.Date) dates.Date {
	if p.weeks > 0 {
		return d.AddDays(-7 * p.weeks)
	}
	return d.AddYears(-p.years).AddMonths(-p.months).AddDays(-p.days)
}

func checkedAdd(a, b int) (int, error) {
	if a >= maxComponent-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func checkedMul(a, b int) (int, error) {
	if a != 0 && b > (maxComponent-1)/a {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// =============================================================================
// TEXT
// =============================================================================

// String returns the canonical text, e.g. "P1Y6M", "P2W", "P0D".
func (p Period) String() string {
	if p.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	b.WriteByte('P')
	for _, u := range [4]struct {
		n    int
		unit byte
	}{{p.years, 'Y'}, {p.months, 'M'}, {p.weeks, 'W'}, {p.days, 'D'}} {
		if u.n > 0 {
			b.WriteString(strconv.Itoa(u.n))
			b.WriteByte(u.unit)
		}
	}
	return b.String()
}

// Parse reads period text. Errors wrap ErrInvalidFormat.
func Parse(s string) (Period, error) {
	text := strings.TrimSpace(s)
	if strings.EqualFold(text, "ZERO") {
		return Zero, nil
	}
	text = strings.ToUpper(text)
	if len(text) < 2 || text[0] != 'P' {
		return Zero, formatErr(s, "expected P followed by components")
	}

	var (
		p     Period
		seen  = map[byte]bool{}
		start = 1
	)
	for i := 1; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == '-' || c == '+':
			return Zero, formatErr(s, "signs are not allowed")
		case c == 'Y' || c == 'M' || c == 'W' || c == 'D':
			if i == start {
				return Zero, formatErr(s, "missing number before "+string(c))
			}
			if seen[c] {
				return Zero, formatErr(s, "duplicate unit "+string(c))
			}
			seen[c] = true
			n, err := strconv.Atoi(text[start:i])
			if err != nil || n >= maxComponent {
				return Zero, formatErr(s, "component too large")
			}
			switch c {
			case 'Y':
				p.years = n
			case 'M':
				p.months = n
			case 'W':
				p.weeks = n
			case 'D':
				p.days = n
			}
			start = i + 1
		default:
			return Zero, formatErr(s, "unexpected character "+strconv.QuoteRune(rune(c)))
		}
	}
	if start != len(text) {
		return Zero, formatErr(s, "trailing number without unit")
	}
	if seen['W'] && (seen['Y'] || seen['M'] || seen['D']) {
		return Zero, formatErr(s, "weeks cannot be combined with years, months or days")
	}
	return p, nil
}

// TryParse is Parse without the error detail.
func TryParse(s string) (Period, bool) {
	p, err := Parse(s)
	return p, err == nil
}

// MustParse is Parse for constants. Panics on invalid input.
func MustParse(s string) Period {
	return must(Parse(s))
}

func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Period) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
