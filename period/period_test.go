package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/period"
)

func date(year int, month time.Month, day int) dates.Date {
	return dates.New(year, month, day)
}

// =============================================================================
// PARSING
// =============================================================================

func TestParse_RoundTripsToCanonicalForm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"P1Y2M4D", "P1Y2M4D"},
		{"P4D2M1Y", "P1Y2M4D"},
		{"p3m", "P3M"},
		{"  P2W ", "P2W"},
		{"P0D", "P0D"},
		{"P0Y0M", "P0D"},
		{"ZERO", "P0D"},
		{"zero", "P0D"},
		{"P18M", "P18M"},
		{"P364D", "P364D"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := period.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())

			// canonical text parses back to the same value
			again, err := period.Parse(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, again)
		})
	}
}

func TestParse_RejectsMalformedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"prefix only", "P"},
		{"missing prefix", "1Y"},
		{"missing number", "PY"},
		{"missing number later", "P1YM"},
		{"trailing digits", "P1Y2"},
		{"duplicate unit", "P1Y2Y"},
		{"weeks with days", "P1W2D"},
		{"weeks with years", "P1Y2M3W4D"},
		{"negative", "P-1M"},
		{"plus sign", "P+1M"},
		{"garbage", "P1X"},
		{"trailing garbage", "P1M!"},
		{"leading garbage", "xP1M"},
		{"huge", "P99999999999D"},
		{"term sentinel", "P2147483647Y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := period.Parse(tt.in)
			assert.ErrorIs(t, err, period.ErrInvalidFormat)

			_, ok := period.TryParse(tt.in)
			assert.False(t, ok)
		})
	}
}

func TestParse_FormatErrorCarriesInput(t *testing.T) {
	_, err := period.Parse("P1Y1Y")
	var fe *period.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "P1Y1Y", fe.Input)
	assert.Contains(t, fe.Reason, "duplicate")
}

// =============================================================================
// CONSTRUCTION & ARITHMETIC
// =============================================================================

func TestNew_Validation(t *testing.T) {
	_, err := period.New(0, -1, 0, 0)
	assert.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.New(1, 0, 1, 0)
	assert.ErrorIs(t, err, period.ErrMixedUnits)

	p, err := period.New(1, 2, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Years())
	assert.Equal(t, 2, p.Months())
	assert.Equal(t, 3, p.Days())
}

func TestOf_PanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { period.OfDays(-1) })
	assert.NotPanics(t, func() { period.OfWeeks(0) })
}

func TestAdd_FoldsMonthsIntoYears(t *testing.T) {
	sum, err := period.MustParse("P1Y8M").Add(period.MustParse("P7M3D"))
	require.NoError(t, err)
	assert.Equal(t, "P2Y3M3D", sum.String())

	weeks, err := period.OfWeeks(2).Add(period.OfWeeks(3))
	require.NoError(t, err)
	assert.Equal(t, "P5W", weeks.String())
}

func TestMaxIsOnlyReachableAsTerm(t *testing.T) {
	// GIVEN: the largest accepted component
	p, err := period.Parse("P2147483646Y")
	require.NoError(t, err)
	f, err := period.NewFrequency(p)
	require.NoError(t, err)
	assert.False(t, f.IsTerm())

	// THEN: neither construction nor arithmetic reaches the Term sentinel
	_, err = period.New(2147483647, 0, 0, 0)
	assert.ErrorIs(t, err, period.ErrOverflow)
	_, err = p.Add(period.OfYears(1))
	assert.ErrorIs(t, err, period.ErrOverflow)
	_, err = period.Parse("P2147483647Y")
	assert.ErrorIs(t, err, period.ErrInvalidFormat)
}

func TestAdd_Errors(t *testing.T) {
	_, err := period.OfWeeks(1).Add(period.OfDays(1))
	assert.ErrorIs(t, err, period.ErrMixedUnits)

	big := period.OfDays(2147483646)
	_, err = big.Add(period.OfDays(1))
	assert.ErrorIs(t, err, period.ErrOverflow)
}

func TestMul(t *testing.T) {
	p, err := period.MustParse("P1M2D").Mul(3)
	require.NoError(t, err)
	assert.Equal(t, "P3M6D", p.String())

	zero, err := period.OfYears(5).Mul(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = period.OfMonths(1).Mul(-2)
	assert.ErrorIs(t, err, period.ErrOutOfRange)

	_, err = period.OfDays(1 << 20).Mul(1 << 20)
	assert.ErrorIs(t, err, period.ErrOverflow)
}

func TestNormalized_MonthsBelowTwelve(t *testing.T) {
	for _, s := range []string{"P0D", "P11M", "P12M", "P25M", "P1Y13M", "P3W", "P100M5D"} {
		p := period.MustParse(s)
		n := p.Normalized()
		assert.Less(t, n.Months(), 12, s)
		assert.Equal(t, p.TotalMonths(), n.TotalMonths(), s)
	}
	assert.Equal(t, "P2Y1M", period.MustParse("P25M").Normalized().String())
}

func TestTotalMonths_IgnoresWeeksAndDays(t *testing.T) {
	assert.Equal(t, 14, period.MustParse("P1Y2M9D").TotalMonths())
	assert.Equal(t, 0, period.MustParse("P6W").TotalMonths())
}

// =============================================================================
// DATE ARITHMETIC
// =============================================================================

func TestAddTo(t *testing.T) {
	tests := []struct {
		p    string
		from dates.Date
		want dates.Date
	}{
		{"P2W", date(2024, time.January, 10), date(2024, time.January, 24)},
		{"P1M", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"P1M", date(2023, time.January, 31), date(2023, time.February, 28)},
		{"P1Y", date(2024, time.February, 29), date(2025, time.February, 28)},
		// years, then months, then days
		{"P1Y1M1D", date(2023, time.January, 31), date(2024, time.March, 1)},
		{"P10D", date(2023, time.December, 25), date(2024, time.January, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.p, func(t *testing.T) {
			assert.Equal(t, tt.want, period.MustParse(tt.p).AddTo(tt.from))
		})
	}
}

func TestSubtractFrom(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), period.OfMonths(1).SubtractFrom(date(2024, time.March, 31)))
	assert.Equal(t, date(2023, time.December, 27), period.OfWeeks(1).SubtractFrom(date(2024, time.January, 3)))
	// years, then months, then days backwards
	assert.Equal(t, date(2023, time.February, 27), period.MustParse("P1Y1M1D").SubtractFrom(date(2024, time.March, 28)))
}

func TestText(t *testing.T) {
	b, err := period.MustParse("P6M").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "P6M", string(b))

	var p period.Period
	require.NoError(t, p.UnmarshalText([]byte("P1Y")))
	assert.Equal(t, period.OfYears(1), p)
	assert.Error(t, p.UnmarshalText([]byte("1Y")))
}
