package period_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/convention-engine/period"
)

func freq(s string) period.Frequency {
	return period.MustParseFrequency(s)
}

func TestNewFrequency_EventsPerYear(t *testing.T) {
	tests := []struct {
		in       string
		exact    int
		isExact  bool
		estimate decimal.Decimal
	}{
		{"P3M", 4, true, decimal.NewFromInt(4)},
		{"P1M", 12, true, decimal.NewFromInt(12)},
		{"P1Y", 1, true, decimal.NewFromInt(1)},
		{"P12M", 1, true, decimal.NewFromInt(1)},
		{"P5M", period.NotExact, false, decimal.NewFromInt(12).Div(decimal.NewFromInt(5))},
		{"P2Y", period.NotExact, false, decimal.RequireFromString("0.5")},
		{"P2W", 26, true, decimal.NewFromInt(26)},
		{"P3W", period.NotExact, false, decimal.NewFromInt(52).Div(decimal.NewFromInt(3))},
		{"P7D", 52, true, decimal.NewFromInt(52)},
		{"P1D", 364, true, decimal.NewFromInt(364)},
		{"P5D", period.NotExact, false, decimal.NewFromInt(364).Div(decimal.NewFromInt(5))},
		{"Term", 0, true, decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := freq(tt.in)
			n, ok := f.EventsPerYear()
			assert.Equal(t, tt.exact, n)
			assert.Equal(t, tt.isExact, ok)
			assert.True(t, tt.estimate.Equal(f.EventsPerYearEstimate()),
				"estimate: want %s, got %s", tt.estimate, f.EventsPerYearEstimate())
		})
	}
}

func TestNewFrequency_MixedPeriodIsNeverExact(t *testing.T) {
	f := period.MustFrequency(period.MustParse("P1M2D"))
	_, ok := f.EventsPerYear()
	assert.False(t, ok)
	assert.False(t, f.IsMonthBased())
	assert.False(t, f.IsDayBased())
	assert.True(t, f.EventsPerYearEstimate().IsPositive())
}

func TestNewFrequency_ZeroIsUsageError(t *testing.T) {
	_, err := period.NewFrequency(period.Zero)
	assert.ErrorIs(t, err, period.ErrZeroFrequency)
	assert.True(t, period.IsUsageError(err))

	_, err = period.ParseFrequency("ZERO")
	assert.ErrorIs(t, err, period.ErrZeroFrequency)

	f, err := period.NewFrequency(period.Max)
	require.NoError(t, err)
	assert.True(t, f.IsTerm())
}

func TestParseFrequency(t *testing.T) {
	for _, s := range []string{"Term", "TERM", " term "} {
		f, err := period.ParseFrequency(s)
		require.NoError(t, err)
		assert.Equal(t, period.Term, f)
		assert.Equal(t, "Term", f.String())
	}

	f, err := period.ParseFrequency("P12M")
	require.NoError(t, err)
	assert.Equal(t, period.Annual, f)
	assert.Equal(t, "P1Y", f.String())

	_, err = period.ParseFrequency("P1W1D")
	assert.ErrorIs(t, err, period.ErrInvalidFormat)

	_, ok := period.TryParseFrequency("Terms")
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, period.Annual.IsAnnual())
	assert.True(t, period.Annual.IsMonthBased())
	assert.True(t, period.SemiAnnual.IsSemiAnnual())
	assert.True(t, period.Quarterly.IsQuarterly())
	assert.True(t, period.Monthly.IsMonthly())
	assert.True(t, period.Weekly.IsWeekBased())
	assert.True(t, period.Daily.IsDayBased())
	assert.True(t, period.Term.IsTerm())
	assert.False(t, freq("P52W").IsAnnual())
	assert.False(t, period.Term.IsMonthBased())
}

func TestReciprocal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"P1M", "P1Y"},
		{"P3M", "P4M"},
		{"P6M", "P2M"},
		{"P1Y", "P1M"},
		{"P1W", "P52W"},
		{"P2W", "P26W"},
		{"P1D", "P364D"},
		{"P7D", "P52D"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := freq(tt.in)
			r, err := f.Reciprocal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())

			// the reciprocal is exact and keeps the base unit
			_, ok := r.EventsPerYear()
			assert.True(t, ok)
			assert.Equal(t, f.IsMonthBased(), r.IsMonthBased())
			assert.Equal(t, f.IsWeekBased(), r.IsWeekBased())
			assert.Equal(t, f.IsDayBased(), r.IsDayBased())
		})
	}
}

func TestReciprocal_Failures(t *testing.T) {
	_, err := period.Term.Reciprocal()
	assert.ErrorIs(t, err, period.ErrTermArithmetic)

	_, err = freq("P5M").Reciprocal()
	assert.ErrorIs(t, err, period.ErrNotExact)

	_, ok := freq("P3W").TryReciprocal()
	assert.False(t, ok)
}

func TestIsCompatibleWith(t *testing.T) {
	assert.True(t, period.Monthly.IsCompatibleWith(period.Annual))
	assert.True(t, period.Weekly.IsCompatibleWith(freq("P2W")))
	assert.True(t, period.Term.IsCompatibleWith(period.Daily))
	assert.True(t, period.Daily.IsCompatibleWith(period.Term))
	assert.False(t, period.Monthly.IsCompatibleWith(period.Weekly))
	assert.False(t, period.Daily.IsCompatibleWith(period.Weekly))
}

func TestExactDivide(t *testing.T) {
	n, err := period.Annual.ExactDivide(period.Quarterly)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = freq("P4W").ExactDivide(freq("P2W"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, ok := freq("P14D").TryExactDivide(period.Daily)
	assert.True(t, ok)
	assert.Equal(t, 14, n)

	n, ok = period.Quarterly.TryExactDivide(period.Quarterly)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestExactDivide_Failures(t *testing.T) {
	tests := []struct {
		name string
		a, b period.Frequency
		want error
	}{
		{"term dividend", period.Term, period.Monthly, period.ErrTermArithmetic},
		{"term divisor", period.Annual, period.Term, period.ErrTermArithmetic},
		{"different bases", period.Annual, period.Weekly, period.ErrIncompatible},
		{"larger divisor", period.Quarterly, period.Annual, period.ErrNotExact},
		{"inexact", period.Annual, freq("P5M"), period.ErrNotExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.a.ExactDivide(tt.b)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrequencyDateArithmetic(t *testing.T) {
	d := date(2024, time.January, 31)

	next, err := period.Monthly.AddTo(d)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), next)

	prev, err := period.Quarterly.SubtractFrom(d)
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.October, 31), prev)

	step, err := period.Weekly.Adjuster()
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 7), step(d))

	back, err := period.Weekly.ReverseAdjuster()
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 24), back(d))
}

func TestFrequencyDateArithmetic_TermFails(t *testing.T) {
	d := date(2024, time.January, 31)

	_, err := period.Term.AddTo(d)
	assert.ErrorIs(t, err, period.ErrTermArithmetic)
	_, err = period.Term.SubtractFrom(d)
	assert.ErrorIs(t, err, period.ErrTermArithmetic)
	_, err = period.Term.Adjuster()
	assert.ErrorIs(t, err, period.ErrTermArithmetic)
	_, err = period.Term.ReverseAdjuster()
	assert.ErrorIs(t, err, period.ErrTermArithmetic)
}

func TestZeroValueIsNotTerm(t *testing.T) {
	// GIVEN: an unset frequency
	var zero period.Frequency

	// THEN: it is neither Term nor usable as a period
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsTerm())
	assert.False(t, period.Term.IsZero())
	assert.False(t, zero.IsCompatibleWith(period.Term))

	_, ok := zero.EventsPerYear()
	assert.False(t, ok)

	_, err := zero.AddTo(date(2024, time.January, 31))
	assert.ErrorIs(t, err, period.ErrZeroFrequency)
	_, err = zero.Reciprocal()
	assert.ErrorIs(t, err, period.ErrZeroFrequency)
	_, err = period.Annual.ExactDivide(zero)
	assert.ErrorIs(t, err, period.ErrZeroFrequency)
}

func TestFrequencyText(t *testing.T) {
	var f period.Frequency
	require.NoError(t, f.UnmarshalText([]byte("term")))
	assert.True(t, f.IsTerm())

	b, err := period.Quarterly.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "P3M", string(b))
}
