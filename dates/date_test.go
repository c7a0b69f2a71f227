package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/convention-engine/dates"
)

func date(year int, month time.Month, day int) dates.Date {
	return dates.New(year, month, day)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		from dates.Date
		n    int
		want dates.Date
	}{
		{"jan31 plus one leap", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan31 plus one", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"mar31 minus one", date(2023, time.March, 31), -1, date(2023, time.February, 28)},
		{"across year", date(2023, time.November, 30), 3, date(2024, time.February, 29)},
		{"backwards across year", date(2024, time.January, 15), -2, date(2023, time.November, 15)},
		{"mid month", date(2023, time.May, 15), 1, date(2023, time.June, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddMonths(tt.n))
		})
	}
}

func TestAddYears_LeapDay(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), date(2024, time.February, 29).AddYears(1))
	assert.Equal(t, date(2028, time.February, 29), date(2024, time.February, 29).AddYears(4))
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 181, date(2023, time.July, 1).DaysSince(date(2023, time.January, 1)))
	assert.Equal(t, -1, date(2023, time.December, 31).DaysSince(date(2024, time.January, 1)))
}

func TestDaysSince_BeyondDurationRange(t *testing.T) {
	// GIVEN: a 400 year span, longer than a time.Duration can hold
	// THEN: the count is exact in both directions
	start, end := date(1900, time.January, 1), date(2300, time.January, 1)
	assert.Equal(t, 146097, end.DaysSince(start))
	assert.Equal(t, -146097, start.DaysSince(end))
}

func TestWeekdaySearch(t *testing.T) {
	// 2024-03-13 is a Wednesday
	wed := date(2024, time.March, 13)
	assert.Equal(t, wed, wed.NextOrSame(time.Wednesday))
	assert.Equal(t, date(2024, time.March, 15), wed.NextOrSame(time.Friday))
	assert.Equal(t, date(2024, time.March, 18), wed.NextOrSame(time.Monday))
	assert.Equal(t, date(2024, time.March, 11), wed.PreviousOrSame(time.Monday))
	assert.Equal(t, date(2024, time.March, 8), wed.PreviousOrSame(time.Friday))
}

func TestMonthHelpers(t *testing.T) {
	d := date(2024, time.February, 10)
	assert.Equal(t, date(2024, time.February, 29), d.EndOfMonth())
	assert.Equal(t, date(2024, time.February, 1), d.StartOfMonth())
	assert.Equal(t, date(2024, time.February, 29), d.WithDay(30))
	assert.False(t, d.IsEndOfMonth())
	assert.True(t, d.EndOfMonth().IsEndOfMonth())
	assert.Equal(t, 28, dates.DaysIn(2100, time.February))
	assert.Equal(t, 366, dates.DaysInYear(2000))
}

func TestParseAndText(t *testing.T) {
	d, err := dates.Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = dates.Parse("2023-02-29")
	assert.Error(t, err)

	var back dates.Date
	require.NoError(t, back.UnmarshalText([]byte("2023-07-01")))
	assert.Equal(t, date(2023, time.July, 1), back)
}

func TestContainsLeapDay(t *testing.T) {
	assert.True(t, dates.ContainsLeapDay(date(2024, time.January, 1), date(2024, time.July, 1)))
	assert.True(t, dates.ContainsLeapDay(date(2024, time.February, 28), date(2024, time.February, 29)))
	// start is excluded
	assert.False(t, dates.ContainsLeapDay(date(2024, time.February, 29), date(2025, time.February, 28)))
	assert.False(t, dates.ContainsLeapDay(date(2022, time.January, 1), date(2022, time.July, 1)))
}

func TestCheckOrdered(t *testing.T) {
	a, b := date(2024, time.January, 1), date(2024, time.January, 2)
	assert.NoError(t, dates.CheckOrdered(a, b))

	err := dates.CheckOrdered(b, a)
	assert.ErrorIs(t, err, dates.ErrUnordered)
	var ue *dates.UnorderedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, b, ue.First)

	assert.ErrorIs(t, dates.CheckOrdered(a, a), dates.ErrUnordered)
}
