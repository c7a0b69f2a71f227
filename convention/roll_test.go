package convention_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/convention-engine/convention"
	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/period"
)

func date(year int, month time.Month, day int) dates.Date {
	return dates.New(year, month, day)
}

func mustRoll(t *testing.T, s string) convention.Roll {
	t.Helper()
	r, err := convention.RollOf(s)
	require.NoError(t, err)
	return r
}

func TestEOM_AdjustLeapFebruary(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), convention.EOM.Adjust(date(2024, time.February, 10)))
	assert.Equal(t, date(2023, time.February, 28), convention.EOM.Adjust(date(2023, time.February, 10)))
	assert.Equal(t, 31, convention.EOM.DayOfMonth())
}

func TestDayOfMonth(t *testing.T) {
	day30 := mustRoll(t, "Day30")

	assert.Equal(t, 30, day30.DayOfMonth())
	assert.Equal(t, date(2024, time.February, 29), day30.Adjust(date(2024, time.February, 10)))
	assert.Equal(t, date(2024, time.April, 30), day30.Adjust(date(2024, time.April, 1)))

	// short month: last day matches a larger target
	assert.True(t, day30.Matches(date(2024, time.February, 29)))
	assert.True(t, day30.Matches(date(2024, time.March, 30)))
	assert.False(t, day30.Matches(date(2024, time.March, 31)))

	day15 := mustRoll(t, "Day15")
	assert.False(t, day15.Matches(date(2024, time.February, 29)))
	assert.True(t, day15.Matches(date(2024, time.February, 15)))
}

func TestDayOfMonthRoll(t *testing.T) {
	r, err := convention.DayOfMonthRoll(31)
	require.NoError(t, err)
	assert.Same(t, convention.EOM, r)

	r, err = convention.DayOfMonthRoll(7)
	require.NoError(t, err)
	assert.Equal(t, "Day7", r.Name().String())

	for _, bad := range []int{0, -1, 32} {
		_, err = convention.DayOfMonthRoll(bad)
		assert.ErrorIs(t, err, convention.ErrInvalidDay, "day %d", bad)
	}
}

func TestSpecialRolls(t *testing.T) {
	march := date(2024, time.March, 27)

	assert.Equal(t, date(2024, time.March, 20), convention.IMM.Adjust(march))
	assert.Equal(t, date(2024, time.March, 13), convention.IMMNZD.Adjust(march))
	assert.Equal(t, date(2024, time.March, 8), convention.SFE.Adjust(march))

	assert.True(t, convention.IMM.Matches(date(2024, time.March, 20)))
	assert.False(t, convention.IMM.Matches(date(2024, time.March, 13)))
	assert.Equal(t, 0, convention.IMM.DayOfMonth())

	// IMM quarterly chain
	next, err := convention.IMM.Next(date(2024, time.March, 20), period.Quarterly)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 19), next)
}

func TestDayOfWeekRoll(t *testing.T) {
	mon, err := convention.DayOfWeekRoll(time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "Mon", mon.Name().String())

	sat := date(2024, time.March, 2)
	assert.Equal(t, date(2024, time.March, 4), mon.Adjust(sat))
	assert.True(t, mon.Matches(date(2024, time.March, 4)))
	assert.False(t, mon.Matches(sat))

	// GIVEN: a Saturday and a weekly step
	// THEN: step one week, then search forward/backward for Monday
	next, err := mon.Next(sat, period.Weekly)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 11), next)

	prev, err := mon.Previous(sat, period.Weekly)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 19), prev)

	_, err = convention.DayOfWeekRoll(time.Weekday(7))
	assert.ErrorIs(t, err, convention.ErrInvalidWeekday)
}

func TestNext_BumpsWhenAdjustmentRollsBack(t *testing.T) {
	day10 := mustRoll(t, "Day10")

	// GIVEN: 2024-03-15 + 1 day = 03-16, adjusted back to 03-10
	// THEN: bumped to the following month
	next, err := day10.Next(date(2024, time.March, 15), period.Daily)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 10), next)

	prev, err := day10.Previous(date(2024, time.March, 5), period.Daily)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 10), prev)
}

func TestNextPrevious_StrictForMonthlyRolls(t *testing.T) {
	freqs := []period.Frequency{period.Daily, period.Weekly, period.Monthly, period.Quarterly, period.Annual}
	rolls := []string{"Day1", "Day15", "Day29", "Day30", "EOM", "IMM", "IMMNZD", "SFE"}

	for _, rn := range rolls {
		r := mustRoll(t, rn)
		for _, f := range freqs {
			for d := date(2024, time.January, 1); d.Before(date(2025, time.January, 1)); d = d.AddDays(3) {
				next, err := r.Next(d, f)
				require.NoError(t, err)
				require.True(t, next.After(d), "%s Next(%s, %s) = %s", rn, d, f, next)
				require.True(t, r.Matches(next), "%s Next(%s, %s) = %s", rn, d, f, next)

				prev, err := r.Previous(d, f)
				require.NoError(t, err)
				require.True(t, prev.Before(d), "%s Previous(%s, %s) = %s", rn, d, f, prev)
			}
		}
	}
}

func TestNext_TermFrequency(t *testing.T) {
	_, err := convention.EOM.Next(date(2024, time.January, 31), period.Term)
	assert.ErrorIs(t, err, period.ErrTermArithmetic)

	mon := mustRoll(t, "Mon")
	_, err = mon.Previous(date(2024, time.January, 31), period.Term)
	assert.ErrorIs(t, err, period.ErrTermArithmetic)
}
