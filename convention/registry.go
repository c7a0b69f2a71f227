/*
Package convention implements the market conventions that adjust, roll,
step and accrue dates.

PURPOSE:
  Every convention is a stateless value with a Name. Pricing code picks a
  convention by name from a registry and applies it to dates, a calendar
  and a frequency supplied by the caller.

FAMILIES:
  - Roll: canonical day of the month or week (Day1..Day30, EOM, Mon..Sun,
    IMM, IMMNZD, SFE)
  - BusinessDay: move holidays to business days (Following,
    ModifiedFollowing, ...)
  - PeriodAddition: add a period with an end-of-month rule (None, LastDay,
    LastBusinessDay)
  - DayCount: year fractions (Act/Act ISDA, Act/365A, Act/365L,
    Act/Act ICMA, Act/360, Act/365F, 30/360, 30E/360, 1/1)

REGISTRIES:
  The convention sets are fixed, so each registry is an immutable map built
  during package initialization. Lookups are case-insensitive and safe for
  concurrent use.

    bdc, err := convention.BusinessDayOf("modifiedfollowing")
    d := bdc.Adjust(date, holiday.US)

SEE ALSO:
  - holiday: calendars used by BusinessDay and PeriodAddition
  - period: Period and Frequency used by Roll and PeriodAddition
*/
package convention

import (
	"slices"

	"github.com/warp/convention-engine/name"
)

type named interface{ Name() name.Name }

// registry is an immutable name -> convention map.
type registry[T named] struct {
	family string
	byKey  map[string]T
	names  []string
}

func newRegistry[T named](family string, items ...T) registry[T] {
	r := registry[T]{family: family, byKey: make(map[string]T, len(items))}
	for _, it := range items {
		key := it.Name().Key()
		if _, dup := r.byKey[key]; dup {
			panic("convention: duplicate " + family + " name " + it.Name().String())
		}
		r.byKey[key] = it
		r.names = append(r.names, it.Name().String())
	}
	return r
}

func (r registry[T]) of(s string) (T, error) {
	if it, ok := r.byKey[name.Key(s)]; ok {
		return it, nil
	}
	var zero T
	return zero, &NotFoundError{Family: r.family, Name: s}
}

func (r registry[T]) list() []string { return slices.Clone(r.names) }

var (
	rolls = newRegistry("roll", slices.Concat(
		asRolls(dayRolls[:]),
		[]Roll{EOM},
		asRolls(weekdayRolls[1:]), // Mon..Sat
		[]Roll{weekdayRolls[0], IMM, IMMNZD, SFE},
	)...)

	businessDays = newRegistry[BusinessDay]("business day",
		NoAdjust, Following, ModifiedFollowing, ModifiedFollowingBiMonthly,
		Preceding, ModifiedPreceding, Nearest,
	)

	dayCounts = newRegistry("day count",
		OneOne, ActActISDA, Act365A, Act365L, ActActICMA,
		Act360, Act365F, Thirty360, ThirtyE360,
	)

	periodAdditions = newRegistry("period addition",
		PlainAddition, LastDay, LastBusinessDay,
	)
)

func asRolls[R Roll](rs []R) []Roll {
	out := make([]Roll, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

// RollOf resolves a roll convention by name.
func RollOf(s string) (Roll, error) { return rolls.of(s) }

// BusinessDayOf resolves a business day convention by name.
func BusinessDayOf(s string) (BusinessDay, error) { return businessDays.of(s) }

// DayCountOf resolves a day count by name.
func DayCountOf(s string) (DayCount, error) { return dayCounts.of(s) }

// PeriodAdditionOf resolves a period addition convention by name.
func PeriodAdditionOf(s string) (PeriodAddition, error) { return periodAdditions.of(s) }

// RollNames lists the roll conventions in declaration order.
func RollNames() []string { return rolls.list() }

func BusinessDayNames() []string    { return businessDays.list() }
func DayCountNames() []string       { return dayCounts.list() }
func PeriodAdditionNames() []string { return periodAdditions.list() }
