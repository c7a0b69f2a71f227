package holiday

import (
	"sync"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/name"
)

// =============================================================================
// COMBINATORS
// =============================================================================

// Name syntax for composite calendars.
const (
	combinedSep = "+"
	linkedSep   = "~"
	openGroup   = "("
	closeGroup  = ")"
	reserved    = combinedSep + linkedSep + openGroup + closeGroup
)

// combined is a holiday when either source is.
type combined struct {
	name name.Name
	a, b Calendar
}

func (c *combined) Name() name.Name { return c.name }
func (c *combined) IsHoliday(d dates.Date) bool {
	return c.a.IsHoliday(d) || c.b.IsHoliday(d)
}

// linked is a holiday only when both sources are.
type linked struct {
	name name.Name
	a, b Calendar
}

func (c *linked) Name() name.Name { return c.name }
func (c *linked) IsHoliday(d dates.Date) bool {
	return c.a.IsHoliday(d) && c.b.IsHoliday(d)
}

// composites memoizes combinator results by order-insensitive pair.
var composites sync.Map // string -> Calendar

// Combined returns the union of the holidays of a and b: a date is a
// business day only if it is one in both. Combining a calendar with itself
// or with None returns the other operand unchanged. Repeated calls with the
// same pair, in either order, return the same instance.
func Combined(a, b Calendar) (Calendar, error) {
	switch {
	case Equal(a, b), Equal(b, None):
		return a, nil
	case Equal(a, None):
		return b, nil
	}
	return memoize(combinedSep, a, b, func(n name.Name, x, y Calendar) Calendar {
		return &combined{name: n, a: x, b: y}
	})
}

// Linked returns the intersection of the holidays of a and b: a date is a
// business day if it is one in either. Linking a calendar with itself returns
// it unchanged; linking with None yields None.
func Linked(a, b Calendar) (Calendar, error) {
	switch {
	case Equal(a, b):
		return a, nil
	case Equal(a, None), Equal(b, None):
		return None, nil
	}
	return memoize(linkedSep, a, b, func(n name.Name, x, y Calendar) Calendar {
		return &linked{name: n, a: x, b: y}
	})
}

func memoize(sep string, a, b Calendar, build func(name.Name, Calendar, Calendar) Calendar) (Calendar, error) {
	x, y := operand(a), operand(b)
	if name.Key(y) < name.Key(x) {
		a, b, x, y = b, a, y, x
	}
	display := x + sep + y
	key := name.Key(display)
	if v, ok := composites.Load(key); ok {
		return v.(Calendar), nil
	}
	n, err := name.New(display)
	if err != nil {
		return nil, err
	}
	v, _ := composites.LoadOrStore(key, build(n, a, b))
	return v.(Calendar), nil
}

// operand renders c inside a composite name. Nested composites are
// parenthesized so that different groupings never share a name.
func operand(c Calendar) string {
	switch c.(type) {
	case *combined, *linked:
		return openGroup + c.Name().String() + closeGroup
	}
	return c.Name().String()
}

// forget drops memoized composites built from the calendar with the given
// key, so they are rebuilt against its replacement.
func forget(key string) {
	composites.Range(func(k, v any) bool {
		if containsPart(v.(Calendar), key) {
			composites.Delete(k)
		}
		return true
	})
}

func containsPart(c Calendar, key string) bool {
	switch t := c.(type) {
	case *combined:
		return t.a.Name().Key() == key || t.b.Name().Key() == key ||
			containsPart(t.a, key) || containsPart(t.b, key)
	case *linked:
		return t.a.Name().Key() == key || t.b.Name().Key() == key ||
			containsPart(t.a, key) || containsPart(t.b, key)
	}
	return false
}
