package holiday

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/warp/convention-engine/name"
)

// =============================================================================
// CALENDAR REGISTRY
// =============================================================================
//
// Built-in calendars live in an immutable map created at init. Calendars
// created at run time (e.g. loaded from the holiday store) go into a
// concurrent map. Composite names resolve through Combined ("A+B") and
// Linked ("A~B"), with parentheses for grouping.

var (
	builtins = index(None, SatSun, Sun, Sat, FriSat, ThuFri, US)
	custom   sync.Map // key -> Calendar
)

func index(cals ...Calendar) map[string]Calendar {
	m := make(map[string]Calendar, len(cals))
	for _, c := range cals {
		m[c.Name().Key()] = c
	}
	return m
}

// Of resolves a calendar by name, building composites on demand. In a
// composite name "~" binds tighter than "+" and parentheses group, so
// "A+B~C" is Combined(A, Linked(B, C)).
func Of(s string) (Calendar, error) {
	return resolve(s, lookup)
}

// OfBuiltin is Of restricted to built-in calendars and their composites.
func OfBuiltin(s string) (Calendar, error) {
	return resolve(s, func(key string) (Calendar, bool) {
		c, ok := builtins[key]
		return c, ok
	})
}

func lookup(key string) (Calendar, bool) {
	if c, ok := builtins[key]; ok {
		return c, true
	}
	if c, ok := custom.Load(key); ok {
		return c.(Calendar), true
	}
	return nil, false
}

func resolve(s string, find func(key string) (Calendar, bool)) (Calendar, error) {
	if c, ok := find(name.Key(s)); ok {
		return c, nil
	}
	p := &parser{text: s, find: find}
	c, err := p.union()
	if err != nil {
		return nil, err
	}
	if p.skipSpace(); p.pos < len(p.text) {
		return nil, p.malformed()
	}
	return c, nil
}

// =============================================================================
// COMPOSITE NAME PARSER
// =============================================================================
//
//	union        = intersection { "+" intersection }
//	intersection = operand { "~" operand }
//	operand      = "(" union ")" | calendar name

type parser struct {
	text string
	pos  int
	find func(key string) (Calendar, bool)
}

func (p *parser) union() (Calendar, error) {
	return p.chain(combinedSep, p.intersection, Combined)
}

func (p *parser) intersection() (Calendar, error) {
	return p.chain(linkedSep, p.operand, Linked)
}

func (p *parser) chain(sep string, next func() (Calendar, error), op func(a, b Calendar) (Calendar, error)) (Calendar, error) {
	acc, err := next()
	if err != nil {
		return nil, err
	}
	for p.accept(sep) {
		c, err := next()
		if err != nil {
			return nil, err
		}
		if acc, err = op(acc, c); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (p *parser) operand() (Calendar, error) {
	if p.accept(openGroup) {
		c, err := p.union()
		if err != nil {
			return nil, err
		}
		if !p.accept(closeGroup) {
			return nil, p.malformed()
		}
		return c, nil
	}
	start := p.pos
	for p.pos < len(p.text) && !strings.ContainsRune(reserved, rune(p.text[p.pos])) {
		p.pos++
	}
	atom := strings.TrimSpace(p.text[start:p.pos])
	if atom == "" {
		return nil, p.malformed()
	}
	c, ok := p.find(name.Key(atom))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, atom)
	}
	return c, nil
}

func (p *parser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.text[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	rest := strings.TrimLeftFunc(p.text[p.pos:], unicode.IsSpace)
	p.pos = len(p.text) - len(rest)
}

func (p *parser) malformed() error {
	return fmt.Errorf("%w: malformed composite %q", ErrNotFound, strings.TrimSpace(p.text))
}

// =============================================================================
// RUN-TIME CALENDARS
// =============================================================================

// CheckCustom reports whether n may name a run-time calendar: built-in
// names and names using composite syntax are reserved.
func CheckCustom(n name.Name) error {
	if IsBuiltin(n) {
		return fmt.Errorf("%w: %s", ErrReserved, n)
	}
	if strings.ContainsAny(n.String(), reserved) {
		return fmt.Errorf("%w: %s contains one of %q", ErrReserved, n, reserved)
	}
	return nil
}

// Register adds or replaces a run-time calendar. Memoized composites that
// used a replaced calendar are dropped.
func Register(c Calendar) error {
	if err := CheckCustom(c.Name()); err != nil {
		return err
	}
	key := c.Name().Key()
	custom.Store(key, c)
	forget(key)
	return nil
}

// IsBuiltin reports whether n names a built-in calendar.
func IsBuiltin(n name.Name) bool {
	_, ok := builtins[n.Key()]
	return ok
}

// Custom lists the registered run-time calendar names.
func Custom() []name.Name {
	var names []name.Name
	custom.Range(func(_, v any) bool {
		names = append(names, v.(Calendar).Name())
		return true
	})
	return names
}

// Unregister removes a run-time calendar.
func Unregister(n name.Name) {
	custom.Delete(n.Key())
	forget(n.Key())
}

// Names lists built-in and registered calendar names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for _, c := range builtins {
		names = append(names, c.Name().String())
	}
	custom.Range(func(_, v any) bool {
		names = append(names, v.(Calendar).Name().String())
		return true
	})
	slices.Sort(names)
	return names
}
