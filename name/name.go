/*
Package name provides the validated identifier used as the lookup key for
every named convention and calendar.

RULES:
  - Leading and trailing whitespace is trimmed
  - Text is normalized to Unicode canonical composed form (NFC)
  - Empty or all-whitespace input is rejected
  - At most MaxLength characters after trimming
  - Equality is case-insensitive (full Unicode case folding)

USAGE:
  n, err := name.New("  Following ")
  n.String()                           // "Following"
  n.Equal(name.MustNew("FOLLOWING"))   // true
*/
package name

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest accepted name, in characters.
const MaxLength = 50

var (
	// ErrEmpty is returned for empty or all-whitespace input.
	ErrEmpty = errors.New("name is empty")

	// ErrTooLong is returned when the trimmed input exceeds MaxLength characters.
	ErrTooLong = errors.New("name too long")
)

// Name is an immutable, normalized identifier. The zero value is not valid.
type Name struct {
	value string
	key   string
}

// New validates and normalizes s.
func New(s string) (Name, error) {
	v := norm.NFC.String(strings.TrimSpace(s))
	if v == "" {
		return Name{}, ErrEmpty
	}
	if n := utf8.RuneCountInString(v); n > MaxLength {
		return Name{}, fmt.Errorf("%w: %d characters (max %d)", ErrTooLong, n, MaxLength)
	}
	return Name{value: v, key: Key(v)}, nil
}

// MustNew is New for compile-time constants. Panics on invalid input.
func MustNew(s string) Name {
	n, err := New(s)
	if err != nil {
		panic(fmt.Sprintf("invalid name %q: %v", s, err))
	}
	return n
}

// Key returns the case-folded lookup key for arbitrary text, applying the
// same trimming and normalization as New. Registries index by this value.
func Key(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func (n Name) String() string { return n.value }

// Key returns the case-folded form used for equality and hashing.
func (n Name) Key() string { return n.key }

// Equal compares case-insensitively.
func (n Name) Equal(other Name) bool { return n.key == other.key }

func (n Name) IsZero() bool { return n.key == "" }

func (n Name) MarshalText() ([]byte, error) { return []byte(n.value), nil }

func (n *Name) UnmarshalText(b []byte) error {
	v, err := New(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
