// Package colors models the five-color mana system as a compact value
// type. Sets parse from the notations players actually type: single
// symbols, symbol runs, color names, and guild/shard/wedge nicknames.
package colors

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Set is a set of mana colors packed into a bitmask.
// The zero value is the empty (colorless) set.
type Set uint8

const (
	White Set = 1 << iota
	Blue
	Black
	Red
	Green
)

// canonicalOrder is the conventional symbol ordering used for display
// and for serialized JSON arrays.
var canonicalOrder = [...]struct {
	color  Set
	symbol string
}{
	{White, "W"},
	{Blue, "U"},
	{Black, "B"},
	{Red, "R"},
	{Green, "G"},
}

// symbolTable maps single-letter symbols to colors.
var symbolTable = map[rune]Set{
	'w': White,
	'u': Blue,
	'b': Black,
	'r': Red,
	'g': Green,
}

// nameTable maps full color names and multicolor nicknames to sets.
// Nicknames cover the ten guilds, five shards, and five wedges.
var nameTable = map[string]Set{
	"white": White,
	"blue":  Blue,
	"black": Black,
	"red":   Red,
	"green": Green,

	"colorless": 0,

	"azorius":  White | Blue,
	"dimir":    Blue | Black,
	"rakdos":   Black | Red,
	"gruul":    Red | Green,
	"selesnya": Green | White,
	"orzhov":   White | Black,
	"izzet":    Blue | Red,
	"golgari":  Black | Green,
	"boros":    Red | White,
	"simic":    Green | Blue,

	"bant":   Green | White | Blue,
	"esper":  White | Blue | Black,
	"grixis": Blue | Black | Red,
	"jund":   Black | Red | Green,
	"naya":   Red | Green | White,

	"abzan":  White | Black | Green,
	"jeskai": Blue | Red | White,
	"sultai": Black | Green | Blue,
	"mardu":  Red | White | Black,
	"temur":  Green | Blue | Red,
}

// Parse interprets a color word. Accepted forms are a run of color
// symbols ("g", "gu", "wubrg"), a full color name ("green"), a
// multicolor nickname ("simic"), or "c"/"colorless" for the empty set.
// Matching is case-insensitive and duplicate symbols collapse.
func Parse(word string) (Set, error) {
	if word == "" {
		return 0, fmt.Errorf("empty color value")
	}
	lower := strings.ToLower(word)
	if lower == "c" || lower == "colorless" {
		return 0, nil
	}
	if set, ok := nameTable[lower]; ok {
		return set, nil
	}
	var set Set
	for _, r := range lower {
		color, ok := symbolTable[r]
		if !ok {
			return 0, fmt.Errorf("unknown color symbol %q in %q", r, word)
		}
		set |= color
	}
	return set, nil
}

// MustParse is Parse for static values known to be valid.
func MustParse(word string) Set {
	set, err := Parse(word)
	if err != nil {
		panic(err)
	}
	return set
}

// IsColorWord reports whether word parses as a color value.
func IsColorWord(word string) bool {
	_, err := Parse(word)
	return err == nil
}

// Empty reports whether the set holds no colors.
func (s Set) Empty() bool { return s == 0 }

// Len returns the number of colors in the set.
func (s Set) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Has reports whether every color in c is present in s.
func (s Set) Has(c Set) bool { return s&c == c }

// Union returns the combination of both sets.
func (s Set) Union(other Set) Set { return s | other }

// SubsetOf reports whether s is contained in other.
func (s Set) SubsetOf(other Set) bool { return s&^other == 0 }

// Contains reports whether s contains all of other.
func (s Set) Contains(other Set) bool { return other.SubsetOf(s) }

// Intersects reports whether the sets share at least one color.
func (s Set) Intersects(other Set) bool { return s&other != 0 }

// Singles splits the set into its individual colors in canonical order.
func (s Set) Singles() []Set {
	out := make([]Set, 0, s.Len())
	for _, entry := range canonicalOrder {
		if s.Has(entry.color) {
			out = append(out, entry.color)
		}
	}
	return out
}

// Symbols returns the set's symbols in canonical WUBRG order.
func (s Set) Symbols() []string {
	out := make([]string, 0, s.Len())
	for _, entry := range canonicalOrder {
		if s.Has(entry.color) {
			out = append(out, entry.symbol)
		}
	}
	return out
}

// String renders the set as a compact symbol run, or "C" for the
// empty set.
func (s Set) String() string {
	if s == 0 {
		return "C"
	}
	return strings.Join(s.Symbols(), "")
}

// MarshalJSON renders the set as a JSON array of symbols, the shape
// stored in the database's color columns.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Symbols())
}

// UnmarshalJSON reads a JSON array of symbols.
func (s *Set) UnmarshalJSON(data []byte) error {
	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return err
	}
	var set Set
	for _, symbol := range symbols {
		parsed, err := Parse(symbol)
		if err != nil {
			return err
		}
		set |= parsed
	}
	*s = set
	return nil
}

// Scan implements sql.Scanner so color columns load directly from
// their JSON array representation.
func (s *Set) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = 0
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into colors.Set", value)
	}
}

// Value implements driver.Valuer, storing the set as a JSON array.
func (s Set) Value() (driver.Value, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
