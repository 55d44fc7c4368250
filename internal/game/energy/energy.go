package energy

import (
	"fmt"
	"strings"
)

// Type represents an energy type.
type Type string

const (
	Fire      Type = "Fire"
	Water     Type = "Water"
	Grass     Type = "Grass"
	Lightning Type = "Lightning"
	Psychic   Type = "Psychic"
	Fighting  Type = "Fighting"
	Darkness  Type = "Darkness"
	Metal     Type = "Metal"
	Fairy     Type = "Fairy"
	Colorless Type = "Colorless"
)

// AllTypes lists every energy type, typed elements first.
var AllTypes = []Type{
	Fire, Water, Grass, Lightning, Psychic,
	Fighting, Darkness, Metal, Fairy, Colorless,
}

// symbolTable maps the single-letter card text symbols (e.g. the T in
// "[T] Energy") to their energy types.
var symbolTable = map[string]Type{
	"R": Fire,
	"W": Water,
	"G": Grass,
	"L": Lightning,
	"P": Psychic,
	"F": Fighting,
	"D": Darkness,
	"M": Metal,
	"Y": Fairy,
	"C": Colorless,
}

// ParseSymbol resolves a single-letter energy symbol from card text.
func ParseSymbol(symbol string) (Type, bool) {
	t, ok := symbolTable[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}

// ParseType resolves a full energy type name (e.g. "Water").
func ParseType(name string) (Type, error) {
	for _, t := range AllTypes {
		if string(t) == strings.TrimSpace(name) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown energy type: %q", name)
}

// ParseTypes resolves a list of energy type names.
func ParseTypes(names []string) ([]Type, error) {
	types := make([]Type, 0, len(names))
	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// Count returns how many units of t are in the multiset.
func Count(units []Type, t Type) int {
	n := 0
	for _, u := range units {
		if u == t {
			n++
		}
	}
	return n
}
