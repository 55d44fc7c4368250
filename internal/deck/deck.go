// Package deck loads, normalizes, and validates deck configurations.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Size and copy limits for constructed decks.
const (
	DeckSize      = 20
	MaxCopies     = 2
	MinEnergyType = 1
	MaxEnergyType = 3
)

// Deck is one player's deck configuration.
type Deck struct {
	Cards       map[string]int `json:"cards"`
	EnergyTypes []energy.Type  `json:"energy_types"`
}

// LoadFile reads a deck JSON file: {"cards": {id: count}, "energy_types": [...]}.
func LoadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck file: %w", err)
	}
	return &d, nil
}

// Normalize resolves raw deck keys against the card database: exact variant
// IDs pass through, unambiguous base names resolve to their single variant,
// everything else produces a warning and is kept out of the result.
func Normalize(raw map[string]int, db *carddb.DB) (map[string]int, []string) {
	out := make(map[string]int, len(raw))
	var warnings []string

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		cnt := raw[rawKey]
		key := carddb.NormalizeKey(rawKey)
		if db.Has(key) {
			out[key] += cnt
			continue
		}
		base := baseName(key)
		ids := db.IDsForName(base)
		switch len(ids) {
		case 1:
			out[ids[0]] += cnt
		case 0:
			warnings = append(warnings, fmt.Sprintf("unknown card name %q", rawKey))
		default:
			warnings = append(warnings, fmt.Sprintf("ambiguous name %q: candidates %v", rawKey, ids))
		}
	}
	return out, warnings
}

// Validate checks deck legality: exactly DeckSize cards, at most MaxCopies
// per card line (the ex and non-ex versions of a name are separate lines),
// and 1..3 energy types. It reports every problem found.
func Validate(d *Deck) (bool, []string) {
	ok := true
	var msgs []string

	total := 0
	for _, n := range d.Cards {
		total += n
	}
	if total != DeckSize {
		ok = false
		msgs = append(msgs, fmt.Sprintf("deck must have %d cards, got %d", DeckSize, total))
	}

	// Collapse variants to (base name, ex flag) lines for the copy limit.
	type line struct {
		base string
		ex   bool
	}
	grouped := make(map[line]int)
	for id, cnt := range d.Cards {
		base := baseName(carddb.NormalizeKey(id))
		ex := carddb.IsExName(id)
		if ex {
			base = strings.TrimSpace(strings.TrimSuffix(base, " ex"))
		}
		grouped[line{base, ex}] += cnt
	}

	lines := make([]line, 0, len(grouped))
	for l := range grouped {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].base != lines[j].base {
			return lines[i].base < lines[j].base
		}
		return !lines[i].ex && lines[j].ex
	})
	for _, l := range lines {
		if cnt := grouped[l]; cnt > MaxCopies {
			label := l.base
			if l.ex {
				label += " ex"
			}
			ok = false
			msgs = append(msgs, fmt.Sprintf("too many copies of %q: %d (>%d)", label, cnt, MaxCopies))
		}
	}

	if len(d.EnergyTypes) < MinEnergyType || len(d.EnergyTypes) > MaxEnergyType {
		ok = false
		msgs = append(msgs, fmt.Sprintf("energy types must be between %d and %d", MinEnergyType, MaxEnergyType))
	}

	return ok, msgs
}

func baseName(id string) string {
	if i := strings.LastIndex(id, " ["); i >= 0 && strings.HasSuffix(id, "]") {
		return strings.TrimSpace(id[:i])
	}
	return strings.TrimSpace(id)
}
