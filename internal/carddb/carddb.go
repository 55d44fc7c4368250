// Package carddb loads and indexes the read-only card database shared by
// all matches. Cards are JSON records; attack effect text is compiled into
// effect variants once at load time.
package carddb

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pocketsim/pocket-sim-go/internal/game/effects"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Attack is one card-declared attack.
type Attack struct {
	Name       string           `json:"name"`
	Damage     int              `json:"damage"`
	Effect     string           `json:"effect"`
	EnergyCost []energy.Type    `json:"energy_cost"`
	Compiled   []effects.Effect `json:"-"`
}

// Card is a read-only card record. Type and Weakness stay plain strings so
// the weakness comparison keeps the card text's exact, case-sensitive
// semantics.
type Card struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	HP            int      `json:"hp"`
	Attacks       []Attack `json:"attacks"`
	Weakness      string   `json:"weakness"`
	RetreatCost   int      `json:"retreat_cost"`
	CardType      string   `json:"card_type"`
	EvolutionLine []string `json:"evolution_line,omitempty"`
	Ex            *bool    `json:"ex,omitempty"`
}

// CardTypePokemon is the card_type value for Pokémon cards.
const CardTypePokemon = "Pokémon"

// DefaultStub is returned for unknown card IDs: playable but inert.
var DefaultStub = Card{HP: 100, Weakness: "none", CardType: CardTypePokemon}

// DB is an indexed, immutable card database. Safe for concurrent reads
// across any number of matches.
type DB struct {
	logger    *zap.Logger
	cards     map[string]Card     // id -> card
	nameToIDs map[string][]string // base name -> variant ids
}

// Load reads a JSON array of card records, builds the indexes, and compiles
// every attack's effect text.
func Load(path string, logger *zap.Logger) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card database: %w", err)
	}

	var records []Card
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse card database: %w", err)
	}

	db := New(records, logger)
	if logger != nil {
		logger.Info("card database loaded",
			zap.String("path", path),
			zap.Int("cards", len(db.cards)),
		)
	}
	return db, nil
}

// New builds an indexed database from in-memory records.
func New(records []Card, logger *zap.Logger) *DB {
	db := &DB{
		logger:    logger,
		cards:     make(map[string]Card, len(records)),
		nameToIDs: make(map[string][]string),
	}
	for _, c := range records {
		for i := range c.Attacks {
			c.Attacks[i].Compiled = effects.Parse(c.Attacks[i].Effect)
		}
		id := NormalizeKey(c.Name)
		db.cards[id] = c
		base := baseName(id)
		db.nameToIDs[base] = append(db.nameToIDs[base], id)
	}
	return db
}

// Get returns the card for an ID. Unknown IDs fall back to a default stub
// record rather than failing; the miss is logged once per lookup.
func (db *DB) Get(id string) Card {
	if c, ok := db.cards[NormalizeKey(id)]; ok {
		return c
	}
	if db.logger != nil {
		db.logger.Warn("unknown card id, using stub record", zap.String("card_id", id))
	}
	stub := DefaultStub
	stub.Name = id
	return stub
}

// Has reports whether an ID resolves to a real card record.
func (db *DB) Has(id string) bool {
	_, ok := db.cards[NormalizeKey(id)]
	return ok
}

// IDsForName returns the variant IDs registered under a base card name.
func (db *DB) IDsForName(name string) []string {
	return db.nameToIDs[strings.TrimSpace(name)]
}

// Size returns the number of card records.
func (db *DB) Size() int {
	return len(db.cards)
}

var variantSuffixRe = regexp.MustCompile(`\s*\[[^\]]+\]$`)

// NormalizeKey canonicalizes a card identifier. Variant IDs use the form
// "Name [SET]"; whitespace around the name and inside the brackets is
// normalized.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	if m := variantSuffixRe.FindString(key); m != "" {
		base := strings.TrimSpace(strings.TrimSuffix(key, m))
		set := strings.TrimSpace(strings.Trim(strings.TrimSpace(m), "[]"))
		return base + " [" + set + "]"
	}
	return key
}

// baseName strips a trailing "[SET]" variant suffix.
func baseName(id string) string {
	return strings.TrimSpace(variantSuffixRe.ReplaceAllString(id, ""))
}

// IsEx reports whether the card identified by id scores two prize points
// when knocked out. An explicit "ex" field on the record wins; otherwise
// the name-suffix heuristic is used.
func (db *DB) IsEx(id string) bool {
	if c, ok := db.cards[NormalizeKey(id)]; ok && c.Ex != nil {
		return *c.Ex
	}
	return IsExName(id)
}

// IsExName applies the " ex" name heuristic, including the variant form
// "Name ex [SET]".
func IsExName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(n, " ex") || strings.Contains(n, " ex [")
}
