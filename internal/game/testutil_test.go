package game

import (
	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// testDB builds a small in-memory card database used across the engine
// tests.
func testDB() *carddb.DB {
	return carddb.New([]carddb.Card{
		{
			Name:        "Farfetch'd",
			Type:        "Colorless",
			HP:          60,
			Weakness:    "Lightning",
			RetreatCost: 1,
			CardType:    carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{Name: "Leek Slap", Damage: 40, EnergyCost: []energy.Type{energy.Colorless}},
			},
		},
		{
			Name:        "Minccino",
			Type:        "Colorless",
			HP:          60,
			Weakness:    "Fighting",
			RetreatCost: 1,
			CardType:    carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{Name: "Pound", Damage: 20, EnergyCost: []energy.Type{energy.Colorless}},
			},
		},
		{
			Name:        "Pikachu ex",
			Type:        "Lightning",
			HP:          120,
			Weakness:    "Fighting",
			RetreatCost: 1,
			CardType:    carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{
					Name:       "Circle Circuit",
					Damage:     10,
					Effect:     "This attack does 30 more damage for each [L] Energy attached to this Pokémon.",
					EnergyCost: []energy.Type{energy.Lightning},
				},
			},
		},
		{
			Name:        "Vaporeon",
			Type:        "Water",
			HP:          100,
			Weakness:    "Lightning",
			RetreatCost: 2,
			CardType:    carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{
					Name:       "Hydro Splash",
					Damage:     60,
					Effect:     "Discard 1 [W] Energy from this Pokémon.",
					EnergyCost: []energy.Type{energy.Water, energy.Water},
				},
				{
					Name:       "Wave Flip",
					Damage:     0,
					Effect:     "Flip 2 coins. This attack does 40 damage for each heads.",
					EnergyCost: []energy.Type{energy.Water},
				},
			},
		},
		{
			Name:        "Jigglypuff",
			Type:        "Psychic",
			HP:          70,
			Weakness:    "none",
			RetreatCost: 1,
			CardType:    carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{
					Name:       "Sing",
					Damage:     0,
					Effect:     "Your opponent's Active Pokémon is now Asleep.",
					EnergyCost: []energy.Type{energy.Colorless},
				},
			},
		},
	}, nil)
}

func testSim() *Simulator {
	return NewSimulator(DefaultRules(), testDB(), nil)
}

// colorlessMirror is a simple 10+10 Colorless match configuration.
func colorlessMirror(seed int64) MatchConfig {
	return MatchConfig{
		P0Deck:        map[string]int{"Farfetch'd": 10, "Minccino": 10},
		P0EnergyTypes: []energy.Type{energy.Colorless},
		P1Deck:        map[string]int{"Minccino": 10, "Farfetch'd": 10},
		P1EnergyTypes: []energy.Type{energy.Colorless},
		Seed:          seed,
	}
}

// instance builds a PokemonInstance for a card in the test database.
func instance(db *carddb.DB, id string, attached ...energy.Type) *PokemonInstance {
	card := db.Get(id)
	return &PokemonInstance{
		CardID:         id,
		IsEx:           db.IsEx(id),
		HP:             card.HP,
		MaxHP:          card.HP,
		AttachedEnergy: attached,
		Status:         "None",
	}
}

// battleWith builds a minimal battle state with the given actives, player 0
// to move, positioned at the given phase.
func battleWith(seed int64, p0Active, p1Active *PokemonInstance, phase Phase) *BattleState {
	return &BattleState{
		Turn:          1,
		CurrentPlayer: 0,
		RNGSeed:       seed,
		MaxTurns:      DefaultMaxTurns,
		Phase:         phase,
		Winner:        NoPlayer,
		Players: [2]*PlayerState{
			{
				Active:     p0Active,
				Bench:      []*PokemonInstance{},
				EnergyZone: EnergyZoneState{AllowedTypes: []energy.Type{energy.Colorless}},
			},
			{
				Active:     p1Active,
				Bench:      []*PokemonInstance{},
				EnergyZone: EnergyZoneState{AllowedTypes: []energy.Type{energy.Colorless}},
			},
		},
	}
}
