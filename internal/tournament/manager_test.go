package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
	"github.com/pocketsim/pocket-sim-go/internal/policy"
)

func testSim() *game.Simulator {
	db := carddb.New([]carddb.Card{
		{
			Name:     "Farfetch'd",
			Type:     "Colorless",
			HP:       60,
			Weakness: "Lightning",
			CardType: carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{Name: "Leek Slap", Damage: 40, EnergyCost: []energy.Type{energy.Colorless}},
			},
		},
		{
			Name:     "Minccino",
			Type:     "Colorless",
			HP:       60,
			Weakness: "Fighting",
			CardType: carddb.CardTypePokemon,
			Attacks: []carddb.Attack{
				{Name: "Pound", Damage: 20, EnergyCost: []energy.Type{energy.Colorless}},
			},
		},
	}, nil)
	return game.NewSimulator(game.DefaultRules(), db, nil)
}

func testEntries() []Entry {
	return []Entry{
		{
			Name:        "leeks",
			Cards:       map[string]int{"Farfetch'd": 10, "Minccino": 10},
			EnergyTypes: []energy.Type{energy.Colorless},
		},
		{
			Name:        "chinchillas",
			Cards:       map[string]int{"Minccino": 20},
			EnergyTypes: []energy.Type{energy.Colorless},
		},
		{
			Name:        "mixed",
			Cards:       map[string]int{"Minccino": 10, "Farfetch'd": 10},
			EnergyTypes: []energy.Type{energy.Colorless},
		},
	}
}

func TestPlayMatchTerminates(t *testing.T) {
	sim := testSim()
	cfg := game.MatchConfig{
		P0Deck:        map[string]int{"Farfetch'd": 10, "Minccino": 10},
		P0EnergyTypes: []energy.Type{energy.Colorless},
		P1Deck:        map[string]int{"Minccino": 20},
		P1EnergyTypes: []energy.Type{energy.Colorless},
		Seed:          7,
	}

	winner, err := PlayMatch(sim, policy.NewBaseline(), cfg)
	require.NoError(t, err)
	assert.True(t, winner == 0 || winner == 1 || winner == game.NoPlayer)
}

func TestPlayMatchInvalidConfig(t *testing.T) {
	sim := testSim()
	cfg := game.MatchConfig{
		P0Deck: map[string]int{"Farfetch'd": 10},
		P1Deck: map[string]int{"Minccino": 10},
		Seed:   7,
	}
	_, err := PlayMatch(sim, policy.NewBaseline(), cfg)
	assert.Error(t, err)
}

func TestPlayMatchDeterministic(t *testing.T) {
	sim := testSim()
	cfg := game.MatchConfig{
		P0Deck:        map[string]int{"Farfetch'd": 10, "Minccino": 10},
		P0EnergyTypes: []energy.Type{energy.Colorless},
		P1Deck:        map[string]int{"Minccino": 20},
		P1EnergyTypes: []energy.Type{energy.Colorless},
		Seed:          42,
	}

	w1, err := PlayMatch(sim, policy.NewBaseline(), cfg)
	require.NoError(t, err)
	w2, err := PlayMatch(sim, policy.NewBaseline(), cfg)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
}

func TestRunMetaRoundRobin(t *testing.T) {
	m := NewManager(testSim(), policy.NewBaseline(), 4, nil)

	res, err := m.RunMeta(testEntries(), 6, 100)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	// 3 decks -> 3 pairings.
	require.Len(t, res.Pairings, 3)
	for _, p := range res.Pairings {
		assert.Equal(t, 6, p.Games)
		assert.Equal(t, 6, p.WinsA+p.WinsB+p.Draws)
		assert.InDelta(t, float64(p.WinsA)/6, p.WinRateA, 1e-9)
	}

	// Matrix is symmetric: a vs b plus b vs a sums to 1.
	wr := res.WinRates
	assert.InDelta(t, 1.0, wr["leeks"]["chinchillas"]+wr["chinchillas"]["leeks"], 1e-9)
}

func TestRunMetaDeterministicAcrossWorkerCounts(t *testing.T) {
	serial := NewManager(testSim(), policy.NewBaseline(), 1, nil)
	parallel := NewManager(testSim(), policy.NewBaseline(), 8, nil)

	a, err := serial.RunMeta(testEntries(), 4, 55)
	require.NoError(t, err)
	b, err := parallel.RunMeta(testEntries(), 4, 55)
	require.NoError(t, err)

	assert.Equal(t, a.WinRates, b.WinRates)
	for i := range a.Pairings {
		assert.Equal(t, a.Pairings[i].WinsA, b.Pairings[i].WinsA)
		assert.Equal(t, a.Pairings[i].WinsB, b.Pairings[i].WinsB)
		assert.Equal(t, a.Pairings[i].Draws, b.Pairings[i].Draws)
	}
}

func TestRunMetaRejectsBadInput(t *testing.T) {
	m := NewManager(testSim(), policy.NewBaseline(), 1, nil)

	_, err := m.RunMeta(testEntries()[:1], 4, 1)
	assert.Error(t, err)

	_, err = m.RunMeta(testEntries(), 0, 1)
	assert.Error(t, err)
}
