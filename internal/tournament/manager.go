// Package tournament runs round-robin metas between named decks and
// aggregates per-pairing win rates.
package tournament

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pocketsim/pocket-sim-go/internal/game"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
	"github.com/pocketsim/pocket-sim-go/internal/policy"
)

// Entry is one named deck participating in a meta run.
type Entry struct {
	Name        string
	Cards       map[string]int
	EnergyTypes []energy.Type
}

// PairingResult aggregates the outcomes of one deck pairing.
type PairingResult struct {
	DeckA    string
	DeckB    string
	Games    int
	WinsA    int
	WinsB    int
	Draws    int
	WinRateA float64
}

// Results is the outcome of a meta run: a win-rate matrix plus the raw
// pairings.
type Results struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Pairings []PairingResult
	// WinRates[a][b] is deck a's win rate against deck b.
	WinRates map[string]map[string]float64
}

// PlayMatch drives one match to its terminal state and returns the winner
// (game.NoPlayer on a draw). The policy is consulted on the Main and
// Attack phases; every other phase is a forced pass.
func PlayMatch(sim *game.Simulator, pol policy.Policy, cfg game.MatchConfig) (int, error) {
	st, err := sim.Reset(cfg)
	if err != nil {
		return game.NoPlayer, fmt.Errorf("failed to reset match: %w", err)
	}
	for !st.Terminal {
		switch st.Phase {
		case game.PhaseMain, game.PhaseAttack:
			sim.Step(st, pol.ChooseAction(sim, st))
		default:
			sim.Step(st, game.Pass)
		}
	}
	return st.Winner, nil
}

// Manager runs metas over a shared simulator. The simulator and card
// database are read-only, so matches are partitioned across workers by
// seed with no locking beyond result aggregation.
type Manager struct {
	sim     *game.Simulator
	pol     policy.Policy
	workers int
	logger  *zap.Logger
}

// NewManager creates a meta runner. workers <= 0 means serial execution.
func NewManager(sim *game.Simulator, pol policy.Policy, workers int, logger *zap.Logger) *Manager {
	if workers <= 0 {
		workers = 1
	}
	return &Manager{
		sim:     sim,
		pol:     pol,
		workers: workers,
		logger:  logger,
	}
}

// RunMeta plays every deck pairing (round-robin, each pair once) for the
// given number of games. Game g of any pairing uses seed base+g, so a meta
// run is reproducible from its base seed.
func (m *Manager) RunMeta(entries []Entry, games int, seed int64) (*Results, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("meta requires at least 2 decks, got %d", len(entries))
	}
	if games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", games)
	}

	res := &Results{
		ID:       uuid.New().String(),
		Started:  time.Now(),
		WinRates: make(map[string]map[string]float64, len(entries)),
	}
	for _, e := range entries {
		res.WinRates[e.Name] = make(map[string]float64)
	}

	if m.logger != nil {
		m.logger.Info("meta run started",
			zap.String("meta_id", res.ID),
			zap.Int("decks", len(entries)),
			zap.Int("games_per_pairing", games),
			zap.Int64("seed", seed),
			zap.Int("workers", m.workers),
		)
	}

	for i, a := range entries {
		for j := i + 1; j < len(entries); j++ {
			b := entries[j]
			pairing := m.runPairing(a, b, games, seed)
			res.Pairings = append(res.Pairings, pairing)
			res.WinRates[a.Name][b.Name] = pairing.WinRateA
			res.WinRates[b.Name][a.Name] = 1 - pairing.WinRateA

			if m.logger != nil {
				m.logger.Info("pairing finished",
					zap.String("deck_a", a.Name),
					zap.String("deck_b", b.Name),
					zap.Float64("win_rate_a", pairing.WinRateA),
					zap.Int("draws", pairing.Draws),
				)
			}
		}
	}

	res.Finished = time.Now()
	return res, nil
}

// runPairing plays all games of one pairing, fanned out over the worker
// pool. Outcomes are indexed by game so aggregation order is fixed
// regardless of scheduling.
func (m *Manager) runPairing(a, b Entry, games int, seed int64) PairingResult {
	outcomes := make([]int, games)

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.workers)
	for g := 0; g < games; g++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(g int) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := game.MatchConfig{
				P0Deck:        a.Cards,
				P0EnergyTypes: a.EnergyTypes,
				P1Deck:        b.Cards,
				P1EnergyTypes: b.EnergyTypes,
				Seed:          seed + int64(g),
			}
			winner, err := PlayMatch(m.sim, m.pol, cfg)
			if err != nil {
				if m.logger != nil {
					m.logger.Error("match failed",
						zap.String("deck_a", a.Name),
						zap.String("deck_b", b.Name),
						zap.Int("game", g),
						zap.Error(err),
					)
				}
				winner = game.NoPlayer
			}
			outcomes[g] = winner
		}(g)
	}
	wg.Wait()

	result := PairingResult{DeckA: a.Name, DeckB: b.Name, Games: games}
	for _, w := range outcomes {
		switch w {
		case 0:
			result.WinsA++
		case 1:
			result.WinsB++
		default:
			result.Draws++
		}
	}
	result.WinRateA = float64(result.WinsA) / float64(games)
	return result
}
