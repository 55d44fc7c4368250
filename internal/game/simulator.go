// Package game implements the deterministic two-player battle engine: the
// turn-phase state machine, energy generation, and attack resolution.
package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Rules holds the fixed rules contract for a simulator instance.
type Rules struct {
	Draw struct {
		OpeningHand int
		HandCap     int
	}
	GoingFirst struct {
		SkipEnergyGenerationOnTurn1 bool
	}
	Win struct {
		PointsToWin int
	}
}

// DefaultRules returns the standard pocket rules.
func DefaultRules() Rules {
	var r Rules
	r.Draw.OpeningHand = 5
	r.Draw.HandCap = 10
	r.GoingFirst.SkipEnergyGenerationOnTurn1 = true
	r.Win.PointsToWin = 3
	return r
}

// MatchConfig configures one match.
type MatchConfig struct {
	P0Deck        map[string]int
	P0EnergyTypes []energy.Type
	P1Deck        map[string]int
	P1EnergyTypes []energy.Type
	Seed          int64
	MaxTurns      int
}

// DefaultMaxTurns bounds a match when MatchConfig.MaxTurns is zero.
const DefaultMaxTurns = 200

// Simulator drives battles to completion. It holds only read-only state
// (rules, card database) after construction, so one instance may run any
// number of matches concurrently.
type Simulator struct {
	rules  Rules
	db     *carddb.DB
	logger *zap.Logger
}

// NewSimulator creates a simulator over an injected rules contract and
// card database. logger may be nil.
func NewSimulator(rules Rules, db *carddb.DB, logger *zap.Logger) *Simulator {
	return &Simulator{
		rules:  rules,
		db:     db,
		logger: logger,
	}
}

// Rules returns the simulator's rules contract.
func (s *Simulator) Rules() Rules {
	return s.rules
}

// DB returns the injected card database.
func (s *Simulator) DB() *carddb.DB {
	return s.db
}

// Reset validates the match configuration and builds the initial battle
// state: shuffled decks, starting actives, opening hands.
func (s *Simulator) Reset(cfg MatchConfig) (*BattleState, error) {
	if err := validateEnergyTypes(cfg.P0EnergyTypes); err != nil {
		return nil, fmt.Errorf("player 0: %w", err)
	}
	if err := validateEnergyTypes(cfg.P1EnergyTypes); err != nil {
		return nil, fmt.Errorf("player 1: %w", err)
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	rng := NewRNG(cfg.Seed)
	p0 := s.makePlayer(cfg.P0Deck, cfg.P0EnergyTypes, rng)
	p1 := s.makePlayer(cfg.P1Deck, cfg.P1EnergyTypes, rng)

	st := &BattleState{
		Turn:          1,
		CurrentPlayer: 0,
		RNGSeed:       cfg.Seed,
		MaxTurns:      maxTurns,
		Players:       [2]*PlayerState{p0, p1},
		Phase:         PhaseStart,
		Winner:        NoPlayer,
	}

	if s.logger != nil {
		s.logger.Debug("match reset",
			zap.Int64("seed", cfg.Seed),
			zap.Int("max_turns", maxTurns),
			zap.String("p0_active", p0.Active.CardID),
			zap.String("p1_active", p1.Active.CardID),
		)
	}
	return st, nil
}

func validateEnergyTypes(types []energy.Type) error {
	if len(types) < 1 || len(types) > 3 {
		return fmt.Errorf("must choose 1..3 energy types, got %d", len(types))
	}
	return nil
}

// makePlayer expands the deck counts, shuffles, promotes the first Pokémon
// card to active, and draws the opening hand. Deck expansion sorts card IDs
// so map iteration order never reaches the RNG stream.
func (s *Simulator) makePlayer(deckCounts map[string]int, types []energy.Type, rng *RNG) *PlayerState {
	ids := make([]string, 0, len(deckCounts))
	for id := range deckCounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var deck []string
	for _, id := range ids {
		for i := 0; i < deckCounts[id]; i++ {
			deck = append(deck, id)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	// Active is the first Pokémon found; failing that, the first card.
	activeIdx := 0
	for i, id := range deck {
		if s.db.Get(id).CardType == carddb.CardTypePokemon {
			activeIdx = i
			break
		}
	}
	activeID := deck[activeIdx]
	deck = append(deck[:activeIdx], deck[activeIdx+1:]...)

	card := s.db.Get(activeID)
	active := &PokemonInstance{
		CardID: activeID,
		IsEx:   s.db.IsEx(activeID),
		HP:     card.HP,
		MaxHP:  card.HP,
	}

	hand := make([]string, 0, s.rules.Draw.OpeningHand)
	for i := 0; i < s.rules.Draw.OpeningHand && len(deck) > 0; i++ {
		hand = append(hand, deck[0])
		deck = deck[1:]
	}

	return &PlayerState{
		Deck:       deck,
		Hand:       hand,
		Discard:    []string{},
		Active:     active,
		Bench:      []*PokemonInstance{},
		EnergyZone: EnergyZoneState{AllowedTypes: append([]energy.Type(nil), types...)},
	}
}

// LegalActions enumerates the advisory action set for the current state.
// Attack entries are listed regardless of payability; payability is
// rechecked at resolution time. Pass is always included.
func (s *Simulator) LegalActions(st *BattleState) []Action {
	var acts []Action
	p := st.Current()

	if len(p.EnergyZone.AvailableToAttach) > 0 {
		acts = append(acts, Action{Type: ActionAttachEnergy})
	}
	if p.Active != nil && len(p.Active.AttachedEnergy) > 0 {
		retreatCost := s.db.Get(p.Active.CardID).RetreatCost
		if len(p.Active.AttachedEnergy) >= retreatCost && len(p.Bench) > 0 {
			acts = append(acts, Action{Type: ActionRetreat, BenchIndex: 0})
		}
	}
	if p.Active != nil {
		for _, atk := range s.db.Get(p.Active.CardID).Attacks {
			acts = append(acts, Action{Type: ActionAttack, AttackName: atk.Name})
		}
	}
	return append(acts, Pass)
}

// Step applies one phase transition. Semantically illegal actions never
// fail: they degrade to a no-op and the phase still advances. Once the
// state is terminal, Step leaves it untouched.
func (s *Simulator) Step(st *BattleState, action Action) *BattleState {
	if st.Terminal {
		return st
	}

	switch st.Phase {
	case PhaseStart:
		st.Phase = PhaseDraw

	case PhaseDraw:
		p := st.Current()
		if len(p.Deck) > 0 && len(p.Hand) < s.rules.Draw.HandCap {
			p.Hand = append(p.Hand, p.Deck[0])
			p.Deck = p.Deck[1:]
		}
		st.Phase = PhaseEnergyGen

	case PhaseEnergyGen:
		rng := NewRNG(st.RNGSeed + int64(st.Turn)*17 + int64(st.CurrentPlayer)*101)
		s.energyGenerationPhase(st, rng)
		st.Phase = PhaseMain

	case PhaseMain:
		s.stepMain(st, action)

	case PhaseAttack:
		if action.Type == ActionAttack && st.Current().Active != nil {
			card := s.db.Get(st.Current().Active.CardID)
			for i := range card.Attacks {
				if card.Attacks[i].Name == action.AttackName {
					rng := NewRNG(st.RNGSeed + int64(st.Turn)*7919 + int64(st.CurrentPlayer)*13)
					s.resolveAttack(st, &card.Attacks[i], rng)
					break
				}
			}
		}
		st.Phase = PhaseCheck

	case PhaseCheck:
		s.stepCheck(st)

	case PhaseEnd:
		st.CurrentPlayer = 1 - st.CurrentPlayer
		if st.CurrentPlayer == 0 {
			st.Turn++
		}
		if st.Turn > st.MaxTurns {
			st.Terminal = true
			st.Winner = NoPlayer
			if s.logger != nil {
				s.logger.Debug("turn limit exceeded, match drawn",
					zap.Int("turn", st.Turn),
				)
			}
		}
		st.Phase = PhaseStart
	}

	return st
}

// stepMain consumes the player's one main-phase action. Anything other
// than a satisfiable AttachEnergy or Retreat advances without mutation.
func (s *Simulator) stepMain(st *BattleState, action Action) {
	p := st.Current()

	switch {
	case action.Type == ActionAttachEnergy && len(p.EnergyZone.AvailableToAttach) > 0:
		last := len(p.EnergyZone.AvailableToAttach) - 1
		unit := p.EnergyZone.AvailableToAttach[last]
		p.EnergyZone.AvailableToAttach = p.EnergyZone.AvailableToAttach[:last]
		if p.Active != nil {
			p.Active.AttachedEnergy = append(p.Active.AttachedEnergy, unit)
		}

	case action.Type == ActionRetreat && len(p.Bench) > 0 && p.Active != nil:
		cost := s.db.Get(p.Active.CardID).RetreatCost
		if len(p.Active.AttachedEnergy) >= cost {
			// Retreat cost comes off the front of the attached list;
			// the swap always targets bench slot 0.
			p.Active.AttachedEnergy = p.Active.AttachedEnergy[cost:]
			p.Active, p.Bench[0] = p.Bench[0], p.Active
		}
	}

	st.Phase = PhaseAttack
}

// stepCheck evaluates terminal conditions in fixed player order: field
// loss first, then prize points. If neither triggers, play proceeds.
func (s *Simulator) stepCheck(st *BattleState) {
	for i, p := range st.Players {
		if p.Active == nil && len(p.Bench) == 0 {
			st.Terminal = true
			st.Winner = 1 - i
			if s.logger != nil {
				s.logger.Debug("player has no Pokémon in play",
					zap.Int("loser", i),
					zap.Int("winner", st.Winner),
				)
			}
			return
		}
	}
	for i, p := range st.Players {
		if p.PrizePoints >= s.rules.Win.PointsToWin {
			st.Terminal = true
			st.Winner = i
			if s.logger != nil {
				s.logger.Debug("player reached points to win",
					zap.Int("winner", i),
					zap.Int("points", p.PrizePoints),
				)
			}
			return
		}
	}
	st.Phase = PhaseEnd
}
