package game

import (
	"fmt"

	"github.com/pocketsim/pocket-sim-go/internal/game/effects"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Phase represents one stage of the fixed per-turn cycle.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseDraw
	PhaseEnergyGen
	PhaseMain
	PhaseAttack
	PhaseCheck
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart:     "START",
	PhaseDraw:      "DRAW",
	PhaseEnergyGen: "ENERGY_GEN",
	PhaseMain:      "MAIN",
	PhaseAttack:    "ATTACK",
	PhaseCheck:     "CHECK",
	PhaseEnd:       "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ActionType identifies a player action.
type ActionType string

const (
	ActionPass         ActionType = "PASS"
	ActionAttachEnergy ActionType = "ATTACH_ENERGY"
	ActionRetreat      ActionType = "RETREAT"
	ActionAttack       ActionType = "ATTACK"
)

// Action is one tagged player action. Only the fields relevant to its Type
// are meaningful.
type Action struct {
	Type       ActionType
	BenchIndex int    // Retreat; current rules always target slot 0
	AttackName string // Attack
}

// Pass is the forced action supplied on phases that take no input.
var Pass = Action{Type: ActionPass}

// NoPlayer marks the absence of a winner (draw or game in progress).
const NoPlayer = -1

// ActiveEffect is an opaque marker reserved for future persistent effects
// on a Pokémon or player.
type ActiveEffect struct {
	Kind  string
	Turns int
}

// PokemonInstance is a Pokémon in play.
type PokemonInstance struct {
	CardID         string
	IsEx           bool
	HP             int
	MaxHP          int
	AttachedEnergy []energy.Type
	Status         effects.Status
	Effects        []ActiveEffect
}

// Clone returns a deep copy.
func (p *PokemonInstance) Clone() *PokemonInstance {
	if p == nil {
		return nil
	}
	cp := *p
	cp.AttachedEnergy = append([]energy.Type(nil), p.AttachedEnergy...)
	cp.Effects = append([]ActiveEffect(nil), p.Effects...)
	return &cp
}

// EnergyZoneState tracks per-player energy generation. At most one unit is
// ever pending in AvailableToAttach.
type EnergyZoneState struct {
	AllowedTypes      []energy.Type
	GeneratedThisTurn bool
	AvailableToAttach []energy.Type
}

// PlayerState is one player's side of the battle. Deck draw order is front
// (index 0) first.
type PlayerState struct {
	Deck        []string
	Hand        []string
	Discard     []string
	PrizePoints int
	Active      *PokemonInstance
	Bench       []*PokemonInstance
	EnergyZone  EnergyZoneState
	Effects     []ActiveEffect
}

// Clone returns a deep copy.
func (ps *PlayerState) Clone() *PlayerState {
	cp := &PlayerState{
		Deck:        append([]string(nil), ps.Deck...),
		Hand:        append([]string(nil), ps.Hand...),
		Discard:     append([]string(nil), ps.Discard...),
		PrizePoints: ps.PrizePoints,
		Active:      ps.Active.Clone(),
		Effects:     append([]ActiveEffect(nil), ps.Effects...),
		EnergyZone: EnergyZoneState{
			AllowedTypes:      append([]energy.Type(nil), ps.EnergyZone.AllowedTypes...),
			GeneratedThisTurn: ps.EnergyZone.GeneratedThisTurn,
			AvailableToAttach: append([]energy.Type(nil), ps.EnergyZone.AvailableToAttach...),
		},
	}
	for _, b := range ps.Bench {
		cp.Bench = append(cp.Bench, b.Clone())
	}
	return cp
}

// BattleState is the single mutable aggregate for a match. It is created by
// Reset, mutated exclusively by Step, and frozen once Terminal is set.
type BattleState struct {
	Turn              int
	CurrentPlayer     int
	RNGSeed           int64
	MaxTurns          int
	PreviewNextEnergy energy.Type // "" until the first preview is sampled
	Players           [2]*PlayerState
	Phase             Phase
	Terminal          bool
	Winner            int // NoPlayer when absent
}

// Clone returns a deep copy with no shared references, so snapshots and
// replays cannot alias live match state.
func (st *BattleState) Clone() *BattleState {
	cp := *st
	cp.Players[0] = st.Players[0].Clone()
	cp.Players[1] = st.Players[1].Clone()
	return &cp
}

// Current returns the state of the player whose turn it is.
func (st *BattleState) Current() *PlayerState {
	return st.Players[st.CurrentPlayer]
}

// Opponent returns the state of the player waiting on this turn.
func (st *BattleState) Opponent() *PlayerState {
	return st.Players[1-st.CurrentPlayer]
}
