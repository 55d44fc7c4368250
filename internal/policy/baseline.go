// Package policy holds decision policies: pluggable strategies that pick
// one action per engine prompt. Any implementation of Policy can drive a
// match without engine changes.
package policy

import (
	"github.com/pocketsim/pocket-sim-go/internal/game"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Policy chooses exactly one action for the current player.
type Policy interface {
	ChooseAction(sim *game.Simulator, st *game.BattleState) game.Action
}

// Baseline is the reference policy: attack with the first payable attack
// in card-declared order, else attach a pending energy unit, else pass.
type Baseline struct{}

// NewBaseline creates the reference baseline policy.
func NewBaseline() *Baseline {
	return &Baseline{}
}

// ChooseAction implements Policy.
func (b *Baseline) ChooseAction(sim *game.Simulator, st *game.BattleState) game.Action {
	p := st.Current()

	if p.Active != nil {
		card := sim.DB().Get(p.Active.CardID)
		for _, atk := range card.Attacks {
			if energy.CostSatisfied(p.Active.AttachedEnergy, atk.EnergyCost) {
				return game.Action{Type: game.ActionAttack, AttackName: atk.Name}
			}
		}
	}

	for _, a := range sim.LegalActions(st) {
		if a.Type == game.ActionAttachEnergy {
			return a
		}
	}

	return game.Pass
}
