package game

import (
	"go.uber.org/zap"

	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// energyGenerationPhase advances the active player's energy zone using a
// one-step lookahead: the stored preview becomes this turn's pending unit
// and the next preview is sampled immediately, so a policy can see the
// upcoming energy type before it materializes.
//
// When the going-first rule skips generation on turn 1 for player 0, no
// unit becomes available but the preview is still ensured to exist.
func (s *Simulator) energyGenerationPhase(st *BattleState, rng *RNG) {
	p := st.Current()

	if st.Turn == 1 && st.CurrentPlayer == 0 && s.rules.GoingFirst.SkipEnergyGenerationOnTurn1 {
		if st.PreviewNextEnergy == "" {
			st.PreviewNextEnergy = Choice(rng, p.EnergyZone.AllowedTypes)
		}
		return
	}

	if st.PreviewNextEnergy == "" {
		st.PreviewNextEnergy = Choice(rng, p.EnergyZone.AllowedTypes)
	}

	thisTurn := st.PreviewNextEnergy
	p.EnergyZone.AvailableToAttach = []energy.Type{thisTurn}
	p.EnergyZone.GeneratedThisTurn = true

	st.PreviewNextEnergy = Choice(rng, p.EnergyZone.AllowedTypes)

	if s.logger != nil {
		s.logger.Debug("energy generated",
			zap.Int("player", st.CurrentPlayer),
			zap.Int("turn", st.Turn),
			zap.String("energy", string(thisTurn)),
			zap.String("preview", string(st.PreviewNextEnergy)),
		)
	}
}
