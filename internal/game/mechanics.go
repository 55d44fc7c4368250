package game

import (
	"go.uber.org/zap"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game/effects"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// WeaknessBonus is the flat damage added when the attacker's type exactly
// matches the defender's declared weakness.
const WeaknessBonus = 20

// resolveAttack resolves one attack by the current player's active Pokémon
// against the opponent's active Pokémon.
//
// Resolution order: cost gate, base damage, compiled damage modifiers,
// weakness, damage application, post-damage discards and status, knockout.
// An unpayable cost degrades to a no-op. Both actives must be present; a
// missing one means the driver violated the phase contract.
func (s *Simulator) resolveAttack(st *BattleState, attack *carddb.Attack, rng *RNG) {
	atkPlayer := st.Current()
	defPlayer := st.Opponent()
	attacker := atkPlayer.Active
	defender := defPlayer.Active
	if attacker == nil || defender == nil {
		panic("game: attack resolution requires both active Pokémon")
	}

	if !energy.CostSatisfied(attacker.AttachedEnergy, attack.EnergyCost) {
		if s.logger != nil {
			s.logger.Debug("attack cost not payable, skipping",
				zap.String("attack", attack.Name),
				zap.String("attacker", attacker.CardID),
			)
		}
		return
	}

	dmg := attack.Damage
	var discardAfter *effects.Effect
	applyStatus := effects.StatusNone

	for i, fx := range attack.Compiled {
		switch fx.Kind {
		case effects.KindBonusPerAttachedEnergy:
			dmg += fx.PerUnit * energy.Count(attacker.AttachedEnergy, fx.Energy)
		case effects.KindCoinFlipBonus:
			heads := 0
			for c := 0; c < fx.Coins; c++ {
				if rng.RandInt(0, 1) == 1 {
					heads++
				}
			}
			dmg += fx.PerHead * heads
		case effects.KindDiscardEnergyAfterAttack:
			discardAfter = &attack.Compiled[i]
		case effects.KindInflictStatus:
			applyStatus = fx.Status
		case effects.KindBenchSnipe:
			// Bench targeting is out of scope; the effect is recognized
			// so it can be flagged, never applied.
			if s.logger != nil {
				s.logger.Debug("bench snipe effect ignored",
					zap.String("attack", attack.Name),
				)
			}
		}
	}

	atkCard := s.db.Get(attacker.CardID)
	defCard := s.db.Get(defender.CardID)
	if defCard.Weakness != "" && defCard.Weakness != "none" && atkCard.Type == defCard.Weakness {
		dmg += WeaknessBonus
	}

	if dmg > 0 {
		defender.HP -= dmg
	}

	if discardAfter != nil {
		attacker.AttachedEnergy = removeEnergy(attacker.AttachedEnergy, discardAfter.Energy, discardAfter.Count)
	}
	if applyStatus != effects.StatusNone {
		defender.Status = applyStatus
	}

	if s.logger != nil {
		s.logger.Debug("attack resolved",
			zap.String("attack", attack.Name),
			zap.String("attacker", attacker.CardID),
			zap.String("defender", defender.CardID),
			zap.Int("damage", dmg),
			zap.Int("defender_hp", defender.HP),
		)
	}

	if defender.HP <= 0 {
		defPlayer.Discard = append(defPlayer.Discard, defender.CardID)
		defPlayer.Active = nil
		points := 1
		if defender.IsEx {
			points = 2
		}
		atkPlayer.PrizePoints += points
		if s.logger != nil {
			s.logger.Debug("knockout",
				zap.String("defender", defender.CardID),
				zap.Int("points_awarded", points),
				zap.Int("attacker_points", atkPlayer.PrizePoints),
			)
		}
	}
}

// removeEnergy removes up to count units of type t, front to back.
func removeEnergy(units []energy.Type, t energy.Type, count int) []energy.Type {
	kept := units[:0]
	removed := 0
	for _, u := range units {
		if u == t && removed < count {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	return kept
}
