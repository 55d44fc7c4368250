package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/game/effects"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

func attackNamed(t *testing.T, sim *Simulator, cardID, name string) *carddb.Attack {
	t.Helper()
	card := sim.DB().Get(cardID)
	for i := range card.Attacks {
		if card.Attacks[i].Name == name {
			return &card.Attacks[i]
		}
	}
	t.Fatalf("attack %s not found on %s", name, cardID)
	return nil
}

func TestResolveAttackBaseDamage(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	st := battleWith(1, instance(db, "Farfetch'd", energy.Colorless), instance(db, "Minccino"), PhaseAttack)

	sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))

	assert.Equal(t, 60-40, st.Players[1].Active.HP)
}

func TestResolveAttackUnpayableCostNoOps(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	// No energy attached: Leek Slap costs one Colorless.
	st := battleWith(1, instance(db, "Farfetch'd"), instance(db, "Minccino"), PhaseAttack)

	sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))

	assert.Equal(t, 60, st.Players[1].Active.HP)
	assert.Equal(t, 0, st.Players[0].PrizePoints)
}

func TestResolveAttackBonusPerAttachedEnergy(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	attacker := instance(db, "Pikachu ex", energy.Lightning, energy.Lightning, energy.Lightning)
	st := battleWith(1, attacker, instance(db, "Vaporeon"), PhaseAttack)

	sim.resolveAttack(st, attackNamed(t, sim, "Pikachu ex", "Circle Circuit"), NewRNG(1))

	// 10 base + 30 per Lightning * 3 + 20 weakness (Vaporeon is weak to
	// Lightning) = 120.
	assert.Equal(t, 100-120, st.Players[1].Active.HP)
}

func TestResolveAttackWeaknessBonus(t *testing.T) {
	sim := testSim()
	db := sim.DB()

	// Farfetch'd is Colorless; Minccino's weakness is Fighting: no bonus.
	st := battleWith(1, instance(db, "Farfetch'd", energy.Colorless), instance(db, "Minccino"), PhaseAttack)
	sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))
	assert.Equal(t, 60-40, st.Players[1].Active.HP)

	// Pikachu ex is Lightning; Farfetch'd's weakness is Lightning: +20.
	st = battleWith(1, instance(db, "Pikachu ex", energy.Lightning), instance(db, "Farfetch'd"), PhaseAttack)
	sim.resolveAttack(st, attackNamed(t, sim, "Pikachu ex", "Circle Circuit"), NewRNG(1))
	// 10 base + 30*1 + 20 weakness = 60 -> exactly knocked out.
	assert.Nil(t, st.Players[1].Active)
}

func TestResolveAttackDiscardAfter(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	attacker := instance(db, "Vaporeon", energy.Water, energy.Water, energy.Colorless)
	st := battleWith(1, attacker, instance(db, "Pikachu ex"), PhaseAttack)

	sim.resolveAttack(st, attackNamed(t, sim, "Vaporeon", "Hydro Splash"), NewRNG(1))

	assert.Equal(t, 120-60, st.Players[1].Active.HP)
	// One Water discarded front-to-back: first Water goes, rest keep order.
	assert.Equal(t, []energy.Type{energy.Water, energy.Colorless}, st.Players[0].Active.AttachedEnergy)
}

func TestResolveAttackCoinFlipDeterministic(t *testing.T) {
	sim := testSim()
	db := sim.DB()

	run := func(seed int64) int {
		attacker := instance(db, "Vaporeon", energy.Water)
		st := battleWith(seed, attacker, instance(db, "Pikachu ex"), PhaseAttack)
		sim.resolveAttack(st, attackNamed(t, sim, "Vaporeon", "Wave Flip"), NewRNG(seed))
		return st.Players[1].Active.HP
	}

	// Same derived RNG seed, same heads count.
	assert.Equal(t, run(5), run(5))

	// Damage stays within 0..2 heads * 40 per head.
	hp := run(5)
	dealt := 120 - hp
	assert.GreaterOrEqual(t, dealt, 0)
	assert.LessOrEqual(t, dealt, 80)
}

func TestResolveAttackInflictStatus(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	st := battleWith(1, instance(db, "Jigglypuff", energy.Colorless), instance(db, "Vaporeon"), PhaseAttack)

	sim.resolveAttack(st, attackNamed(t, sim, "Jigglypuff", "Sing"), NewRNG(1))

	assert.Equal(t, effects.StatusAsleep, st.Players[1].Active.Status)
	assert.Equal(t, 100, st.Players[1].Active.HP)
}

func TestKnockoutScoring(t *testing.T) {
	sim := testSim()
	db := sim.DB()

	// Non-ex defender: 1 prize point.
	defender := instance(db, "Minccino")
	defender.HP = 10
	st := battleWith(1, instance(db, "Farfetch'd", energy.Colorless), defender, PhaseAttack)
	sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))
	require.Nil(t, st.Players[1].Active)
	assert.Equal(t, 1, st.Players[0].PrizePoints)
	assert.Equal(t, []string{"Minccino"}, st.Players[1].Discard)

	// Ex defender: 2 prize points.
	exDefender := instance(db, "Pikachu ex")
	exDefender.HP = 10
	st = battleWith(1, instance(db, "Farfetch'd", energy.Colorless), exDefender, PhaseAttack)
	sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))
	require.Nil(t, st.Players[1].Active)
	assert.Equal(t, 2, st.Players[0].PrizePoints)
}

func TestDamageNeverHeals(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	// Wave Flip can roll zero heads; hp must not increase.
	attacker := instance(db, "Vaporeon", energy.Water)
	st := battleWith(1, attacker, instance(db, "Minccino"), PhaseAttack)

	before := st.Players[1].Active.HP
	sim.resolveAttack(st, attackNamed(t, sim, "Vaporeon", "Wave Flip"), NewRNG(3))
	assert.LessOrEqual(t, st.Players[1].Active.HP, before)
}

func TestResolveAttackMissingActivePanics(t *testing.T) {
	sim := testSim()
	db := sim.DB()
	st := battleWith(1, instance(db, "Farfetch'd", energy.Colorless), nil, PhaseAttack)

	assert.Panics(t, func() {
		sim.resolveAttack(st, attackNamed(t, sim, "Farfetch'd", "Leek Slap"), NewRNG(1))
	})
}

func TestRemoveEnergyFrontToBack(t *testing.T) {
	units := []energy.Type{energy.Fire, energy.Water, energy.Fire, energy.Fire}
	got := removeEnergy(units, energy.Fire, 2)
	assert.Equal(t, []energy.Type{energy.Water, energy.Fire}, got)

	got = removeEnergy([]energy.Type{energy.Water}, energy.Fire, 1)
	assert.Equal(t, []energy.Type{energy.Water}, got)
}
