// Package effects compiles attack effect text into a closed set of effect
// variants. Card text is parsed once when the card database is loaded;
// attack resolution only switches over the compiled variants.
package effects

import (
	"regexp"
	"strconv"

	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
)

// Status represents a special condition on a Pokémon.
type Status string

const (
	StatusNone      Status = "None"
	StatusParalyzed Status = "Paralyzed"
	StatusAsleep    Status = "Asleep"
	StatusConfused  Status = "Confused"
)

// Kind identifies an effect variant.
type Kind int

const (
	// KindBonusPerAttachedEnergy adds PerUnit damage for each attached
	// energy of the given type on the attacker.
	KindBonusPerAttachedEnergy Kind = iota
	// KindCoinFlipBonus flips Coins fair coins and adds PerHead damage
	// for each heads.
	KindCoinFlipBonus
	// KindDiscardEnergyAfterAttack removes up to Count units of the given
	// type from the attacker after damage is applied.
	KindDiscardEnergyAfterAttack
	// KindInflictStatus overwrites the defender's status after damage.
	KindInflictStatus
	// KindBenchSnipe marks a bench-targeted damage effect. Recognized but
	// deliberately not applied; bench targeting is out of scope.
	KindBenchSnipe
)

var kindNames = map[Kind]string{
	KindBonusPerAttachedEnergy:   "BONUS_PER_ATTACHED_ENERGY",
	KindCoinFlipBonus:            "COIN_FLIP_BONUS",
	KindDiscardEnergyAfterAttack: "DISCARD_ENERGY_AFTER_ATTACK",
	KindInflictStatus:            "INFLICT_STATUS",
	KindBenchSnipe:               "BENCH_SNIPE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Effect is one compiled effect variant. Only the fields relevant to its
// Kind are set.
type Effect struct {
	Kind    Kind
	Energy  energy.Type // BonusPerAttachedEnergy, DiscardEnergyAfterAttack
	PerUnit int         // BonusPerAttachedEnergy
	Coins   int         // CoinFlipBonus
	PerHead int         // CoinFlipBonus
	Count   int         // DiscardEnergyAfterAttack
	Status  Status      // InflictStatus
}

var (
	bonusPerEnergyRe = regexp.MustCompile(`(?i)does\s+(\d+)\s+more damage for each \[([A-Z])\]\s+Energy attached to this Pokémon`)
	coinFlipRe       = regexp.MustCompile(`(?i)Flip\s+(\d+)\s+coins?\.\s*This attack does\s+(\d+)\s+damage for each heads`)
	discardAfterRe   = regexp.MustCompile(`(?i)Discard\s+(\d+)\s+\[([A-Z])\]\s+Energy from this Pokémon`)
	benchSnipeRe     = regexp.MustCompile(`(?i)does\s+\d+\s+damage to 1 of your opponent's Pokémon`)
	statusRes        = []struct {
		re     *regexp.Regexp
		status Status
	}{
		{regexp.MustCompile(`is now Paralyzed`), StatusParalyzed},
		{regexp.MustCompile(`is now Asleep`), StatusAsleep},
		{regexp.MustCompile(`is now Confused`), StatusConfused},
	}
)

// Parse compiles attack effect text into its recognized effect variants.
// Multiple variants may match one description; they are returned in
// resolution order (damage modifiers first, post-damage effects after).
// Phrasings outside the catalogue compile to nothing.
func Parse(text string) []Effect {
	if text == "" {
		return nil
	}

	var out []Effect

	if m := bonusPerEnergyRe.FindStringSubmatch(text); m != nil {
		perUnit, _ := strconv.Atoi(m[1])
		if t, ok := energy.ParseSymbol(m[2]); ok {
			out = append(out, Effect{
				Kind:    KindBonusPerAttachedEnergy,
				Energy:  t,
				PerUnit: perUnit,
			})
		}
	}

	if m := coinFlipRe.FindStringSubmatch(text); m != nil {
		coins, _ := strconv.Atoi(m[1])
		perHead, _ := strconv.Atoi(m[2])
		out = append(out, Effect{
			Kind:    KindCoinFlipBonus,
			Coins:   coins,
			PerHead: perHead,
		})
	}

	if m := discardAfterRe.FindStringSubmatch(text); m != nil {
		count, _ := strconv.Atoi(m[1])
		if t, ok := energy.ParseSymbol(m[2]); ok {
			out = append(out, Effect{
				Kind:   KindDiscardEnergyAfterAttack,
				Energy: t,
				Count:  count,
			})
		}
	}

	if benchSnipeRe.MatchString(text) {
		out = append(out, Effect{Kind: KindBenchSnipe})
	}

	for _, sr := range statusRes {
		if sr.re.MatchString(text) {
			out = append(out, Effect{Kind: KindInflictStatus, Status: sr.status})
		}
	}

	return out
}
