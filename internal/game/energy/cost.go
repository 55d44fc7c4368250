package energy

// CostSatisfied reports whether the attached energy multiset can pay the
// given cost. Colorless entries in the cost accept energy of any type.
//
// Typed requirements are paid first from exact-type matches; whatever
// remains (including leftover typed units) pays the Colorless portion.
// The greedy order is optimal: a typed unit can only ever satisfy its own
// type or Colorless, and Colorless is type-agnostic, so reserving typed
// units for their exact-match requirement never loses a payable cost.
func CostSatisfied(attached, cost []Type) bool {
	if len(cost) == 0 {
		return true
	}

	need := make(map[Type]int, len(cost))
	for _, t := range cost {
		need[t]++
	}
	have := make(map[Type]int, len(attached))
	for _, t := range attached {
		have[t]++
	}

	// Pay typed requirements first.
	for _, t := range AllTypes {
		if t == Colorless {
			continue
		}
		required := need[t]
		if required == 0 {
			continue
		}
		use := have[t]
		if use > required {
			use = required
		}
		if required-use > 0 {
			return false
		}
		have[t] -= use
	}

	// Pay Colorless with anything remaining.
	remaining := 0
	for _, n := range have {
		remaining += n
	}
	return remaining >= need[Colorless]
}
