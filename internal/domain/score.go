package domain

// Flip7Bonus is awarded for collecting seven unique number values.
const Flip7Bonus = 15

// CalculateRoundScore computes the live score of a hand: the summed number
// values, doubled once if the x2 modifier is held, plus additive modifiers
// applied after the multiplier, plus the Flip 7 bonus at seven uniques.
// Busted players always score zero. Pure and idempotent; safe to call for
// mid-round display at any time.
func CalculateRoundScore(p *Player) int {
	if p.Status == StatusBusted {
		return 0
	}
	sum := 0
	for _, c := range p.NumberCards {
		sum += c.Value
	}
	if p.HoldsMultiplier() {
		sum *= 2
	}
	for _, c := range p.ModifierCards {
		if c.Kind == KindModifier {
			sum += c.Value
		}
	}
	if len(p.UniqueNumbers) >= Flip7Count {
		sum += Flip7Bonus
	}
	return sum
}

// FinalRoundScore is the authoritative end-of-round value added to the total.
// It differs from the live formula in one case: a player frozen before
// drawing any number card scores zero regardless of modifiers held.
func FinalRoundScore(p *Player) int {
	switch p.Status {
	case StatusBusted:
		return 0
	case StatusFrozen:
		if len(p.NumberCards) == 0 {
			return 0
		}
	}
	return CalculateRoundScore(p)
}
