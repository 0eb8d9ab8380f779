package domain

import "strconv"

// CardKind identifies the gameplay category of a card.
type CardKind string

const (
	// KindNumber is a point card valued 0-12. Drawing a value already held
	// busts the player unless a Second Chance absorbs it.
	KindNumber CardKind = "number"
	// KindModifier is an additive score modifier (+2, +4, +6, +8, +10).
	KindModifier CardKind = "modifier"
	// KindMultiplier doubles the summed number total once.
	KindMultiplier CardKind = "x2"
	// KindSecondChance is a one-use rescue token. A player may hold at most
	// one; extra copies must be given away.
	KindSecondChance CardKind = "second_chance"
	// KindFreeze ends a target's round participation, banking their score.
	KindFreeze CardKind = "freeze"
	// KindFlipThree forces a target to draw three cards in sequence.
	KindFlipThree CardKind = "flip_three"
)

// Card is a single card in the deck. Identity beyond kind+value does not
// matter for gameplay; several physical copies of the same card exist.
type Card struct {
	Kind  CardKind `json:"kind"`
	Value int      `json:"value,omitempty"` // meaningful for number and modifier cards
}

// IsAction reports whether the card requires targeting before it takes effect.
func (c Card) IsAction() bool {
	return c.Kind == KindFreeze || c.Kind == KindFlipThree
}

// IsNumber reports whether the card is a point card.
func (c Card) IsNumber() bool {
	return c.Kind == KindNumber
}

// String renders the card for logs and terminal display.
func (c Card) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.Itoa(c.Value)
	case KindModifier:
		return "+" + strconv.Itoa(c.Value)
	case KindMultiplier:
		return "x2"
	case KindSecondChance:
		return "Second Chance"
	case KindFreeze:
		return "Freeze"
	case KindFlipThree:
		return "Flip Three"
	}
	return string(c.Kind)
}
