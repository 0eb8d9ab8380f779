package domain

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted is returned by Draw when both the draw pile and the
// discard pile are structurally empty. Callers decide the recovery policy.
var ErrDeckExhausted = errors.New("both draw and discard piles are empty")

// Composition describes how many copies of each card the deck contains.
type Composition struct {
	// NumberCounts maps a number value to how many copies exist.
	NumberCounts map[int]int
	// AdditiveModifiers lists the additive modifier values, one card each.
	AdditiveModifiers []int
	MultiplierCount   int
	SecondChanceCount int
	FreezeCount       int
	FlipThreeCount    int
}

// DefaultComposition returns the standard 94-card deck: value N appears N
// times (plus a single 0), one of each additive modifier and the x2, and
// three copies each of Freeze, Flip Three and Second Chance.
func DefaultComposition() Composition {
	numbers := map[int]int{0: 1}
	for v := 1; v <= 12; v++ {
		numbers[v] = v
	}
	return Composition{
		NumberCounts:      numbers,
		AdditiveModifiers: []int{2, 4, 6, 8, 10},
		MultiplierCount:   1,
		SecondChanceCount: 3,
		FreezeCount:       3,
		FlipThreeCount:    3,
	}
}

// Cards materializes the composition as an ordered card list.
func (c Composition) Cards() []Card {
	cards := make([]Card, 0, c.Total())
	for v := 0; v <= 12; v++ {
		for i := 0; i < c.NumberCounts[v]; i++ {
			cards = append(cards, Card{Kind: KindNumber, Value: v})
		}
	}
	for _, v := range c.AdditiveModifiers {
		cards = append(cards, Card{Kind: KindModifier, Value: v})
	}
	for i := 0; i < c.MultiplierCount; i++ {
		cards = append(cards, Card{Kind: KindMultiplier})
	}
	for i := 0; i < c.SecondChanceCount; i++ {
		cards = append(cards, Card{Kind: KindSecondChance})
	}
	for i := 0; i < c.FreezeCount; i++ {
		cards = append(cards, Card{Kind: KindFreeze})
	}
	for i := 0; i < c.FlipThreeCount; i++ {
		cards = append(cards, Card{Kind: KindFlipThree})
	}
	return cards
}

// Total returns the number of cards in the composition.
func (c Composition) Total() int {
	n := len(c.AdditiveModifiers) + c.MultiplierCount + c.SecondChanceCount + c.FreezeCount + c.FlipThreeCount
	for _, count := range c.NumberCounts {
		n += count
	}
	return n
}

// Deck is the draw pile plus the discard pile. The front of the draw pile is
// the next card drawn. When the draw pile empties, the discard pile is
// shuffled back in.
type Deck struct {
	comp    Composition
	draw    []Card
	discard []Card
	rng     *rand.Rand
}

// NewDeck builds and shuffles a deck from the given composition.
func NewDeck(comp Composition, rng *rand.Rand) *Deck {
	d := &Deck{comp: comp, draw: comp.Cards(), rng: rng}
	d.shuffle()
	return d
}

// NewStackedDeck builds a deck whose draw order is exactly the given cards,
// front first. Used by tests and scripted scenarios; Draw never reshuffles a
// stacked order until the pile empties.
func NewStackedDeck(cards []Card) *Deck {
	d := &Deck{draw: append([]Card(nil), cards...), rng: rand.New(rand.NewSource(0))}
	d.comp = Composition{NumberCounts: map[int]int{}}
	for _, c := range cards {
		switch c.Kind {
		case KindNumber:
			d.comp.NumberCounts[c.Value]++
		case KindModifier:
			d.comp.AdditiveModifiers = append(d.comp.AdditiveModifiers, c.Value)
		case KindMultiplier:
			d.comp.MultiplierCount++
		case KindSecondChance:
			d.comp.SecondChanceCount++
		case KindFreeze:
			d.comp.FreezeCount++
		case KindFlipThree:
			d.comp.FlipThreeCount++
		}
	}
	return d
}

// Draw pops the next card. If the draw pile is empty the discard pile is
// shuffled into a fresh draw pile first. Returns ErrDeckExhausted when both
// piles are empty.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, ErrDeckExhausted
		}
		d.draw = d.discard
		d.discard = nil
		d.shuffle()
	}
	c := d.draw[0]
	d.draw = d.draw[1:]
	return c, nil
}

// Discard appends cards to the discard pile.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// DrawRemaining returns the number of cards left in the draw pile.
func (d *Deck) DrawRemaining() int { return len(d.draw) }

// DiscardRemaining returns the number of cards in the discard pile.
func (d *Deck) DiscardRemaining() int { return len(d.discard) }

// Composition returns the fixed card set this deck was built from.
func (d *Deck) Composition() Composition { return d.comp }

// UpcomingNumberCounts tallies the number cards still to come, by value,
// together with the total card count of the pile being counted. Every drawn
// card in this game is public, so counting the draw pile is equivalent to a
// player with perfect memory. Falls back to the discard pile when the draw
// pile is empty, since that pile becomes the next draw pile.
func (d *Deck) UpcomingNumberCounts() (counts map[int]int, total int) {
	pile := d.draw
	if len(pile) == 0 {
		pile = d.discard
	}
	counts = make(map[int]int)
	for _, c := range pile {
		if c.Kind == KindNumber {
			counts[c.Value]++
		}
	}
	return counts, len(pile)
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) { d.draw[i], d.draw[j] = d.draw[j], d.draw[i] })
}
