package domain

// Status is a player's participation state within the current round.
type Status string

const (
	// StatusWaiting is the pre-deal state.
	StatusWaiting Status = "waiting"
	// StatusActive means the player can still draw cards this round.
	StatusActive Status = "active"
	// StatusStayed means the player banked their score voluntarily.
	StatusStayed Status = "stayed"
	// StatusBusted means the player drew a duplicate number without a rescue.
	StatusBusted Status = "busted"
	// StatusFrozen means a Freeze card ended the player's round.
	StatusFrozen Status = "frozen"
	// StatusFlip7 means the player collected seven unique numbers.
	StatusFlip7 Status = "flip7"
)

// Flip7Count is the number of unique number values that ends a round with the
// bonus.
const Flip7Count = 7

// Player holds hand state and status for one seat.
type Player struct {
	ID      string
	Name    string
	Seat    int
	IsHuman bool

	TotalScore int
	// RoundScore is the banked value for the current round. It is forced to
	// zero on bust and fixed at freeze time for empty-handed targets.
	RoundScore int

	NumberCards   []Card
	ModifierCards []Card
	ActionCards   []Card

	UniqueNumbers   map[int]bool
	HasSecondChance bool
	Status          Status
}

// NewPlayer creates a seated player in the waiting state.
func NewPlayer(id, name string, seat int, human bool) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		Seat:          seat,
		IsHuman:       human,
		UniqueNumbers: make(map[int]bool),
		Status:        StatusWaiting,
	}
}

// ResetForRound clears the hand and reactivates the player for a new round.
// Total score carries over; everything else starts fresh.
func (p *Player) ResetForRound() {
	p.RoundScore = 0
	p.NumberCards = nil
	p.ModifierCards = nil
	p.ActionCards = nil
	p.UniqueNumbers = make(map[int]bool)
	p.HasSecondChance = false
	p.Status = StatusActive
}

// Active reports whether the player can still draw this round.
func (p *Player) Active() bool { return p.Status == StatusActive }

// HasNumber reports whether the player already holds the given number value.
func (p *Player) HasNumber(v int) bool { return p.UniqueNumbers[v] }

// AddNumber adds a non-duplicate number card to the hand. Reaching seven
// unique values flips the status atomically with the card add and returns
// true.
func (p *Player) AddNumber(c Card) (flip7 bool) {
	p.NumberCards = append(p.NumberCards, c)
	p.UniqueNumbers[c.Value] = true
	if len(p.UniqueNumbers) >= Flip7Count {
		p.Status = StatusFlip7
		return true
	}
	return false
}

// HoldsMultiplier reports whether the player holds the x2 modifier.
func (p *Player) HoldsMultiplier() bool {
	for _, c := range p.ModifierCards {
		if c.Kind == KindMultiplier {
			return true
		}
	}
	return false
}

// SecondChanceCount returns how many Second Chance cards are in the hand.
// More than one can only occur transiently, via deferred acquisition during a
// Flip Three; the turn-end drain redistributes the extras.
func (p *Player) SecondChanceCount() int {
	n := 0
	for _, c := range p.ActionCards {
		if c.Kind == KindSecondChance {
			n++
		}
	}
	return n
}

// RemoveActionCard removes one card of the given kind from the action cards
// and returns it. The second result is false if none was held.
//
// The rescue flag is cleared when the last Second Chance copy leaves the
// hand but is never set here: copies acquired during a Flip Three sit in the
// hand unarmed until resolved in draw order, so arming is the caller's call.
func (p *Player) RemoveActionCard(kind CardKind) (Card, bool) {
	for i, c := range p.ActionCards {
		if c.Kind == kind {
			p.ActionCards = append(p.ActionCards[:i], p.ActionCards[i+1:]...)
			if kind == KindSecondChance && p.SecondChanceCount() == 0 {
				p.HasSecondChance = false
			}
			return c, true
		}
	}
	return Card{}, false
}

// AddSecondChance puts a Second Chance card into the hand.
func (p *Player) AddSecondChance(c Card) {
	p.ActionCards = append(p.ActionCards, c)
	p.HasSecondChance = true
}

// AllCards returns every card currently held, in no particular order.
func (p *Player) AllCards() []Card {
	out := make([]Card, 0, len(p.NumberCards)+len(p.ModifierCards)+len(p.ActionCards))
	out = append(out, p.NumberCards...)
	out = append(out, p.ModifierCards...)
	out = append(out, p.ActionCards...)
	return out
}
