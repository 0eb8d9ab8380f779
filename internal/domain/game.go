package domain

// Game is the shared table state: seated players, the deck, and round
// bookkeeping. All mutation happens through the engine; nothing here reaches
// into ambient globals.
type Game struct {
	ID      string
	Players []*Player // seat order
	Deck    *Deck

	Round       int
	DealerSeat  int
	TargetScore int
	Active      bool
}

// PlayerByID returns the player with the given id, or nil.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerAtSeat returns the player at the given seat index, or nil.
func (g *Game) PlayerAtSeat(seat int) *Player {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the players still able to draw this round, in seat
// order.
func (g *Game) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// NextActiveSeat scans seats after `from` in table order and returns the
// first active player's seat, or -1 when no player remains active.
func (g *Game) NextActiveSeat(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if p := g.PlayerAtSeat(seat); p != nil && p.Active() {
			return seat
		}
	}
	return -1
}

// CardsInPlay counts every card currently held in hands. Together with the
// deck piles this must equal the deck composition total at all times outside
// an in-progress resolution.
func (g *Game) CardsInPlay() int {
	n := 0
	for _, p := range g.Players {
		n += len(p.NumberCards) + len(p.ModifierCards) + len(p.ActionCards)
	}
	return n
}
