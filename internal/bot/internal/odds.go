package internal

import (
	"flipseven/internal/domain"
)

// BustProbability estimates the chance the player's next draw is a duplicate
// number. Every drawn card is public, so counting the upcoming pile is the
// perfect-memory card count, not hidden information.
func BustProbability(deck *domain.Deck, player *domain.Player) float64 {
	counts, total := deck.UpcomingNumberCounts()
	if total == 0 {
		return 0
	}
	busting := 0
	for v, n := range counts {
		if player.HasNumber(v) {
			busting += n
		}
	}
	return float64(busting) / float64(total)
}

// Leader returns the player with the highest total score, ties broken by seat
// order. Returns nil for an empty table.
func Leader(game *domain.Game) *domain.Player {
	var best *domain.Player
	for _, p := range game.Players {
		if best == nil || p.TotalScore > best.TotalScore {
			best = p
		}
	}
	return best
}
