package bot

import (
	"flipseven/internal/domain"
)

// Brain is the hit/stay decision policy a bot plays with. Targeting decisions
// are not part of the Brain: the game fixes them to deterministic priority
// rules shared by every level (see targeting.go).
type Brain interface {
	// DecideHitStay returns true to draw another card, false to stay.
	DecideHitStay(game *domain.Game, player *domain.Player) bool
}

// Agent is an autonomous seat: an identity plus the brain that drives it.
type Agent struct {
	ID    string
	Name  string
	Level Level
	Brain Brain
}

// DecideHitStay asks the agent for its move. Unknown or inactive seats stay,
// which is always a legal no-op.
func (a *Agent) DecideHitStay(game *domain.Game) bool {
	player := game.PlayerByID(a.ID)
	if player == nil || !player.Active() {
		return false
	}
	return a.Brain.DecideHitStay(game, player)
}
