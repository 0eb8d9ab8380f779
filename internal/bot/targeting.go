package bot

import (
	"math/rand"

	"flipseven/internal/domain"
)

// Targeting rules are deliberately the same for every bot level and fully
// deterministic (Flip Three excepted, which is random by rule), so the engine
// can also use them as the forced default when a human selection times out.

// FreezeTarget picks the Freeze victim from the eligible set:
//  1. the unique score leader among active players, unless that is the source;
//  2. otherwise any opponent holding the x2 modifier, highest projected round
//     score first;
//  3. otherwise any opponent holding a Second Chance, highest round score;
//  4. otherwise the opponent with the highest current round score;
//  5. with no eligible opponents, the source itself.
func FreezeTarget(game *domain.Game, source *domain.Player, eligible []*domain.Player) *domain.Player {
	opponents := excluding(eligible, source)
	if len(opponents) == 0 {
		return pick(eligible, source)
	}

	if leader := uniqueLeader(game); leader != nil && leader.ID != source.ID {
		for _, p := range opponents {
			if p.ID == leader.ID {
				return p
			}
		}
	}

	if p := bestBy(opponents, func(p *domain.Player) bool { return p.HoldsMultiplier() }); p != nil {
		return p
	}
	if p := bestBy(opponents, func(p *domain.Player) bool { return p.HasSecondChance }); p != nil {
		return p
	}
	return bestBy(opponents, func(*domain.Player) bool { return true })
}

// FlipThreeTarget targets the source itself while its number-card count is
// below three, otherwise a uniformly random other eligible player.
func FlipThreeTarget(source *domain.Player, eligible []*domain.Player, rng *rand.Rand) *domain.Player {
	if len(source.NumberCards) < 3 {
		if p := pick(eligible, source); p != nil {
			return p
		}
	}
	others := excluding(eligible, source)
	if len(others) == 0 {
		return pick(eligible, source)
	}
	return others[rng.Intn(len(others))]
}

// SecondChanceRecipient gives the extra copy to the eligible player with the
// lowest total score; ties break deterministically by seat order.
func SecondChanceRecipient(eligible []*domain.Player) *domain.Player {
	var best *domain.Player
	for _, p := range eligible {
		if best == nil || p.TotalScore < best.TotalScore ||
			(p.TotalScore == best.TotalScore && p.Seat < best.Seat) {
			best = p
		}
	}
	return best
}

// uniqueLeader returns the active player whose total score is strictly
// higher than every other active player's, or nil when the lead is shared.
func uniqueLeader(game *domain.Game) *domain.Player {
	var leader *domain.Player
	shared := false
	for _, p := range game.ActivePlayers() {
		switch {
		case leader == nil || p.TotalScore > leader.TotalScore:
			leader, shared = p, false
		case p.TotalScore == leader.TotalScore:
			shared = true
		}
	}
	if shared {
		return nil
	}
	return leader
}

// bestBy returns the matching player with the highest live round score, ties
// broken by seat order. Nil when nothing matches.
func bestBy(players []*domain.Player, match func(*domain.Player) bool) *domain.Player {
	var best *domain.Player
	bestScore := 0
	for _, p := range players {
		if !match(p) {
			continue
		}
		score := domain.CalculateRoundScore(p)
		if best == nil || score > bestScore || (score == bestScore && p.Seat < best.Seat) {
			best, bestScore = p, score
		}
	}
	return best
}

func excluding(players []*domain.Player, skip *domain.Player) []*domain.Player {
	var out []*domain.Player
	for _, p := range players {
		if p.ID != skip.ID {
			out = append(out, p)
		}
	}
	return out
}

// pick returns want if present in the eligible list, else nil.
func pick(eligible []*domain.Player, want *domain.Player) *domain.Player {
	for _, p := range eligible {
		if p.ID == want.ID {
			return p
		}
	}
	return nil
}
