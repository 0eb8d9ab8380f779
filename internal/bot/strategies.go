package bot

import (
	botinternal "flipseven/internal/bot/internal"
	"flipseven/internal/domain"
)

// tunedBrain is the shared hit/stay procedure; the exported levels are just
// tunings of it.
type tunedBrain struct {
	tuning Tuning
}

func (b *tunedBrain) DecideHitStay(game *domain.Game, player *domain.Player) bool {
	// An empty hand cannot bust; always take the first number.
	if len(player.NumberCards) == 0 {
		return true
	}

	projected := domain.CalculateRoundScore(player)

	// Banking now would win the game: never gamble that away.
	if game.TargetScore > 0 && player.TotalScore+projected >= game.TargetScore {
		return false
	}

	tolerance := b.tuning.BustTolerance
	if leader := botinternal.Leader(game); leader != nil && leader.ID != player.ID {
		if leader.TotalScore-player.TotalScore >= b.tuning.DesperationDeficit {
			tolerance *= b.tuning.DesperationFactor
		}
	}

	risk := botinternal.BustProbability(game.Deck, player)
	if player.HasSecondChance {
		risk *= b.tuning.SecondChanceFactor
	}

	if risk > tolerance {
		return false
	}
	return projected < b.tuning.BankAt
}

// CautiousBot banks early.
type CautiousBot struct{ tunedBrain }

// StandardBot is the balanced default level.
type StandardBot struct{ tunedBrain }

// BoldBot pushes its luck hard.
type BoldBot struct{ tunedBrain }

// NewCautiousBot returns the cautious level brain.
func NewCautiousBot() *CautiousBot { return &CautiousBot{tunedBrain{tuning: CautiousTuning}} }

// NewStandardBot returns the standard level brain.
func NewStandardBot() *StandardBot { return &StandardBot{tunedBrain{tuning: StandardTuning}} }

// NewBoldBot returns the bold level brain.
func NewBoldBot() *BoldBot { return &BoldBot{tunedBrain{tuning: BoldTuning}} }
