package app

import (
	"sort"

	"flipseven/internal/domain"
)

// beginDealing queues the initial one-card deal, one seat per player in seat
// order starting after the dealer.
func (e *Engine) beginDealing() {
	n := len(e.game.Players)
	e.dealQueue = e.dealQueue[:0]
	for i := 1; i <= n; i++ {
		e.dealQueue = append(e.dealQueue, (e.game.DealerSeat+i)%n)
	}
	e.dealing = true
	e.phase = PhaseDealing
}

// stepDeal deals one card off the queue. Players frozen or busted by an
// earlier dealt action card are skipped. A dealt Freeze or Flip Three runs
// through the full resolution pipeline before the next seat is served; a
// dealt Second Chance resolves inline.
func (e *Engine) stepDeal() {
	seat := e.dealQueue[0]
	e.dealQueue = e.dealQueue[1:]

	p := e.game.PlayerAtSeat(seat)
	if p == nil || !p.Active() {
		return
	}
	e.drawOne(p, nil, true)
}

// finishDealing hands play to the first active seat after the dealer. Deal
// time action cards can end the round outright.
func (e *Engine) finishDealing() {
	e.dealing = false
	if e.roundOver() {
		e.endRound()
		return
	}
	e.turnSeat = e.game.NextActiveSeat(e.game.DealerSeat)
	p := e.game.PlayerAtSeat(e.turnSeat)
	e.emit(EventTurnStarted, TurnStartedPayload{PlayerID: p.ID})
	e.log.Info("round dealt", "round", e.game.Round, "first_turn", p.ID)
}

// endRound banks every player's round score, detects a winner and either
// closes the game or rotates the deal into the next round. A tie at the
// highest qualifying total repeats play instead of ending the game.
func (e *Engine) endRound() {
	scores := make([]PlayerScore, 0, len(e.game.Players))
	for _, p := range e.game.Players {
		p.RoundScore = domain.FinalRoundScore(p)
		p.TotalScore += p.RoundScore
		scores = append(scores, PlayerScore{
			PlayerID:   p.ID,
			RoundScore: p.RoundScore,
			TotalScore: p.TotalScore,
		})
	}
	e.emit(EventRoundEnd, RoundEndPayload{Round: e.game.Round, Scores: scores})
	e.log.Info("round ended", "round", e.game.Round)

	if winner := e.detectWinner(); winner != nil {
		totals := make(map[string]int, len(e.game.Players))
		for _, p := range e.game.Players {
			totals[p.ID] = p.TotalScore
		}
		e.game.Active = false
		e.phase = PhaseGameOver
		e.emit(EventGameEnd, GameEndPayload{WinnerID: winner.ID, Totals: totals})
		e.log.Info("game ended", "winner", winner.ID, "score", winner.TotalScore)
		return
	}

	// Hands return to the discard pile before the reset wipes them.
	for _, p := range e.game.Players {
		e.game.Deck.Discard(p.AllCards()...)
		p.ResetForRound()
	}
	e.game.Round++
	e.game.DealerSeat = (e.game.DealerSeat + 1) % len(e.game.Players)
	e.emit(EventRoundStart, RoundStartPayload{Round: e.game.Round, DealerSeat: e.game.DealerSeat})
	e.beginDealing()
}

// detectWinner returns the outright winner, or nil when nobody has reached
// the target score or the leaders are tied.
func (e *Engine) detectWinner() *domain.Player {
	var qualified []*domain.Player
	for _, p := range e.game.Players {
		if p.TotalScore >= e.game.TargetScore {
			qualified = append(qualified, p)
		}
	}
	if len(qualified) == 0 {
		return nil
	}
	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].TotalScore > qualified[j].TotalScore
	})
	if len(qualified) > 1 && qualified[0].TotalScore == qualified[1].TotalScore {
		e.log.Info("target reached with a tie, playing another round",
			"score", qualified[0].TotalScore)
		return nil
	}
	return qualified[0]
}
