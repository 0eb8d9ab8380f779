package app

import "flipseven/internal/domain"

// finishTurn finalizes the current turn once the draw's resolution stack has
// unwound. Ordering: extra Second Chances drain first, then the display ack
// gates the actual end, then the round-over check, then the cursor advances.
// Returns false when a suspension interrupted the sequence.
func (e *Engine) finishTurn() bool {
	p := e.game.PlayerAtSeat(e.turnSeat)

	if p != nil && !e.drainSecondChances(p) {
		return false
	}

	if !e.ackDone {
		id := ""
		if p != nil {
			id = p.ID
		}
		e.pendAck = &pendingAck{playerID: id, deadline: e.deadline()}
		return false
	}

	e.turnEnding = false
	e.ackDone = false

	if e.roundOver() {
		e.endRound()
		return true
	}
	e.advanceTurn()
	return true
}

// drainSecondChances redistributes every Second Chance copy beyond the first
// held by the player. Extras only arise through deferred acquisition during a
// Flip Three; the turn may not end while any remain. Returns false when a
// human redistribution choice suspended the engine.
func (e *Engine) drainSecondChances(p *domain.Player) bool {
	for p.SecondChanceCount() > 1 {
		card, ok := p.RemoveActionCard(domain.KindSecondChance)
		if !ok {
			break
		}
		e.redistributeSecondChance(card, p, false)
		if e.suspended() {
			return false
		}
	}
	return true
}

// roundOver is true once anyone hit Flip 7 or nobody can still draw.
func (e *Engine) roundOver() bool {
	anyActive := false
	for _, p := range e.game.Players {
		if p.Status == domain.StatusFlip7 {
			return true
		}
		if p.Active() {
			anyActive = true
		}
	}
	return !anyActive
}

// advanceTurn moves the cursor to the next active player in seat order.
func (e *Engine) advanceTurn() {
	next := e.game.NextActiveSeat(e.turnSeat)
	if next < 0 {
		// roundOver already ruled this out; guard anyway.
		e.endRound()
		return
	}
	e.turnSeat = next
	p := e.game.PlayerAtSeat(next)
	e.emit(EventTurnStarted, TurnStartedPayload{PlayerID: p.ID})
	e.log.Debug("turn started", "player", p.ID, "seat", next)
}
