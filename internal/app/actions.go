package app

import (
	"flipseven/internal/bot"
	"flipseven/internal/domain"
)

// flipFrame is one in-flight Flip Three sequence. Nested sequences stack:
// an inner frame's full resolution, including its own deferred cards,
// completes before the outer frame resumes. This replaces the source
// design's re-entrant callbacks with an explicit, inspectable stack.
type flipFrame struct {
	card     domain.Card
	sourceID string
	targetID string

	drawsLeft  int
	terminated bool // bust or flip7 cut the sequence short
	busted     bool
	acked      bool // presentation confirmed the sequence animation

	deferred []domain.Card // action cards in draw order
	next     int           // resolution cursor into deferred
}

func (e *Engine) top() *flipFrame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// deferAction records an action card drawn mid Flip Three. The card sits in
// the target's hand provisionally but has no effect yet; a provisional
// Second Chance does not arm the rescue flag.
func (e *Engine) deferAction(p *domain.Player, frame *flipFrame, card domain.Card) DrawOutcome {
	p.ActionCards = append(p.ActionCards, card)
	frame.deferred = append(frame.deferred, card)
	return OutcomeDeferred
}

// eligibleTargets implements the targeting contract: Freeze and Flip Three
// may hit any active player including the source; a redistributed Second
// Chance goes to an active player without one, never back to the source.
func (e *Engine) eligibleTargets(source *domain.Player, card domain.Card) []*domain.Player {
	var out []*domain.Player
	for _, p := range e.game.Players {
		if !p.Active() {
			continue
		}
		if card.Kind == domain.KindSecondChance {
			if p.ID == source.ID || p.HasSecondChance {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// resolveTargeting routes an action card already held by source into target
// selection: humans suspend the engine until SelectTarget (or the timeout);
// bots choose synchronously by the deterministic priority rules.
func (e *Engine) resolveTargeting(card domain.Card, source *domain.Player) {
	eligible := e.eligibleTargets(source, card)
	if len(eligible) == 0 {
		// An active source is always its own legal target, so this is a
		// contract violation. Abort the single effect, never the engine.
		e.log.Error("no eligible targets for action card",
			"card", card.String(), "source", source.ID)
		e.discardHeldAction(source, card.Kind)
		return
	}

	if source.IsHuman {
		e.suspendForTarget(card, source, eligible, false)
		return
	}
	e.executeAction(card, source, e.defaultTarget(card, source, eligible))
}

func (e *Engine) suspendForTarget(card domain.Card, source *domain.Player, eligible []*domain.Player, give bool) {
	ids := make([]string, len(eligible))
	for i, p := range eligible {
		ids[i] = p.ID
	}
	e.emit(EventTargetNeeded, TargetNeededPayload{Card: card, SourceID: source.ID, EligibleIDs: ids})
	e.pendTarget = &pendingTarget{
		card:        card,
		sourceID:    source.ID,
		eligibleIDs: ids,
		deadline:    e.deadline(),
		give:        give,
	}
}

// defaultTarget is the deterministic choice used for bots and for timed-out
// human selections.
func (e *Engine) defaultTarget(card domain.Card, source *domain.Player, eligible []*domain.Player) *domain.Player {
	switch card.Kind {
	case domain.KindFreeze:
		return bot.FreezeTarget(e.game, source, eligible)
	case domain.KindFlipThree:
		return bot.FlipThreeTarget(source, eligible, e.rng)
	default:
		return bot.SecondChanceRecipient(eligible)
	}
}

// executeAction applies a targeted action card. A target that went inactive
// between queuing and execution (frozen by a faster nested effect) is
// redirected to the source's next-best option; with no options left the
// effect is aborted and the card discarded.
func (e *Engine) executeAction(card domain.Card, source, target *domain.Player) {
	if target == nil || !target.Active() {
		eligible := e.eligibleTargets(source, card)
		if len(eligible) == 0 {
			e.log.Warn("action card target lost and no replacement, aborting effect",
				"card", card.String(), "source", source.ID)
			e.discardHeldAction(source, card.Kind)
			return
		}
		redirected := e.defaultTarget(card, source, eligible)
		e.log.Warn("action card target lost, redirecting",
			"card", card.String(), "source", source.ID, "target", redirected.ID)
		target = redirected
	}

	switch card.Kind {
	case domain.KindFreeze:
		e.executeFreeze(card, source, target)
	case domain.KindFlipThree:
		e.executeFlipThree(card, source, target)
	}
}

func (e *Engine) executeFreeze(card domain.Card, source, target *domain.Player) {
	e.emit(EventFreezeUsed, FreezeUsedPayload{SourceID: source.ID, TargetID: target.ID})

	target.Status = domain.StatusFrozen
	// Banked immediately: zero with no number cards, otherwise an instant
	// stay at the current hand value.
	target.RoundScore = domain.FinalRoundScore(target)
	e.emit(EventPlayerFrozen, PlayerFrozenPayload{PlayerID: target.ID})
	e.log.Info("player frozen", "source", source.ID, "target", target.ID, "banked", target.RoundScore)

	e.discardHeldAction(source, domain.KindFreeze)
}

func (e *Engine) executeFlipThree(card domain.Card, source, target *domain.Player) {
	e.emit(EventFlipThreeUsed, FlipThreeUsedPayload{SourceID: source.ID, TargetID: target.ID})
	e.log.Info("flip three started", "source", source.ID, "target", target.ID, "depth", len(e.stack)+1)
	e.stack = append(e.stack, &flipFrame{
		card:      card,
		sourceID:  source.ID,
		targetID:  target.ID,
		drawsLeft: 3,
	})
}

// stepFrame advances the top Flip Three frame by one unit of work. Returns
// false when the engine suspended.
func (e *Engine) stepFrame(f *flipFrame) bool {
	target := e.game.PlayerByID(f.targetID)

	if f.drawsLeft > 0 && !f.terminated {
		outcome := e.drawOne(target, f, false)
		f.drawsLeft--
		switch outcome {
		case OutcomeBust:
			f.terminated = true
			f.busted = true
		case OutcomeFlip7:
			f.terminated = true
		}
		return !e.suspended()
	}

	if !f.acked {
		e.pendFlipAck = &pendingFlipAck{
			targetID: f.targetID,
			busted:   f.busted,
			deadline: e.deadline(),
		}
		return false
	}

	if f.busted && f.next < len(f.deferred) {
		// The bust nullifies every deferred card: discarded unresolved.
		for _, c := range f.deferred[f.next:] {
			if removed, ok := target.RemoveActionCard(c.Kind); ok {
				e.game.Deck.Discard(removed)
			}
		}
		f.next = len(f.deferred)
	}

	if f.next < len(f.deferred) {
		c := f.deferred[f.next]
		f.next++
		e.resolveDeferred(f, target, c)
		return !e.suspended()
	}

	// Sequence fully resolved: only now is the original card spent.
	if source := e.game.PlayerByID(f.sourceID); source != nil {
		e.discardHeldAction(source, domain.KindFlipThree)
	}
	e.stack = e.stack[:len(e.stack)-1]
	e.log.Debug("flip three completed", "target", f.targetID, "busted", f.busted, "depth", len(e.stack)+1)
	return true
}

// resolveDeferred resolves one deferred action card in draw order. Freeze
// and Flip Three re-enter the same targeting pipeline, which is where the
// recursion happens; Second Chance follows the acquisition rules.
func (e *Engine) resolveDeferred(f *flipFrame, holder *domain.Player, card domain.Card) {
	if card.Kind == domain.KindSecondChance {
		removed, ok := holder.RemoveActionCard(domain.KindSecondChance)
		if !ok {
			return
		}
		if holder.Active() && !holder.HasSecondChance {
			holder.AddSecondChance(removed)
			return
		}
		// Holder already has one (or is out of the round): the copy must
		// move on.
		e.redistributeSecondChance(removed, holder, false)
		return
	}
	e.resolveTargeting(card, holder)
}

// redistributeSecondChance hands an extra Second Chance to another eligible
// player. With no eligible recipient the card is simply discarded. Human
// holders choose the recipient except during the initial deal, which
// resolves inline without pausing.
func (e *Engine) redistributeSecondChance(card domain.Card, holder *domain.Player, inline bool) {
	eligible := e.eligibleTargets(holder, card)
	if len(eligible) == 0 {
		e.game.Deck.Discard(card)
		e.log.Debug("second chance discarded, no eligible recipient", "holder", holder.ID)
		return
	}
	if holder.IsHuman && !inline {
		e.suspendForTarget(card, holder, eligible, true)
		return
	}
	e.giveSecondChance(card, holder, bot.SecondChanceRecipient(eligible))
}

// giveSecondChance completes a redistribution. The recipient is re-validated
// against the current state; a recipient that became ineligible falls back
// to the deterministic choice or, with nobody left, the discard pile.
func (e *Engine) giveSecondChance(card domain.Card, giver, recipient *domain.Player) {
	if recipient == nil || !recipient.Active() || recipient.HasSecondChance {
		eligible := e.eligibleTargets(giver, card)
		if len(eligible) == 0 {
			e.game.Deck.Discard(card)
			e.log.Debug("second chance discarded, recipient lost", "giver", giver.ID)
			return
		}
		recipient = bot.SecondChanceRecipient(eligible)
	}
	recipient.AddSecondChance(card)
	e.emit(EventSecondChanceGiven, SecondChanceGivenPayload{GiverID: giver.ID, RecipientID: recipient.ID})
	e.log.Info("second chance given", "giver", giver.ID, "recipient", recipient.ID)
}

// discardHeldAction removes one card of the kind from the player's hand and
// discards it.
func (e *Engine) discardHeldAction(p *domain.Player, kind domain.CardKind) {
	if card, ok := p.RemoveActionCard(kind); ok {
		e.game.Deck.Discard(card)
	}
}
