package app

import (
	"errors"

	"flipseven/internal/domain"
)

// DrawOutcome classifies what a single draw did to the drawing player.
type DrawOutcome string

const (
	OutcomeNumber                     DrawOutcome = "number"
	OutcomeFlip7                      DrawOutcome = "flip7"
	OutcomeBust                       DrawOutcome = "bust"
	OutcomeSecondChanceSaved          DrawOutcome = "second_chance_saved"
	OutcomeModifier                   DrawOutcome = "modifier"
	OutcomeSecondChanceAcquired       DrawOutcome = "second_chance_acquired"
	OutcomeSecondChanceRedistribution DrawOutcome = "second_chance_redistribution"
	OutcomeActionTargeting            DrawOutcome = "action_targeting"
	// OutcomeDeferred marks an action card drawn mid Flip Three: held
	// provisionally, resolved after the sequence.
	OutcomeDeferred DrawOutcome = "deferred"
)

// drawOne draws a card for the player and applies its immediate effect.
// frame is non-nil when the draw belongs to a Flip Three sequence, which
// defers action cards instead of resolving them. isDeal marks the initial
// one-card deal of a round.
func (e *Engine) drawOne(p *domain.Player, frame *flipFrame, isDeal bool) DrawOutcome {
	card := e.drawCard(p)

	if isDeal {
		e.emit(EventCardDealt, CardDealtPayload{Card: card, PlayerID: p.ID, IsInitialDeal: true})
	} else {
		e.emit(EventCardDrawn, CardDrawnPayload{Card: card, PlayerID: p.ID})
	}

	switch card.Kind {
	case domain.KindNumber:
		return e.applyNumber(p, card)

	case domain.KindModifier, domain.KindMultiplier:
		p.ModifierCards = append(p.ModifierCards, card)
		return OutcomeModifier

	case domain.KindSecondChance:
		if frame != nil {
			return e.deferAction(p, frame, card)
		}
		if !p.HasSecondChance {
			p.AddSecondChance(card)
			return OutcomeSecondChanceAcquired
		}
		// A second copy must go to a different eligible player.
		e.redistributeSecondChance(card, p, isDeal)
		return OutcomeSecondChanceRedistribution

	default: // Freeze, FlipThree
		if frame != nil {
			return e.deferAction(p, frame, card)
		}
		// The card counts as held until its effect resolves.
		p.ActionCards = append(p.ActionCards, card)
		e.resolveTargeting(card, p)
		return OutcomeActionTargeting
	}
}

// applyNumber handles duplicate detection, Second Chance consumption and the
// Flip 7 cutoff for a drawn number card.
func (e *Engine) applyNumber(p *domain.Player, card domain.Card) DrawOutcome {
	if p.HasNumber(card.Value) {
		if p.HasSecondChance {
			rescue, _ := p.RemoveActionCard(domain.KindSecondChance)
			// The armed copy is spent. Any further copy in the hand is an
			// unresolved acquisition and must not arm.
			p.HasSecondChance = false
			e.game.Deck.Discard(rescue, card)
			e.emit(EventSecondChanceHit, SecondChanceActivatedPayload{
				PlayerID:  p.ID,
				Discarded: []domain.Card{rescue, card},
			})
			e.log.Info("second chance absorbed a duplicate", "player", p.ID, "value", card.Value)
			return OutcomeSecondChanceSaved
		}
		p.Status = domain.StatusBusted
		p.RoundScore = 0
		e.game.Deck.Discard(card)
		e.emit(EventPlayerBust, PlayerBustPayload{PlayerID: p.ID, Card: card})
		e.log.Info("player busted", "player", p.ID, "value", card.Value)
		return OutcomeBust
	}

	if p.AddNumber(card) {
		e.emit(EventPlayerFlip7, PlayerFlip7Payload{PlayerID: p.ID})
		e.log.Info("flip 7", "player", p.ID)
		return OutcomeFlip7
	}
	return OutcomeNumber
}

// drawCard pops the next card, falling back to the emergency filler when
// both piles are structurally empty. The filler is a deliberate
// never-deadlock safety net; deck conservation tests ensure it is
// unreachable in a correctly accounted game.
func (e *Engine) drawCard(p *domain.Player) domain.Card {
	card, err := e.game.Deck.Draw()
	if err == nil {
		return card
	}
	if !errors.Is(err, domain.ErrDeckExhausted) {
		e.log.Error("unexpected draw failure", "err", err)
	}
	value := 0
	for v := 0; v <= 12; v++ {
		if !p.HasNumber(v) {
			value = v
			break
		}
	}
	e.log.Error("deck exhausted, synthesizing emergency card",
		"player", p.ID, "value", value)
	return domain.Card{Kind: domain.KindNumber, Value: value}
}
