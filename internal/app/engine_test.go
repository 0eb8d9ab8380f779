package app

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipseven/internal/config"
	"flipseven/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func num(v int) domain.Card  { return domain.Card{Kind: domain.KindNumber, Value: v} }
func freeze() domain.Card    { return domain.Card{Kind: domain.KindFreeze} }
func flipThree() domain.Card { return domain.Card{Kind: domain.KindFlipThree} }
func secondCh() domain.Card  { return domain.Card{Kind: domain.KindSecondChance} }

// newTestEngine seats two players over a scripted deck. The dealer sits at
// seat 0, so the deal and the first turn both start with p1.
func newTestEngine(t *testing.T, cards []domain.Card, p0Human, p1Human bool) (*Engine, *domain.Player, *domain.Player) {
	t.Helper()
	p0 := domain.NewPlayer("p0", "Ada", 0, p0Human)
	p1 := domain.NewPlayer("p1", "Brin", 1, p1Human)
	e := NewEngine(config.Default(), []*domain.Player{p0, p1},
		domain.NewStackedDeck(cards), testLogger(), rand.New(rand.NewSource(1)))
	return e, p0, p1
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestStartGameDealsOneCardEach(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3)}, false, false)

	events, err := e.StartGame()
	require.NoError(t, err)

	assert.Equal(t, []EventKind{
		EventGameStart, EventRoundStart, EventCardDealt, EventCardDealt, EventTurnStarted,
	}, kinds(events))
	assert.Equal(t, []domain.Card{num(5)}, p1.NumberCards)
	assert.Equal(t, []domain.Card{num(3)}, p0.NumberCards)
	assert.Equal(t, PhaseTurn, e.Phase())
	assert.Equal(t, p1, e.CurrentPlayer())
}

func TestStartGameRejectsSoloPlayer(t *testing.T) {
	p := domain.NewPlayer("p0", "Solo", 0, true)
	e := NewEngine(config.Default(), []*domain.Player{p}, domain.NewStackedDeck(nil), testLogger(), nil)

	_, err := e.StartGame()
	assert.ErrorIs(t, err, ErrTooFewPlayers)
}

func TestHitDuplicateBusts(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3), num(5)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	events, err := e.Hit("p1")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventPlayerBust)
	assert.Equal(t, domain.StatusBusted, p1.Status)
	assert.Equal(t, 0, p1.RoundScore)
	assert.Equal(t, PhaseAwaitingAck, e.Phase())

	events, err = e.AckAnimation("p1")
	require.NoError(t, err)
	assert.Contains(t, kinds(events), EventTurnStarted)
	assert.Equal(t, p0, e.CurrentPlayer())
}

func TestSecondChanceAbsorbsDuplicate(t *testing.T) {
	e, _, p1 := newTestEngine(t, []domain.Card{num(5), num(3), secondCh(), num(5)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.True(t, p1.HasSecondChance)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)

	_, err = e.Stay("p0")
	require.NoError(t, err)
	_, err = e.AckAnimation("p0")
	require.NoError(t, err)

	events, err := e.Hit("p1")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventSecondChanceHit)
	assert.False(t, p1.HasSecondChance)
	assert.Equal(t, domain.StatusActive, p1.Status)
	assert.Equal(t, []domain.Card{num(5)}, p1.NumberCards)
	assert.Empty(t, p1.ActionCards)
	// Both the rescue token and the duplicate went to the discard pile.
	assert.Equal(t, 2, e.Game().Deck.DiscardRemaining())
}

func TestSeventhUniqueNumberEndsRound(t *testing.T) {
	deck := []domain.Card{num(1), num(3), num(2), num(4), num(5), num(6), num(7), num(8)}
	e, p0, p1 := newTestEngine(t, deck, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)
	_, err = e.Stay("p0")
	require.NoError(t, err)
	_, err = e.AckAnimation("p0")
	require.NoError(t, err)

	// p1 is the only active player and keeps the turn.
	var seen []EventKind
	for _, want := range []int{4, 5, 6, 7, 8} {
		events, err := e.Hit("p1")
		require.NoError(t, err)
		require.True(t, p1.HasNumber(want))
		seen = append(seen, kinds(events)...)
		events, err = e.AckAnimation("p1")
		require.NoError(t, err)
		seen = append(seen, kinds(events)...)
	}

	// The seventh unique fires the bonus and ends the round; the next
	// round has already begun so p1's status is back to active.
	assert.Contains(t, seen, EventPlayerFlip7)
	assert.Equal(t, domain.StatusActive, p1.Status)
	assert.Contains(t, seen, EventRoundEnd)
	assert.Contains(t, seen, EventRoundStart)
	// 1+2+4+5+6+7+8 doubled by nothing, plus the seven-unique bonus.
	assert.Equal(t, 33+domain.Flip7Bonus, p1.TotalScore)
	assert.Equal(t, 3, p0.TotalScore)
	assert.Equal(t, 2, e.Game().Round)
}

func TestFreezeOnEmptyHandBanksZero(t *testing.T) {
	// p1 is dealt a Freeze before p0 has any cards.
	e, p0, p1 := newTestEngine(t, []domain.Card{freeze(), num(3)}, false, true)

	events, err := e.StartGame()
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingTarget, e.Phase())
	require.Contains(t, kinds(events), EventTargetNeeded)

	events, err = e.SelectTarget("p1", domain.KindFreeze, "p0")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventPlayerFrozen)
	assert.Equal(t, domain.StatusFrozen, p0.Status)
	assert.Equal(t, 0, p0.RoundScore)
	assert.Empty(t, p1.ActionCards)
	// p0 was skipped for the rest of the deal; play falls to p1.
	assert.Equal(t, p1, e.CurrentPlayer())
	assert.Equal(t, PhaseTurn, e.Phase())
}

func TestFrozenPlayerBanksCurrentHand(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(8), freeze()}, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingTarget, e.Phase())

	_, err = e.SelectTarget("p1", domain.KindFreeze, "p0")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFrozen, p0.Status)
	assert.Equal(t, 8, p0.RoundScore)
	// The freeze source keeps playing.
	assert.Equal(t, domain.StatusActive, p1.Status)
	assert.Empty(t, p1.ActionCards)
}

func TestNestedFlipThreeResolvesDepthFirst(t *testing.T) {
	deck := []domain.Card{
		num(9), num(8),              // deal
		flipThree(),                 // p1's hit
		flipThree(), num(1), num(2), // outer sequence, first draw deferred
		num(4), num(5), num(6),      // inner sequence
	}
	e, _, p1 := newTestEngine(t, deck, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingTarget, e.Phase())

	events, err := e.SelectTarget("p1", domain.KindFlipThree, "p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingFlipAck, e.Phase())
	assert.Contains(t, kinds(events), EventFlipThreeUsed)

	// Acknowledging the outer sequence releases its deferred Flip Three,
	// which needs its own target.
	_, err = e.AckFlipThree("p1", true, "completed")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingTarget, e.Phase())

	_, err = e.SelectTarget("p1", domain.KindFlipThree, "p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingFlipAck, e.Phase())

	_, err = e.AckFlipThree("p1", true, "completed")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingAck, e.Phase())

	_, err = e.AckAnimation("p1")
	require.NoError(t, err)

	for _, v := range []int{9, 1, 2, 4, 5, 6} {
		assert.True(t, p1.HasNumber(v), "missing number %d", v)
	}
	assert.Empty(t, p1.ActionCards)
	// Both Flip Three cards were spent.
	assert.Equal(t, 2, e.Game().Deck.DiscardRemaining())
	assert.Equal(t, domain.StatusActive, p1.Status)
}

func TestBustDiscardsDeferredActionsUnresolved(t *testing.T) {
	deck := []domain.Card{
		num(9), num(8),   // deal
		flipThree(),      // p1's hit
		freeze(), num(9), // sequence: deferred Freeze, then a duplicate
	}
	e, p0, p1 := newTestEngine(t, deck, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	_, err = e.SelectTarget("p1", domain.KindFlipThree, "p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingFlipAck, e.Phase())

	events, err := e.AckFlipThree("p1", false, "bust")
	require.NoError(t, err)

	// The bust nullified the Freeze: nobody got frozen, no target was asked.
	assert.NotContains(t, kinds(events), EventTargetNeeded)
	assert.NotContains(t, kinds(events), EventPlayerFrozen)
	assert.Equal(t, domain.StatusActive, p0.Status)
	assert.Equal(t, domain.StatusBusted, p1.Status)
	assert.Empty(t, p1.ActionCards)

	_, err = e.AckAnimation("p1")
	require.NoError(t, err)
	assert.Equal(t, p0, e.CurrentPlayer())

	// Conservation: 5 scripted cards across hands and piles.
	g := e.Game()
	assert.Equal(t, 5, g.CardsInPlay()+g.Deck.DrawRemaining()+g.Deck.DiscardRemaining())
}

func TestSecondChanceSpentInsideFlipThreeDoesNotRearm(t *testing.T) {
	deck := []domain.Card{
		num(5), num(3),             // deal
		secondCh(),                 // p1's first hit, armed
		flipThree(),                // p1's second hit
		secondCh(), num(5), num(5), // sequence: deferred copy, two duplicates
	}
	e, _, p1 := newTestEngine(t, deck, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.True(t, p1.HasSecondChance)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)

	_, err = e.Stay("p0")
	require.NoError(t, err)
	_, err = e.AckAnimation("p0")
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	events, err := e.SelectTarget("p1", domain.KindFlipThree, "p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingFlipAck, e.Phase())

	// The armed copy absorbed the first duplicate and is spent. The copy
	// drawn during the sequence is still unresolved and must not arm, so
	// the second duplicate busts.
	assert.Contains(t, kinds(events), EventSecondChanceHit)
	assert.Contains(t, kinds(events), EventPlayerBust)

	// Acknowledging the busted sequence discards the unresolved copy.
	_, err = e.AckFlipThree("p1", false, "bust")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBusted, p1.Status)
	assert.Equal(t, 0, p1.RoundScore)
	assert.False(t, p1.HasSecondChance)
	assert.Empty(t, p1.ActionCards)

	// Conservation: 7 scripted cards across hands and piles.
	g := e.Game()
	assert.Equal(t, 7, g.CardsInPlay()+g.Deck.DrawRemaining()+g.Deck.DiscardRemaining())
}

func TestSecondChanceRedistributesToEligiblePlayer(t *testing.T) {
	// p1 was dealt one Second Chance and draws another.
	e, p0, p1 := newTestEngine(t, []domain.Card{secondCh(), num(3), secondCh()}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)
	require.True(t, p1.HasSecondChance)

	events, err := e.Hit("p1")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventSecondChanceGiven)
	assert.True(t, p0.HasSecondChance)
	assert.Equal(t, 1, p1.SecondChanceCount())
}

func TestSecondChanceDiscardedWhenNobodyEligible(t *testing.T) {
	// Both players already hold one; a third copy has nowhere to go.
	e, p0, p1 := newTestEngine(t, []domain.Card{secondCh(), secondCh(), secondCh()}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)
	require.True(t, p0.HasSecondChance)
	require.True(t, p1.HasSecondChance)

	events, err := e.Hit("p1")
	require.NoError(t, err)

	assert.NotContains(t, kinds(events), EventSecondChanceGiven)
	assert.Equal(t, 1, p1.SecondChanceCount())
	assert.Equal(t, 1, e.Game().Deck.DiscardRemaining())
}

func TestTurnRequestsRejectedWhileSuspended(t *testing.T) {
	e, _, _ := newTestEngine(t, []domain.Card{num(5), num(3), num(2)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p0")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingAck, e.Phase())

	// Awaiting the display ack: further play is "not yet", not a failure.
	_, err = e.Hit("p1")
	assert.ErrorIs(t, err, ErrNotYet)
	_, err = e.Stay("p0")
	assert.ErrorIs(t, err, ErrNotYet)

	// A stray ack from the wrong player is ignored outright.
	events, err := e.AckAnimation("p0")
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Equal(t, PhaseAwaitingAck, e.Phase())
}

func TestTickForcesTimedOutSuspensions(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{freeze(), num(3)}, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingTarget, e.Phase())

	// Before the deadline nothing moves.
	events := e.Tick(time.Now())
	assert.Empty(t, events)
	assert.Equal(t, PhaseAwaitingTarget, e.Phase())

	events = e.Tick(time.Now().Add(time.Hour))
	assert.Contains(t, kinds(events), EventPlayerFrozen)
	// The deterministic default froze someone and the game carried on.
	assert.True(t, p0.Status == domain.StatusFrozen || p1.Status == domain.StatusFrozen)
	assert.NotEqual(t, PhaseAwaitingTarget, e.Phase())
}

func TestTickForcesTimedOutAnimationAck(t *testing.T) {
	e, p0, _ := newTestEngine(t, []domain.Card{num(5), num(3), num(2)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)
	_, err = e.Hit("p1")
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingAck, e.Phase())

	events := e.Tick(time.Now().Add(time.Hour))
	assert.Contains(t, kinds(events), EventTurnStarted)
	assert.Equal(t, p0, e.CurrentPlayer())
}

func TestSelectTargetValidation(t *testing.T) {
	e, _, _ := newTestEngine(t, []domain.Card{freeze(), num(3)}, false, true)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.SelectTarget("p0", domain.KindFreeze, "p0")
	assert.ErrorIs(t, err, ErrNoPendingTarget)

	_, err = e.SelectTarget("p1", domain.KindFlipThree, "p0")
	assert.ErrorIs(t, err, ErrNoPendingTarget)

	_, err = e.SelectTarget("p1", domain.KindFreeze, "nobody")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestDrainRedistributesExtraSecondChances(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	p1.AddSecondChance(secondCh())
	p1.ActionCards = append(p1.ActionCards, secondCh())
	require.Equal(t, 2, p1.SecondChanceCount())

	ok := e.drainSecondChances(p1)
	e.drain()

	assert.True(t, ok)
	assert.Equal(t, 1, p1.SecondChanceCount())
	assert.True(t, p0.HasSecondChance)
}

func TestStaleTargetRedirectsToNextBestOption(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	p1.ActionCards = append(p1.ActionCards, freeze())
	// The chosen target went out of the round before the effect fired.
	p0.Status = domain.StatusFrozen

	e.executeAction(freeze(), p1, p0)
	events := e.drain()

	// The only remaining active player is the source itself.
	assert.Contains(t, kinds(events), EventPlayerFrozen)
	assert.Equal(t, domain.StatusFrozen, p1.Status)
	assert.Equal(t, 5, p1.RoundScore)
	assert.Empty(t, p1.ActionCards)
}

func TestStaleTargetWithNoReplacementAbortsEffect(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	p1.ActionCards = append(p1.ActionCards, freeze())
	p0.Status = domain.StatusFrozen
	p1.Status = domain.StatusBusted

	before := e.Game().Deck.DiscardRemaining()
	e.executeAction(freeze(), p1, p0)
	events := e.drain()

	// Nobody is active: the effect is dropped and the card discarded.
	assert.NotContains(t, kinds(events), EventPlayerFrozen)
	assert.Empty(t, p1.ActionCards)
	assert.Equal(t, before+1, e.Game().Deck.DiscardRemaining())
	assert.Equal(t, domain.StatusFrozen, p0.Status)
}

func TestTiedLeadersRepeatTheRound(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(5), num(3)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	p0.TotalScore = 205
	p1.TotalScore = 205
	assert.Nil(t, e.detectWinner())

	p1.TotalScore = 210
	winner := e.detectWinner()
	require.NotNil(t, winner)
	assert.Equal(t, "p1", winner.ID)

	// Below the threshold nobody qualifies.
	p0.TotalScore = 100
	p1.TotalScore = 150
	assert.Nil(t, e.detectWinner())
}

func TestGameEndsWhenTargetReached(t *testing.T) {
	e, p0, p1 := newTestEngine(t, []domain.Card{num(12), num(3), num(11), num(10)}, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	p1.TotalScore = 190
	p0.TotalScore = 50

	// p1 stays on 12+11 = 23, p0 stays on 3+10 = 13; p1 crosses 200 first.
	_, err = e.Hit("p1")
	require.NoError(t, err)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)
	_, err = e.Hit("p0")
	require.NoError(t, err)
	_, err = e.AckAnimation("p0")
	require.NoError(t, err)
	_, err = e.Stay("p1")
	require.NoError(t, err)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)
	_, err = e.Stay("p0")
	require.NoError(t, err)
	events, err := e.AckAnimation("p0")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventRoundEnd)
	assert.Contains(t, kinds(events), EventGameEnd)
	assert.Equal(t, PhaseGameOver, e.Phase())
	assert.Equal(t, 190+23, p1.TotalScore)
	assert.False(t, e.Game().Active)

	_, err = e.Hit("p1")
	assert.ErrorIs(t, err, ErrGameNotActive)
}

func TestRoundRotatesDealerAndReturnsHands(t *testing.T) {
	deck := []domain.Card{
		num(5), num(3), // round 1 deal
		num(7),         // p1's hit
	}
	e, p0, p1 := newTestEngine(t, deck, false, false)
	_, err := e.StartGame()
	require.NoError(t, err)

	_, err = e.Hit("p1")
	require.NoError(t, err)
	_, err = e.AckAnimation("p1")
	require.NoError(t, err)
	_, err = e.Stay("p0")
	require.NoError(t, err)
	_, err = e.AckAnimation("p0")
	require.NoError(t, err)
	_, err = e.Stay("p1")
	require.NoError(t, err)
	events, err := e.AckAnimation("p1")
	require.NoError(t, err)

	assert.Contains(t, kinds(events), EventRoundEnd)
	assert.Equal(t, 2, e.Game().Round)
	assert.Equal(t, 1, e.Game().DealerSeat)
	assert.Equal(t, 12, p1.TotalScore)
	assert.Equal(t, 3, p0.TotalScore)
	// Round 1's hands were reshuffled into round 2's deal, so every card is
	// still accounted for.
	g := e.Game()
	assert.Equal(t, 3, g.CardsInPlay()+g.Deck.DrawRemaining()+g.Deck.DiscardRemaining())
	assert.Equal(t, domain.StatusActive, p0.Status)
	// With dealer seat 1, round 2 opens on p0.
	assert.Equal(t, p0, e.CurrentPlayer())
}
