package app

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"flipseven/internal/bot"
	"flipseven/internal/config"
	"flipseven/internal/domain"
)

// TurnPhase is the engine's explicit state. The turn cursor may only advance
// from clear phases; the Awaiting* phases are the suspension points where the
// engine waits on the presentation layer.
type TurnPhase string

const (
	// PhaseIdle is the pre-start state.
	PhaseIdle TurnPhase = "idle"
	// PhaseDealing is the initial one-card-each deal of a round.
	PhaseDealing TurnPhase = "dealing"
	// PhaseTurn waits for the current player's hit or stay.
	PhaseTurn TurnPhase = "turn"
	// PhaseAwaitingTarget waits for a human's action-card target selection.
	PhaseAwaitingTarget TurnPhase = "awaiting_target"
	// PhaseAwaitingAck waits for the card animation acknowledgement that
	// gates the end of a turn.
	PhaseAwaitingAck TurnPhase = "awaiting_ack"
	// PhaseAwaitingFlipAck waits for the Flip Three sequence
	// acknowledgement before deferred cards resolve.
	PhaseAwaitingFlipAck TurnPhase = "awaiting_flip_ack"
	// PhaseGameOver is terminal.
	PhaseGameOver TurnPhase = "game_over"
)

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrGameNotActive  = errors.New("game is not active")
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotYourTurn    = errors.New("not this player's turn")
	// ErrNotYet rejects requests arriving while the engine is suspended or
	// mid-resolution. It means "ask again once the gates clear", not a
	// failure.
	ErrNotYet          = errors.New("engine is busy resolving")
	ErrNoPendingTarget = errors.New("no target selection is pending")
	ErrInvalidTarget   = errors.New("selected target is not eligible")
)

// pendingTarget suspends the engine on a human target selection.
type pendingTarget struct {
	card        domain.Card
	sourceID    string
	eligibleIDs []string
	deadline    time.Time
	// give marks a Second Chance redistribution rather than an attack.
	give bool
}

// pendingAck suspends the turn-ending step on a card animation.
type pendingAck struct {
	playerID string
	deadline time.Time
}

// pendingFlipAck suspends a finished Flip Three sequence on its animation.
type pendingFlipAck struct {
	targetID string
	busted   bool
	deadline time.Time
}

// Engine is the composition root of the turn and action-resolution core. It
// is single-threaded and cooperative: callers (a match loop or a CLI) invoke
// one method at a time and receive the events that resolution produced.
type Engine struct {
	log   *slog.Logger
	cfg   config.GameConfig
	rng   *rand.Rand
	clock func() time.Time

	game *domain.Game

	phase    TurnPhase
	turnSeat int
	// turnEnding is set once the current player's action is fully drawn;
	// the turn actually ends only after the resolution stack, the Second
	// Chance drain and the display ack all clear.
	turnEnding bool
	ackDone    bool

	stack     []*flipFrame
	dealing   bool
	dealQueue []int

	pendTarget  *pendingTarget
	pendAck     *pendingAck
	pendFlipAck *pendingFlipAck

	events []Event
}

// NewEngine wires an engine for the given roster. Nil deck, logger and rng
// fall back to a default-composition deck, slog.Default and a time-seeded
// source.
func NewEngine(cfg config.GameConfig, players []*domain.Player, deck *domain.Deck, log *slog.Logger, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deck == nil {
		deck = domain.NewDeck(domain.DefaultComposition(), rng)
	}
	if log == nil {
		log = slog.Default().With("game", "flipseven")
	}
	game := &domain.Game{
		ID:          uuid.NewString(),
		Players:     players,
		Deck:        deck,
		TargetScore: cfg.TargetScore,
	}
	return &Engine{
		log:   log.With("game_id", game.ID),
		cfg:   cfg,
		rng:   rng,
		clock: time.Now,
		game:  game,
		phase: PhaseIdle,
	}
}

// Game exposes the table state for drivers and bots. Callers must treat it
// as read-only.
func (e *Engine) Game() *domain.Game { return e.game }

// Phase returns the engine's current phase.
func (e *Engine) Phase() TurnPhase { return e.phase }

// CurrentPlayer returns the player whose turn it is, or nil outside a turn.
func (e *Engine) CurrentPlayer() *domain.Player {
	if e.phase == PhaseIdle || e.phase == PhaseDealing || e.phase == PhaseGameOver {
		return nil
	}
	return e.game.PlayerAtSeat(e.turnSeat)
}

// suspended reports whether any gate is holding the engine.
func (e *Engine) suspended() bool {
	return e.pendTarget != nil || e.pendAck != nil || e.pendFlipAck != nil
}

// PendingAckPlayer returns the player whose display ack the engine is
// waiting on, or empty. Drivers use it to auto-ack for bots and absent
// players.
func (e *Engine) PendingAckPlayer() string {
	if e.pendAck == nil {
		return ""
	}
	return e.pendAck.playerID
}

// PendingFlipAckTarget returns the Flip Three target whose sequence ack is
// outstanding, or empty.
func (e *Engine) PendingFlipAckTarget() string {
	if e.pendFlipAck == nil {
		return ""
	}
	return e.pendFlipAck.targetID
}

// PendingTargetSource returns the player the engine is waiting on for a
// target selection, or empty.
func (e *Engine) PendingTargetSource() string {
	if e.pendTarget == nil {
		return ""
	}
	return e.pendTarget.sourceID
}

// StartGame activates the game and deals the first round.
func (e *Engine) StartGame() ([]Event, error) {
	if e.phase != PhaseIdle {
		return nil, ErrAlreadyStarted
	}
	if len(e.game.Players) < e.cfg.MinPlayers || len(e.game.Players) < 2 {
		return nil, ErrTooFewPlayers
	}

	e.game.Active = true
	e.game.Round = 1
	e.game.DealerSeat = 0

	ids := make([]string, 0, len(e.game.Players))
	for _, p := range e.game.Players {
		p.ResetForRound()
		ids = append(ids, p.ID)
	}

	e.emit(EventGameStart, GameStartPayload{
		GameID:      e.game.ID,
		PlayerIDs:   ids,
		TargetScore: e.game.TargetScore,
	})
	e.emit(EventRoundStart, RoundStartPayload{Round: e.game.Round, DealerSeat: e.game.DealerSeat})
	e.beginDealing()
	e.step()
	return e.drain(), nil
}

// Hit draws one card for the current player. The turn ends once the draw's
// full resolution (including any action-card cascade) completes and the
// display ack clears.
func (e *Engine) Hit(playerID string) ([]Event, error) {
	if err := e.checkTurn(playerID); err != nil {
		return nil, err
	}
	p := e.game.PlayerAtSeat(e.turnSeat)
	e.drawOne(p, nil, false)
	e.turnEnding = true
	e.step()
	return e.drain(), nil
}

// Stay banks the current player's round score and ends the turn.
func (e *Engine) Stay(playerID string) ([]Event, error) {
	if err := e.checkTurn(playerID); err != nil {
		return nil, err
	}
	p := e.game.PlayerAtSeat(e.turnSeat)
	p.Status = domain.StatusStayed
	p.RoundScore = domain.CalculateRoundScore(p)
	e.emit(EventPlayerStayed, PlayerStayedPayload{PlayerID: p.ID, Score: p.RoundScore})
	e.log.Info("player stayed", "player", p.ID, "score", p.RoundScore)

	e.turnEnding = true
	e.step()
	return e.drain(), nil
}

func (e *Engine) checkTurn(playerID string) error {
	if !e.game.Active {
		return ErrGameNotActive
	}
	if e.suspended() || len(e.stack) > 0 || e.turnEnding {
		return ErrNotYet
	}
	if e.phase != PhaseTurn {
		return ErrNotYet
	}
	p := e.game.PlayerAtSeat(e.turnSeat)
	if p == nil || p.ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// SelectTarget resolves a pending action-card targeting suspension. The
// request must reference the same card kind and source the suspension was
// created for.
func (e *Engine) SelectTarget(playerID string, kind domain.CardKind, targetID string) ([]Event, error) {
	pt := e.pendTarget
	if pt == nil {
		return nil, ErrNoPendingTarget
	}
	if pt.sourceID != playerID || pt.card.Kind != kind {
		return nil, ErrNoPendingTarget
	}
	eligible := false
	for _, id := range pt.eligibleIDs {
		if id == targetID {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, ErrInvalidTarget
	}

	e.pendTarget = nil
	source := e.game.PlayerByID(pt.sourceID)
	target := e.game.PlayerByID(targetID)
	if pt.give {
		e.giveSecondChance(pt.card, source, target)
	} else {
		e.executeAction(pt.card, source, target)
	}
	e.step()
	return e.drain(), nil
}

// AckAnimation resolves the display acknowledgement gating the named
// player's turn-ending step. Stray acks are ignored.
func (e *Engine) AckAnimation(playerID string) ([]Event, error) {
	if e.pendAck == nil || e.pendAck.playerID != playerID {
		e.log.Debug("ignoring stray animation ack", "player", playerID)
		return nil, nil
	}
	e.pendAck = nil
	e.ackDone = true
	e.step()
	return e.drain(), nil
}

// AckFlipThree resolves the pending Flip Three sequence acknowledgement.
// The completed flag and reason are informational; the engine already knows
// how the sequence ended and only needs the go-ahead.
func (e *Engine) AckFlipThree(targetID string, completed bool, reason string) ([]Event, error) {
	if e.pendFlipAck == nil || e.pendFlipAck.targetID != targetID {
		e.log.Debug("ignoring stray flip-three ack", "target", targetID)
		return nil, nil
	}
	if top := e.top(); top != nil {
		top.acked = true
	}
	e.log.Debug("flip-three sequence acknowledged", "target", targetID, "completed", completed, "reason", reason)
	e.pendFlipAck = nil
	e.step()
	return e.drain(), nil
}

// Tick applies the defensive timeouts: any suspension past its deadline is
// force-resumed with the deterministic default choice. This is a safety net
// against a stuck presentation layer, not a scheduling mechanism.
func (e *Engine) Tick(now time.Time) []Event {
	if pt := e.pendTarget; pt != nil && now.After(pt.deadline) {
		e.log.Warn("target selection timed out, forcing default",
			"source", pt.sourceID, "card", pt.card.String())
		e.pendTarget = nil
		source := e.game.PlayerByID(pt.sourceID)
		eligible := e.playersByID(pt.eligibleIDs)
		if pt.give {
			e.giveSecondChance(pt.card, source, bot.SecondChanceRecipient(eligible))
		} else {
			e.executeAction(pt.card, source, e.defaultTarget(pt.card, source, eligible))
		}
		e.step()
	}
	if pa := e.pendAck; pa != nil && now.After(pa.deadline) {
		e.log.Warn("animation ack timed out, forcing turn end", "player", pa.playerID)
		e.pendAck = nil
		e.ackDone = true
		e.step()
	}
	if pf := e.pendFlipAck; pf != nil && now.After(pf.deadline) {
		e.log.Warn("flip-three ack timed out, forcing resume", "target", pf.targetID)
		if top := e.top(); top != nil {
			top.acked = true
		}
		e.pendFlipAck = nil
		e.step()
	}
	return e.drain()
}

func (e *Engine) deadline() time.Time {
	return e.clock().Add(time.Duration(e.cfg.SuspensionTimeoutSec) * time.Second)
}

func (e *Engine) playersByID(ids []string) []*domain.Player {
	out := make([]*domain.Player, 0, len(ids))
	for _, id := range ids {
		if p := e.game.PlayerByID(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// step advances the state machine until it either suspends on the
// presentation layer, waits for a player decision, or the game ends. This is
// the single driver loop; resolution work is encoded in the stack and the
// deal queue, never in nested callbacks.
func (e *Engine) step() {
	for {
		if e.suspended() {
			e.updatePhase()
			return
		}
		if len(e.stack) > 0 {
			if !e.stepFrame(e.top()) {
				e.updatePhase()
				return
			}
			continue
		}
		if e.dealing {
			if len(e.dealQueue) > 0 {
				e.stepDeal()
				continue
			}
			e.finishDealing()
			continue
		}
		if e.turnEnding {
			if e.finishTurn() {
				continue
			}
			e.updatePhase()
			return
		}
		// Waiting on the current player (or idle / game over).
		e.updatePhase()
		return
	}
}

func (e *Engine) updatePhase() {
	switch {
	case !e.game.Active && e.phase != PhaseIdle:
		e.phase = PhaseGameOver
	case e.pendTarget != nil:
		e.phase = PhaseAwaitingTarget
	case e.pendFlipAck != nil:
		e.phase = PhaseAwaitingFlipAck
	case e.pendAck != nil:
		e.phase = PhaseAwaitingAck
	case e.dealing:
		e.phase = PhaseDealing
	case e.game.Active:
		e.phase = PhaseTurn
	}
}
