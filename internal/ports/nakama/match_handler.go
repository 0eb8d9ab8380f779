package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"flipseven/internal/app"
	"flipseven/internal/bot"
	"flipseven/internal/config"
	"flipseven/internal/domain"
	"flipseven/internal/ports"
)

// MatchLabel is the searchable lobby label, marshaled to JSON.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// EventEnvelope wraps an engine event for the wire.
type EventEnvelope struct {
	Kind    app.EventKind `json:"kind"`
	Payload interface{}   `json:"payload"`
}

// SelectTargetRequest is the client payload resolving a pending target choice.
type SelectTargetRequest struct {
	CardKind domain.CardKind `json:"card_kind"`
	TargetID string          `json:"target_id"`
}

// AckFlipThreeRequest acknowledges a finished Flip Three sequence.
type AckFlipThreeRequest struct {
	Completed bool   `json:"completed"`
	Reason    string `json:"reason"`
}

// GameErrorEvent is sent privately to the offending client.
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats          [4]string                   `json:"seats"`      // user IDs, empty string means seat is empty
	OwnerSeat      int                         `json:"owner_seat"` // seat index of the match owner
	Tick           int64                       `json:"tick"`
	Presences      map[string]runtime.Presence `json:"-"` // userID -> presence for targeted messaging
	Engine         *app.Engine                 `json:"-"` // nil while in the lobby
	Cfg            config.GameConfig           `json:"-"`
	Bots           map[string]*bot.Agent       `json:"-"`
	Economy        ports.EconomyPort           `json:"-"`

	BotsEnabled          bool  `json:"bots_enabled"`
	BotMinDelay          int   `json:"bot_min_delay"`
	BotMaxDelay          int   `json:"bot_max_delay"`
	BotAutoFillDelay     int   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64 `json:"bot_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isConnectedHuman reports whether the user is a human with a live presence.
// Acks from anyone else are synthesized by the server.
func (ms *MatchState) isConnectedHuman(userID string) bool {
	if userID == "" || isBotUserId(userID) {
		return false
	}
	_, ok := ms.Presences[userID]
	return ok
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	cfg := config.GetGameConfig()
	state := &MatchState{
		Tick:             time.Now().Unix(),
		Presences:        make(map[string]runtime.Presence),
		OwnerSeat:        -1,
		Cfg:              cfg,
		Bots:             make(map[string]*bot.Agent),
		Economy:          NewNakamaEconomyAdapter(nk),
		BotMinDelay:      cfg.BotMinDelaySec,
		BotMaxDelay:      cfg.BotMaxDelaySec,
		BotAutoFillDelay: cfg.BotAutoFillDelaySec,
	}

	env := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["flipseven_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["flipseven_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["flipseven_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["flipseven_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "flipseven",
		Phase: "lobby",
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Engine == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: try empty seats first, then bots (if lobby).
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Engine == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Owner seat always belongs to a human.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// Mid-game the seat stays reserved; timeouts and auto-acks keep the
		// game moving without the player. In the lobby the seat is freed.
		if matchState.Engine == nil {
			for i, seatUserId := range matchState.Seats {
				if seatUserId == p.GetUserId() {
					matchState.Seats[i] = ""
					logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
					break
				}
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) || len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpHit:
			mh.handleTurnAction(ctx, matchState, dispatcher, logger, msg, true)
		case OpStay:
			mh.handleTurnAction(ctx, matchState, dispatcher, logger, msg, false)
		case OpSelectTarget:
			mh.handleSelectTarget(ctx, matchState, dispatcher, logger, msg)
		case OpAckAnimation:
			mh.handleAckAnimation(ctx, matchState, dispatcher, logger, msg)
		case OpAckFlipThree:
			mh.handleAckFlipThree(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Engine != nil {
		mh.handleEngineEvents(ctx, matchState, dispatcher, logger, matchState.Engine.Tick(time.Now()))
	}
	mh.autoAck(ctx, matchState, dispatcher, logger)

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// autoAck synthesizes presentation acknowledgements for bots and disconnected
// players so the engine never waits the full timeout on a seat with nobody
// behind it.
func (mh *matchHandler) autoAck(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	eng := state.Engine
	if eng == nil {
		return
	}
	for i := 0; i < 16; i++ {
		if id := eng.PendingAckPlayer(); id != "" && !state.isConnectedHuman(id) {
			events, err := eng.AckAnimation(id)
			if err != nil {
				logger.Error("autoAck: animation ack failed for %s: %v", id, err)
				return
			}
			mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
			continue
		}
		if id := eng.PendingFlipAckTarget(); id != "" && !state.isConnectedHuman(id) {
			events, err := eng.AckFlipThree(id, true, "auto")
			if err != nil {
				logger.Error("autoAck: flip-three ack failed for %s: %v", id, err)
				return
			}
			mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
			continue
		}
		return
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots if a single human waited long enough.
	if state.Engine == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						identity := bot.GetBotIdentity(i)
						botID := identity.UserID
						state.Seats[i] = botID

						agent, err := bot.NewAgent(botID)
						if err != nil {
							logger.Error("Failed to create bot agent for %s: %v", botID, err)
						} else {
							state.Bots[botID] = agent
						}

						logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
						added = true
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Handle bot turns in-game.
	if state.Engine == nil || state.Engine.Phase() != app.PhaseTurn {
		state.BotWaitUntil = 0
		return
	}
	current := state.Engine.CurrentPlayer()
	if current == nil || current.IsHuman {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", current.ID, state.BotWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[current.ID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(current.ID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[current.ID] = agent
	}

	var events []app.Event
	var err error
	if agent.DecideHitStay(state.Engine.Game()) {
		events, err = state.Engine.Hit(current.ID)
	} else {
		events, err = state.Engine.Stay(current.ID)
	}
	if err != nil {
		logger.Warn("processBots: Bot %s action rejected: %v", current.ID, err)
		return
	}
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
	mh.autoAck(ctx, state, dispatcher, logger)
}

// PlayerStateView is the per-seat lobby snapshot row.
type PlayerStateView struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	DisplayName string `json:"display_name"`
	TotalScore  int    `json:"total_score"`
}

// MatchStateSnapshot is broadcast to every presence after joins and fills.
type MatchStateSnapshot struct {
	Seats     []string          `json:"seats"`
	OwnerSeat int               `json:"owner_seat"`
	Tick      int64             `json:"tick"`
	Players   []PlayerStateView `json:"players"`
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var playerStates []PlayerStateView
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotUsername(userId); name != "" {
			displayName = name
		}

		total := 0
		if state.Engine != nil {
			if p := state.Engine.Game().PlayerByID(userId); p != nil {
				total = p.TotalScore
			}
		}

		playerStates = append(playerStates, PlayerStateView{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			DisplayName: displayName,
			TotalScore:  total,
		})
	}

	snapshot := MatchStateSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   playerStates,
	}
	bytes, _ := json.Marshal(snapshot)
	dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true)
}

func (mh *matchHandler) senderSeat(state *MatchState, userID string) int {
	for i, seatUserId := range state.Seats {
		if seatUserId == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := mh.senderSeat(state, senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Engine != nil {
		logger.Warn("StartGame: Game already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < state.Cfg.MinPlayers {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", activeCount, state.Cfg.MinPlayers)
		return
	}

	var players []*domain.Player
	for _, userId := range state.Seats {
		if userId == "" {
			continue
		}
		name := userId
		if p, exists := state.Presences[userId]; exists {
			name = p.GetUsername()
		} else if n := bot.GetBotUsername(userId); n != "" {
			name = n
		}
		players = append(players, domain.NewPlayer(userId, name, len(players), !isBotUserId(userId)))
	}

	state.Engine = app.NewEngine(state.Cfg, players, nil, slog.Default(), nil)

	events, err := state.Engine.StartGame()
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		state.Engine = nil
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
	mh.autoAck(ctx, state, dispatcher, logger)

	logger.Info("StartGame: Game started with %d players.", activeCount)
}

func (mh *matchHandler) handleTurnAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, hit bool) {
	senderID := msg.GetUserId()
	if state.Engine == nil {
		logger.Warn("handleTurnAction: Game not started.")
		return
	}

	var events []app.Event
	var err error
	if hit {
		events, err = state.Engine.Hit(senderID)
	} else {
		events, err = state.Engine.Stay(senderID)
	}
	if err != nil {
		// "Not yet" is an expected race with resolution, not a fault.
		if err == app.ErrNotYet {
			logger.Debug("handleTurnAction: %s asked too early: %v", senderID, err)
			return
		}
		logger.Warn("handleTurnAction: User %s rejected: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleSelectTarget(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Engine == nil {
		logger.Warn("handleSelectTarget: Game not started.")
		return
	}

	var request SelectTargetRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleSelectTarget: Failed to unmarshal SelectTargetRequest: %v", err)
		return
	}

	events, err := state.Engine.SelectTarget(senderID, request.CardKind, request.TargetID)
	if err != nil {
		logger.Warn("handleSelectTarget: User %s rejected: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
	mh.autoAck(ctx, state, dispatcher, logger)
}

func (mh *matchHandler) handleAckAnimation(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Engine == nil {
		return
	}
	events, err := state.Engine.AckAnimation(msg.GetUserId())
	if err != nil {
		logger.Warn("handleAckAnimation: %v", err)
		return
	}
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleAckFlipThree(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Engine == nil {
		return
	}
	var request AckFlipThreeRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleAckFlipThree: Failed to unmarshal AckFlipThreeRequest: %v", err)
		return
	}
	events, err := state.Engine.AckFlipThree(msg.GetUserId(), request.Completed, request.Reason)
	if err != nil {
		logger.Warn("handleAckFlipThree: %v", err)
		return
	}
	mh.handleEngineEvents(ctx, state, dispatcher, logger, events)
}

// handleEngineEvents broadcasts engine events and applies their side effects
// on the match lifecycle (settlement, returning to the lobby).
func (mh *matchHandler) handleEngineEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)

		if ev.Kind != app.EventGameEnd {
			continue
		}
		p, ok := ev.Payload.(app.GameEndPayload)
		if !ok {
			continue
		}

		// Settle the winner's payout; bots do not hold wallets.
		if state.Economy != nil && p.WinnerID != "" && !isBotUserId(p.WinnerID) {
			update := ports.WalletUpdate{
				UserID: p.WinnerID,
				Amount: state.Cfg.WinnerPayout,
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "game_settlement",
				},
			}
			if err := state.Economy.UpdateBalances(ctx, []ports.WalletUpdate{update}); err != nil {
				logger.Error("Failed to settle winner payout: %v", err)
			}
		}

		state.Engine = nil
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent dispatches one engine event to the match.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	bytes, err := json.Marshal(EventEnvelope{Kind: ev.Kind, Payload: ev.Payload})
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients exist but none are connected (bots); the
		// message must not leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(OpGameEvent, bytes, recipients, nil, true)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Engine != nil {
		phase = "playing"
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "flipseven",
		Phase: phase,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
