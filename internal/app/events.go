package app

import "flipseven/internal/domain"

// EventKind identifies engine events published to the presentation layer.
type EventKind string

const (
	EventGameStart       EventKind = "game_start"
	EventGameEnd         EventKind = "game_end"
	EventRoundStart      EventKind = "round_start"
	EventRoundEnd        EventKind = "round_end"
	EventTurnStarted     EventKind = "turn_started"
	EventCardDealt       EventKind = "card_dealt"
	EventCardDrawn       EventKind = "card_drawn"
	EventPlayerBust      EventKind = "player_bust"
	EventPlayerFlip7     EventKind = "player_flip7"
	EventPlayerFrozen    EventKind = "player_frozen"
	EventPlayerStayed    EventKind = "player_stay_completed"
	EventTargetNeeded    EventKind = "action_card_target_needed"
	EventFreezeUsed      EventKind = "freeze_card_used"
	EventFlipThreeUsed   EventKind = "flip_three_card_used"
	EventSecondChanceHit EventKind = "second_chance_activated"
	EventSecondChanceGiven EventKind = "second_chance_given"
)

// Event is an engine event with optional targeted recipients; empty
// Recipients means broadcast. Every card in this game is public, so almost
// everything broadcasts.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string
}

type GameStartPayload struct {
	GameID      string   `json:"game_id"`
	PlayerIDs   []string `json:"player_ids"`
	TargetScore int      `json:"target_score"`
}

type GameEndPayload struct {
	WinnerID string         `json:"winner_id"`
	Totals   map[string]int `json:"totals"`
}

type RoundStartPayload struct {
	Round      int `json:"round"`
	DealerSeat int `json:"dealer_seat"`
}

// PlayerScore is one row of the end-of-round summary.
type PlayerScore struct {
	PlayerID   string `json:"player_id"`
	RoundScore int    `json:"round_score"`
	TotalScore int    `json:"total_score"`
}

type RoundEndPayload struct {
	Round  int           `json:"round"`
	Scores []PlayerScore `json:"scores"`
}

type TurnStartedPayload struct {
	PlayerID string `json:"player_id"`
}

type CardDealtPayload struct {
	Card          domain.Card `json:"card"`
	PlayerID      string      `json:"player_id"`
	IsInitialDeal bool        `json:"is_initial_deal"`
}

type CardDrawnPayload struct {
	Card     domain.Card `json:"card"`
	PlayerID string      `json:"player_id"`
}

type PlayerBustPayload struct {
	PlayerID string      `json:"player_id"`
	Card     domain.Card `json:"card"`
}

type PlayerFlip7Payload struct {
	PlayerID string `json:"player_id"`
}

type PlayerFrozenPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerStayedPayload struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
}

type TargetNeededPayload struct {
	Card        domain.Card `json:"card"`
	SourceID    string      `json:"source_id"`
	EligibleIDs []string    `json:"eligible_ids"`
}

type FreezeUsedPayload struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

type FlipThreeUsedPayload struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

type SecondChanceActivatedPayload struct {
	PlayerID  string        `json:"player_id"`
	Discarded []domain.Card `json:"discarded"`
}

type SecondChanceGivenPayload struct {
	GiverID     string `json:"giver_id"`
	RecipientID string `json:"recipient_id"`
}

func (e *Engine) emit(kind EventKind, payload any) {
	e.events = append(e.events, Event{Kind: kind, Payload: payload})
}

// drain returns and clears the buffered events of the current call.
func (e *Engine) drain() []Event {
	out := e.events
	e.events = nil
	return out
}
