package game

import (
	"github.com/google/uuid"

	"github.com/Adam-D-Lewis/lost-cities/internal/engine"
)

// EventType names an outbound event pushed to clients.
type EventType string

// The outbound event catalogue. gameState is always per-player and
// opponent-redacted; everything else is either a direct reply or a
// session-wide broadcast.
const (
	EventGameCreated          EventType = "gameCreated"
	EventGameJoined           EventType = "gameJoined"
	EventPlayerJoined         EventType = "playerJoined"
	EventGameStarted          EventType = "gameStarted"
	EventCardPlayed           EventType = "cardPlayed"
	EventCardDiscarded        EventType = "cardDiscarded"
	EventCardDrawn            EventType = "cardDrawn"
	EventTurnChanged          EventType = "turnChanged"
	EventGameState            EventType = "gameState"
	EventGameOver             EventType = "gameOver"
	EventReconnected          EventType = "reconnected"
	EventPlayerReconnected    EventType = "playerReconnected"
	EventOpponentDisconnected EventType = "opponentDisconnected"
	EventError                EventType = "error"
)

// GameCreatedPayload acknowledges createGame to the host.
type GameCreatedPayload struct {
	GameID   uuid.UUID `json:"gameId"`
	PlayerID uuid.UUID `json:"playerId"`
}

// GameJoinedPayload acknowledges joinGame to the joining player.
type GameJoinedPayload struct {
	GameID   uuid.UUID `json:"gameId"`
	PlayerID uuid.UUID `json:"playerId"`
	HostName string    `json:"hostName"`
}

// PlayerJoinedPayload tells the host who joined.
type PlayerJoinedPayload struct {
	PlayerID   uuid.UUID `json:"playerId"`
	PlayerName string    `json:"playerName"`
}

// GameStartedPayload announces the start of play and the opening turn.
type GameStartedPayload struct {
	CurrentTurn uuid.UUID `json:"currentTurn"`
}

// CardPlayedPayload announces a card moved from a hand to an expedition.
type CardPlayedPayload struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Card     engine.Card  `json:"card"`
	Target   engine.Color `json:"target"`
}

// CardDiscardedPayload announces a card moved from a hand to a discard pile.
type CardDiscardedPayload struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Card     engine.Card  `json:"card"`
	Color    engine.Color `json:"color"`
}

// CardDrawnPayload announces a completed draw. The drawn card itself is
// private; only the source is public.
type CardDrawnPayload struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Source   DrawSource   `json:"source"`
	Color    engine.Color `json:"color,omitempty"`
}

// TurnChangedPayload announces the turn passing to the other player.
type TurnChangedPayload struct {
	CurrentTurn uuid.UUID `json:"currentTurn"`
	GamePhase   Phase     `json:"gamePhase"`
}

// ScoreSummary is one player's final total with the per-color breakdown.
type ScoreSummary struct {
	Total   int                  `json:"total"`
	Details map[engine.Color]int `json:"details"`
}

// GameOverPayload carries the final scores, keyed by durable player id.
type GameOverPayload struct {
	Scores map[string]ScoreSummary `json:"scores"`
}

// ReconnectedPayload acknowledges a successful reconnect.
type ReconnectedPayload struct {
	GameID   uuid.UUID `json:"gameId"`
	PlayerID uuid.UUID `json:"playerId"`
	Message  string    `json:"message"`
}

// PlayerReconnectedPayload tells the opponent their counterpart is back.
type PlayerReconnectedPayload struct {
	PlayerID   uuid.UUID `json:"playerId"`
	PlayerName string    `json:"playerName"`
}

// OpponentDisconnectedPayload tells the remaining player their opponent
// dropped. The session stays alive awaiting a reconnect.
type OpponentDisconnectedPayload struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

// ErrorPayload is the single reply sent for any rejected request.
type ErrorPayload struct {
	Message string `json:"message"`
}
