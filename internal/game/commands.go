package game

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Adam-D-Lewis/lost-cities/internal/engine"
)

// DrawSource names where a drawCard request takes its card from.
type DrawSource string

const (
	DrawFromDeck    DrawSource = "deck"
	DrawFromDiscard DrawSource = "discard"
)

// Command is the closed set of inbound client requests. Decoding an event
// name into a concrete variant up front means the hub's dispatch switch is
// exhaustive at compile time.
type Command interface{ isCommand() }

// CreateGame opens a new session with the sender as host.
type CreateGame struct {
	PlayerName string `json:"playerName"`
}

// JoinGame joins the first session with an open seat.
type JoinGame struct {
	PlayerName string `json:"playerName"`
}

// PlayCard moves the indexed hand card onto the target expedition.
type PlayCard struct {
	CardIndex int          `json:"cardIndex"`
	Target    engine.Color `json:"target"`
}

// DiscardCard moves the indexed hand card onto a discard pile.
type DiscardCard struct {
	CardIndex int          `json:"cardIndex"`
	Color     engine.Color `json:"color"`
}

// DrawCard completes the turn by drawing from the deck or a discard pile.
type DrawCard struct {
	Source DrawSource   `json:"source"`
	Color  engine.Color `json:"color,omitempty"`
}

// ReconnectGame rebinds a durable player identity to a new connection.
type ReconnectGame struct {
	GameID     uuid.UUID `json:"gameId"`
	PlayerID   uuid.UUID `json:"playerId"`
	PlayerName string    `json:"playerName,omitempty"`
}

func (CreateGame) isCommand()    {}
func (JoinGame) isCommand()      {}
func (PlayCard) isCommand()      {}
func (DiscardCard) isCommand()   {}
func (DrawCard) isCommand()      {}
func (ReconnectGame) isCommand() {}

// ParseCommand decodes a named inbound event into its command variant.
func ParseCommand(event string, data json.RawMessage) (Command, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	switch event {
	case "createGame":
		var c CreateGame
		err := json.Unmarshal(data, &c)
		return c, err
	case "joinGame":
		var c JoinGame
		err := json.Unmarshal(data, &c)
		return c, err
	case "playCard":
		var c PlayCard
		err := json.Unmarshal(data, &c)
		return c, err
	case "discardCard":
		var c DiscardCard
		err := json.Unmarshal(data, &c)
		return c, err
	case "drawCard":
		var c DrawCard
		err := json.Unmarshal(data, &c)
		return c, err
	case "reconnectGame":
		var c ReconnectGame
		err := json.Unmarshal(data, &c)
		return c, err
	default:
		return nil, fmt.Errorf("unknown event %q", event)
	}
}
