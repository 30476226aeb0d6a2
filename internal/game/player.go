package game

import (
	"github.com/google/uuid"

	"github.com/Adam-D-Lewis/lost-cities/internal/engine"
)

// Player is one durable participant in a session. ID is minted when the
// player creates or joins the game and never changes; ConnID tracks the
// volatile transport connection and is uuid.Nil while disconnected.
type Player struct {
	ID          uuid.UUID
	Name        string
	ConnID      uuid.UUID
	Hand        []engine.Card
	Expeditions map[engine.Color][]engine.Card
}

func newPlayer(name string, connID uuid.UUID) *Player {
	return &Player{
		ID:          uuid.New(),
		Name:        name,
		ConnID:      connID,
		Hand:        []engine.Card{},
		Expeditions: emptyPiles(),
	}
}

// Connected reports whether the player currently has a live connection.
func (p *Player) Connected() bool { return p.ConnID != uuid.Nil }

// emptyPiles allocates one empty card stack per color.
func emptyPiles() map[engine.Color][]engine.Card {
	piles := make(map[engine.Color][]engine.Card, len(engine.ColorOrder))
	for _, color := range engine.ColorOrder {
		piles[color] = []engine.Card{}
	}
	return piles
}
