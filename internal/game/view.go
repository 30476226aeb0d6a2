package game

import (
	"github.com/google/uuid"

	"github.com/Adam-D-Lewis/lost-cities/internal/engine"
)

// GameStatePayload is the per-player, opponent-redacted projection of a
// session, pushed after every state-changing event. The opponent's hand has
// no field at all; only their expeditions and scores are visible.
type GameStatePayload struct {
	CurrentTurn          uuid.UUID                      `json:"currentTurn"`
	GamePhase            Phase                          `json:"gamePhase"`
	Hand                 []engine.Card                  `json:"hand"`
	PlayerExpeditions    map[engine.Color][]engine.Card `json:"playerExpeditions"`
	OpponentExpeditions  map[engine.Color][]engine.Card `json:"opponentExpeditions"`
	DiscardPiles         map[engine.Color][]engine.Card `json:"discardPiles"`
	DeckCount            int                            `json:"deckCount"`
	PlayerScore          int                            `json:"playerScore"`
	PlayerScoreDetails   map[engine.Color]int           `json:"playerScoreDetails"`
	OpponentScore        int                            `json:"opponentScore"`
	OpponentScoreDetails map[engine.Color]int           `json:"opponentScoreDetails"`
	PlayerName           string                         `json:"playerName"`
	OpponentName         string                         `json:"opponentName"`
}

// ViewFor builds the projection from forPlayer's perspective. Assumes Mu is
// held.
//
// The payload is handed to the transport, which serializes it on its own
// goroutine after Mu has been released, so every slice and map is deep-copied
// here: the projection must never alias live session state.
func (s *Session) ViewFor(forPlayer uuid.UUID) GameStatePayload {
	p := s.players[forPlayer]
	opponent := s.opponentOf(forPlayer)

	playerScore, playerDetails := engine.ScoreExpeditions(p.Expeditions)

	view := GameStatePayload{
		CurrentTurn:        s.currentTurn,
		GamePhase:          s.phase,
		Hand:               copyCards(p.Hand),
		PlayerExpeditions:  copyPiles(p.Expeditions),
		DiscardPiles:       copyPiles(s.discards),
		DeckCount:          len(s.deck),
		PlayerScore:        playerScore,
		PlayerScoreDetails: playerDetails,
		PlayerName:         p.Name,
		OpponentName:       "Opponent",
	}
	if opponent != nil {
		opponentScore, opponentDetails := engine.ScoreExpeditions(opponent.Expeditions)
		view.OpponentExpeditions = copyPiles(opponent.Expeditions)
		view.OpponentScore = opponentScore
		view.OpponentScoreDetails = opponentDetails
		view.OpponentName = opponent.Name
	} else {
		view.OpponentExpeditions = emptyPiles()
		_, view.OpponentScoreDetails = engine.ScoreExpeditions(nil)
	}
	return view
}

func copyCards(cards []engine.Card) []engine.Card {
	out := make([]engine.Card, len(cards))
	copy(out, cards)
	return out
}

func copyPiles(piles map[engine.Color][]engine.Card) map[engine.Color][]engine.Card {
	out := make(map[engine.Color][]engine.Card, len(piles))
	for color, cards := range piles {
		out[color] = copyCards(cards)
	}
	return out
}
