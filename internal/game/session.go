// Package game is the authoritative core of the expedition server: the
// session state machine, the session/connection registry, move validation,
// the connection lifecycle, and the per-player state projection. It talks to
// clients only through the Transport boundary.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Adam-D-Lewis/lost-cities/internal/cache"
	"github.com/Adam-D-Lewis/lost-cities/internal/engine"
)

// MaxPlayers is the number of seats in a session.
const MaxPlayers = 2

// Phase is the sub-step of a turn the current player must complete.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseSelectCard Phase = "selectCard"
	PhaseDrawCard   Phase = "drawCard"
	PhaseTerminal   Phase = "terminal"
)

// DiscardRecord remembers the most recent discard so the same player cannot
// immediately reclaim that exact card. It is cleared by the next successful
// draw, whichever pile it comes from.
type DiscardRecord struct {
	PlayerID uuid.UUID
	Card     engine.Card
	Pile     engine.Color
}

// Session is one two-player game instance from creation to teardown.
//
// Mu serializes every read-modify-write on the session: the hub locks it
// before dispatching a move, and every method below that touches state
// assumes the lock is held. Different sessions proceed in parallel.
type Session struct {
	ID     uuid.UUID
	HostID uuid.UUID

	Mu sync.Mutex

	players     map[uuid.UUID]*Player
	order       []uuid.UUID // join order; fixed two-player rotation
	deck        []engine.Card
	discards    map[engine.Color][]engine.Card
	currentTurn uuid.UUID
	phase       Phase
	lastDiscard *DiscardRecord

	// Delivery callbacks, set by the hub at creation. broadcast fans out to
	// every connection in the session; sendToConn targets one connection.
	broadcast  func(ev EventType, payload interface{})
	sendToConn func(connID uuid.UUID, ev EventType, payload interface{})

	log         *logrus.Entry
	historian   *cache.Historian
	actionIndex int
}

// NewSession creates a session in the waiting phase with the host seated.
func NewSession(hostName string, hostConnID uuid.UUID, log *logrus.Logger, historian *cache.Historian) *Session {
	host := newPlayer(hostName, hostConnID)
	s := &Session{
		ID:        uuid.New(),
		HostID:    host.ID,
		players:   map[uuid.UUID]*Player{host.ID: host},
		order:     []uuid.UUID{host.ID},
		discards:  emptyPiles(),
		phase:     PhaseWaiting,
		historian: historian,
	}
	s.log = log.WithField("game", s.ID)
	return s
}

// addJoiner seats the second player. Assumes Mu is held.
func (s *Session) addJoiner(name string, connID uuid.UUID) *Player {
	p := newPlayer(name, connID)
	s.players[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// Start deals the opening hands and begins play. Called once, when the second
// player joins. Assumes Mu is held.
func (s *Session) Start(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	deck := engine.NewShuffledDeck(rng)
	for _, id := range s.order {
		hand, rest, err := engine.Deal(deck, engine.HandSize)
		if err != nil {
			s.log.WithError(err).Error("opening deal failed")
			return
		}
		s.players[id].Hand = engine.SortHand(hand)
		deck = rest
	}
	s.deck = deck
	s.currentTurn = s.order[rng.Intn(len(s.order))]
	s.phase = PhaseSelectCard

	s.log.WithField("firstTurn", s.currentTurn).Info("game started")
	s.logAction(uuid.Nil, "gameStarted", map[string]interface{}{"deckCount": len(s.deck)})
	s.fire(EventGameStarted, GameStartedPayload{CurrentTurn: s.currentTurn})
	s.broadcastState()
}

// checkTurn validates phase then turn ownership. Assumes Mu is held.
func (s *Session) checkTurn(actorID uuid.UUID, want Phase) *MoveError {
	if s.phase != want {
		return ErrWrongPhase
	}
	if s.currentTurn != actorID {
		return ErrNotYourTurn
	}
	return nil
}

// PlayCard moves the indexed hand card onto its expedition. Assumes Mu is
// held. On any validation failure the session is left untouched.
func (s *Session) PlayCard(actorID uuid.UUID, cardIndex int, target engine.Color) error {
	if err := s.checkTurn(actorID, PhaseSelectCard); err != nil {
		return err
	}
	p := s.players[actorID]
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return ErrInvalidIndex
	}
	card := p.Hand[cardIndex]
	if card.Color != target {
		return ErrColorMismatch
	}
	// Numbered cards must strictly exceed the last numbered card played.
	// Wagers are transparent to the check: a wager on top blocks nothing,
	// and a wager play onto a numbered expedition fails the same comparison.
	expedition := p.Expeditions[card.Color]
	if n := len(expedition); n > 0 {
		last := expedition[n-1]
		if !last.IsWager() && card.Value <= last.Value {
			return ErrDescendingValue
		}
	}

	p.Hand = append(p.Hand[:cardIndex], p.Hand[cardIndex+1:]...)
	p.Expeditions[card.Color] = append(expedition, card)
	s.phase = PhaseDrawCard

	s.logAction(actorID, "cardPlayed", map[string]interface{}{"card": card, "target": card.Color})
	s.fire(EventCardPlayed, CardPlayedPayload{PlayerID: actorID, Card: card, Target: card.Color})
	s.broadcastState()
	return nil
}

// DiscardCard moves the indexed hand card onto the discard pile of its own
// color. The requested pile color is accepted from the wire but not trusted.
// Assumes Mu is held.
func (s *Session) DiscardCard(actorID uuid.UUID, cardIndex int, _ engine.Color) error {
	if err := s.checkTurn(actorID, PhaseSelectCard); err != nil {
		return err
	}
	p := s.players[actorID]
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return ErrInvalidIndex
	}
	card := p.Hand[cardIndex]

	p.Hand = append(p.Hand[:cardIndex], p.Hand[cardIndex+1:]...)
	s.discards[card.Color] = append(s.discards[card.Color], card)
	s.lastDiscard = &DiscardRecord{PlayerID: actorID, Card: card, Pile: card.Color}
	s.phase = PhaseDrawCard

	s.logAction(actorID, "cardDiscarded", map[string]interface{}{"card": card})
	s.fire(EventCardDiscarded, CardDiscardedPayload{PlayerID: actorID, Card: card, Color: card.Color})
	s.broadcastState()
	return nil
}

// DrawCard completes the turn. It returns ended=true when this draw exhausted
// the deck, in which case final scores have been broadcast, the phase is
// terminal, and the caller must tear the session down. Assumes Mu is held.
func (s *Session) DrawCard(actorID uuid.UUID, source DrawSource, pile engine.Color) (ended bool, err error) {
	if merr := s.checkTurn(actorID, PhaseDrawCard); merr != nil {
		return false, merr
	}
	p := s.players[actorID]

	var card engine.Card
	switch source {
	case DrawFromDeck:
		// Defensive: turn order should never let play continue past an
		// empty deck.
		if len(s.deck) == 0 {
			return false, ErrEmptyDeck
		}
		card = s.deck[len(s.deck)-1]
		s.deck = s.deck[:len(s.deck)-1]
	case DrawFromDiscard:
		stack, ok := s.discards[pile]
		if !ok || len(stack) == 0 {
			return false, ErrInvalidPile
		}
		top := stack[len(stack)-1]
		if ld := s.lastDiscard; ld != nil && ld.PlayerID == actorID && ld.Pile == pile && top == ld.Card {
			return false, ErrReplayOwnDiscard
		}
		card = top
		s.discards[pile] = stack[:len(stack)-1]
	default:
		return false, ErrInvalidPile
	}

	p.Hand = engine.SortHand(append(p.Hand, card))
	// A completed draw ends the one-turn replay restriction regardless of
	// which pile it came from.
	s.lastDiscard = nil

	s.logAction(actorID, "cardDrawn", map[string]interface{}{"source": source, "pile": pile})
	s.fire(EventCardDrawn, CardDrawnPayload{PlayerID: actorID, Source: source, Color: pile})

	if len(s.deck) == 0 {
		s.finish()
		return true, nil
	}

	s.currentTurn = s.nextTurn()
	s.phase = PhaseSelectCard
	s.fire(EventTurnChanged, TurnChangedPayload{CurrentTurn: s.currentTurn, GamePhase: s.phase})
	s.broadcastState()
	return false, nil
}

// finish computes and broadcasts final scores and marks the session terminal.
// Assumes Mu is held.
func (s *Session) finish() {
	scores := make(map[string]ScoreSummary, len(s.players))
	for id, p := range s.players {
		total, details := engine.ScoreExpeditions(p.Expeditions)
		scores[id.String()] = ScoreSummary{Total: total, Details: details}
	}
	s.phase = PhaseTerminal

	s.log.Info("game over, deck exhausted")
	s.logAction(uuid.Nil, "gameOver", map[string]interface{}{"scores": scores})
	s.fire(EventGameOver, GameOverPayload{Scores: scores})
}

// nextTurn returns the other player's id. Assumes Mu is held.
func (s *Session) nextTurn() uuid.UUID {
	for i, id := range s.order {
		if id == s.currentTurn {
			return s.order[(i+1)%len(s.order)]
		}
	}
	return s.currentTurn
}

// Disconnect clears the player's connection, leaving all game state intact so
// the player can reconnect. It reports whether every seat is now disconnected,
// in which case the caller should tear the session down. Assumes Mu is held.
func (s *Session) Disconnect(playerID uuid.UUID) (allDisconnected bool) {
	p, ok := s.players[playerID]
	if !ok || !p.Connected() {
		return s.countConnected() == 0
	}
	p.ConnID = uuid.Nil
	s.log.WithField("player", playerID).Info("player disconnected")
	s.logAction(playerID, "playerDisconnected", nil)

	if other := s.opponentOf(playerID); other != nil && other.Connected() {
		s.sendTo(other.ConnID, EventOpponentDisconnected, OpponentDisconnectedPayload{
			PlayerName: p.Name,
			Message:    fmt.Sprintf("%s has disconnected. Waiting for them to reconnect.", p.Name),
		})
	}
	return s.countConnected() == 0
}

// Reconnect rebinds the durable player to a new connection and pushes a full
// state snapshot. A seat still bound to a live connection rejects the attempt;
// identity is a bearer token and there is no takeover. Assumes Mu is held.
func (s *Session) Reconnect(playerID, connID uuid.UUID, name string) error {
	p, ok := s.players[playerID]
	if !ok {
		return ErrReconnectRejected
	}
	if p.Connected() {
		return ErrReconnectRejected
	}
	p.ConnID = connID
	if name != "" {
		p.Name = name
	}
	s.log.WithFields(logrus.Fields{"player": playerID, "conn": connID}).Info("player reconnected")
	s.logAction(playerID, "playerReconnected", nil)

	s.sendTo(connID, EventReconnected, ReconnectedPayload{
		GameID:   s.ID,
		PlayerID: playerID,
		Message:  "reconnected to game",
	})
	s.sendTo(connID, EventGameState, s.ViewFor(playerID))

	if other := s.opponentOf(playerID); other != nil && other.Connected() {
		s.sendTo(other.ConnID, EventPlayerReconnected, PlayerReconnectedPayload{
			PlayerID:   playerID,
			PlayerName: p.Name,
		})
	}
	return nil
}

// opponentOf returns the other seated player, or nil. Assumes Mu is held.
func (s *Session) opponentOf(playerID uuid.UUID) *Player {
	for id, p := range s.players {
		if id != playerID {
			return p
		}
	}
	return nil
}

func (s *Session) countConnected() int {
	n := 0
	for _, p := range s.players {
		if p.Connected() {
			n++
		}
	}
	return n
}

// connIDs returns the connections of all currently connected players.
// Assumes Mu is held.
func (s *Session) connIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.players))
	for _, p := range s.players {
		if p.Connected() {
			ids = append(ids, p.ConnID)
		}
	}
	return ids
}

// broadcastState pushes a fresh per-player projection to every connected
// player. Assumes Mu is held.
func (s *Session) broadcastState() {
	if s.sendToConn == nil {
		return
	}
	for id, p := range s.players {
		if p.Connected() {
			s.sendToConn(p.ConnID, EventGameState, s.ViewFor(id))
		}
	}
}

// fire broadcasts an event to every connection in the session. Assumes Mu is
// held.
func (s *Session) fire(ev EventType, payload interface{}) {
	if s.broadcast == nil {
		s.log.WithField("event", ev).Warn("broadcast callback is nil, dropping event")
		return
	}
	s.broadcast(ev, payload)
}

// sendTo delivers an event to a single connection. Assumes Mu is held.
func (s *Session) sendTo(connID uuid.UUID, ev EventType, payload interface{}) {
	if s.sendToConn == nil {
		s.log.WithField("event", ev).Warn("send callback is nil, dropping event")
		return
	}
	s.sendToConn(connID, ev, payload)
}

// logAction appends the action to the historian stream, fire-and-forget.
// Assumes Mu is held for the index increment.
func (s *Session) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	if s.historian == nil {
		return
	}
	s.actionIndex++
	record := cache.GameActionRecord{
		GameID:      s.ID,
		ActionIndex: s.actionIndex,
		ActorID:     actorID,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.historian.Publish(ctx, rec); err != nil {
			s.log.WithError(err).WithField("actionIndex", rec.ActionIndex).Warn("failed publishing action record")
		}
	}(record)
}
