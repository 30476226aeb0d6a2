package game

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Adam-D-Lewis/lost-cities/internal/cache"
)

// Hub routes inbound transport events into the registry and session state
// machines. It owns the locking discipline: resolve the binding through the
// registry, release the registry, then lock the single session the event
// targets. Teardown decisions are computed under the session lock and applied
// after releasing it.
type Hub struct {
	registry  *Registry
	transport Transport
	historian *cache.Historian
	log       *logrus.Logger

	// seedFn provides the shuffle/first-turn seed for new games.
	seedFn func() int64
}

// NewHub wires the dispatcher. historian may be nil to disable action history.
func NewHub(registry *Registry, transport Transport, historian *cache.Historian, log *logrus.Logger) *Hub {
	return &Hub{
		registry:  registry,
		transport: transport,
		historian: historian,
		log:       log,
		seedFn:    func() int64 { return time.Now().UnixNano() },
	}
}

// HandleConnect is the transport's notification of a new connection. The
// connection stays anonymous until it creates, joins or reconnects to a game.
func (h *Hub) HandleConnect(connID uuid.UUID) {
	h.log.WithField("conn", connID).Debug("connection opened")
}

// HandleDisconnect applies the soft-disconnect policy: drop the binding, mark
// the player absent, notify the opponent, and destroy the session only once
// every player is disconnected.
func (h *Hub) HandleDisconnect(connID uuid.UUID) {
	binding, ok := h.registry.Lookup(connID)
	if !ok {
		h.log.WithField("conn", connID).Debug("unbound connection closed")
		return
	}
	h.registry.Unbind(connID)
	h.transport.LeaveSession(connID, binding.SessionID)
	s, ok := h.registry.Get(binding.SessionID)
	if !ok {
		return
	}

	s.Mu.Lock()
	allGone := s.Disconnect(binding.PlayerID)
	s.Mu.Unlock()

	if allGone {
		h.log.WithField("game", binding.SessionID).Info("all players disconnected, destroying session")
		h.registry.Remove(binding.SessionID)
	}
}

// HandleEvent decodes one inbound event and dispatches it. Every rejection
// results in exactly one error reply to the acting connection and no state
// change.
func (h *Hub) HandleEvent(connID uuid.UUID, event string, data json.RawMessage) {
	cmd, err := ParseCommand(event, data)
	if err != nil {
		h.log.WithFields(logrus.Fields{"conn": connID, "event": event}).WithError(err).Debug("rejected inbound event")
		h.transport.SendTo(connID, EventError, ErrorPayload{Message: "unrecognized request"})
		return
	}

	switch c := cmd.(type) {
	case CreateGame:
		h.createGame(connID, c)
	case JoinGame:
		h.joinGame(connID, c)
	case PlayCard:
		h.withSession(connID, func(s *Session, b Binding) (bool, error) {
			return false, s.PlayCard(b.PlayerID, c.CardIndex, c.Target)
		})
	case DiscardCard:
		h.withSession(connID, func(s *Session, b Binding) (bool, error) {
			return false, s.DiscardCard(b.PlayerID, c.CardIndex, c.Color)
		})
	case DrawCard:
		h.withSession(connID, func(s *Session, b Binding) (bool, error) {
			return s.DrawCard(b.PlayerID, c.Source, c.Color)
		})
	case ReconnectGame:
		h.reconnectGame(connID, c)
	}
}

func (h *Hub) createGame(connID uuid.UUID, c CreateGame) {
	name := c.PlayerName
	if name == "" {
		name = "Player 1"
	}
	s := NewSession(name, connID, h.log, h.historian)
	s.broadcast = func(ev EventType, payload interface{}) {
		h.transport.SendToSession(s.ID, ev, payload)
	}
	s.sendToConn = h.transport.SendTo

	h.registry.Insert(s)
	h.registry.Bind(connID, s.ID, s.HostID)
	h.transport.JoinSession(connID, s.ID)

	h.log.WithFields(logrus.Fields{"game": s.ID, "host": s.HostID, "conn": connID}).Info("game created")
	h.transport.SendTo(connID, EventGameCreated, GameCreatedPayload{GameID: s.ID, PlayerID: s.HostID})
}

func (h *Hub) joinGame(connID uuid.UUID, c JoinGame) {
	name := c.PlayerName
	if name == "" {
		name = "Player 2"
	}
	s, p, hostName, err := h.registry.JoinFirstOpen(name, connID)
	if err != nil {
		h.sendError(connID, err)
		return
	}
	h.transport.JoinSession(connID, s.ID)
	h.transport.SendTo(connID, EventGameJoined, GameJoinedPayload{GameID: s.ID, PlayerID: p.ID, HostName: hostName})

	h.log.WithFields(logrus.Fields{"game": s.ID, "player": p.ID, "conn": connID}).Info("player joined")

	s.Mu.Lock()
	if host := s.players[s.HostID]; host.Connected() {
		h.transport.SendTo(host.ConnID, EventPlayerJoined, PlayerJoinedPayload{PlayerID: p.ID, PlayerName: p.Name})
	}
	if len(s.players) == MaxPlayers {
		s.Start(h.seedFn())
	}
	s.Mu.Unlock()
}

func (h *Hub) reconnectGame(connID uuid.UUID, c ReconnectGame) {
	s, ok := h.registry.Get(c.GameID)
	if !ok {
		h.sendError(connID, ErrReconnectRejected)
		return
	}
	s.Mu.Lock()
	err := s.Reconnect(c.PlayerID, connID, c.PlayerName)
	s.Mu.Unlock()
	if err != nil {
		h.sendError(connID, err)
		return
	}
	h.registry.Bind(connID, s.ID, c.PlayerID)
	h.transport.JoinSession(connID, s.ID)
}

// withSession resolves the acting connection to its session, applies fn under
// the session lock, and handles the error reply and end-of-game teardown.
func (h *Hub) withSession(connID uuid.UUID, fn func(*Session, Binding) (ended bool, err error)) {
	binding, ok := h.registry.Lookup(connID)
	if !ok {
		h.sendError(connID, ErrUnknownConnection)
		return
	}
	s, ok := h.registry.Get(binding.SessionID)
	if !ok {
		h.sendError(connID, ErrUnknownConnection)
		return
	}

	s.Mu.Lock()
	ended, err := fn(s, binding)
	conns := s.connIDs()
	s.Mu.Unlock()

	if err != nil {
		h.sendError(connID, err)
		return
	}
	if ended {
		h.log.WithField("game", s.ID).Info("game ended, releasing session")
		h.registry.Remove(s.ID)
		for _, id := range conns {
			h.transport.LeaveSession(id, s.ID)
		}
	}
}

func (h *Hub) sendError(connID uuid.UUID, err error) {
	h.transport.SendTo(connID, EventError, ErrorPayload{Message: err.Error()})
}
