// Package ws is the WebSocket transport: it accepts connections, frames
// messages in a JSON envelope, groups connections into per-session rooms, and
// implements the game core's Transport delivery boundary. It knows nothing
// about game rules.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Adam-D-Lewis/lost-cities/internal/game"
)

// writeTimeout bounds a single outbound write.
const writeTimeout = 5 * time.Second

// sendBuffer is the per-client outbound queue depth. A client that falls this
// far behind starts dropping events and will resync from the next gameState.
const sendBuffer = 32

// EventHandler consumes connection lifecycle notifications and inbound
// events. The game hub implements it.
type EventHandler interface {
	HandleConnect(connID uuid.UUID)
	HandleDisconnect(connID uuid.UUID)
	HandleEvent(connID uuid.UUID, event string, data json.RawMessage)
}

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Event game.EventType `json:"event"`
	Data  interface{}    `json:"data,omitempty"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan outEnvelope
}

// Server accepts WebSocket connections and delivers events to them. It
// implements game.Transport.
type Server struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	rooms   map[uuid.UUID]map[uuid.UUID]*client

	handler EventHandler
	log     *logrus.Logger
}

// NewServer creates a transport with no connections. SetHandler must be
// called before serving.
func NewServer(log *logrus.Logger) *Server {
	return &Server{
		clients: make(map[uuid.UUID]*client),
		rooms:   make(map[uuid.UUID]map[uuid.UUID]*client),
		log:     log,
	}
}

// SetHandler wires the consumer of inbound events.
func (s *Server) SetHandler(h EventHandler) { s.handler = h }

// ServeHTTP upgrades the request and pumps messages until the connection
// closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The game client is served from the same origin in production, but
		// local development runs the client from file:// and other ports.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.WithError(err).Debug("websocket accept failed")
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan outEnvelope, sendBuffer),
	}
	s.register(c)
	s.log.WithField("conn", c.id).Info("connection opened")
	s.handler.HandleConnect(c.id)

	ctx := r.Context()
	go s.writeLoop(ctx, c)
	s.readLoop(ctx, c)

	s.unregister(c)
	s.handler.HandleDisconnect(c.id)
	s.log.WithField("conn", c.id).Info("connection closed")
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	for {
		var env Envelope
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			return
		}
		if env.Event == "" {
			continue
		}
		s.handler.HandleEvent(c.id, env.Event, env.Data)
	}
}

func (s *Server) writeLoop(ctx context.Context, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, env)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
	for sessionID, room := range s.rooms {
		delete(room, c.id)
		if len(room) == 0 {
			delete(s.rooms, sessionID)
		}
	}
}

// SendTo delivers one event to one connection. Delivery is best-effort: a
// full queue drops the event rather than blocking the game core.
func (s *Server) SendTo(connID uuid.UUID, event game.EventType, payload interface{}) {
	s.mu.RLock()
	c, ok := s.clients[connID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	s.enqueue(c, outEnvelope{Event: event, Data: payload})
}

// SendToSession broadcasts one event to every connection in the session's
// room.
func (s *Server) SendToSession(sessionID uuid.UUID, event game.EventType, payload interface{}) {
	s.mu.RLock()
	room := s.rooms[sessionID]
	members := make([]*client, 0, len(room))
	for _, c := range room {
		members = append(members, c)
	}
	s.mu.RUnlock()

	env := outEnvelope{Event: event, Data: payload}
	for _, c := range members {
		s.enqueue(c, env)
	}
}

// JoinSession adds a connection to a session's broadcast room.
func (s *Server) JoinSession(connID, sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[connID]
	if !ok {
		return
	}
	room := s.rooms[sessionID]
	if room == nil {
		room = make(map[uuid.UUID]*client)
		s.rooms[sessionID] = room
	}
	room[connID] = c
}

// LeaveSession removes a connection from a session's broadcast room.
func (s *Server) LeaveSession(connID, sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[sessionID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(s.rooms, sessionID)
	}
}

func (s *Server) enqueue(c *client, env outEnvelope) {
	select {
	case c.send <- env:
	default:
		s.log.WithFields(logrus.Fields{"conn": c.id, "event": env.Event}).Warn("send queue full, dropping event")
	}
}
