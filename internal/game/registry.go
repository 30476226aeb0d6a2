package game

import (
	"sync"

	"github.com/google/uuid"
)

// Binding associates a live transport connection with its session and the
// durable player identity behind it. Bindings exist only while the connection
// is live: they are removed on disconnect and recreated on reconnect.
type Binding struct {
	SessionID uuid.UUID
	PlayerID  uuid.UUID
}

// Registry owns the process-wide maps from session id to session and from
// connection id to binding. It has its own lock, independent of any session's:
// joins and disconnects touch it from arbitrary sessions concurrently.
//
// Lock ordering is registry before session, never the reverse. JoinFirstOpen
// acquires a candidate session's lock while holding the registry lock, so the
// open-seat check and the seat fill are atomic against a concurrent join.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	order    []uuid.UUID // creation order, for first-open matching
	bindings map[uuid.UUID]Binding
}

// NewRegistry creates an empty registry. One is constructed at process start
// and all session lifecycle flows through it.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		bindings: make(map[uuid.UUID]Binding),
	}
}

// Insert registers a freshly created session.
func (r *Registry) Insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
}

// Get looks up a session by id.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// JoinFirstOpen seats a player in the first session (by creation order) with
// an open seat, binds the connection, and returns the session, the new player
// and the host's display name. Fails with ErrNoAvailableSession when every
// session is full or already playing.
func (r *Registry) JoinFirstOpen(name string, connID uuid.UUID) (*Session, *Player, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		s, ok := r.sessions[id]
		if !ok {
			continue
		}
		s.Mu.Lock()
		if s.phase != PhaseWaiting || len(s.players) >= MaxPlayers {
			s.Mu.Unlock()
			continue
		}
		p := s.addJoiner(name, connID)
		hostName := s.players[s.HostID].Name
		s.Mu.Unlock()

		r.bindings[connID] = Binding{SessionID: s.ID, PlayerID: p.ID}
		return s, p, hostName, nil
	}
	return nil, nil, "", ErrNoAvailableSession
}

// Bind records a connection's session and player identity.
func (r *Registry) Bind(connID, sessionID, playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[connID] = Binding{SessionID: sessionID, PlayerID: playerID}
}

// Unbind drops a connection's binding, if any.
func (r *Registry) Unbind(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, connID)
}

// Lookup resolves a connection to its binding.
func (r *Registry) Lookup(connID uuid.UUID) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[connID]
	return b, ok
}

// Remove deletes a session and every binding pointing into it.
func (r *Registry) Remove(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for connID, b := range r.bindings {
		if b.SessionID == sessionID {
			delete(r.bindings, connID)
		}
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
