package game

import "github.com/google/uuid"

// Transport is the delivery boundary the game core requires from the
// messaging layer: a per-connection send, a per-session broadcast, and
// session-scoped connection grouping. The core never blocks on delivery;
// sends are fire-and-forget after state has been committed.
type Transport interface {
	SendTo(connID uuid.UUID, event EventType, payload interface{})
	SendToSession(sessionID uuid.UUID, event EventType, payload interface{})
	JoinSession(connID, sessionID uuid.UUID)
	LeaveSession(connID, sessionID uuid.UUID)
}
