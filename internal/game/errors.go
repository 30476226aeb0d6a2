package game

// Code identifies a category of rejected request. Every rejection is
// recoverable and local to the single inbound request that caused it: the
// acting connection receives one error event and shared state is untouched.
type Code string

const (
	CodeUnknownConnection  Code = "unknownConnection"
	CodeNotYourTurn        Code = "notYourTurn"
	CodeWrongPhase         Code = "wrongPhase"
	CodeInvalidIndex       Code = "invalidIndex"
	CodeColorMismatch      Code = "colorMismatch"
	CodeDescendingValue    Code = "descendingValue"
	CodeInvalidPile        Code = "invalidPile"
	CodeEmptyDeck          Code = "emptyDeck"
	CodeReplayOwnDiscard   Code = "replayOwnDiscard"
	CodeNoAvailableSession Code = "noAvailableSession"
	CodeReconnectRejected  Code = "reconnectRejected"
)

// MoveError is a rejected request. The message is what the client sees.
type MoveError struct {
	Code    Code
	Message string
}

func (e *MoveError) Error() string { return e.Message }

var (
	ErrUnknownConnection  = &MoveError{CodeUnknownConnection, "player not recognized"}
	ErrNotYourTurn        = &MoveError{CodeNotYourTurn, "it's not your turn"}
	ErrWrongPhase         = &MoveError{CodeWrongPhase, "invalid move for the current game phase"}
	ErrInvalidIndex       = &MoveError{CodeInvalidIndex, "invalid card index"}
	ErrColorMismatch      = &MoveError{CodeColorMismatch, "a card may only be played on the expedition of its own color"}
	ErrDescendingValue    = &MoveError{CodeDescendingValue, "card value must be higher than the last card on the expedition"}
	ErrInvalidPile        = &MoveError{CodeInvalidPile, "invalid or empty discard pile"}
	ErrEmptyDeck          = &MoveError{CodeEmptyDeck, "deck is empty"}
	ErrReplayOwnDiscard   = &MoveError{CodeReplayOwnDiscard, "you cannot draw the card you just discarded this turn"}
	ErrNoAvailableSession = &MoveError{CodeNoAvailableSession, "no available games to join"}
	ErrReconnectRejected  = &MoveError{CodeReconnectRejected, "reconnect rejected"}
)
