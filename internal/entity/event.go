package entity

import "time"

type EventKind string

const (
	EventMove    EventKind = "move"
	EventBotMove EventKind = "bot_move"
	EventJump    EventKind = "jump"
	EventRestart EventKind = "restart"
	EventReset   EventKind = "reset"
	EventMode    EventKind = "mode"
	EventSide    EventKind = "side"
	EventNames   EventKind = "names"
	EventClosed  EventKind = "closed"
)

// SessionEvent is published after every accepted state change of a session.
type SessionEvent struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
	View View      `json:"session"`
}
