package session

import (
	"github.com/wricardo/wordgrid/game/engine"
)

// Event names as seen by clients.
const (
	EventStateUpdated = "state-updated"
	EventMoveApplied  = "move-applied"
	EventRackUpdated  = "rack-updated"
	EventTurnPassed   = "turn-passed"
	EventTimerTick    = "timer-tick"
	EventSessionOver  = "session-over"
	EventPlayerLeft   = "player-left"
)

// Event is one server-to-client message. An empty PlayerID addresses every
// client in Room; otherwise only that player receives it.
type Event struct {
	Name     string `json:"type"`
	Room     string `json:"room_code"`
	PlayerID string `json:"-"`
	Payload  any    `json:"payload"`
}

// Broadcast reports whether the event goes to the whole room.
func (e Event) Broadcast() bool {
	return e.PlayerID == ""
}

// Notifier delivers events to clients. Notify is called with the session lock
// held, so it must not block and must not call back into the Manager.
type Notifier interface {
	Notify(e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(e Event)

func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// Notifiers fans an event out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(e Event) {
	for _, n := range ns {
		n.Notify(e)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// StateUpdated is broadcast after every change of players, turn or phase.
type StateUpdated struct {
	Phase            engine.Phase `json:"phase"`
	Players          []PlayerView `json:"players"`
	TurnOwner        string       `json:"turn_owner,omitempty"`
	TurnOwnerID      string       `json:"-"`
	SecondsRemaining int          `json:"seconds_remaining"`
}

// MoveApplied is broadcast when a play is accepted.
type MoveApplied struct {
	X           int                `json:"x"`
	Y           int                `json:"y"`
	Orientation engine.Orientation `json:"orientation"`
	Word        string             `json:"word"`
	Points      int                `json:"points"`
	IsBingo     bool               `json:"is_bingo"`
	PlayerName  string             `json:"player_name"`
}

// RackUpdated is sent to a single player when their rack changes.
type RackUpdated struct {
	Rack []string `json:"rack"`
}

// TurnPassed is broadcast on a pass. Forced is set when the turn timer ran out.
type TurnPassed struct {
	PlayerName string `json:"player_name"`
	Forced     bool   `json:"forced"`
}

// TimerTick is broadcast every tick interval while a turn is running.
type TimerTick struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// SessionOver is broadcast exactly once, when a player reaches the win score.
type SessionOver struct {
	WinnerName string `json:"winner_name"`
	FinalScore int    `json:"final_score"`
}

// PlayerLeft is broadcast when a player is removed from the room.
type PlayerLeft struct {
	PlayerName string `json:"player_name"`
}
