// Package session runs the live rooms of a wordgrid server.
//
// The session package implements:
//   - A registry of rooms keyed by 4-letter room codes
//   - Player join, move, pass and leave handling
//   - The per-turn countdown with forced passes on timeout
//   - Event delivery through a Notifier
//   - Idle room cleanup and an archive of finished games
//
// Core Types:
//
// Manager owns the registry and routes every request to the right Session.
// Session holds one room: the engine.Game, its players and the turn order.
//
// Concurrency:
//
// Every Session has its own mutex. Player actions and timer callbacks take that
// mutex before reading or writing room state, so they are applied one at a
// time in arrival order. A timer callback carries the turn sequence number it
// was armed for and does nothing if the turn has moved on; a player who lost
// that race gets ErrNotYourTurn. The Manager lock only guards the registry and
// is never held while a room is locked.
//
// Events are handed to the Notifier while the room is locked, so clients see
// them in the order the state changed.
//
// Usage:
//
//	manager, err := session.NewManager(rules, session.WithNotifier(hub))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	room, err := manager.Create(nil)
//	joined, err := manager.Join(room.Code, "ada")
//
//	placement, _ := engine.NewPlacement(7, 7, engine.Horizontal, "CAT")
//	result, err := manager.SubmitMove(room.Code, joined.PlayerID, placement)
package session
