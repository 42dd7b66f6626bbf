// Package websocket provides the WebSocket transport for wordgrid rooms.
//
// The websocket package implements:
//   - A Hub that routes room events to connected clients
//   - A Handler that turns client messages into game service calls
//   - Per-connection player identity after a successful join
//   - Removal of a player when their connection drops
//
// Architecture:
//
// The Hub owns all routing state and mutates it only from its Run loop.
// Rooms deliver events through Hub.Notify, which queues without blocking, so
// a slow client can never stall a room. Each connection has a read goroutine
// that handles its requests in order and a write goroutine that drains its
// send queue.
//
// Message Protocol:
//
// Clients send JSON requests:
//
//	{"type": "create-session", "rules": "blitz"}
//	{"type": "join-session", "room_code": "ABCD", "player_name": "ada"}
//	{"type": "watch-session", "room_code": "ABCD"}
//	{"type": "submit-move", "x": 7, "y": 7, "orientation": "horizontal", "word": "CAT"}
//	{"type": "pass-turn"}
//	{"type": "leave-session"}
//
// Every server message is {"type", "room_code", "payload"}. Replies
// (session-created, joined, snapshot, move-accepted, pass-accepted, left,
// error) go only to the requesting connection. Room events (state-updated,
// move-applied, turn-passed, timer-tick, session-over, player-left) go to every
// connection following the room; rack-updated goes only to its player.
//
// Errors carry a stable reason code:
//
//	{"type": "error", "room_code": "ABCD", "payload": {"reason": "not_your_turn", "message": "..."}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	rooms, _ := session.NewManager(rules, session.WithNotifier(hub))
//	handler := websocket.NewHandler(hub, service.NewGameService(rooms, rulesets))
//	router.HandleFunc("/ws", handler.HandleWebSocket)
package websocket
