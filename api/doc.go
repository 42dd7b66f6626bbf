// Package api provides the HTTP REST API for wordgrid rooms.
//
// Endpoints:
//
// Rooms:
//   - POST /api/sessions - Create a room, body {"rules": "blitz"} (optional)
//   - GET /api/sessions - List rooms (?sort=created|active&order=asc|desc&limit=N)
//   - GET /api/sessions/{code} - Room snapshot: board, players, turn, move log
//   - DELETE /api/sessions/{code} - Close a room and cancel its timer
//
// Players:
//   - POST /api/sessions/{code}/players - Join, body {"player_name": "ada"}
//   - DELETE /api/sessions/{code}/players/{id} - Remove a player
//   - GET /api/sessions/{code}/players/{id}/rack - A player's tiles
//
// Turns:
//   - POST /api/sessions/{code}/moves - Body {"player_id", "x", "y", "orientation", "word"}
//   - POST /api/sessions/{code}/pass - Body {"player_id"}
//
// Other:
//   - GET /api/rules - Default rules and available rule sets
//   - GET /healthz - Liveness
//   - /ws - WebSocket endpoint, when a websocket.Handler is given
//
// Error Handling:
//
// Errors are returned as JSON with a stable reason code:
//
//	{
//	  "error": "not your turn: ABCD",
//	  "reason": "not_your_turn"
//	}
//
// Unknown rooms and players are 404, out-of-turn or finished-game actions
// are 409, rejected moves are 422 and malformed requests are 400.
//
// Usage:
//
//	srv := api.NewServer(gameService, websocket.NewHandler(hub, gameService))
//	http.ListenAndServe(":8080", srv)
package api
