// Package mcp provides a Model Context Protocol interface to wordgrid.
//
// The Client is a thin MCP server whose tools call the REST API, so an AI
// agent plays through exactly the same rules and validation as any other
// client.
//
// MCP Tools:
//   - create_session: Create a room, optionally with a named rule set
//   - list_sessions: List live rooms
//   - game_state: Board, players, scores, turn owner and time left
//   - join_session: Join a room and receive a rack
//   - get_rack: Show a player's tiles
//   - leave_session: Leave a room
//   - submit_move: Place a word
//   - pass_turn: Give up the turn
//   - game_rules: Letter values, premium layout and available rule sets
//
// Tool failures are returned as MCP error results carrying the API's reason
// code, for example "not your turn: ABCD (not_your_turn)".
//
// Transports:
//
// The same Client serves stdio (the "mcp" command) and a JSON-RPC endpoint
// mounted at /mcp on the HTTP server:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	apiServer.Handle("/mcp", client)
package mcp
