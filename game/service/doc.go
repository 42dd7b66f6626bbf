// Package service is the request layer between the transports and the room
// manager.
//
// Every inbound action has its own request type (JoinRequest, MoveRequest,
// PlayerRequest, CreateRequest) that is validated before it reaches a room.
// Move coordinates become an engine.Placement here, so a start off the board
// never gets further than the boundary.
//
// Errors returned by GameService keep their sentinel chain. ReasonCode turns
// one into the stable reason string sent to clients, and IsProtocolError and
// IsValidationError tell out-of-turn or unknown-room requests apart from
// rejected moves.
//
// Usage:
//
//	rooms, _ := session.NewManager(rules, session.WithNotifier(hub))
//	rulesets, _ := config.NewManager("configs")
//	svc := service.NewGameService(rooms, rulesets)
//
//	created, err := svc.CreateSession(ctx, service.CreateRequest{})
//	joined, err := svc.JoinSession(ctx, service.JoinRequest{RoomCode: created.RoomCode, PlayerName: "ada"})
package service
