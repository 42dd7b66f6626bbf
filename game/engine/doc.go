// Package engine provides the core rules of the word-placement game.
//
// The engine package implements:
//   - A weighted, infinitely resampled letter bag
//   - The 15x15 board with write-once cells and static premium squares
//   - Player racks with multiset matching, consumption and refill
//   - Move validation and full-word scoring with letter/word multipliers
//   - The turn-order state machine (WAITING, IN_PROGRESS, OVER)
//
// Core Types:
//
// Game bundles a Board, a Bag, the Rules and an optional Dictionary for a
// single room. Placement describes a proposed move; EvaluateMove checks it
// against the board and a rack and returns a Play, which is applied in one
// step with Play.Apply. TurnController tracks join order and the current turn
// owner.
//
// Usage:
//
//	rules := engine.DefaultRules()
//	game, err := engine.NewGame(rules, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rack := engine.NewRack(game.Draw(rules.RackCapacity)...)
//	placement, err := engine.NewPlacement(7, 7, engine.Horizontal, "CAT")
//	play, err := game.Evaluate(rack, placement)
//	if err == nil {
//		play.Apply(game.Board(), rack)
//	}
//
// Concurrency:
//
// Nothing in this package is safe for concurrent use. Callers serialize all
// access to a Game, its racks and its TurnController behind one lock per room.
package engine
