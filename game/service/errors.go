package service

import (
	"errors"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/session"
)

// ErrInvalidRequest marks a request rejected at the boundary before it
// reached a room.
var ErrInvalidRequest = errors.New("invalid request")

// Kind groups errors by how a transport should report them.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindProtocol
	KindValidation
)

type reason struct {
	err  error
	code string
	kind Kind
}

// Order matters only for errors that wrap more than one sentinel.
var reasons = []reason{
	{session.ErrSessionNotFound, "session_not_found", KindNotFound},
	{session.ErrPlayerNotFound, "player_not_found", KindNotFound},
	{config.ErrRulesNotFound, "rules_not_found", KindNotFound},
	{session.ErrNotYourTurn, "not_your_turn", KindProtocol},
	{session.ErrGameNotStarted, "game_not_started", KindProtocol},
	{session.ErrSessionOver, "session_over", KindProtocol},
	{engine.ErrWordTooShort, "word_too_short", KindValidation},
	{engine.ErrWordNotInDictionary, "word_not_in_dictionary", KindValidation},
	{engine.ErrOutOfBounds, "out_of_bounds", KindValidation},
	{engine.ErrTileCollision, "tile_collision", KindValidation},
	{engine.ErrMissingLetterInRack, "missing_letter_in_rack", KindValidation},
	{engine.ErrNoNewTilesPlaced, "no_new_tiles_placed", KindValidation},
	{engine.ErrInsufficientTiles, "insufficient_tiles", KindValidation},
	{engine.ErrCollision, "collision", KindValidation},
	{engine.ErrOutOfRange, "out_of_range", KindValidation},
	{ErrInvalidRequest, "invalid_request", KindBadRequest},
	{config.ErrInvalidRules, "invalid_rules", KindBadRequest},
	{engine.ErrInvalidRules, "invalid_rules", KindBadRequest},
	{session.ErrCodeSpaceExhausted, "server_busy", KindInternal},
}

func classify(err error) (string, Kind) {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code, r.kind
		}
	}
	return "internal_error", KindInternal
}

// ReasonCode returns the stable, machine-readable reason sent to clients.
func ReasonCode(err error) string {
	code, _ := classify(err)
	return code
}

// KindOf returns the error group of err.
func KindOf(err error) Kind {
	_, kind := classify(err)
	return kind
}

// IsProtocolError reports whether err is an unknown room or player, or an
// action out of turn or outside a running game.
func IsProtocolError(err error) bool {
	kind := KindOf(err)
	return kind == KindProtocol || (kind == KindNotFound && !errors.Is(err, config.ErrRulesNotFound))
}

// IsValidationError reports whether err is a rejected move.
func IsValidationError(err error) bool {
	return KindOf(err) == KindValidation
}
