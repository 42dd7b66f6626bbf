package engine

import "errors"

// Board and rack errors.
var (
	ErrOutOfRange        = errors.New("coordinate out of range")
	ErrCollision         = errors.New("cell already holds a different letter")
	ErrInsufficientTiles = errors.New("rack does not hold the requested tiles")
	ErrInvalidRules      = errors.New("invalid rules")
)

// Move validation errors, in the order the checks run.
var (
	ErrWordTooShort        = errors.New("word too short")
	ErrWordNotInDictionary = errors.New("word not in dictionary")
	ErrOutOfBounds         = errors.New("word runs off the board")
	ErrTileCollision       = errors.New("word conflicts with a tile on the board")
	ErrMissingLetterInRack = errors.New("missing letter in rack")
	ErrNoNewTilesPlaced    = errors.New("no new tiles placed")
)
