package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/session"
)

// MaxNameLength is the longest accepted player name, in characters.
const MaxNameLength = 24

// CreateRequest opens a room. An empty Rules uses the server default.
type CreateRequest struct {
	Rules string `json:"rules,omitempty"`
}

func (r CreateRequest) Validate() error {
	return nil
}

// SessionCreated is returned to the client that opened a room.
type SessionCreated struct {
	RoomCode string `json:"room_code"`
	Rules    string `json:"rules"`
}

// JoinRequest adds a player to a room.
type JoinRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

func (r *JoinRequest) Validate() error {
	if err := validateRoomCode(r.RoomCode); err != nil {
		return err
	}
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	n := utf8.RuneCountInString(r.PlayerName)
	if n == 0 || n > MaxNameLength {
		return fmt.Errorf("%w: player_name must be 1-%d characters", ErrInvalidRequest, MaxNameLength)
	}
	return nil
}

// PlayerRequest identifies a player acting in a room: pass, leave or rack.
type PlayerRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

func (r PlayerRequest) Validate() error {
	if err := validateRoomCode(r.RoomCode); err != nil {
		return err
	}
	if strings.TrimSpace(r.PlayerID) == "" {
		return fmt.Errorf("%w: player_id is required", ErrInvalidRequest)
	}
	return nil
}

// MoveRequest places Word starting at (X, Y).
type MoveRequest struct {
	RoomCode    string `json:"room_code"`
	PlayerID    string `json:"player_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
	Word        string `json:"word"`
}

func (r MoveRequest) Validate() error {
	_, err := r.Placement()
	return err
}

// Placement converts the request into an engine placement. Only the syntax
// is checked; malformed fields are ErrInvalidRequest. Coordinates are left to
// the session, which checks the turn first.
func (r MoveRequest) Placement() (engine.Placement, error) {
	if err := (PlayerRequest{RoomCode: r.RoomCode, PlayerID: r.PlayerID}).Validate(); err != nil {
		return engine.Placement{}, err
	}
	o, err := engine.ParseOrientation(r.Orientation)
	if err != nil {
		return engine.Placement{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if strings.TrimSpace(r.Word) == "" {
		return engine.Placement{}, fmt.Errorf("%w: word is required", ErrInvalidRequest)
	}
	if _, err := engine.ParseLetters(r.Word); err != nil {
		return engine.Placement{}, fmt.Errorf("%w: word: %v", ErrInvalidRequest, err)
	}
	return engine.NewPlacement(r.X, r.Y, o, r.Word)
}

func validateRoomCode(code string) error {
	code = session.NormalizeCode(code)
	if len(code) != session.CodeLength {
		return fmt.Errorf("%w: room_code must be %d letters", ErrInvalidRequest, session.CodeLength)
	}
	return nil
}

// RulesOverview describes the default rules and the rule sets available for
// new rooms.
type RulesOverview struct {
	Name          string         `json:"name"`
	TurnTimeout   time.Duration  `json:"turn_timeout"`
	TurnSeconds   int            `json:"turn_seconds"`
	WinScore      int            `json:"win_score"`
	RackCapacity  int            `json:"rack_capacity"`
	RackSoftCap   int            `json:"rack_soft_cap"`
	MinPlayers    int            `json:"min_players"`
	MinWordLength int            `json:"min_word_length"`
	BingoBonus    int            `json:"bingo_bonus"`
	LetterValues  map[string]int `json:"letter_values"`
	Layout        []string       `json:"layout"`
	Available     []config.Info  `json:"available"`
}

func newRulesOverview(r *engine.Rules, available []config.Info) *RulesOverview {
	return &RulesOverview{
		Name:          r.Name,
		TurnTimeout:   r.TurnTimeout,
		TurnSeconds:   int(r.TurnTimeout.Seconds()),
		WinScore:      r.WinScore,
		RackCapacity:  r.RackCapacity,
		RackSoftCap:   r.RackSoftCap,
		MinPlayers:    r.MinPlayers,
		MinWordLength: r.MinWordLength,
		BingoBonus:    r.BingoBonus,
		LetterValues: lo.MapKeys(r.LetterValues, func(_ int, l engine.Letter) string {
			return l.String()
		}),
		Layout:    r.Layout,
		Available: available,
	}
}
