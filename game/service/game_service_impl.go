package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	rules    RulesSource
}

// NewGameService creates a new game service instance. rules may be nil, in
// which case only the session manager's default rules are available.
func NewGameService(sessions SessionManager, rules RulesSource) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		rules:    rules,
	}
}

// CreateSession opens a new room
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateRequest) (*SessionCreated, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rules *engine.Rules
	if req.Rules != "" {
		if s.rules == nil {
			return nil, fmt.Errorf("%w: rule sets are not configured", ErrInvalidRequest)
		}
		loaded, err := s.rules.Load(req.Rules)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	sess, err := s.sessions.Create(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &SessionCreated{RoomCode: sess.Code, Rules: sess.Rules().Name}, nil
}

// ListSessions returns a summary of every live room
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]session.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sessions.List(), nil
}

// GetState returns the full public state of a room
func (s *gameServiceImpl) GetState(ctx context.Context, roomCode string) (*session.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateRoomCode(roomCode); err != nil {
		return nil, err
	}
	return s.sessions.Snapshot(roomCode)
}

// DeleteSession closes a room
func (s *gameServiceImpl) DeleteSession(ctx context.Context, roomCode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRoomCode(roomCode); err != nil {
		return err
	}
	return s.sessions.Remove(roomCode)
}

// JoinSession adds a player to a room and returns their rack
func (s *gameServiceImpl) JoinSession(ctx context.Context, req JoinRequest) (*session.JoinResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.sessions.Join(req.RoomCode, req.PlayerName)
}

// LeaveSession removes a player from a room
func (s *gameServiceImpl) LeaveSession(ctx context.Context, req PlayerRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.sessions.RemovePlayer(req.RoomCode, req.PlayerID)
}

// GetRack returns a player's current tiles
func (s *gameServiceImpl) GetRack(ctx context.Context, req PlayerRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.sessions.Rack(req.RoomCode, req.PlayerID)
}

// SubmitMove validates and plays a word
func (s *gameServiceImpl) SubmitMove(ctx context.Context, req MoveRequest) (*session.MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	placement, err := req.Placement()
	if err != nil {
		return nil, err
	}
	return s.sessions.SubmitMove(req.RoomCode, req.PlayerID, placement)
}

// PassTurn gives up the caller's turn
func (s *gameServiceImpl) PassTurn(ctx context.Context, req PlayerRequest) (*session.PassResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.sessions.Pass(req.RoomCode, req.PlayerID)
}

// Rules describes the default rules and the available rule sets
func (s *gameServiceImpl) Rules(ctx context.Context) (*RulesOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	overview := newRulesOverview(s.sessions.Rules(), nil)
	if s.rules == nil {
		return overview, nil
	}
	available, err := s.rules.List()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list rule sets")
		return overview, nil
	}
	overview.Available = available
	return overview, nil
}
