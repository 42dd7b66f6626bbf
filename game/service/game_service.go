package service

import (
	"context"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateRequest) (*SessionCreated, error)
	ListSessions(ctx context.Context) ([]session.Summary, error)
	GetState(ctx context.Context, roomCode string) (*session.Snapshot, error)
	DeleteSession(ctx context.Context, roomCode string) error

	// Players
	JoinSession(ctx context.Context, req JoinRequest) (*session.JoinResult, error)
	LeaveSession(ctx context.Context, req PlayerRequest) error
	GetRack(ctx context.Context, req PlayerRequest) ([]string, error)

	// Turns
	SubmitMove(ctx context.Context, req MoveRequest) (*session.MoveResult, error)
	PassTurn(ctx context.Context, req PlayerRequest) (*session.PassResult, error)

	// Configuration
	Rules(ctx context.Context) (*RulesOverview, error)
}

// SessionManager defines room storage and turn handling
type SessionManager interface {
	Create(rules *engine.Rules) (*session.Session, error)
	Join(code, name string) (*session.JoinResult, error)
	SubmitMove(code, playerID string, p engine.Placement) (*session.MoveResult, error)
	Pass(code, playerID string) (*session.PassResult, error)
	RemovePlayer(code, playerID string) error
	Rack(code, playerID string) ([]string, error)
	Snapshot(code string) (*session.Snapshot, error)
	Remove(code string) error
	List() []session.Summary
	Rules() *engine.Rules
}

// RulesSource resolves named rule sets
type RulesSource interface {
	Load(name string) (*engine.Rules, error)
	List() ([]config.Info, error)
}
