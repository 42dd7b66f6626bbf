package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wricardo/wordgrid/game/engine"
)

// Manager owns the registry of live rooms. mu guards only the registry; each
// Session carries its own lock, so rooms never contend with each other.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	rules    *engine.Rules
	dict     engine.Dictionary
	notifier Notifier
	archive  Archive
	codes    CodeGenerator
	source   func() engine.Source
}

// Option configures a Manager.
type Option func(*Manager)

// WithDictionary enables word checks against dict.
func WithDictionary(dict engine.Dictionary) Option {
	return func(m *Manager) { m.dict = dict }
}

// WithNotifier sets where room events are delivered.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithArchive records finished games.
func WithArchive(a Archive) Option {
	return func(m *Manager) { m.archive = a }
}

// WithCodeGenerator replaces the random room code generator.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(m *Manager) { m.codes = g }
}

// WithBagSource gives every new room's bag a source from f.
func WithBagSource(f func() engine.Source) Option {
	return func(m *Manager) { m.source = f }
}

// NewManager creates a manager whose rooms play under rules by default. A nil
// rules uses engine.DefaultRules.
func NewManager(rules *engine.Rules, opts ...Option) (*Manager, error) {
	if rules == nil {
		rules = engine.DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		rules:    rules,
		notifier: nopNotifier{},
		codes:    RandomCode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Rules returns the default rule set.
func (m *Manager) Rules() *engine.Rules {
	return m.rules
}

// Create opens a new room under rules, or the manager's default when nil.
func (m *Manager) Create(rules *engine.Rules) (*Session, error) {
	if rules == nil {
		rules = m.rules
	}
	var src engine.Source
	if m.source != nil {
		src = m.source()
	}
	game, err := engine.NewGame(rules, m.dict, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for range maxCodeAttempts {
		code := NormalizeCode(m.codes())
		if _, taken := m.sessions[code]; taken {
			continue
		}
		s := newSession(code, game, m.notifier)
		m.sessions[code] = s
		log.Info().Str("room", code).Str("rules", rules.Name).Msg("session created")
		return s, nil
	}
	return nil, ErrCodeSpaceExhausted
}

// Get returns the room with the given code, ignoring case.
func (m *Manager) Get(code string) (*Session, error) {
	code = NormalizeCode(code)
	m.mu.RLock()
	s, ok := m.sessions[code]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, code)
	}
	return s, nil
}

// Join adds a player named name to a room and deals their rack.
func (m *Manager) Join(code, name string) (*JoinResult, error) {
	s, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	return s.join(name)
}

// SubmitMove plays a placement on behalf of playerID.
func (m *Manager) SubmitMove(code, playerID string, p engine.Placement) (*MoveResult, error) {
	s, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	result, rec, err := s.submit(playerID, p)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		m.store(rec)
	}
	return result, nil
}

// Pass gives up playerID's turn and tops up their rack.
func (m *Manager) Pass(code, playerID string) (*PassResult, error) {
	s, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	return s.pass(playerID)
}

// RemovePlayer takes a player out of a room, for example on disconnect.
func (m *Manager) RemovePlayer(code, playerID string) error {
	s, err := m.Get(code)
	if err != nil {
		return err
	}
	return s.removePlayer(playerID)
}

// Rack returns a copy of a player's rack.
func (m *Manager) Rack(code, playerID string) ([]string, error) {
	s, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	return s.Rack(playerID)
}

// Snapshot returns the current state of a room.
func (m *Manager) Snapshot(code string) (*Snapshot, error) {
	s, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Remove closes a room and cancels its timer.
func (m *Manager) Remove(code string) error {
	code = NormalizeCode(code)
	m.mu.Lock()
	s, ok := m.sessions[code]
	delete(m.sessions, code)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, code)
	}
	s.close()
	log.Info().Str("room", code).Msg("session removed")
	return nil
}

// List returns a summary of every live room, newest first.
func (m *Manager) List() []Summary {
	summaries := lo.Map(m.all(), func(s *Session, _ int) Summary { return s.summary() })
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupIdleSessions removes rooms with no player activity for maxAge and
// returns how many were removed.
func (m *Manager) CleanupIdleSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	idle := lo.Filter(m.all(), func(s *Session, _ int) bool {
		return s.LastActive().Before(cutoff)
	})

	removed := 0
	for _, s := range idle {
		if err := m.Remove(s.Code); err == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("reaped idle sessions")
	}
	return removed
}

// RunReaper calls CleanupIdleSessions every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdleSessions(maxAge)
		}
	}
}

// Close removes every room.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) all() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Values(m.sessions)
}

func (m *Manager) store(rec *Record) {
	if m.archive == nil {
		return
	}
	if err := m.archive.Save(rec); err != nil {
		log.Warn().Err(err).Str("room", rec.Code).Msg("failed to archive game")
	}
}
