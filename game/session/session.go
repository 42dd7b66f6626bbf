package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wricardo/wordgrid/game/engine"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrSessionOver        = errors.New("session is over")
	ErrCodeSpaceExhausted = errors.New("no free room code")
)

// Player is one participant of a room.
type Player struct {
	ID       string
	Name     string
	Score    int
	Rack     *engine.Rack
	JoinedAt time.Time
}

// PlayerView is the public part of a Player. The ID is the player's only
// credential and never leaves the server.
type PlayerView struct {
	ID       string `json:"-"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	RackSize int    `json:"rack_size"`
}

// Move kinds recorded in the move log.
const (
	MovePlay    = "play"
	MovePass    = "pass"
	MoveTimeout = "timeout"
)

// MoveRecord is one entry of a room's move log. Play is set for accepted plays.
type MoveRecord struct {
	Kind       string       `json:"kind"`
	PlayerID   string       `json:"-"`
	PlayerName string       `json:"player_name"`
	Play       *MoveApplied `json:"play,omitempty"`
	At         time.Time    `json:"at"`
}

// JoinResult is returned to a player who joined a room.
type JoinResult struct {
	RoomCode   string       `json:"room_code"`
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Rack       []string     `json:"rack"`
	Phase      engine.Phase `json:"phase"`
}

// MoveResult is returned to the player whose move was applied.
type MoveResult struct {
	Word       string   `json:"word"`
	Points     int      `json:"points"`
	Bingo      bool     `json:"bingo"`
	Score      int      `json:"score"`
	Rack       []string `json:"rack"`
	GameOver   bool     `json:"game_over"`
	NextTurn   string   `json:"next_turn,omitempty"`
	WinnerName string   `json:"winner_name,omitempty"`
}

// PassResult is returned to the player who passed.
type PassResult struct {
	Rack     []string `json:"rack"`
	NextTurn string   `json:"next_turn,omitempty"`
}

// Session is one room. All of its state is guarded by mu; turn timer callbacks
// take the same lock as player actions.
type Session struct {
	Code      string
	CreatedAt time.Time

	mu         sync.Mutex
	game       *engine.Game
	players    map[string]*Player
	turn       *engine.TurnController
	timer      *turnTimer
	notifier   Notifier
	moves      []MoveRecord
	winner     *Player
	lastActive time.Time
	closed     bool
}

func newSession(code string, game *engine.Game, notifier Notifier) *Session {
	now := time.Now()
	return &Session{
		Code:       code,
		CreatedAt:  now,
		game:       game,
		players:    make(map[string]*Player),
		turn:       engine.NewTurnController(game.Rules().MinPlayers),
		notifier:   notifier,
		lastActive: now,
	}
}

// Rules returns the rule set the room plays under.
func (s *Session) Rules() *engine.Rules {
	return s.game.Rules()
}

// Phase returns the current phase.
func (s *Session) Phase() engine.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn.Phase()
}

// LastActive is the time of the last player action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Rack returns a copy of a player's rack.
func (s *Session) Rack(playerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return p.Rack.Strings(), nil
}

func (s *Session) join(name string) (*JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, s.Code)
	}
	if s.turn.Phase() == engine.PhaseOver {
		return nil, fmt.Errorf("%w: %s", ErrSessionOver, s.Code)
	}

	p := &Player{
		ID:       uuid.NewString(),
		Name:     name,
		Rack:     s.game.NewRack(),
		JoinedAt: time.Now(),
	}
	s.players[p.ID] = p
	s.lastActive = p.JoinedAt

	started := s.turn.AddPlayer(p.ID)
	log.Info().Str("room", s.Code).Str("player", p.Name).Int("players", s.turn.Len()).Msg("player joined")
	if started {
		log.Info().Str("room", s.Code).Str("phase", string(s.turn.Phase())).Msg("game started")
		s.restartTimer()
	}
	s.emitState()

	return &JoinResult{
		RoomCode:   s.Code,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Rack:       p.Rack.Strings(),
		Phase:      s.turn.Phase(),
	}, nil
}

// actor resolves the player and checks that they may act right now. Nothing
// is mutated on failure.
func (s *Session) actor(playerID string) (*Player, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, s.Code)
	}
	p, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	switch s.turn.Phase() {
	case engine.PhaseOver:
		return nil, fmt.Errorf("%w: %s", ErrSessionOver, s.Code)
	case engine.PhaseWaiting:
		return nil, fmt.Errorf("%w: %s", ErrGameNotStarted, s.Code)
	}
	if !s.turn.IsOwner(playerID) {
		return nil, fmt.Errorf("%w: %s", ErrNotYourTurn, p.Name)
	}
	return p, nil
}

// submit applies a placement for playerID. The returned record is non-nil
// when this move ended the game.
func (s *Session) submit(playerID string, placement engine.Placement) (*MoveResult, *Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actor(playerID)
	if err != nil {
		return nil, nil, err
	}

	play, err := s.game.Play(p.Rack, placement)
	if err != nil {
		log.Debug().Str("room", s.Code).Str("player", p.Name).Err(err).Msg("move rejected")
		return nil, nil, err
	}

	now := time.Now()
	p.Score += play.Score
	s.lastActive = now
	applied := MoveApplied{
		X:           placement.Start.X,
		Y:           placement.Start.Y,
		Orientation: placement.Orientation,
		Word:        play.Word,
		Points:      play.Score,
		IsBingo:     play.Bingo,
		PlayerName:  p.Name,
	}
	s.moves = append(s.moves, MoveRecord{Kind: MovePlay, PlayerID: p.ID, PlayerName: p.Name, Play: &applied, At: now})
	log.Info().Str("room", s.Code).Str("player", p.Name).Str("word", play.Word).
		Int("points", play.Score).Bool("bingo", play.Bingo).Int("score", p.Score).Msg("move applied")

	s.emit(EventMoveApplied, "", applied)
	s.emit(EventRackUpdated, p.ID, RackUpdated{Rack: p.Rack.Strings()})

	result := &MoveResult{
		Word:   play.Word,
		Points: play.Score,
		Bingo:  play.Bingo,
		Score:  p.Score,
		Rack:   p.Rack.Strings(),
	}

	if p.Score >= s.game.Rules().WinScore {
		s.finish(p)
		result.GameOver = true
		result.WinnerName = p.Name
		return result, s.record(), nil
	}

	result.NextTurn = s.nameOf(s.turn.Advance())
	s.restartTimer()
	s.emitState()
	return result, nil, nil
}

func (s *Session) pass(playerID string) (*PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actor(playerID)
	if err != nil {
		return nil, err
	}

	s.game.RefillAfterPass(p.Rack)
	s.lastActive = time.Now()
	s.moves = append(s.moves, MoveRecord{Kind: MovePass, PlayerID: p.ID, PlayerName: p.Name, At: s.lastActive})
	log.Info().Str("room", s.Code).Str("player", p.Name).Msg("turn passed")

	next := s.nameOf(s.turn.Advance())
	s.restartTimer()
	s.emit(EventTurnPassed, "", TurnPassed{PlayerName: p.Name})
	s.emitState()
	s.emit(EventRackUpdated, p.ID, RackUpdated{Rack: p.Rack.Strings()})

	return &PassResult{Rack: p.Rack.Strings(), NextTurn: next}, nil
}

// removePlayer drops a player from the room. If they held the turn, it moves
// on and the timer restarts; too few players left puts the room back into
// WAITING.
func (s *Session) removePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.Code)
	}
	p, ok := s.players[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	delete(s.players, playerID)
	s.lastActive = time.Now()

	if s.turn.RemovePlayer(playerID) {
		s.restartTimer()
	}
	log.Info().Str("room", s.Code).Str("player", p.Name).Str("phase", string(s.turn.Phase())).Msg("player left")

	s.emit(EventPlayerLeft, "", PlayerLeft{PlayerName: p.Name})
	s.emitState()
	return nil
}

// expire runs when the turn timer for seq fires.
func (s *Session) expire(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.turn.Seq() != seq {
		return
	}
	id, ok := s.turn.Owner()
	if !ok {
		return
	}
	p := s.players[id]

	s.game.RefillAfterTimeout(p.Rack)
	s.moves = append(s.moves, MoveRecord{Kind: MoveTimeout, PlayerID: p.ID, PlayerName: p.Name, At: time.Now()})
	log.Info().Str("room", s.Code).Str("player", p.Name).Int("rack", p.Rack.Len()).Msg("turn timed out")

	s.turn.Advance()
	s.restartTimer()
	s.emit(EventTurnPassed, "", TurnPassed{PlayerName: p.Name, Forced: true})
	s.emitState()
	s.emit(EventRackUpdated, p.ID, RackUpdated{Rack: p.Rack.Strings()})
}

func (s *Session) tick(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.turn.Seq() != seq {
		return
	}
	s.emit(EventTimerTick, "", TimerTick{SecondsRemaining: s.secondsRemaining()})
}

// restartTimer cancels the running timer and, while a turn is in progress,
// arms a new one bound to the current turn.
func (s *Session) restartTimer() {
	s.timer.Stop()
	s.timer = nil
	if s.closed || s.turn.Phase() != engine.PhaseInProgress {
		return
	}
	seq := s.turn.Seq()
	rules := s.game.Rules()
	s.timer = startTurnTimer(rules.TurnTimeout, rules.TickInterval,
		func() { s.tick(seq) },
		func() { s.expire(seq) },
	)
}

func (s *Session) finish(winner *Player) {
	s.turn.Finish()
	s.timer.Stop()
	s.timer = nil
	s.winner = winner
	log.Info().Str("room", s.Code).Str("player", winner.Name).Int("score", winner.Score).Msg("game over")

	s.emitState()
	s.emit(EventSessionOver, "", SessionOver{WinnerName: winner.Name, FinalScore: winner.Score})
}

// close stops the timer and rejects every later action.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.timer.Stop()
	s.timer = nil
}

func (s *Session) secondsRemaining() int {
	return int(math.Round(s.timer.Remaining().Seconds()))
}

func (s *Session) nameOf(id string) string {
	if p, ok := s.players[id]; ok {
		return p.Name
	}
	return ""
}

func (s *Session) playerViews() []PlayerView {
	return lo.FilterMap(s.turn.Order(), func(id string, _ int) (PlayerView, bool) {
		p, ok := s.players[id]
		if !ok {
			return PlayerView{}, false
		}
		return PlayerView{ID: p.ID, Name: p.Name, Score: p.Score, RackSize: p.Rack.Len()}, true
	})
}

func (s *Session) stateUpdated() StateUpdated {
	st := StateUpdated{
		Phase:            s.turn.Phase(),
		Players:          s.playerViews(),
		SecondsRemaining: s.secondsRemaining(),
	}
	if id, ok := s.turn.Owner(); ok {
		st.TurnOwnerID = id
		st.TurnOwner = s.nameOf(id)
	}
	return st
}

func (s *Session) emitState() {
	s.emit(EventStateUpdated, "", s.stateUpdated())
}

func (s *Session) emit(name, playerID string, payload any) {
	s.notifier.Notify(Event{Name: name, Room: s.Code, PlayerID: playerID, Payload: payload})
}

// Snapshot is a point-in-time view of a room.
type Snapshot struct {
	Code             string       `json:"code"`
	Rules            string       `json:"rules"`
	Phase            engine.Phase `json:"phase"`
	Players          []PlayerView `json:"players"`
	TurnOwner        string       `json:"turn_owner,omitempty"`
	TurnOwnerID      string       `json:"-"`
	SecondsRemaining int          `json:"seconds_remaining"`
	Board            []string     `json:"board"`
	Winner           string       `json:"winner,omitempty"`
	Moves            []MoveRecord `json:"moves"`
	CreatedAt        time.Time    `json:"created_at"`
	LastActive       time.Time    `json:"last_active"`
}

// Snapshot returns the current state of the room.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateUpdated()
	snap := &Snapshot{
		Code:             s.Code,
		Rules:            s.game.Rules().Name,
		Phase:            st.Phase,
		Players:          st.Players,
		TurnOwner:        st.TurnOwner,
		TurnOwnerID:      st.TurnOwnerID,
		SecondsRemaining: st.SecondsRemaining,
		Board:            s.game.Board().Rows(),
		Moves:            append([]MoveRecord{}, s.moves...),
		CreatedAt:        s.CreatedAt,
		LastActive:       s.lastActive,
	}
	if s.winner != nil {
		snap.Winner = s.winner.Name
	}
	return snap
}

// Summary is the short form of a room used in listings.
type Summary struct {
	Code       string       `json:"code"`
	Phase      engine.Phase `json:"phase"`
	Players    int          `json:"players"`
	CreatedAt  time.Time    `json:"created_at"`
	LastActive time.Time    `json:"last_active"`
}

func (s *Session) summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Code:       s.Code,
		Phase:      s.turn.Phase(),
		Players:    len(s.players),
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
	}
}
