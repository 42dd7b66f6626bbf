package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/wordgrid/api"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

// newTestServer runs the real API with racks of only A.
func newTestServer(t *testing.T, winScore int) (*httptest.Server, *engine.Rules) {
	t.Helper()

	rules := engine.DefaultRules()
	rules.TurnTimeout = time.Minute
	rules.WinScore = winScore
	rules.LetterWeights = map[engine.Letter]int{'A': 1}

	rooms, err := session.NewManager(rules)
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewServer(service.NewGameService(rooms, nil), nil))
	t.Cleanup(func() {
		srv.Close()
		rooms.Close()
	})
	return srv, rules
}

func joinBot(t *testing.T, srv *httptest.Server, rules *engine.Rules) *Bot {
	t.Helper()
	ctx := context.Background()

	client := NewClient(srv.URL + "/")
	code, err := client.CreateSession(ctx, "")
	require.NoError(t, err)
	joined, err := client.Join(ctx, code, "robo")
	require.NoError(t, err)
	require.Len(t, joined.Rack, 7)

	return &Bot{client: client, planner: NewPlanner(rules, nil), maxAttempts: 5}
}

func TestBotPlaysItsTurn(t *testing.T) {
	srv, rules := newTestServer(t, 100)
	bot := joinBot(t, srv, rules)
	ctx := context.Background()

	require.NoError(t, bot.Step(ctx))

	snap, err := bot.client.State(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Moves, 1)
	assert.Equal(t, session.MovePlay, snap.Moves[0].Kind)
	assert.Equal(t, "AAA", snap.Moves[0].Play.Word)
	assert.Equal(t, 9, snap.Moves[0].Play.Points)
	assert.Equal(t, 9, snap.Players[0].Score)
	assert.Equal(t, 1, bot.turns)
}

func TestBotWaitsForItsTurn(t *testing.T) {
	srv, rules := newTestServer(t, 100)
	bot := joinBot(t, srv, rules)
	ctx := context.Background()

	other := NewClient(srv.URL)
	_, err := other.Join(ctx, bot.client.room, "ada")
	require.NoError(t, err)

	// The bot joined first and holds the turn; after it plays, ada does.
	require.NoError(t, bot.Step(ctx))
	require.NoError(t, bot.Step(ctx))
	assert.Equal(t, 1, bot.turns)

	_, err = other.Pass(ctx)
	require.NoError(t, err)
	require.NoError(t, bot.Step(ctx))
	assert.Equal(t, 2, bot.turns)
}

func TestBotSkipsNamesakeTurn(t *testing.T) {
	srv, rules := newTestServer(t, 100)
	bot := joinBot(t, srv, rules)
	ctx := context.Background()

	twin := NewClient(srv.URL)
	_, err := twin.Join(ctx, bot.client.room, "robo")
	require.NoError(t, err)

	require.NoError(t, bot.Step(ctx))
	require.Equal(t, 1, bot.turns)

	// The other robo holds the turn now; the bot's attempt is refused.
	require.NoError(t, bot.Step(ctx))
	assert.Equal(t, 1, bot.turns)

	snap, err := bot.client.State(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Moves, 1)
	for _, p := range snap.Players {
		assert.Empty(t, p.ID)
	}
}

func TestBotRunStopsAtGameOver(t *testing.T) {
	srv, rules := newTestServer(t, 5)
	bot := joinBot(t, srv, rules)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bot.Run(ctx, 10*time.Millisecond, 0))
	require.NoError(t, ctx.Err(), "Run should return on game over, not on timeout")

	snap, err := bot.client.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseOver, snap.Phase)
	assert.Equal(t, "robo", snap.Winner)
}

func TestBotRunTurnLimit(t *testing.T) {
	srv, rules := newTestServer(t, 1000)
	bot := joinBot(t, srv, rules)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bot.Run(ctx, 10*time.Millisecond, 3))
	assert.Equal(t, 3, bot.turns)
}

func TestBotPassesWhenNothingFits(t *testing.T) {
	srv, rules := newTestServer(t, 100)
	bot := joinBot(t, srv, rules)
	bot.planner = NewPlanner(rules, engine.NewDictionary([]string{"zebra"}))
	ctx := context.Background()

	require.NoError(t, bot.Step(ctx))

	snap, err := bot.client.State(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Moves, 1)
	assert.Equal(t, session.MovePass, snap.Moves[0].Kind)
}

func TestClientErrors(t *testing.T) {
	srv, _ := newTestServer(t, 100)
	client := NewClient(srv.URL)

	_, err := client.Join(context.Background(), "ZZZZ", "ada")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "session_not_found", apiErr.Reason)
}

func TestRulesFromOverview(t *testing.T) {
	overview := &service.RulesOverview{
		Name:          "custom",
		MinWordLength: 3,
		RackCapacity:  8,
		BingoBonus:    20,
		LetterValues:  map[string]int{"Q": 12, "??": 1},
	}

	rules := rulesFromOverview(overview)
	assert.Equal(t, "custom", rules.Name)
	assert.Equal(t, 3, rules.MinWordLength)
	assert.Equal(t, 8, rules.RackCapacity)
	assert.Equal(t, 20, rules.BingoBonus)
	assert.Equal(t, 12, rules.LetterValues['Q'])
	assert.Equal(t, engine.ClassicLayout, rules.Layout)
}
