// Command bot is an automated wordgrid player. It joins a room over the REST
// API and, whenever it holds the turn, brute-forces every start square,
// direction and word it could build, submitting the best-scoring play the
// server accepts. It passes when nothing fits.
//
//	bot --url http://localhost:8080 --room ABCD --name robo
//	bot --create --rules blitz --dictionary words.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/service"
)

// Bot plays one seat in one room.
type Bot struct {
	client      *Client
	planner     *Planner
	maxAttempts int
	turns       int
}

// errGameOver stops the play loop.
var errGameOver = errors.New("game over")

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cmd := &cli.Command{
		Name:  "bot",
		Usage: "automated wordgrid player",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("WORDGRID_URL")},
			&cli.StringFlag{Name: "room", Usage: "room code to join"},
			&cli.BoolFlag{Name: "create", Usage: "create a new room instead of joining one"},
			&cli.StringFlag{Name: "rules", Usage: "rule set for --create"},
			&cli.StringFlag{Name: "name", Value: "bot", Usage: "player name"},
			&cli.StringFlag{Name: "dictionary", Usage: "word list to build plays from", Sources: cli.EnvVars("WORDGRID_DICTIONARY")},
			&cli.DurationFlag{Name: "poll", Value: 500 * time.Millisecond, Usage: "state polling interval"},
			&cli.IntFlag{Name: "max-attempts", Value: 20, Usage: "plays to try per turn before passing"},
			&cli.IntFlag{Name: "max-turns", Value: 0, Usage: "stop after this many turns (0 = play to the end)"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("bot failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := NewClient(cmd.String("url"))
	log.Info().Str("url", cmd.String("url")).Msg("connecting to game server")

	room := cmd.String("room")
	if cmd.Bool("create") {
		code, err := client.CreateSession(ctx, cmd.String("rules"))
		if err != nil {
			return err
		}
		room = code
		log.Info().Str("room", room).Msg("created room")
	}
	if room == "" {
		return fmt.Errorf("--room or --create is required")
	}

	joined, err := client.Join(ctx, room, cmd.String("name"))
	if err != nil {
		return err
	}
	log.Info().Str("room", joined.RoomCode).Str("player", joined.PlayerID).Strs("rack", joined.Rack).Msg("joined")

	overview, err := client.Rules(ctx)
	if err != nil {
		return err
	}
	var dict engine.Dictionary
	if path := cmd.String("dictionary"); path != "" {
		if dict, err = config.ReadDictionary(path); err != nil {
			return err
		}
	}

	bot := &Bot{
		client:      client,
		planner:     NewPlanner(rulesFromOverview(overview), dict),
		maxAttempts: int(cmd.Int("max-attempts")),
	}
	defer func() {
		leaveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Leave(leaveCtx); err != nil {
			log.Debug().Err(err).Msg("leave failed")
		}
	}()

	return bot.Run(ctx, cmd.Duration("poll"), int(cmd.Int("max-turns")))
}

// Run polls the room and plays whenever the bot holds the turn.
func (b *Bot) Run(ctx context.Context, poll time.Duration, maxTurns int) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		err := b.Step(ctx)
		switch {
		case errors.Is(err, errGameOver):
			return nil
		case err != nil:
			log.Warn().Err(err).Msg("turn failed")
		}
		if maxTurns > 0 && b.turns >= maxTurns {
			log.Info().Int("turns", b.turns).Msg("turn limit reached")
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Step checks the room once and takes the turn if it is the bot's.
func (b *Bot) Step(ctx context.Context) error {
	snap, err := b.client.State(ctx)
	if err != nil {
		return err
	}

	switch snap.Phase {
	case engine.PhaseOver:
		log.Info().Str("winner", snap.Winner).Msg("game over")
		return errGameOver
	case engine.PhaseWaiting:
		log.Debug().Msg("waiting for players")
		return nil
	}
	// The room only names the turn owner. Names need not be unique, so a
	// namesake's turn ends in not_your_turn and is skipped.
	if snap.TurnOwner != b.client.name {
		return nil
	}

	rack, err := b.client.Rack(ctx)
	if err != nil {
		return err
	}
	return b.playTurn(ctx, snap.Board, rack)
}

func (b *Bot) playTurn(ctx context.Context, board, rack []string) error {
	start := time.Now()
	candidates, err := b.planner.Plan(board, rack)
	if err != nil {
		return err
	}
	log.Debug().Int("candidates", len(candidates)).Dur("took", time.Since(start)).Strs("rack", rack).Msg("planned turn")

	for i, c := range candidates {
		if i >= b.maxAttempts {
			break
		}
		result, err := b.client.Submit(ctx, c.X, c.Y, c.Orientation.String(), c.Word)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Reason == "not_your_turn" {
				log.Info().Msg("turn is not ours, skipping")
				return nil
			}
			log.Debug().Err(err).Str("word", c.Word).Msg("play rejected")
			continue
		}
		b.turns++
		log.Info().Str("word", result.Word).Int("points", result.Points).Int("score", result.Score).
			Bool("bingo", result.Bingo).Msgf("played at (%d,%d) %s", c.X, c.Y, c.Orientation)
		if result.GameOver {
			log.Info().Str("winner", result.WinnerName).Msg("game over")
			return errGameOver
		}
		return nil
	}

	if _, err := b.client.Pass(ctx); err != nil {
		return err
	}
	b.turns++
	log.Info().Msg("no play found, passed")
	return nil
}

// rulesFromOverview rebuilds the scoring rules the server advertises.
func rulesFromOverview(o *service.RulesOverview) *engine.Rules {
	rules := engine.DefaultRules()
	rules.Name = o.Name
	if o.MinWordLength > 0 {
		rules.MinWordLength = o.MinWordLength
	}
	if o.RackCapacity > 0 {
		rules.RackCapacity = o.RackCapacity
	}
	rules.BingoBonus = o.BingoBonus
	if len(o.Layout) == engine.BoardSize {
		rules.Layout = o.Layout
	}
	for k, v := range o.LetterValues {
		if letters, err := engine.ParseLetters(k); err == nil && len(letters) == 1 {
			rules.LetterValues[letters[0]] = v
		}
	}
	return rules
}
