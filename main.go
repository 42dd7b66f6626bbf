// Command wordgrid runs the multiplayer word-placement game server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the rules directory, the dictionary, game archiving,
// idle room reaping, debug logging, and optional ngrok tunneling for easy
// external access during development. Every flag can also be set from the
// environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/wordgrid/api"
	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
	"github.com/wricardo/wordgrid/transport/mcp"
	"github.com/wricardo/wordgrid/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "wordgrid"
)

// Options holds the resolved command-line configuration.
type Options struct {
	Host        string
	Port        int
	ConfigDir   string
	Rules       string
	Dictionary  string
	ArchiveDir  string
	IdleTimeout time.Duration
	Debug       bool

	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
}

// Addr returns host:port.
func (o *Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("wordgrid failed")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "multiplayer word-placement game server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("WORDGRID_HOST")},
			&cli.StringFlag{Name: "port", Value: "8080", Usage: "HTTP server port", Sources: cli.EnvVars("WORDGRID_PORT", "PORT")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing rule sets", Sources: cli.EnvVars("WORDGRID_CONFIG_DIR", "CONFIG_DIR")},
			&cli.StringFlag{Name: "rules", Value: config.DefaultName, Usage: "default rule set for new rooms", Sources: cli.EnvVars("WORDGRID_RULES")},
			&cli.StringFlag{Name: "dictionary", Usage: "word list file; empty accepts every word", Sources: cli.EnvVars("WORDGRID_DICTIONARY")},
			&cli.StringFlag{Name: "archive-dir", Usage: "directory for finished game records; empty disables archiving", Sources: cli.EnvVars("WORDGRID_ARCHIVE_DIR")},
			&cli.DurationFlag{Name: "idle-timeout", Value: time.Hour, Usage: "remove rooms with no player activity for this long", Sources: cli.EnvVars("WORDGRID_IDLE_TIMEOUT")},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("WORDGRID_DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Action:  serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  mcpAction,
			},
		},
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	setupLogging(opts.Debug)
	log.Info().Str("version", Version).Str("mode", "serve").Msg("starting " + AppName)
	return runHTTPServer(ctx, opts)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	setupLogging(opts.Debug)
	log.Info().Str("version", Version).Str("mode", "mcp").Msg("starting " + AppName)
	return runStdioMCP(ctx, opts)
}

// optionsFrom reads and validates the flags of cmd.
func optionsFrom(cmd *cli.Command) (*Options, error) {
	port, err := parsePort(cmd.String("port"))
	if err != nil {
		return nil, err
	}
	idle := cmd.Duration("idle-timeout")
	if idle <= 0 {
		return nil, fmt.Errorf("idle-timeout must be positive, got %s", idle)
	}
	return &Options{
		Host:        cmd.String("host"),
		Port:        port,
		ConfigDir:   cmd.String("config-dir"),
		Rules:       cmd.String("rules"),
		Dictionary:  cmd.String("dictionary"),
		ArchiveDir:  cmd.String("archive-dir"),
		IdleTimeout: idle,
		Debug:       cmd.Bool("debug"),
		Ngrok:       cmd.Bool("ngrok"),
		NgrokAuth:   cmd.String("ngrok-auth"),
		NgrokDomain: cmd.String("ngrok-domain"),
	}, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q: must be 1-65535", s)
	}
	return port, nil
}

// setupLogging writes human-readable logs to stderr; stdout stays free for
// the MCP stdio protocol.
func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Services bundles the long-lived components shared by every transport.
type Services struct {
	Hub     *websocket.Hub
	Rooms   *session.Manager
	Rules   *config.Manager
	Service service.GameService
}

// initializeServices wires the rules, dictionary, archive, rooms, and the game
// service.
func initializeServices(opts *Options) (*Services, error) {
	rulesets, err := config.NewManager(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create rules manager: %w", err)
	}
	if err := rulesets.SetDefault(opts.Rules); err != nil {
		return nil, fmt.Errorf("failed to load rules %q: %w", opts.Rules, err)
	}

	hub := websocket.NewHub()
	roomOpts := []session.Option{
		session.WithNotifier(hub),
		session.WithDictionary(config.LoadDictionary(opts.Dictionary)),
	}
	if opts.ArchiveDir != "" {
		archive, err := session.NewFileArchive(opts.ArchiveDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create game archive: %w", err)
		}
		roomOpts = append(roomOpts, session.WithArchive(archive))
		log.Info().Str("dir", opts.ArchiveDir).Msg("archiving finished games")
	}

	rooms, err := session.NewManager(rulesets.Default(), roomOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	return &Services{
		Hub:     hub,
		Rooms:   rooms,
		Rules:   rulesets,
		Service: service.NewGameService(rooms, rulesets),
	}, nil
}

// start runs the hub and the idle room reaper until ctx is done.
func (s *Services) start(ctx context.Context, idleTimeout time.Duration) {
	go s.Hub.Run(ctx)
	go s.Rooms.RunReaper(ctx, reapInterval(idleTimeout), idleTimeout)
}

// reapInterval checks a few times per idle window, at most once a minute.
func reapInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// newHandler builds the HTTP handler: REST API, /ws, and an /mcp endpoint
// proxying to mcpBaseURL.
func newHandler(svcs *Services, mcpBaseURL string) http.Handler {
	apiServer := api.NewServer(svcs.Service, websocket.NewHandler(svcs.Hub, svcs.Service))
	apiServer.Handle("/mcp", mcp.NewClient(mcpBaseURL))
	return apiServer
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(parent context.Context, opts *Options) error {
	svcs, err := initializeServices(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	svcs.start(ctx, opts.IdleTimeout)
	defer svcs.Rooms.Close()

	addr := opts.Addr()
	handler := newHandler(svcs, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			stop()
		}
	}()

	if opts.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, opts, handler)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, opts *Options, handler http.Handler) {
	if opts.NgrokAuth == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if opts.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.NgrokDomain))
		log.Info().Str("domain", opts.NgrokDomain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.NgrokAuth))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// the configured address; otherwise it starts an internal API on a random
// loopback port and targets that.
func runStdioMCP(parent context.Context, opts *Options) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	externalURL := "http://" + opts.Addr()
	baseURL, err := probeAPI(ctx, externalURL)
	if err != nil {
		log.Info().Err(err).Msg("no external API server found, starting internal HTTP server")

		svcs, err := initializeServices(opts)
		if err != nil {
			return err
		}
		svcs.start(ctx, opts.IdleTimeout)
		defer svcs.Rooms.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		httpServer := &http.Server{Handler: newHandler(svcs, baseURL)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// probeAPI returns baseURL if a wordgrid API answers its health check.
func probeAPI(ctx context.Context, baseURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return baseURL, nil
}
