package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/wordgrid/game/service"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "wordgrid", AppName)
}

// parseOptions runs the root command with args and captures the options it
// would start with.
func parseOptions(t *testing.T, args ...string) (*Options, error) {
	t.Helper()

	var opts *Options
	capture := func(_ context.Context, cmd *cli.Command) error {
		var err error
		opts, err = optionsFrom(cmd)
		return err
	}

	cmd := newCommand()
	cmd.Action = capture
	for _, sub := range cmd.Commands {
		sub.Action = capture
	}
	err := cmd.Run(context.Background(), append([]string{AppName}, args...))
	return opts, err
}

func TestFlagDefaults(t *testing.T) {
	opts, err := parseOptions(t)
	require.NoError(t, err)

	assert.Equal(t, "localhost", opts.Host)
	assert.Equal(t, 8080, opts.Port)
	assert.Equal(t, "configs", opts.ConfigDir)
	assert.Equal(t, "classic", opts.Rules)
	assert.Empty(t, opts.Dictionary)
	assert.Empty(t, opts.ArchiveDir)
	assert.Equal(t, time.Hour, opts.IdleTimeout)
	assert.False(t, opts.Debug)
	assert.False(t, opts.Ngrok)
	assert.Equal(t, "localhost:8080", opts.Addr())
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("WORDGRID_PORT", "9090")
	t.Setenv("WORDGRID_RULES", "blitz")
	t.Setenv("WORDGRID_IDLE_TIMEOUT", "10m")
	t.Setenv("NGROK_AUTHTOKEN", "token")

	opts, err := parseOptions(t, "serve")
	require.NoError(t, err)

	assert.Equal(t, 9090, opts.Port)
	assert.Equal(t, "blitz", opts.Rules)
	assert.Equal(t, 10*time.Minute, opts.IdleTimeout)
	assert.Equal(t, "token", opts.NgrokAuth)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("WORDGRID_HOST", "example.com")

	opts, err := parseOptions(t, "--host", "0.0.0.0", "--debug", "mcp")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", opts.Host)
	assert.True(t, opts.Debug)
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero port", []string{"--port", "0"}},
		{"port too large", []string{"--port", "70000"}},
		{"non-numeric port", []string{"--port", "http"}},
		{"negative idle timeout", []string{"--idle-timeout=-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptions(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReapInterval(t *testing.T) {
	assert.Equal(t, time.Minute, reapInterval(time.Hour))
	assert.Equal(t, 30*time.Second, reapInterval(2*time.Minute))
	assert.Equal(t, time.Second, reapInterval(time.Second))
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	blitz := "name: blitz\nturn_timeout: 20s\nwin_score: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blitz.yaml"), []byte(blitz), 0o644))

	opts := &Options{
		ConfigDir:   dir,
		Rules:       "blitz",
		ArchiveDir:  filepath.Join(t.TempDir(), "archive"),
		IdleTimeout: time.Hour,
	}

	svcs, err := initializeServices(opts)
	require.NoError(t, err)
	t.Cleanup(svcs.Rooms.Close)

	assert.NotNil(t, svcs.Hub)
	assert.NotNil(t, svcs.Service)
	assert.Equal(t, "blitz", svcs.Rooms.Rules().Name)
	assert.Equal(t, 20*time.Second, svcs.Rooms.Rules().TurnTimeout)
	assert.DirExists(t, opts.ArchiveDir)

	created, err := svcs.Service.CreateSession(context.Background(), service.CreateRequest{})
	require.NoError(t, err)
	assert.Len(t, created.RoomCode, 4)
}

func TestInitializeServices_MissingConfigDir(t *testing.T) {
	opts := &Options{ConfigDir: "/non/existent/path", Rules: "classic", IdleTimeout: time.Hour}

	svcs, err := initializeServices(opts)
	require.NoError(t, err, "built-in classic rules need no directory")
	t.Cleanup(svcs.Rooms.Close)
	assert.Equal(t, "classic", svcs.Rooms.Rules().Name)
}

func TestInitializeServices_UnknownRules(t *testing.T) {
	opts := &Options{ConfigDir: t.TempDir(), Rules: "nope", IdleTimeout: time.Hour}

	_, err := initializeServices(opts)
	assert.Error(t, err)
}
