package mcp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/wordgrid/api"
	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

// newTestClient points a client at a real API server whose racks hold only A.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	rules := engine.DefaultRules()
	rules.TurnTimeout = time.Minute
	rules.LetterWeights = map[engine.Letter]int{'A': 1}

	rooms, err := session.NewManager(rules)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(service.NewGameService(rooms, nil), nil))
	t.Cleanup(func() {
		srv.Close()
		rooms.Close()
	})

	return NewClient(srv.URL)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content in %s result", name)
	}
	return text.Text, result.IsError
}

// field returns the value after "label: " on its own line.
func field(t *testing.T, text, label string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if v, ok := strings.CutPrefix(line, label+": "); ok {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("No %q in:\n%s", label, text)
	return ""
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestPlayThroughTools(t *testing.T) {
	client := newTestClient(t)

	text, isErr := call(t, client.handleCreateSession, "create_session", map[string]interface{}{})
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}
	code := field(t, text, "Created room")

	text, isErr = call(t, client.handleJoinSession, "join_session", map[string]interface{}{
		"room_code":   strings.ToLower(code),
		"player_name": "ada",
	})
	if isErr {
		t.Fatalf("join_session failed: %s", text)
	}
	playerID := field(t, text, "Player ID")
	if got := field(t, text, "Rack"); got != "A A A A A A A" {
		t.Errorf("Unexpected rack %q", got)
	}

	// JSON numbers arrive as float64.
	text, isErr = call(t, client.handleSubmitMove, "submit_move", map[string]interface{}{
		"room_code":   code,
		"player_id":   playerID,
		"x":           float64(7),
		"y":           float64(7),
		"orientation": "vertical",
		"word":        "AA",
	})
	if isErr {
		t.Fatalf("submit_move failed: %s", text)
	}
	if !strings.Contains(text, "Played AA for 4 points") {
		t.Errorf("Unexpected move result: %s", text)
	}

	text, isErr = call(t, client.handleGameState, "game_state", map[string]interface{}{"room_code": code})
	if isErr {
		t.Fatalf("game_state failed: %s", text)
	}
	for _, want := range []string{"Phase: IN_PROGRESS", "* ada: 4 points", "Last move: ada play AA at (7,7) vertical for 4"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in state, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, playerID) {
		t.Errorf("State must not reveal player ids, got:\n%s", text)
	}

	text, isErr = call(t, client.handlePassTurn, "pass_turn", map[string]interface{}{"room_code": code, "player_id": playerID})
	if isErr {
		t.Fatalf("pass_turn failed: %s", text)
	}

	text, isErr = call(t, client.handleGetRack, "get_rack", map[string]interface{}{"room_code": code, "player_id": playerID})
	if isErr || !strings.HasPrefix(text, "Rack: A") {
		t.Errorf("Unexpected rack result: %s", text)
	}

	text, _ = call(t, client.handleListSessions, "list_sessions", map[string]interface{}{})
	if !strings.Contains(text, code) {
		t.Errorf("Expected %s in list, got: %s", code, text)
	}

	text, isErr = call(t, client.handleLeaveSession, "leave_session", map[string]interface{}{"room_code": code, "player_id": playerID})
	if isErr {
		t.Fatalf("leave_session failed: %s", text)
	}
}

func TestToolErrors(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    string
	}{
		{"unknown room", client.handleGameState, map[string]interface{}{"room_code": "ZZZZ"}, "session_not_found"},
		{"bad name", client.handleJoinSession, map[string]interface{}{"room_code": "ZZZZ", "player_name": ""}, "invalid_request"},
		{"non-numeric x", client.handleSubmitMove, map[string]interface{}{"room_code": "ZZZZ", "x": "left", "y": 1}, "x must be an integer"},
		{"missing arguments", client.handlePassTurn, nil, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.name, tt.args)
			if !isErr {
				t.Fatalf("Expected an error result, got: %s", text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, text)
			}
		})
	}
}

func TestGameRulesTool(t *testing.T) {
	client := newTestClient(t)

	text, isErr := call(t, client.handleGameRules, "game_rules", nil)
	if isErr {
		t.Fatalf("game_rules failed: %s", text)
	}

	for _, want := range []string{"Rules: classic", "Win score: 100", "Q=10", "Z=10", "Turn time: 60s"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in rules, got:\n%s", want, text)
		}
	}
}

func TestServeHTTP(t *testing.T) {
	client := NewClient("http://localhost:0")

	rec := httptest.NewRecorder()
	client.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	rec = httptest.NewRecorder()
	client.ServeHTTP(rec, httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	for _, tool := range []string{"create_session", "join_session", "submit_move", "pass_turn", "game_state", "list_sessions", "game_rules"} {
		if !strings.Contains(rec.Body.String(), `"`+tool+`"`) {
			t.Errorf("Expected tool %s in tools/list response", tool)
		}
	}
}

func TestFormatBoard(t *testing.T) {
	rows := make([]string, engine.BoardSize)
	for i := range rows {
		rows[i] = strings.Repeat(".", engine.BoardSize)
	}
	rows[7] = ".......CAT....."

	out := formatBoard(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != engine.BoardSize+1 {
		t.Fatalf("Expected %d lines, got %d", engine.BoardSize+1, len(lines))
	}
	if !strings.HasPrefix(lines[8], " 7  . . . . . . . C A T") {
		t.Errorf("Unexpected row 7: %q", lines[8])
	}
}
