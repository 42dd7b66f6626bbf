package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/wricardo/wordgrid/game/engine"
	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"wordgrid",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`wordgrid - MCP Interface

A multiplayer word-placement game on a 15x15 board. Players take turns laying
words from their rack of letter tiles; the first to reach the win score wins.

TYPICAL FLOW:
1. create_session (or list_sessions to find a room code)
2. join_session with a player name; keep the returned player_id
3. game_state to see the board, whose turn it is and the time left
4. submit_move with x, y, orientation and word, or pass_turn

RULES OF A MOVE:
- Words run left-to-right (horizontal) or top-to-bottom (vertical) from (x, y).
- Columns are x, rows are y, both 0-14.
- Letters already on the board may be reused if they match; at least one
  tile must come from your rack.
- Use game_rules for letter values, premium squares and the win score.`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	roomCode := stringProp("Four-letter room code")
	playerID := stringProp("Player ID returned by join_session")

	// Rooms
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new room, optionally with a named rule set",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rules": stringProp("Name of the rule set to use (optional, see game_rules)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show a room's board, players, scores and whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code": roomCode,
			},
			Required: []string{"room_code"},
		},
	}, c.handleGameState)

	// Players
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_session",
		Description: "Join a room as a player and receive a rack of tiles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code":   roomCode,
				"player_name": stringProp("Display name, 1-24 characters"),
			},
			Required: []string{"room_code", "player_name"},
		},
	}, c.handleJoinSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_rack",
		Description: "Show a player's tiles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code": roomCode,
				"player_id": playerID,
			},
			Required: []string{"room_code", "player_id"},
		},
	}, c.handleGetRack)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_session",
		Description: "Leave a room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code": roomCode,
				"player_id": playerID,
			},
			Required: []string{"room_code", "player_id"},
		},
	}, c.handleLeaveSession)

	// Turns
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_move",
		Description: "Place a word on the board. Only the player whose turn it is may move.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code": roomCode,
				"player_id": playerID,
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the first letter, 0-14",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the first letter, 0-14",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"horizontal", "vertical"},
					"description": "Direction the word runs",
				},
				"word": stringProp("The whole word, including letters already on the board"),
			},
			Required: []string{"room_code", "player_id", "x", "y", "orientation", "word"},
		},
	}, c.handleSubmitMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pass_turn",
		Description: "Give up the current turn and top up your rack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_code": roomCode,
				"player_id": playerID,
			},
			Required: []string{"room_code", "player_id"},
		},
	}, c.handlePassTurn)

	// Rules
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Show letter values, premium squares, the win score and available rule sets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server, for example to serve stdio.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP answers single JSON-RPC messages posted to the MCP endpoint.
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)
	if response == nil {
		// Notifications have no response.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Warn().Err(err).Msg("failed to write mcp response")
	}
}

// apiError is the REST error body.
type apiError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp apiError
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s (%s)", errResp.Error, errResp.Reason)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// roomPath builds a room URL. Empty segments become "_" so the API rejects
// them instead of the router collapsing the path.
func roomPath(code string, rest ...string) string {
	segment := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "_"
		}
		return url.PathEscape(s)
	}
	path := "/api/sessions/" + segment(code)
	for _, part := range rest {
		path += "/" + segment(part)
	}
	return path
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	rules, _ := args["rules"].(string)

	var created service.SessionCreated
	err := c.apiCall(ctx, "POST", "/api/sessions", service.CreateRequest{Rules: rules}, &created)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created room: %s\nRules: %s\n\nNext: join_session with room_code %q.", created.RoomCode, created.Rules, created.RoomCode)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int               `json:"count"`
		Sessions []session.Summary `json:"sessions"`
	}

	err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Live Rooms (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&sb, "- %s (%s, %d players, created %s)\n",
			s.Code, s.Phase, s.Players, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)

	var snap session.Snapshot
	err := c.apiCall(ctx, "GET", roomPath(code), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleJoinSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)
	name, _ := args["player_name"].(string)

	var joined session.JoinResult
	err := c.apiCall(ctx, "POST", roomPath(code, "players"), map[string]string{"player_name": name}, &joined)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Joined room %s as %s\nPlayer ID: %s\nPhase: %s\nRack: %s\n",
		joined.RoomCode, joined.PlayerName, joined.PlayerID, joined.Phase, formatRack(joined.Rack))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)
	player, _ := args["player_id"].(string)

	var response struct {
		Rack []string `json:"rack"`
	}
	err := c.apiCall(ctx, "GET", roomPath(code, "players", player, "rack"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Rack: " + formatRack(response.Rack)), nil
}

func (c *Client) handleLeaveSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)
	player, _ := args["player_id"].(string)

	err := c.apiCall(ctx, "DELETE", roomPath(code, "players", player), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Left room %s", strings.ToUpper(code))), nil
}

func (c *Client) handleSubmitMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)

	x, err := cast.ToIntE(args["x"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("x must be an integer: %v", err)), nil
	}
	y, err := cast.ToIntE(args["y"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("y must be an integer: %v", err)), nil
	}

	body := service.MoveRequest{
		PlayerID:    cast.ToString(args["player_id"]),
		X:           x,
		Y:           y,
		Orientation: cast.ToString(args["orientation"]),
		Word:        cast.ToString(args["word"]),
	}

	var result session.MoveResult
	if err := c.apiCall(ctx, "POST", roomPath(code, "moves"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handlePassTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code, _ := args["room_code"].(string)
	player, _ := args["player_id"].(string)

	var result session.PassResult
	err := c.apiCall(ctx, "POST", roomPath(code, "pass"), map[string]string{"player_id": player}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Turn passed.\nRack: %s\nNext turn: %s\n", formatRack(result.Rack), result.NextTurn)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overview service.RulesOverview
	err := c.apiCall(ctx, "GET", "/api/rules", nil, &overview)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRules(&overview)), nil
}

// Formatting

func formatRack(rack []string) string {
	if len(rack) == 0 {
		return "(empty)"
	}
	return strings.Join(rack, " ")
}

func formatBoard(rows []string) string {
	var sb strings.Builder
	sb.WriteString("    ")
	for x := 0; x < engine.BoardSize; x++ {
		fmt.Fprintf(&sb, "%2d", x)
	}
	sb.WriteByte('\n')
	for y, row := range rows {
		fmt.Fprintf(&sb, "%2d  ", y)
		for _, ch := range row {
			sb.WriteByte(' ')
			sb.WriteRune(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatSnapshot(snap *session.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Room %s (%s rules)\n", snap.Code, snap.Rules)
	fmt.Fprintf(&sb, "Phase: %s\n", snap.Phase)
	switch {
	case snap.Winner != "":
		fmt.Fprintf(&sb, "Winner: %s\n", snap.Winner)
	case snap.TurnOwner != "":
		fmt.Fprintf(&sb, "Turn: %s (%ds left)\n", snap.TurnOwner, snap.SecondsRemaining)
	}

	sb.WriteString("\nPlayers:\n")
	if len(snap.Players) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, p := range snap.Players {
		marker := " "
		if p.Name == snap.TurnOwner {
			marker = "*"
		}
		fmt.Fprintf(&sb, " %s %s: %d points, %d tiles\n", marker, p.Name, p.Score, p.RackSize)
	}

	sb.WriteString("\nBoard ('.' is empty, x across, y down):\n")
	sb.WriteString(formatBoard(snap.Board))

	if n := len(snap.Moves); n > 0 {
		last := snap.Moves[n-1]
		fmt.Fprintf(&sb, "\nLast move: %s %s", last.PlayerName, last.Kind)
		if last.Play != nil {
			fmt.Fprintf(&sb, " %s at (%d,%d) %s for %d", last.Play.Word, last.Play.X, last.Play.Y, last.Play.Orientation, last.Play.Points)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatMoveResult(result *session.MoveResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Played %s for %d points", result.Word, result.Points)
	if result.Bingo {
		sb.WriteString(" (bingo!)")
	}
	fmt.Fprintf(&sb, "\nScore: %d\nRack: %s\n", result.Score, formatRack(result.Rack))
	if result.GameOver {
		fmt.Fprintf(&sb, "\nGame over. Winner: %s\n", result.WinnerName)
	} else {
		fmt.Fprintf(&sb, "Next turn: %s\n", result.NextTurn)
	}
	return sb.String()
}

func formatRules(r *service.RulesOverview) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rules: %s\n", r.Name)
	fmt.Fprintf(&sb, "Win score: %d\nTurn time: %ds\nRack: %d tiles (up to %d after timeouts)\n",
		r.WinScore, r.TurnSeconds, r.RackCapacity, r.RackSoftCap)
	fmt.Fprintf(&sb, "Minimum word length: %d\nFull-rack bonus: %d\n", r.MinWordLength, r.BingoBonus)

	sb.WriteString("\nLetter values:\n")
	for l := 'A'; l <= 'Z'; l++ {
		fmt.Fprintf(&sb, "%c=%d ", l, r.LetterValues[string(l)])
		if l == 'M' {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("\n\nPremium squares (= triple word, - double word, \" triple letter, ' double letter):\n")
	sb.WriteString(formatBoard(r.Layout))

	if len(r.Available) > 0 {
		sb.WriteString("\nAvailable rule sets:\n")
		for _, info := range r.Available {
			fmt.Fprintf(&sb, "- %s: win at %d, %ds turns\n", info.ID, info.WinScore, int(info.TurnTimeout.Seconds()))
		}
	}
	return sb.String()
}
