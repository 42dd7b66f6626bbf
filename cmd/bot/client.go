package main

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

	"github.com/wricardo/wordgrid/api"
	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

// APIError is a non-2xx response from the game server.
type APIError struct {
	Status  int
	Message string
	Reason  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Reason, e.Status)
}

// Client talks to the wordgrid REST API as one player.
type Client struct {
	baseURL  string
	client   *http.Client
	room     string
	playerID string
	name     string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(ctx context.Context, rules string) (string, error) {
	var created service.SessionCreated
	if err := c.do(ctx, http.MethodPost, "/api/sessions", service.CreateRequest{Rules: rules}, &created); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return created.RoomCode, nil
}

// Join joins room as name and remembers the room, player id and the name the
// server settled on for later calls.
func (c *Client) Join(ctx context.Context, room, name string) (*session.JoinResult, error) {
	var joined session.JoinResult
	body := map[string]string{"player_name": name}
	if err := c.do(ctx, http.MethodPost, c.roomPath(room, "players"), body, &joined); err != nil {
		return nil, fmt.Errorf("join %s: %w", room, err)
	}
	c.room = joined.RoomCode
	c.playerID = joined.PlayerID
	c.name = joined.PlayerName
	return &joined, nil
}

func (c *Client) State(ctx context.Context) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := c.do(ctx, http.MethodGet, c.roomPath(c.room), nil, &snap); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &snap, nil
}

func (c *Client) Rack(ctx context.Context) ([]string, error) {
	var resp struct {
		Rack []string `json:"rack"`
	}
	if err := c.do(ctx, http.MethodGet, c.roomPath(c.room, "players", c.playerID, "rack"), nil, &resp); err != nil {
		return nil, fmt.Errorf("get rack: %w", err)
	}
	return resp.Rack, nil
}

func (c *Client) Rules(ctx context.Context) (*service.RulesOverview, error) {
	var rules service.RulesOverview
	if err := c.do(ctx, http.MethodGet, "/api/rules", nil, &rules); err != nil {
		return nil, fmt.Errorf("get rules: %w", err)
	}
	return &rules, nil
}

func (c *Client) Submit(ctx context.Context, x, y int, orientation, word string) (*session.MoveResult, error) {
	req := service.MoveRequest{X: x, Y: y, Orientation: orientation, Word: word, PlayerID: c.playerID}
	var result session.MoveResult
	if err := c.do(ctx, http.MethodPost, c.roomPath(c.room, "moves"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Pass(ctx context.Context) (*session.PassResult, error) {
	var result session.PassResult
	body := map[string]string{"player_id": c.playerID}
	if err := c.do(ctx, http.MethodPost, c.roomPath(c.room, "pass"), body, &result); err != nil {
		return nil, fmt.Errorf("pass: %w", err)
	}
	return &result, nil
}

func (c *Client) Leave(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, c.roomPath(c.room, "players", c.playerID), nil, nil); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	return nil
}

func (c *Client) roomPath(code string, rest ...string) string {
	parts := []string{"/api/sessions", url.PathEscape(code)}
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr api.ErrorResponse
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error, Reason: apiErr.Reason}
	}

	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
