package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

// Request types sent by clients.
const (
	TypeCreateSession = "create-session"
	TypeJoinSession   = "join-session"
	TypeWatchSession  = "watch-session"
	TypeSubmitMove    = "submit-move"
	TypePassTurn      = "pass-turn"
	TypeLeaveSession  = "leave-session"
)

// Reply types sent only to the requesting client. Room events use the
// session.Event names.
const (
	TypeSessionCreated = "session-created"
	TypeJoined         = "joined"
	TypeSnapshot       = "snapshot"
	TypeMoveAccepted   = "move-accepted"
	TypePassAccepted   = "pass-accepted"
	TypeLeft           = "left"
	TypeError          = "error"
)

// Request is a client message. Which fields are read depends on Type.
type Request struct {
	Type        string `json:"type"`
	RoomCode    string `json:"room_code,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	PlayerID    string `json:"player_id,omitempty"`
	Rules       string `json:"rules,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation,omitempty"`
	Word        string `json:"word,omitempty"`
}

// Message is the envelope of every server message.
type Message struct {
	Type     string `json:"type"`
	RoomCode string `json:"room_code,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// ErrorPayload carries a stable reason code and a readable message.
type ErrorPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

var errAlreadyJoined = errors.New("connection already joined a room")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Player and display clients are served from other origins.
		return true
	},
}

// Handler upgrades HTTP requests and feeds client requests to the game
// service.
type Handler struct {
	hub     *Hub
	service service.GameService
}

// NewHandler creates a handler that routes room events through hub.
func NewHandler(hub *Hub, svc service.GameService) *Handler {
	return &Handler{hub: hub, service: svc}
}

// HandleWebSocket handles WebSocket requests from clients.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:     h.hub,
		handler: h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
	if !h.hub.join(client) {
		conn.Close()
		return
	}

	// Requests outlive r, whose context ends when this handler returns.
	ctx, cancel := context.WithCancel(context.Background())
	go client.writePump()
	go func() {
		defer cancel()
		client.readPump(ctx)
	}()
}

func (h *Handler) handle(ctx context.Context, c *Client, req Request) {
	switch req.Type {
	case TypeCreateSession:
		created, err := h.service.CreateSession(ctx, service.CreateRequest{Rules: req.Rules})
		if err != nil {
			h.fail(c, req.Type, err)
			return
		}
		h.hub.reply(c, Message{Type: TypeSessionCreated, RoomCode: created.RoomCode, Payload: created})

	case TypeJoinSession:
		if c.playerID != "" {
			h.fail(c, req.Type, fmt.Errorf("%w: %v (%s)", service.ErrInvalidRequest, errAlreadyJoined, c.room))
			return
		}
		// Follow the room first so the join's own state update is not missed.
		h.hub.follow(c, session.NormalizeCode(req.RoomCode), "")
		joined, err := h.service.JoinSession(ctx, service.JoinRequest{RoomCode: req.RoomCode, PlayerName: req.PlayerName})
		if err != nil {
			h.hub.follow(c, c.room, "")
			h.fail(c, req.Type, err)
			return
		}
		c.room, c.playerID = joined.RoomCode, joined.PlayerID
		h.hub.follow(c, c.room, c.playerID)
		h.hub.reply(c, Message{Type: TypeJoined, RoomCode: joined.RoomCode, Payload: joined})

	case TypeWatchSession:
		if c.playerID != "" {
			h.fail(c, req.Type, fmt.Errorf("%w: %v (%s)", service.ErrInvalidRequest, errAlreadyJoined, c.room))
			return
		}
		h.hub.follow(c, session.NormalizeCode(req.RoomCode), "")
		snap, err := h.service.GetState(ctx, req.RoomCode)
		if err != nil {
			h.hub.follow(c, c.room, "")
			h.fail(c, req.Type, err)
			return
		}
		c.room = snap.Code
		h.hub.reply(c, Message{Type: TypeSnapshot, RoomCode: snap.Code, Payload: snap})

	case TypeSubmitMove:
		room, player := c.identity(req)
		res, err := h.service.SubmitMove(ctx, service.MoveRequest{
			RoomCode:    room,
			PlayerID:    player,
			X:           req.X,
			Y:           req.Y,
			Orientation: req.Orientation,
			Word:        req.Word,
		})
		if err != nil {
			h.fail(c, req.Type, err)
			return
		}
		h.hub.reply(c, Message{Type: TypeMoveAccepted, RoomCode: session.NormalizeCode(room), Payload: res})

	case TypePassTurn:
		room, player := c.identity(req)
		res, err := h.service.PassTurn(ctx, service.PlayerRequest{RoomCode: room, PlayerID: player})
		if err != nil {
			h.fail(c, req.Type, err)
			return
		}
		h.hub.reply(c, Message{Type: TypePassAccepted, RoomCode: session.NormalizeCode(room), Payload: res})

	case TypeLeaveSession:
		room, player := c.identity(req)
		if err := h.service.LeaveSession(ctx, service.PlayerRequest{RoomCode: room, PlayerID: player}); err != nil {
			h.fail(c, req.Type, err)
			return
		}
		if player == c.playerID {
			c.room, c.playerID = "", ""
			h.hub.follow(c, "", "")
		}
		h.hub.reply(c, Message{Type: TypeLeft, RoomCode: session.NormalizeCode(room)})

	default:
		h.fail(c, req.Type, fmt.Errorf("%w: unknown message type %q", service.ErrInvalidRequest, req.Type))
	}
}

// identity prefers the player bound to the connection over request fields.
func (c *Client) identity(req Request) (room, playerID string) {
	if c.playerID != "" {
		return c.room, c.playerID
	}
	return req.RoomCode, req.PlayerID
}

func (h *Handler) fail(c *Client, requestType string, err error) {
	reason := service.ReasonCode(err)
	if service.KindOf(err) == service.KindInternal {
		log.Error().Err(err).Str("request", requestType).Msg("websocket request failed")
	} else {
		log.Debug().Err(err).Str("request", requestType).Str("reason", reason).Msg("websocket request rejected")
	}
	h.hub.reply(c, Message{
		Type:     TypeError,
		RoomCode: c.room,
		Payload:  ErrorPayload{Reason: reason, Message: err.Error()},
	})
}

// disconnected removes the connection's player from their room.
func (h *Handler) disconnected(c *Client) {
	if c.playerID == "" {
		return
	}
	err := h.service.LeaveSession(context.Background(), service.PlayerRequest{RoomCode: c.room, PlayerID: c.playerID})
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) && !errors.Is(err, session.ErrPlayerNotFound) {
		log.Warn().Err(err).Str("room", c.room).Msg("failed to remove disconnected player")
		return
	}
	log.Info().Str("room", c.room).Str("player_id", c.playerID).Msg("player disconnected")
}
