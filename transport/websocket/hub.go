package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/wordgrid/game/service"
	"github.com/wricardo/wordgrid/game/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Per-client queue of outgoing frames. A client that falls this far behind
	// is dropped.
	sendBuffer = 256

	// Queue between the rooms and the hub loop.
	outboxBuffer = 1024

	// Separate queue for session-over, which a room sends exactly once.
	finalBuffer = 64

	// How long Notify waits for room for a session-over once both queues are
	// full.
	finalWait = time.Second
)

// Client is one WebSocket connection. room and playerID are only touched by
// the connection's read goroutine.
type Client struct {
	hub     *Hub
	handler *Handler
	conn    *websocket.Conn
	send    chan []byte

	room     string
	playerID string
}

type member struct {
	room     string
	playerID string
}

type subscription struct {
	client   *Client
	room     string
	playerID string
	done     chan struct{}
}

type roomQuery struct {
	room  string
	reply chan int
}

type delivery struct {
	event *session.Event
	to    *Client
	data  []byte
}

// Hub routes room events to connected clients. It implements
// session.Notifier; all routing state is owned by the Run loop.
type Hub struct {
	clients map[*Client]*member
	rooms   map[string]map[*Client]bool
	players map[string]*Client

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	queries    chan roomQuery
	outbox     chan delivery
	final      chan delivery
	done       chan struct{}
}

// NewHub creates a new WebSocket hub. Call Run once before serving clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]*member),
		rooms:      make(map[string]map[*Client]bool),
		players:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		queries:    make(chan roomQuery),
		outbox:     make(chan delivery, outboxBuffer),
		final:      make(chan delivery, finalBuffer),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and blocks until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = &member{}

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sub := <-h.subscribe:
			h.subscribeClient(sub)
			close(sub.done)

		case q := <-h.queries:
			q.reply <- len(h.rooms[q.room])

		case d := <-h.outbox:
			h.deliver(d)

		case d := <-h.final:
			// Whatever the room queued before it ended goes out first.
			h.drainOutbox()
			h.deliver(d)
		}
	}
}

func (h *Hub) drainOutbox() {
	for {
		select {
		case d := <-h.outbox:
			h.deliver(d)
		default:
			return
		}
	}
}

// Notify queues a room event. Ordinary events never block and are dropped
// when the hub is saturated. A session-over event falls back to its own queue
// and, if that is full too, waits up to finalWait.
func (h *Hub) Notify(e session.Event) {
	d := delivery{event: &e}
	select {
	case h.outbox <- d:
		return
	default:
	}

	if e.Name != session.EventSessionOver {
		log.Warn().Str("room", e.Room).Str("event", e.Name).Msg("websocket outbox full, dropping event")
		return
	}

	select {
	case h.final <- d:
		return
	default:
	}
	timer := time.NewTimer(finalWait)
	defer timer.Stop()
	select {
	case h.final <- d:
	case h.outbox <- d:
	case <-h.done:
	case <-timer.C:
		log.Error().Str("room", e.Room).Msg("websocket hub saturated, session-over not delivered")
	}
}

// Clients returns the number of connected clients following room.
func (h *Hub) Clients(room string) int {
	q := roomQuery{room: room, reply: make(chan int, 1)}
	select {
	case h.queries <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// follow points c at room (and at playerID for targeted events). It returns
// once the hub has applied the change, so events emitted afterwards reach c.
func (h *Hub) follow(c *Client, room, playerID string) {
	sub := subscription{client: c, room: room, playerID: playerID, done: make(chan struct{})}
	select {
	case h.subscribe <- sub:
		<-sub.done
	case <-h.done:
	}
}

func (h *Hub) reply(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal websocket reply")
		return
	}
	select {
	case h.outbox <- delivery{to: c, data: data}:
	case <-h.done:
	}
}

func playerKey(room, playerID string) string {
	return room + "/" + playerID
}

func (h *Hub) subscribeClient(sub subscription) {
	m, ok := h.clients[sub.client]
	if !ok {
		return
	}
	h.detach(sub.client, m)
	m.room, m.playerID = sub.room, sub.playerID
	if m.room == "" {
		return
	}
	if h.rooms[m.room] == nil {
		h.rooms[m.room] = make(map[*Client]bool)
	}
	h.rooms[m.room][sub.client] = true
	if m.playerID != "" {
		h.players[playerKey(m.room, m.playerID)] = sub.client
	}
	log.Debug().Str("room", m.room).Str("player_id", m.playerID).Int("clients", len(h.rooms[m.room])).Msg("client subscribed")
}

// detach removes c from its room and player slot.
func (h *Hub) detach(c *Client, m *member) {
	if clients, ok := h.rooms[m.room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, m.room)
		}
	}
	if m.playerID != "" && h.players[playerKey(m.room, m.playerID)] == c {
		delete(h.players, playerKey(m.room, m.playerID))
	}
}

func (h *Hub) unregisterClient(c *Client) {
	m, ok := h.clients[c]
	if !ok {
		return
	}
	h.detach(c, m)
	delete(h.clients, c)
	close(c.send)
	log.Debug().Str("room", m.room).Msg("client unregistered")
}

func (h *Hub) deliver(d delivery) {
	if d.to != nil {
		if _, ok := h.clients[d.to]; ok {
			h.push(d.to, d.data)
		}
		return
	}

	e := d.event
	data, err := json.Marshal(Message{Type: e.Name, RoomCode: e.Room, Payload: e.Payload})
	if err != nil {
		log.Error().Err(err).Str("event", e.Name).Msg("failed to marshal event")
		return
	}

	if e.Broadcast() {
		for client := range h.rooms[e.Room] {
			h.push(client, data)
		}
		return
	}
	if client, ok := h.players[playerKey(e.Room, e.PlayerID)]; ok {
		h.push(client, data)
	}
}

func (h *Hub) push(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Msg("websocket client too slow, disconnecting")
		h.unregisterClient(c)
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*Client]*member)
	h.rooms = make(map[string]map[*Client]bool)
	h.players = make(map[string]*Client)
}

// readPump pumps requests from the WebSocket connection to the handler.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
		c.handler.disconnected(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.handler.fail(c, "", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
			continue
		}
		c.handler.handle(ctx, c, req)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
