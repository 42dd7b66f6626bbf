package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wricardo/wordgrid/game/session"
)

func newTestClient(hub *Hub) *Client {
	client := &Client{hub: hub, send: make(chan []byte, sendBuffer)}
	hub.clients[client] = &member{}
	return client
}

func decode(t *testing.T, data []byte) Message {
	t.Helper()
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return msg
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil || hub.rooms == nil || hub.players == nil {
		t.Error("Hub maps are not initialized")
	}
	if cap(hub.outbox) != outboxBuffer {
		t.Errorf("Expected outbox capacity %d, got %d", outboxBuffer, cap(hub.outbox))
	}
}

func TestHubSubscribe(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)

	hub.subscribeClient(subscription{client: client, room: "ABCD", playerID: "p1"})

	if !hub.rooms["ABCD"][client] {
		t.Error("Client was not added to room")
	}
	if hub.players[playerKey("ABCD", "p1")] != client {
		t.Error("Client was not bound to player")
	}

	// Moving to another room leaves the first one.
	hub.subscribeClient(subscription{client: client, room: "WXYZ"})

	if _, exists := hub.rooms["ABCD"]; exists {
		t.Error("Empty room should have been cleaned up")
	}
	if _, exists := hub.players[playerKey("ABCD", "p1")]; exists {
		t.Error("Player binding should have been removed")
	}
	if !hub.rooms["WXYZ"][client] {
		t.Error("Client was not added to new room")
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub)
	hub.subscribeClient(subscription{client: client, room: "ABCD", playerID: "p1"})

	hub.unregisterClient(client)

	if _, exists := hub.clients[client]; exists {
		t.Error("Client should have been removed")
	}
	if _, exists := hub.rooms["ABCD"]; exists {
		t.Error("Room should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister is a no-op.
	hub.unregisterClient(client)
}

func TestHubRoutesEvents(t *testing.T) {
	hub := NewHub()
	display := newTestClient(hub)
	player := newTestClient(hub)
	other := newTestClient(hub)
	hub.subscribeClient(subscription{client: display, room: "ABCD"})
	hub.subscribeClient(subscription{client: player, room: "ABCD", playerID: "p1"})
	hub.subscribeClient(subscription{client: other, room: "WXYZ"})

	hub.deliver(delivery{event: &session.Event{
		Name:    session.EventTimerTick,
		Room:    "ABCD",
		Payload: session.TimerTick{SecondsRemaining: 42},
	}})

	for _, c := range []*Client{display, player} {
		select {
		case data := <-c.send:
			msg := decode(t, data)
			if msg.Type != session.EventTimerTick || msg.RoomCode != "ABCD" {
				t.Errorf("Unexpected message %+v", msg)
			}
		default:
			t.Error("Room client did not receive broadcast")
		}
	}
	if len(other.send) != 0 {
		t.Error("Client in another room received the broadcast")
	}

	hub.deliver(delivery{event: &session.Event{
		Name:     session.EventRackUpdated,
		Room:     "ABCD",
		PlayerID: "p1",
		Payload:  session.RackUpdated{Rack: []string{"A", "B"}},
	}})

	if len(display.send) != 0 {
		t.Error("Targeted event reached the display client")
	}
	select {
	case data := <-player.send:
		if msg := decode(t, data); msg.Type != session.EventRackUpdated {
			t.Errorf("Expected rack-updated, got %s", msg.Type)
		}
	default:
		t.Error("Player did not receive targeted event")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[slow] = &member{}
	hub.subscribeClient(subscription{client: slow, room: "ABCD"})

	tick := &session.Event{Name: session.EventTimerTick, Room: "ABCD", Payload: session.TimerTick{}}
	hub.deliver(delivery{event: tick})
	hub.deliver(delivery{event: tick})

	if _, exists := hub.clients[slow]; exists {
		t.Error("Slow client should have been unregistered")
	}
}

func TestHubKeepsSessionOverWhenSaturated(t *testing.T) {
	hub := NewHub()
	player := newTestClient(hub)
	hub.subscribeClient(subscription{client: player, room: "ABCD", playerID: "p1"})

	// Ticks for a room nobody follows fill the outbox.
	tick := session.Event{Name: session.EventTimerTick, Room: "WXYZ", Payload: session.TimerTick{}}
	for i := 0; i < outboxBuffer; i++ {
		hub.Notify(tick)
	}
	hub.Notify(tick)
	if len(hub.outbox) != outboxBuffer {
		t.Fatalf("Expected a full outbox, got %d", len(hub.outbox))
	}
	if len(hub.final) != 0 {
		t.Fatal("Ordinary events must not use the session-over queue")
	}

	hub.Notify(session.Event{Name: session.EventSessionOver, Room: "ABCD", Payload: session.SessionOver{WinnerName: "ada"}})
	if len(hub.final) != 1 {
		t.Fatalf("Expected session-over to be queued, got %d", len(hub.final))
	}

	d := <-hub.final
	hub.drainOutbox()
	hub.deliver(d)
	if len(hub.outbox) != 0 {
		t.Errorf("Expected the outbox to be drained first, %d left", len(hub.outbox))
	}
	select {
	case data := <-player.send:
		if msg := decode(t, data); msg.Type != session.EventSessionOver {
			t.Errorf("Expected session-over, got %s", msg.Type)
		}
	default:
		t.Error("Player did not receive session-over")
	}
}

func TestHubRunAndShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, sendBuffer)}
	if !hub.join(client) {
		t.Fatal("join failed on a running hub")
	}
	hub.follow(client, "ABCD", "")

	if n := hub.Clients("ABCD"); n != 1 {
		t.Errorf("Expected 1 client in room, got %d", n)
	}

	hub.Notify(session.Event{Name: session.EventPlayerLeft, Room: "ABCD", Payload: session.PlayerLeft{PlayerName: "ada"}})
	select {
	case data := <-client.send:
		if msg := decode(t, data); msg.Type != session.EventPlayerLeft {
			t.Errorf("Expected player-left, got %s", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("No message received within timeout")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed on shutdown")
	}
	if hub.join(&Client{hub: hub, send: make(chan []byte, 1)}) {
		t.Error("join should fail after shutdown")
	}
	if n := hub.Clients("ABCD"); n != 0 {
		t.Errorf("Expected 0 clients after shutdown, got %d", n)
	}
}
