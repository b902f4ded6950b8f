package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := NewHub(log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("name"))
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	return hub, srv, cancel
}

// subscribe dials the hub and waits for a pong so the client is known to be
// registered before the test publishes anything.
func subscribe(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.WriteJSON(Event{Type: "ping"}); err != nil {
		t.Fatalf("WriteJSON(ping) error = %v", err)
	}
	if ev := readEvent(t, conn); ev.Type != "pong" {
		t.Fatalf("expected pong, got %q", ev.Type)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return ev
}

func TestHub_PublishReachesAllClients(t *testing.T) {
	hub, srv, _ := newHubServer(t)

	a := subscribe(t, srv, "a")
	b := subscribe(t, srv, "b")

	hub.Publish(Event{Type: EventTodoCreated, Data: map[string]string{"id": "1"}})

	for name, conn := range map[string]*websocket.Conn{"a": a, "b": b} {
		ev := readEvent(t, conn)
		if ev.Type != EventTodoCreated {
			t.Errorf("client %s: type = %q, want %q", name, ev.Type, EventTodoCreated)
		}
		data, ok := ev.Data.(map[string]any)
		if !ok || data["id"] != "1" {
			t.Errorf("client %s: unexpected data %#v", name, ev.Data)
		}
	}
}

func TestHub_IgnoresNonPingMessages(t *testing.T) {
	hub, srv, _ := newHubServer(t)
	conn := subscribe(t, srv, "a")

	if err := conn.WriteJSON(Event{Type: EventTodoDeleted}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	hub.Publish(Event{Type: EventTodoUpdated})

	// The client's own message is not echoed; the first thing back is the
	// published event.
	if ev := readEvent(t, conn); ev.Type != EventTodoUpdated {
		t.Fatalf("expected %q, got %q", EventTodoUpdated, ev.Type)
	}
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	_, srv, cancel := newHubServer(t)
	conn := subscribe(t, srv, "a")

	cancel()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
		t.Fatalf("expected close after cancel, got %v", err)
	}
}

func TestHub_PublishWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub(log.New(io.Discard))

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+10; i++ {
			hub.Publish(Event{Type: EventTodoCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked with no running hub")
	}
}
