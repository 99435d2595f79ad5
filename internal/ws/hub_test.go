package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newHubServer registers every accepted connection under the id passed in
// the query string.
func newHubServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := r.URL.Query().Get("id")
		hub.AddConnection(id, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.RemoveConnection(id)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, id string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?id="+id, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func read(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// expectSilence leaves conn unusable for further reads.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("unexpected message %+v", msg)
	}
}

func registered(hub *Hub, id string) bool {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	_, ok := hub.conns[id]
	return ok
}

func TestHubRoutesByRoomAndConnection(t *testing.T) {
	hub := NewHub()
	url := newHubServer(t, hub)

	host := dial(t, url, "host")
	player := dial(t, url, "player")
	outsider := dial(t, url, "outsider")
	waitFor(t, func() bool {
		return registered(hub, "host") && registered(hub, "player") && registered(hub, "outsider")
	})

	hub.Join("123456", "host")
	hub.Join("123456", "player")
	if hub.RoomSize("123456") != 2 {
		t.Fatalf("RoomSize = %d", hub.RoomSize("123456"))
	}

	hub.Broadcast("123456", WSMessage{Type: "game_started"})
	for _, c := range []*websocket.Conn{host, player} {
		if msg := read(t, c); msg.Type != "game_started" {
			t.Errorf("got %+v", msg)
		}
	}
	expectSilence(t, outsider)

	hub.Send("host", WSMessage{Type: "answer_progress", Data: map[string]int{"count": 1}})
	msg := read(t, host)
	if msg.Type != "answer_progress" || msg.Data.(map[string]interface{})["count"] != float64(1) {
		t.Errorf("got %+v", msg)
	}

	hub.Leave("123456", "player")
	hub.Broadcast("123456", WSMessage{Type: "player_left"})
	read(t, host)
	// neither the host-only frame nor the post-leave broadcast reached the player
	expectSilence(t, player)

	hub.CloseRoom("123456")
	if hub.RoomSize("123456") != 0 {
		t.Error("room survived CloseRoom")
	}
	hub.Broadcast("123456", WSMessage{Type: "nobody"})
	expectSilence(t, host)

	// unknown targets are ignored
	hub.Send("ghost", WSMessage{Type: "x"})
	hub.Broadcast("000000", WSMessage{Type: "x"})
}

func TestHubRemoveConnection(t *testing.T) {
	hub := NewHub()
	url := newHubServer(t, hub)

	player := dial(t, url, "player")
	waitFor(t, func() bool { return registered(hub, "player") })
	hub.Join("111111", "player")
	hub.Join("222222", "player")

	player.Close()
	waitFor(t, func() bool { return !registered(hub, "player") })

	if hub.RoomSize("111111") != 0 || hub.RoomSize("222222") != 0 {
		t.Error("closed connection left in rooms")
	}
	hub.RemoveConnection("player")
}

func TestHubDropsClientThatStopsReading(t *testing.T) {
	hub := NewHub()
	url := newHubServer(t, hub)

	dial(t, url, "stalled") // never read from
	watcher := dial(t, url, "watcher")
	waitFor(t, func() bool { return registered(hub, "stalled") && registered(hub, "watcher") })
	hub.Join("123456", "stalled")
	hub.Join("123456", "watcher")

	payload := strings.Repeat("x", 256<<10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 8*sendBuffer; i++ {
			hub.Send("stalled", WSMessage{Type: "flood", Data: payload})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Send blocked on a client that stopped reading")
	}

	waitFor(t, func() bool { return !registered(hub, "stalled") })

	hub.Broadcast("123456", WSMessage{Type: "still_here"})
	if msg := read(t, watcher); msg.Type != "still_here" {
		t.Errorf("watcher got %+v", msg)
	}
}
