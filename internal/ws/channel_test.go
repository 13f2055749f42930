package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestChannel dials a loopback websocket and returns the server-side
// event channel plus the client connection.
func newTestChannel(t *testing.T) (*EventChannel, *websocket.Conn) {
	t.Helper()

	chCh := make(chan *EventChannel, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		chCh <- NewEventChannel(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	ch := <-chCh
	t.Cleanup(func() { ch.Close() })
	return ch, client
}

func TestEventChannelSend(t *testing.T) {
	ch, client := newTestChannel(t)

	if err := ch.Send(&Event{Type: EventConnection, Message: "hello", SessionID: "s1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if ev.Type != EventConnection || ev.Message != "hello" || ev.SessionID != "s1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Timestamp == "" {
		t.Error("timestamp not stamped")
	}
	if _, err := time.Parse(time.RFC3339Nano, ev.Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", ev.Timestamp, err)
	}
}

// Concurrent producers must never interleave frames, and each producer's
// events must arrive in the order it sent them.
func TestEventChannelConcurrentSends(t *testing.T) {
	ch, client := newTestChannel(t)

	const producers = 8
	const perProducer = 25

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ev := &Event{Type: EventStatusUpdate, Message: fmt.Sprintf("p%d-%d", p, i)}
				if err := ch.Send(ev); err != nil {
					t.Errorf("producer %d send %d: %v", p, i, err)
					return
				}
			}
		}(p)
	}
	wg.Wait()

	lastSeen := make([]int, producers)
	for i := range lastSeen {
		lastSeen[i] = -1
	}

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for n := 0; n < producers*perProducer; n++ {
		_, data, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", n, err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("frame %d is not a valid event: %v", n, err)
		}

		var p, i int
		if _, err := fmt.Sscanf(ev.Message, "p%d-%d", &p, &i); err != nil {
			t.Fatalf("frame %d has unexpected message %q", n, ev.Message)
		}
		if i != lastSeen[p]+1 {
			t.Fatalf("producer %d events out of order: got %d after %d", p, i, lastSeen[p])
		}
		lastSeen[p] = i
	}
}

func TestEventChannelClose(t *testing.T) {
	ch, _ := newTestChannel(t)

	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := ch.Send(&Event{Type: EventTyping}); err != ErrChannelClosed {
		t.Errorf("Send after Close = %v, want ErrChannelClosed", err)
	}
}
