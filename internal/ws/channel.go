package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrChannelClosed is returned by Send after Close. Producers that race
// teardown (telemetry stream, step callbacks) treat it as a signal to
// stop, not as a reportable failure.
var ErrChannelClosed = errors.New("ws: event channel closed")

// EventChannel wraps a session's connection and serializes all outbound
// writes. The command loop, step callbacks, and the telemetry stream
// all send through it concurrently; the lock guarantees frames never
// interleave and events hit the wire in the order they were produced.
//
// Reads are not locked: the command loop is the connection's only
// reader.
type EventChannel struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

func NewEventChannel(conn *websocket.Conn) *EventChannel {
	return &EventChannel{conn: conn}
}

// Send marshals the event and writes it as a single text frame. The
// timestamp is stamped under the lock, so wire order matches timestamp
// order.
func (c *EventChannel) Send(ev *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Read returns the next inbound message. Only the command loop may
// call it.
func (c *EventChannel) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// Close releases the connection. Safe to call multiple times; any
// in-flight Send completes before the connection is closed.
func (c *EventChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
