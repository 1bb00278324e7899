// Package ipc subscribes to the dex server's websocket event stream.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AnyEvent registers a handler for every event type.
const AnyEvent = "*"

// Event is one frame from the server.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode unmarshals the event data into T.
func Decode[T any](e Event) (T, error) {
	var v T
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, fmt.Errorf("decode %s event: %w", e.Type, err)
	}
	return v, nil
}

// EventHandler handles one event. Handlers run on the read loop, in order.
type EventHandler func(Event)

// Client reads events from a server websocket and reconnects when the
// connection drops.
type Client struct {
	url    string
	dialer *websocket.Dialer

	handlers   map[string][]EventHandler
	handlersMu sync.RWMutex

	connected   bool
	connectedMu sync.RWMutex

	// RetryDelay is the pause between reconnect attempts.
	RetryDelay time.Duration
}

// NewClient creates a client for a ws:// or http:// URL. An http URL is
// rewritten to its websocket form.
func NewClient(url string) *Client {
	switch {
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	}
	return &Client{
		url:        url,
		dialer:     websocket.DefaultDialer,
		handlers:   make(map[string][]EventHandler),
		RetryDelay: 5 * time.Second,
	}
}

// URL returns the websocket URL.
func (c *Client) URL() string {
	return c.url
}

// On registers a handler for an event type, or AnyEvent.
func (c *Client) On(eventType string, handler EventHandler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()

	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// IsConnected reports whether a connection is currently open.
func (c *Client) IsConnected() bool {
	c.connectedMu.RLock()
	defer c.connectedMu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(connected bool) {
	c.connectedMu.Lock()
	defer c.connectedMu.Unlock()
	c.connected = connected
}

// Run connects and dispatches events until ctx is cancelled. Dropped
// connections are retried after RetryDelay. The first dial must succeed.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	for {
		err := c.listen(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("[IPC] Connection to %s lost: %v", c.url, err)

		for conn = nil; conn == nil; {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.RetryDelay):
			}
			if conn, err = c.dial(ctx); err != nil {
				log.Printf("[IPC] Reconnection failed: %v", err)
			}
		}
		log.Printf("[IPC] Reconnected to %s", c.url)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.url, err)
	}
	c.setConnected(true)
	return conn, nil
}

// listen reads frames until the connection fails or ctx is done.
func (c *Client) listen(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	defer func() {
		c.setConnected(false)
		_ = conn.Close()
	}()

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return fmt.Errorf("server closed connection")
			}
			return err
		}
		c.dispatch(event)
	}
}

func (c *Client) dispatch(event Event) {
	c.handlersMu.RLock()
	handlers := append([]EventHandler(nil), c.handlers[event.Type]...)
	handlers = append(handlers, c.handlers[AnyEvent]...)
	c.handlersMu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
