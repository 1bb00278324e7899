package websocket

import (
	"log"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/events"
)

// WebSocketObserver forwards dataset and selection events to clients.
type WebSocketObserver struct {
	name string
	hub  *Hub
}

// NewWebSocketObserver creates an observer bound to a hub.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent broadcasts the event payload.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] Cannot emit event %s: hub is nil", o.name, event.Type)
		return nil
	}

	if o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Payload}) {
		log.Printf("[%s] Broadcast %s to %d clients", o.name, event.Type, o.hub.ClientCount())
	}
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle accepts dataset and selection events.
func (o *WebSocketObserver) ShouldHandle(eventType string) bool {
	return strings.HasPrefix(eventType, "dataset:") || strings.HasPrefix(eventType, "selection:")
}

var _ events.Observer = (*WebSocketObserver)(nil)
