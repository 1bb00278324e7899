package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ramonehamilton/fangame-dex/internal/events"
)

func TestNewWebSocketObserver(t *testing.T) {
	hub := NewHub()
	observer := NewWebSocketObserver(hub)

	if observer.hub != hub {
		t.Error("Observer hub reference is incorrect")
	}
	if observer.GetName() != "WebSocketObserver" {
		t.Errorf("Expected 'WebSocketObserver', got '%s'", observer.GetName())
	}
}

func TestWebSocketObserver_ShouldHandle(t *testing.T) {
	observer := NewWebSocketObserver(NewHub())

	for _, eventType := range []string{events.DatasetLoaded, events.DatasetReloaded, events.DatasetReloadFailed, events.SelectionChanged} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected observer to handle %s", eventType)
		}
	}
	if observer.ShouldHandle("internal:tick") {
		t.Error("Expected observer to ignore unrelated events")
	}
}

func TestWebSocketObserver_NilHub(t *testing.T) {
	observer := NewWebSocketObserver(nil)
	if err := observer.OnEvent(events.New(events.DatasetLoaded, nil)); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestWebSocketObserver_ForwardsPayload(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn, _, err := dial(t, server, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(NewWebSocketObserver(hub))
	dispatcher.Dispatch(events.New(events.DatasetReloadFailed, events.DatasetErrorEvent{Game: "ss2", Error: "bad json"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var frame struct {
		Type string                   `json:"type"`
		Data events.DatasetErrorEvent `json:"data"`
	}
	if err := json.Unmarshal(message, &frame); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if frame.Type != events.DatasetReloadFailed {
		t.Errorf("Expected %s, got %s", events.DatasetReloadFailed, frame.Type)
	}
	if frame.Data.Game != "ss2" || frame.Data.Error != "bad json" {
		t.Errorf("Unexpected payload: %+v", frame.Data)
	}
}
