package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, server *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"http://localhost:*", "https://dex.example.com"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"https://dex.example.com", true},
		{"https://evil.example.com", false},
		{"http://127.0.0.1:3000", false},
	}
	for _, tt := range tests {
		if got := OriginAllowed(tt.origin, patterns); got != tt.want {
			t.Errorf("OriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	if !OriginAllowed("https://anything", nil) {
		t.Error("Expected empty pattern list to allow every origin")
	}
}

func TestHub_BroadcastToClient(t *testing.T) {
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

	if !hub.BroadcastEvent(Event{Type: "dataset:reloaded", Data: map[string]interface{}{"game": "ss2"}}) {
		t.Fatal("Expected broadcast to succeed")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var received Event
	if err := json.Unmarshal(message, &received); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if received.Type != "dataset:reloaded" {
		t.Errorf("Expected type dataset:reloaded, got %s", received.Type)
	}
}

func TestHub_Hello(t *testing.T) {
	hub := NewHubWithOptions(Options{
		Hello: func() Event { return Event{Type: "hello", Data: map[string]string{"version": "test"}} },
	})
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn, _, err := dial(t, server, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read hello: %v", err)
	}
	if !strings.Contains(string(message), `"type":"hello"`) {
		t.Errorf("Expected hello frame, got %s", message)
	}
}

func TestHub_RejectsOrigin(t *testing.T) {
	hub := NewHubWithOptions(Options{AllowedOrigins: []string{"http://localhost:*"}})
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := dial(t, server, header)
	if err == nil {
		t.Fatal("Expected dial to fail for disallowed origin")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", resp.StatusCode)
	}
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()

	deadline := time.Now().Add(time.Second)
	for !hub.IsStopped() {
		if time.Now().After(deadline) {
			t.Fatal("Hub did not stop")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if hub.BroadcastEvent(Event{Type: "dataset:loaded"}) {
		t.Error("Expected broadcast to fail after stop")
	}

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after stop, got %d", rec.Code)
	}
}
