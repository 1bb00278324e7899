package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	apiwebsocket "github.com/ramonehamilton/fangame-dex/internal/api/websocket"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset/datasettest"
	"github.com/ramonehamilton/fangame-dex/internal/events"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *browser.Services) {
	t.Helper()
	root := datasettest.WriteDefault(t)
	dispatcher := events.NewEventDispatcher()
	store := dataset.NewStore(dataset.NewLoader(root), events.DatasetHooks(dispatcher))
	services := browser.NewServices(store, nil, dispatcher)
	return NewServer(cfg, services, NewFacades(services)), services
}

func TestNewServer(t *testing.T) {
	cfg := DefaultConfig()
	facades := &Facades{}

	server := NewServer(cfg, nil, facades)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}

	if server.port != cfg.Port {
		t.Errorf("Expected port %d, got %d", cfg.Port, server.port)
	}

	if server.wsHub == nil {
		t.Error("Expected wsHub to be initialized")
	}

	if server.limiter == nil {
		t.Error("Expected rate limiter to be enabled by default")
	}
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, nil, nil)

	if server == nil {
		t.Fatal("NewServer returned nil with nil config")
	}

	// Should use default port
	if server.port != 8080 {
		t.Errorf("Expected default port 8080, got %d", server.port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}

	if cfg.OpenBrowser {
		t.Error("Expected OpenBrowser to be false by default")
	}

	if cfg.FrontendURL != "" {
		t.Errorf("Expected empty FrontendURL, got %s", cfg.FrontendURL)
	}
}

func TestServer_Port(t *testing.T) {
	cfg := &Config{Port: 9999}
	server := NewServer(cfg, nil, &Facades{})

	if server.Port() != 9999 {
		t.Errorf("Expected port 9999, got %d", server.Port())
	}
	if server.limiter != nil {
		t.Error("Expected no rate limiter when disabled")
	}
}

func TestServer_HealthCheck(t *testing.T) {
	server, _ := newTestServer(t, nil)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestServer_Routes(t *testing.T) {
	server, _ := newTestServer(t, &Config{Port: 8080})
	h := server.Handler()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/games", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species/BULBASAUR", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species/BULBASAUR/details", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species/BULBASAUR/evolutions", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species/BULBASAUR/matchups", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/species/BULBASAUR/stats-chart", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/types", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/matchups?types=Fire", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/moves/TACKLE", http.StatusOK},
		{http.MethodGet, "/api/v1/games/testdex/abilities/Overgrow", http.StatusOK},
		{http.MethodGet, "/api/v1/games/unknown/species", http.StatusNotFound},
		{http.MethodGet, "/api/v1/selection", http.StatusNotFound},
		{http.MethodPost, "/api/v1/games/testdex/reload", http.StatusAccepted},
		{http.MethodGet, "/api/v1/system/status", http.StatusOK},
		{http.MethodGet, "/api/v1/system/version", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestServer_RequiresJSONContentType(t *testing.T) {
	server, _ := newTestServer(t, &Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/selection", strings.NewReader(`{"game":"testdex","key":"EEVEE"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", w.Code)
	}
}

func TestServer_RateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimit{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}
	server, _ := newTestServer(t, cfg)
	h := server.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/version", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", codes[2])
	}

	// Health checks bypass the limiter.
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health check to pass, got %d", w.Code)
	}
}

func TestClientLimiter_Sweep(t *testing.T) {
	l := newClientLimiter(1, 1)
	l.get("10.0.0.1")

	if n := l.sweep(time.Now()); n != 0 {
		t.Errorf("Expected no entries swept, got %d", n)
	}
	if n := l.sweep(time.Now().Add(limiterIdleTTL + time.Second)); n != 1 {
		t.Errorf("Expected one entry swept, got %d", n)
	}
}

func TestServer_RecordsRouteLatency(t *testing.T) {
	server, _ := newTestServer(t, &Config{Port: 8080})
	h := server.Handler()

	for _, path := range []string{
		"/api/v1/games/testdex/species/BULBASAUR",
		"/api/v1/games/testdex/species/IVYSAUR",
		"/api/v1/games/testdex/species/NOPE",
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Data browser.Status `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}

	snap := body.Data.Requests
	if snap.Total != 3 {
		t.Errorf("Expected 3 recorded requests, got %d", snap.Total)
	}
	if snap.ClientError != 1 {
		t.Errorf("Expected 1 client error, got %d", snap.ClientError)
	}
	if len(snap.Routes) == 0 || !strings.HasPrefix(snap.Routes[0].Route, "/api/v1/games/{game}/species/{key}") {
		t.Errorf("Unexpected routes: %+v", snap.Routes)
	}
}

func TestServer_WebSocketHub(t *testing.T) {
	server := NewServer(nil, nil, &Facades{})

	if server.WebSocketHub() == nil {
		t.Error("Expected WebSocketHub to return non-nil hub")
	}
	if server.NewWebSocketObserver() == nil {
		t.Error("Expected NewWebSocketObserver to return non-nil observer")
	}
}

func TestServer_ReloadIsBroadcast(t *testing.T) {
	server, services := newTestServer(t, &Config{Port: 8080})
	services.Dispatcher.Register(server.NewWebSocketObserver())

	go server.wsHub.Run()
	defer server.wsHub.Stop()

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// The hello frame confirms the client is registered.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var hello apiwebsocket.Event
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("Failed to read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("Expected connected frame, got %s", hello.Type)
	}

	resp, err := http.Post(httpServer.URL+"/api/v1/games/testdex/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("Reload request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message from WebSocket: %v", err)
	}

	var received apiwebsocket.Event
	if err := json.Unmarshal(message, &received); err != nil {
		t.Fatalf("Failed to unmarshal received message: %v", err)
	}
	if received.Type != events.DatasetReloaded {
		t.Errorf("Expected %s, got %s", events.DatasetReloaded, received.Type)
	}
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, nil, &Facades{})

	// Shutdown on a server that hasn't started should not error
	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected no error on shutdown of non-started server, got %v", err)
	}
}
