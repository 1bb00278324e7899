package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/fangame-dex/internal/api/websocket"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/metrics"
	"github.com/ramonehamilton/fangame-dex/internal/version"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	// Browser auto-open configuration
	openBrowser bool
	frontendURL string

	allowedOrigins []string
	limiter        *clientLimiter
	requests       *metrics.Requests

	// WebSocket hub for dataset events
	wsHub *websocket.Hub

	// Facades - same facades used by dexctl
	gamesFacade     *browser.GamesFacade
	speciesFacade   *browser.SpeciesFacade
	detailsFacade   *browser.DetailsFacade
	matchupsFacade  *browser.MatchupsFacade
	selectionFacade *browser.SelectionFacade
	systemFacade    *browser.SystemFacade

	services *browser.Services
}

// RateLimit configures per-client request limiting.
type RateLimit struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	OpenBrowser    bool     // Whether to auto-open browser on startup
	FrontendURL    string   // URL to open in browser (e.g., http://localhost:3000)
	AllowedOrigins []string // CORS and websocket origins
	RateLimit      RateLimit
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		OpenBrowser:    false,
		FrontendURL:    "",
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		RateLimit: RateLimit{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Facades holds all the facade instances needed by the API server.
type Facades struct {
	Games     *browser.GamesFacade
	Species   *browser.SpeciesFacade
	Details   *browser.DetailsFacade
	Matchups  *browser.MatchupsFacade
	Selection *browser.SelectionFacade
	System    *browser.SystemFacade
}

// NewFacades builds every facade over the same services.
func NewFacades(services *browser.Services) *Facades {
	return &Facades{
		Games:     browser.NewGamesFacade(services),
		Species:   browser.NewSpeciesFacade(services),
		Details:   browser.NewDetailsFacade(services),
		Matchups:  browser.NewMatchupsFacade(services),
		Selection: browser.NewSelectionFacade(services),
		System:    browser.NewSystemFacade(services),
	}
}

// NewServer creates a new API server with the given facades.
func NewServer(cfg *Config, services *browser.Services, facades *Facades) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if facades == nil {
		facades = &Facades{}
	}

	s := &Server{
		router:          chi.NewRouter(),
		port:            cfg.Port,
		openBrowser:     cfg.OpenBrowser,
		frontendURL:     cfg.FrontendURL,
		allowedOrigins:  cfg.AllowedOrigins,
		services:        services,
		gamesFacade:     facades.Games,
		speciesFacade:   facades.Species,
		detailsFacade:   facades.Details,
		matchupsFacade:  facades.Matchups,
		selectionFacade: facades.Selection,
		systemFacade:    facades.System,
	}

	// Create WebSocket hub
	s.wsHub = websocket.NewHubWithOptions(websocket.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Hello:          s.hello,
	})

	if services != nil {
		s.requests = services.Requests
	}

	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerSecond > 0 {
		s.limiter = newClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// hello is the first frame sent to each websocket client.
func (s *Server) hello() websocket.Event {
	data := map[string]interface{}{"version": version.GetVersion()}
	if s.services != nil && s.services.Store != nil {
		data["loadedGames"] = s.services.Store.Loaded()
	}
	return websocket.Event{Type: "connected", Data: data}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Latency per route pattern
	if s.requests != nil {
		s.router.Use(s.metricsMiddleware)
	}

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Per-client rate limiting
	if s.limiter != nil {
		s.router.Use(s.limiter.middleware)
	}

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// metricsMiddleware records the duration and status of each request under
// its chi route pattern.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.requests.Observe(route, status, time.Since(start))
	})
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only check content-type for methods that typically have request bodies
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			// Skip if there's no content
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Check content-type header
			contentType := r.Header.Get("Content-Type")
			if contentType == "" || (contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;")) {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	// Start WebSocket hub
	go s.wsHub.Run()

	if s.limiter != nil {
		go s.limiter.sweepLoop()
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	// Open browser after short delay to ensure server is ready
	if s.openBrowser && s.frontendURL != "" {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := openBrowser(s.frontendURL); err != nil {
				log.Printf("Failed to open browser: %v", err)
			} else {
				log.Printf("Opened browser to %s", s.frontendURL)
			}
		}()
	}

	return nil
}

// openBrowser opens the specified URL in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Shutdown gracefully shuts down the API server and disconnects websocket
// clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.limiter != nil {
		s.limiter.stop()
	}

	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration.
// This can be used to create a WebSocketObserver for the EventDispatcher.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates a new WebSocket observer that can be registered
// with an EventDispatcher to forward events to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.WebSocketObserver {
	return websocket.NewWebSocketObserver(s.wsHub)
}
