// Package main runs the dex REST API server. It serves the game datasets
// under the configured data root and reloads them when their files change.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/fangame-dex/internal/api"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/config"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/events"
	"github.com/ramonehamilton/fangame-dex/internal/selection"
	"github.com/ramonehamilton/fangame-dex/internal/version"
)

const selectionSweepInterval = 5 * time.Minute

// options are the command-line flags. Flags that are set override the
// config file and environment.
type options struct {
	configPath string
	port       int
	dataRoot   string
	game       string
	open       bool
	debug      bool
	noWatch    bool
}

func parseFlags(args []string) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("dexserver", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Config file (default: ~/.fangame-dex/config.toml)")
	fs.IntVar(&opts.port, "port", 0, "API server port")
	fs.StringVar(&opts.dataRoot, "data", "", "Data root holding <game>/data directories")
	fs.StringVar(&opts.game, "game", "", "Game to load at startup")
	fs.BoolVar(&opts.open, "open", false, "Open the frontend in a browser")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload games when files change")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(opts *options, fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = opts.port
		case "data":
			cfg.Data.Root = opts.dataRoot
		case "game":
			cfg.Data.DefaultGame = opts.game
		case "open":
			cfg.Server.OpenBrowser = opts.open
		case "debug":
			cfg.App.DebugMode = opts.debug
		case "no-watch":
			cfg.Data.Watch = !opts.noWatch
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	// Check if this is a service command
	if len(os.Args) > 1 && os.Args[1] == "service" {
		runServiceCommand(os.Args[2:])
		return
	}

	opts, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(opts, fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !isInteractive() {
		runAsService(cfg)
		return
	}

	fmt.Println("Fangame Dex - REST API Server")
	fmt.Println("=============================")
	fmt.Printf("Version:   %s\n", version.GetVersion())
	fmt.Printf("Data root: %s\n", cfg.Data.Root)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	fmt.Println("API server stopped.")
}

// run starts every component and blocks until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	if cfg.App.DebugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		log.Println("[Server] Debug logging enabled")
	}

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(events.NewLogObserver("dataset:", "selection:"))

	store := dataset.NewStore(dataset.NewLoader(cfg.Data.Root), events.DatasetHooks(dispatcher))

	ttl, err := cfg.GetSelectionTTL()
	if err != nil {
		return err
	}
	selections := selection.NewStore(ttl)
	services := browser.NewServices(store, selections, dispatcher)
	facades := api.NewFacades(services)

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		OpenBrowser:    cfg.Server.OpenBrowser,
		FrontendURL:    cfg.Server.FrontendURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit: api.RateLimit{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
	}, services, facades)
	dispatcher.Register(server.NewWebSocketObserver())

	if cfg.Data.Watch {
		watcher, err := startWatcher(ctx, store, cfg)
		if err != nil {
			// Serving without reloads is still useful.
			log.Printf("[Server] File watching disabled: %v", err)
		} else {
			defer func() {
				if err := watcher.Stop(); err != nil {
					log.Printf("[Server] Error stopping watcher: %v", err)
				}
			}()
			dispatcher.Register(events.NewWatchObserver(watcher))
		}
	}

	if cfg.Data.DefaultGame != "" {
		if _, err := facades.Games.Load(ctx, cfg.Data.DefaultGame); err != nil {
			log.Printf("[Server] Failed to preload %s: %v", cfg.Data.DefaultGame, err)
		}
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}
	log.Printf("[Server] API server running at http://localhost:%d", server.Port())

	go sweepSelections(ctx, facades.System)

	<-ctx.Done()
	log.Println("[Server] Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Error during shutdown: %v", err)
	}
	return nil
}

func startWatcher(ctx context.Context, store *dataset.Store, cfg *config.Config) (*dataset.Watcher, error) {
	poll, err := cfg.GetPollInterval()
	if err != nil {
		return nil, err
	}

	wcfg := dataset.DefaultWatcherConfig()
	wcfg.PollInterval = poll
	watcher, err := dataset.NewWatcher(store, wcfg)
	if err != nil {
		return nil, err
	}
	watcher.Start(ctx)
	return watcher, nil
}

func sweepSelections(ctx context.Context, system *browser.SystemFacade) {
	ticker := time.NewTicker(selectionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := system.SweepSelections(); n > 0 {
				log.Printf("[Server] Dropped %d expired selection(s)", n)
			}
		}
	}
}
