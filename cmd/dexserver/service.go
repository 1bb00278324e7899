package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kardianos/service"

	"github.com/ramonehamilton/fangame-dex/internal/config"
)

// serverProgram implements service.Interface
type serverProgram struct {
	cfg    *config.Config
	cancel context.CancelFunc
	done   chan struct{}
}

// Start implements service.Interface
func (p *serverProgram) Start(s service.Service) error {
	log.Println("Starting Fangame Dex service...")

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx)
	return nil
}

// run executes the server until Stop cancels it
func (p *serverProgram) run(ctx context.Context) {
	defer close(p.done)
	if err := run(ctx, p.cfg); err != nil {
		log.Printf("Service error: %v", err)
	}
}

// Stop implements service.Interface
func (p *serverProgram) Stop(s service.Service) error {
	log.Println("Stopping Fangame Dex service...")
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return nil
}

// getServiceConfig returns the service configuration
func getServiceConfig(args []string) *service.Config {
	return &service.Config{
		Name:        "FangameDex",
		DisplayName: "Fangame Dex",
		Description: "REST API serving fan-game species, evolution and type matchup data",
		Arguments:   args,
	}
}

func isInteractive() bool {
	return service.Interactive()
}

// runAsService hands control to the service manager.
func runAsService(cfg *config.Config) {
	s, err := service.New(&serverProgram{cfg: cfg}, getServiceConfig(nil))
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	if err := s.Run(); err != nil {
		log.Fatalf("Service failed: %v", err)
	}
}

func printServiceUsage() {
	fmt.Println("Usage: dexserver service [install|uninstall|start|stop|restart|status] [server flags]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  install    - Install the server as a system service")
	fmt.Println("  uninstall  - Uninstall the service")
	fmt.Println("  start      - Start the service")
	fmt.Println("  stop       - Stop the service")
	fmt.Println("  restart    - Restart the service")
	fmt.Println("  status     - Show service status")
}

// runServiceCommand handles service management commands. Flags after the
// action are stored with the installed service.
func runServiceCommand(args []string) {
	if len(args) < 1 {
		printServiceUsage()
		os.Exit(1)
	}

	action := args[0]

	prg := &serverProgram{}
	svcConfig := getServiceConfig(args[1:])
	s, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	switch action {
	case "install":
		if err := s.Install(); err != nil {
			log.Fatalf("Failed to install service: %v", err)
		}
		fmt.Println("✓ Service installed successfully")
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Start the service: dexserver service start")
		fmt.Println("  2. Verify it's running: dexserver service status")
		fmt.Println("  3. View logs:")
		switch service.Platform() {
		case "darwin-launchd":
			fmt.Println("     tail -f ~/Library/Logs/FangameDex.log")
		case "windows-service":
			fmt.Println("     Check Event Viewer")
		default:
			fmt.Println("     journalctl -u FangameDex -f")
		}

	case "uninstall":
		if err := s.Uninstall(); err != nil {
			log.Fatalf("Failed to uninstall service: %v", err)
		}
		fmt.Println("✓ Service uninstalled successfully")

	case "start":
		if err := s.Start(); err != nil {
			log.Fatalf("Failed to start service: %v", err)
		}
		fmt.Println("✓ Service started successfully")

	case "stop":
		if err := s.Stop(); err != nil {
			log.Fatalf("Failed to stop service: %v", err)
		}
		fmt.Println("✓ Service stopped successfully")

	case "restart":
		if err := s.Restart(); err != nil {
			log.Fatalf("Failed to restart service: %v", err)
		}
		fmt.Println("✓ Service restarted successfully")

	case "status":
		status, err := s.Status()
		if err != nil {
			log.Fatalf("Failed to get service status: %v", err)
		}

		fmt.Println("Service Status:")
		switch status {
		case service.StatusRunning:
			fmt.Println("  Status: ✓ Running")
		case service.StatusStopped:
			fmt.Println("  Status: ● Stopped")
		default:
			fmt.Println("  Status: ? Unknown")
		}

		fmt.Println("\nService Details:")
		fmt.Printf("  Name: %s\n", svcConfig.Name)
		fmt.Printf("  Display Name: %s\n", svcConfig.DisplayName)
		fmt.Printf("  Description: %s\n", svcConfig.Description)

	default:
		fmt.Printf("Unknown service command: %s\n", action)
		printServiceUsage()
		os.Exit(1)
	}
}
