package browser

import (
	"runtime"
	"time"

	"github.com/ramonehamilton/fangame-dex/internal/metrics"
	"github.com/ramonehamilton/fangame-dex/internal/version"
)

// SystemFacade reports server status.
type SystemFacade struct {
	services  *Services
	startedAt time.Time
}

// NewSystemFacade creates a new SystemFacade.
func NewSystemFacade(services *Services) *SystemFacade {
	return &SystemFacade{
		services:  services,
		startedAt: time.Now(),
	}
}

// Status is the server status summary.
type Status struct {
	Version     string   `json:"version"`
	GoVersion   string   `json:"goVersion"`
	DataRoot    string   `json:"dataRoot"`
	LoadedGames []string `json:"loadedGames"`
	Selections  int      `json:"selections"`
	Observers   int      `json:"observers"`
	Uptime      string   `json:"uptime"`

	Requests metrics.Snapshot `json:"requests"`
}

// GetStatus returns the current status.
func (s *SystemFacade) GetStatus() Status {
	return Status{
		Version:     version.GetVersion(),
		GoVersion:   runtime.Version(),
		DataRoot:    s.services.Store.Loader().Root(),
		LoadedGames: s.services.Store.Loaded(),
		Selections:  s.services.Selections.Len(),
		Observers:   s.services.Dispatcher.ObserverCount(),
		Uptime:      time.Since(s.startedAt).Round(time.Second).String(),
		Requests:    s.services.Requests.Snapshot(),
	}
}

// SweepSelections drops expired selections.
func (s *SystemFacade) SweepSelections() int {
	return s.services.Selections.Sweep()
}
