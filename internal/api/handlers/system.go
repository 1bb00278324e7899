package handlers

import (
	"net/http"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/version"
)

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	facade *browser.SystemFacade
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(facade *browser.SystemFacade) *SystemHandler {
	return &SystemHandler{facade: facade}
}

// GetStatus returns the system status.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.facade.GetStatus())
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": "fangame-dex-api",
	})
}
