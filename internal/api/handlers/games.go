package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
)

// GamesHandler handles game listing and reload requests.
type GamesHandler struct {
	facade *browser.GamesFacade
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(facade *browser.GamesFacade) *GamesHandler {
	return &GamesHandler{facade: facade}
}

// ListGames returns the games under the data root.
func (h *GamesHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.facade.ListGames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, games)
}

// GetGame loads a game and returns its snapshot summary.
func (h *GamesHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	meta, err := h.facade.Load(r.Context(), chi.URLParam(r, "game"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, meta)
}

// ReloadGame forces a reload of the game's data files.
func (h *GamesHandler) ReloadGame(w http.ResponseWriter, r *http.Request) {
	meta, err := h.facade.Reload(r.Context(), chi.URLParam(r, "game"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Accepted(w, meta)
}
