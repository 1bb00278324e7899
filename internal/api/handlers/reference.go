package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
)

// ReferenceHandler handles type, move and ability lookups.
type ReferenceHandler struct {
	details  *browser.DetailsFacade
	matchups *browser.MatchupsFacade
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(details *browser.DetailsFacade, matchups *browser.MatchupsFacade) *ReferenceHandler {
	return &ReferenceHandler{details: details, matchups: matchups}
}

// GetTypes returns the type relationship table.
func (h *ReferenceHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.matchups.GetTypeTable(r.Context(), chi.URLParam(r, "game"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, rows)
}

// GetMatchups returns the buckets for ?types=A,B.
func (h *ReferenceHandler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	types := strings.Split(r.URL.Query().Get("types"), ",")

	res, err := h.matchups.ForTypes(r.Context(), chi.URLParam(r, "game"), types)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, res)
}

// GetMove returns a move and its rendered row.
func (h *ReferenceHandler) GetMove(w http.ResponseWriter, r *http.Request) {
	move, err := h.details.GetMove(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, move)
}

// GetAbility returns an ability description.
func (h *ReferenceHandler) GetAbility(w http.ResponseWriter, r *http.Request) {
	ability, err := h.details.GetAbility(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, ability)
}
