package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/dex/search"
)

// SpeciesHandler handles species listing and per-species views.
type SpeciesHandler struct {
	species  *browser.SpeciesFacade
	details  *browser.DetailsFacade
	matchups *browser.MatchupsFacade
}

// NewSpeciesHandler creates a new SpeciesHandler.
func NewSpeciesHandler(species *browser.SpeciesFacade, details *browser.DetailsFacade, matchups *browser.MatchupsFacade) *SpeciesHandler {
	return &SpeciesHandler{species: species, details: details, matchups: matchups}
}

// ListSpecies returns the filtered card listing. When page is given the
// cards are paginated.
func (h *SpeciesHandler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := search.Query{
		Text:    q.Get("q"),
		Name:    q.Get("name"),
		Type:    q.Get("type"),
		Ability: q.Get("ability"),
		Move:    q.Get("move"),
		Sort:    q.Get("sort"),
	}

	list, err := h.species.Search(r.Context(), chi.URLParam(r, "game"), query)
	if err != nil {
		writeError(w, err)
		return
	}

	if q.Get("page") == "" {
		response.Success(w, list)
		return
	}

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 50
	if ps, err := strconv.Atoi(q.Get("page_size")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}

	start := (page - 1) * pageSize
	if start > len(list.Cards) {
		start = len(list.Cards)
	}
	end := start + pageSize
	if end > len(list.Cards) {
		end = len(list.Cards)
	}
	response.Paginated(w, list.Cards[start:end], page, pageSize, list.Total)
}

// GetSpecies returns the card for one species.
func (h *SpeciesHandler) GetSpecies(w http.ResponseWriter, r *http.Request) {
	card, err := h.species.GetCard(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, card)
}

// GetDetails returns the full detail view.
func (h *SpeciesHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	view, err := h.details.GetDetails(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, view)
}

// GetEvolutions returns the evolution chain tree.
func (h *SpeciesHandler) GetEvolutions(w http.ResponseWriter, r *http.Request) {
	chain, err := h.details.GetEvolutionChain(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, chain)
}

// GetMatchups returns the type effectiveness buckets for the species' types.
func (h *SpeciesHandler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	res, err := h.matchups.ForSpecies(r.Context(), chi.URLParam(r, "game"), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, res)
}

// GetStatsChart returns an HTML bar chart of base stats. Extra species can
// be overlaid with compare=KEY1,KEY2.
func (h *SpeciesHandler) GetStatsChart(w http.ResponseWriter, r *http.Request) {
	var compare []string
	if c := r.URL.Query().Get("compare"); c != "" {
		compare = strings.Split(c, ",")
	}

	var buf bytes.Buffer
	err := h.species.RenderStatsChart(r.Context(), &buf, chi.URLParam(r, "game"), chi.URLParam(r, "key"), compare...)
	if err != nil {
		writeError(w, err)
		return
	}

	response.HTML(w, buf.Bytes())
}
