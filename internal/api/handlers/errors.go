package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/charts"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/evolution"
	"github.com/ramonehamilton/fangame-dex/internal/selection"
)

// writeError maps a facade error to a status code.
func writeError(w http.ResponseWriter, err error) {
	var appErr *browser.AppError
	var suggestions []string
	if errors.As(err, &appErr) {
		suggestions = appErr.Suggestions
	}

	var loadErr *dataset.LoadError
	switch {
	case errors.Is(err, browser.ErrInvalidInput):
		response.BadRequest(w, err)
	case errors.Is(err, dataset.ErrGameNotFound),
		errors.Is(err, dataset.ErrSpeciesNotFound):
		response.NotFoundWithSuggestions(w, err, suggestions)
	case errors.Is(err, browser.ErrNotFound),
		errors.Is(err, selection.ErrNoSelection),
		errors.Is(err, charts.ErrNoStats):
		response.NotFound(w, err)
	case errors.Is(err, evolution.ErrCycle):
		response.Error(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &loadErr):
		response.ServiceUnavailable(w, err)
	default:
		response.InternalError(w, err)
	}
}
