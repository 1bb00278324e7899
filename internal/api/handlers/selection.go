package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
	"github.com/ramonehamilton/fangame-dex/internal/browser"
	"github.com/ramonehamilton/fangame-dex/internal/selection"
)

// SelectionHandler handles the per-session selection handoff.
type SelectionHandler struct {
	facade *browser.SelectionFacade
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(facade *browser.SelectionFacade) *SelectionHandler {
	return &SelectionHandler{facade: facade}
}

// SelectRequest is the body of PUT /selection.
type SelectRequest struct {
	Game string `json:"game"`
	Key  string `json:"key"`
}

// GetSelection returns the session's current selection.
func (h *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	session, ok := selection.SessionFromRequest(r)
	if !ok {
		response.NotFound(w, selection.ErrNoSelection)
		return
	}

	sel, err := h.facade.Current(session)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, sel)
}

// SetSelection records the selected species, issuing a session cookie if
// the client has none.
func (h *SelectionHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	session := selection.EnsureSession(w, r)
	sel, err := h.facade.Select(r.Context(), session, req.Game, req.Key)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, sel)
}

// GetSelectionDetails returns the detail view of the selected species.
func (h *SelectionHandler) GetSelectionDetails(w http.ResponseWriter, r *http.Request) {
	session, ok := selection.SessionFromRequest(r)
	if !ok {
		response.NotFound(w, selection.ErrNoSelection)
		return
	}

	view, err := h.facade.CurrentDetails(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, view)
}

// ClearSelection forgets the session's selection.
func (h *SelectionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if session, ok := selection.SessionFromRequest(r); ok {
		h.facade.Clear(session)
	}
	response.NoContent(w)
}
