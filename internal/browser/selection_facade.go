package browser

import (
	"context"
	"log"

	"github.com/ramonehamilton/fangame-dex/internal/dex/details"
	"github.com/ramonehamilton/fangame-dex/internal/events"
	"github.com/ramonehamilton/fangame-dex/internal/selection"
)

// SelectionFacade hands the selected species from the listing or an
// evolution node to the detail view.
type SelectionFacade struct {
	services *Services
	details  *DetailsFacade
}

// NewSelectionFacade creates a new SelectionFacade with the given services.
func NewSelectionFacade(services *Services) *SelectionFacade {
	return &SelectionFacade{
		services: services,
		details:  NewDetailsFacade(services),
	}
}

// Select records the session's selection. The species must exist; its
// canonical key is stored.
func (s *SelectionFacade) Select(ctx context.Context, session, game, key string) (selection.Selection, error) {
	if session == "" {
		return selection.Selection{}, invalid("session is required")
	}
	if game == "" || key == "" {
		return selection.Selection{}, invalid("game and key are required")
	}

	v, err := s.services.snapshot(ctx, game)
	if err != nil {
		return selection.Selection{}, err
	}
	sp, err := v.ds.Get(key)
	if err != nil {
		return selection.Selection{}, speciesError(v, key, err)
	}

	sel := s.services.Selections.Set(session, v.ds.Game(), sp.Key)
	log.Printf("[Selection] %s selected %s/%s", shortID(session), sel.Game, sel.Key)
	s.services.Dispatcher.Dispatch(events.New(events.SelectionChanged, events.SelectionChangedEvent{
		Game: sel.Game,
		Key:  sel.Key,
	}))
	return sel, nil
}

// Current returns the session's selection.
func (s *SelectionFacade) Current(session string) (selection.Selection, error) {
	sel, err := s.services.Selections.Get(session)
	if err != nil {
		return selection.Selection{}, &AppError{Message: "No species selected", Err: err}
	}
	return sel, nil
}

// CurrentDetails opens the detail view for the session's selection.
func (s *SelectionFacade) CurrentDetails(ctx context.Context, session string) (*details.View, error) {
	sel, err := s.Current(session)
	if err != nil {
		return nil, err
	}
	return s.details.GetDetails(ctx, sel.Game, sel.Key)
}

// Clear forgets the session's selection.
func (s *SelectionFacade) Clear(session string) {
	s.services.Selections.Clear(session)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
