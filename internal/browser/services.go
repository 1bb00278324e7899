// Package browser exposes the dex operations used by the HTTP API and the
// CLI. Each facade works on the current snapshot of a game and maps dataset
// errors to AppError values with user-facing messages.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ramonehamilton/fangame-dex/internal/charts"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/details"
	"github.com/ramonehamilton/fangame-dex/internal/dex/evolution"
	"github.com/ramonehamilton/fangame-dex/internal/dex/fuzzy"
	"github.com/ramonehamilton/fangame-dex/internal/dex/search"
	"github.com/ramonehamilton/fangame-dex/internal/events"
	"github.com/ramonehamilton/fangame-dex/internal/metrics"
	"github.com/ramonehamilton/fangame-dex/internal/selection"
)

var (
	// ErrInvalidInput marks errors caused by bad request parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks reference lookups (moves, abilities) that missed.
	ErrNotFound = errors.New("not found")
)

// Services contains the shared dependencies passed to each facade.
type Services struct {
	// Snapshot store for all games
	Store *dataset.Store

	// Per-session selection handoff
	Selections *selection.Store

	// Lifecycle and selection events
	Dispatcher *events.EventDispatcher

	// Stat chart appearance
	Chart charts.ChartConfig

	// API request latency, filled by the server middleware
	Requests *metrics.Requests

	mu    sync.Mutex
	views map[string]*views
}

// NewServices wires the facade dependencies. A nil dispatcher or selection
// store is replaced with an empty one.
func NewServices(store *dataset.Store, selections *selection.Store, dispatcher *events.EventDispatcher) *Services {
	if selections == nil {
		selections = selection.NewStore(0)
	}
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher()
	}
	return &Services{
		Store:      store,
		Selections: selections,
		Dispatcher: dispatcher,
		Chart:      charts.DefaultChartConfig(),
		Requests:   metrics.NewRequests(0),
		views:      make(map[string]*views),
	}
}

// AppError represents an application error with a user-friendly message.
type AppError struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	Err         error    `json:"-"` // Wrapped error for errors.Is/As chain
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// views holds the structures derived from one snapshot. They are rebuilt
// when the store swaps in a new snapshot for the game.
type views struct {
	ds      *dataset.Dataset
	index   *search.Index
	chains  *evolution.Builder
	details *details.Assembler
}

func newViews(ds *dataset.Dataset) *views {
	chains := evolution.NewBuilder(ds)
	return &views{
		ds:      ds,
		index:   search.NewIndex(ds),
		chains:  chains,
		details: details.NewAssembler(ds, chains),
	}
}

// snapshot returns the derived views for the game's current snapshot,
// loading the game on first use.
func (s *Services) snapshot(ctx context.Context, game string) (*views, error) {
	ds, err := s.Store.Get(ctx, game)
	if err != nil {
		return nil, s.gameError(game, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.views[game]; ok && v.ds == ds {
		return v, nil
	}
	v := newViews(ds)
	s.views[game] = v
	return v, nil
}

// gameError maps a store failure to an AppError.
func (s *Services) gameError(game string, err error) *AppError {
	if errors.Is(err, dataset.ErrGameNotFound) {
		return &AppError{
			Message:     fmt.Sprintf("Game %q not found", game),
			Suggestions: s.suggestGames(game),
			Err:         err,
		}
	}
	return &AppError{
		Message: fmt.Sprintf("Failed to load game %q: %v", game, err),
		Err:     err,
	}
}

// speciesError maps a lookup failure within a loaded game to an AppError.
func speciesError(v *views, key string, err error) *AppError {
	if errors.Is(err, dataset.ErrSpeciesNotFound) {
		return &AppError{
			Message:     fmt.Sprintf("Species %q not found in %s", key, v.ds.Game()),
			Suggestions: v.index.Suggest(key, 5),
			Err:         err,
		}
	}
	return &AppError{Message: err.Error(), Err: err}
}

func (s *Services) suggestGames(game string) []string {
	games, err := s.Store.Games()
	if err != nil {
		return nil
	}
	return fuzzy.Items(fuzzy.Search(game, games, fuzzy.DefaultSearchOptions()))
}

func invalid(format string, args ...any) *AppError {
	msg := fmt.Sprintf(format, args...)
	return &AppError{Message: msg, Err: fmt.Errorf("%w: %s", ErrInvalidInput, msg)}
}
