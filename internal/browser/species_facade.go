package browser

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/charts"
	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/search"
)

// SpeciesFacade serves the card listing and per-species cards.
type SpeciesFacade struct {
	services *Services
}

// NewSpeciesFacade creates a new SpeciesFacade with the given services.
func NewSpeciesFacade(services *Services) *SpeciesFacade {
	return &SpeciesFacade{services: services}
}

// SpeciesList is a filtered card listing.
type SpeciesList struct {
	Game  string        `json:"game"`
	Total int           `json:"total"`
	Cards []search.Card `json:"cards"`
}

// Search returns the cards matching the query.
func (s *SpeciesFacade) Search(ctx context.Context, game string, q search.Query) (*SpeciesList, error) {
	v, err := s.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	found := v.index.Find(q)
	return &SpeciesList{
		Game:  v.ds.Game(),
		Total: len(found),
		Cards: search.Cards(found, v.ds.Game()),
	}, nil
}

// GetCard returns the card for one species.
func (s *SpeciesFacade) GetCard(ctx context.Context, game, key string) (*search.Card, error) {
	v, err := s.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	sp, err := v.ds.Get(key)
	if err != nil {
		return nil, speciesError(v, key, err)
	}
	card := search.NewCard(sp, dataset.NewImages(v.ds.Game()))
	return &card, nil
}

// Suggest returns species keys whose names resemble query.
func (s *SpeciesFacade) Suggest(ctx context.Context, game, query string, limit int) ([]string, error) {
	v, err := s.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}
	return v.index.Suggest(query, limit), nil
}

// RenderStatsChart writes an HTML bar chart of the species' base stats,
// with any compare species drawn as extra series.
func (s *SpeciesFacade) RenderStatsChart(ctx context.Context, w io.Writer, game, key string, compare ...string) error {
	v, err := s.services.snapshot(ctx, game)
	if err != nil {
		return err
	}

	sp, err := v.ds.Get(key)
	if err != nil {
		return speciesError(v, key, err)
	}
	series := []charts.Series{charts.SpeciesSeries(sp)}
	for _, k := range compare {
		if strings.TrimSpace(k) == "" {
			continue
		}
		other, err := v.ds.Get(k)
		if err != nil {
			return speciesError(v, k, err)
		}
		series = append(series, charts.SpeciesSeries(other))
	}

	cfg := s.services.Chart
	cfg.Title = sp.Name + " Base Stats"
	cfg.Subtitle = v.ds.Game()

	if err := charts.RenderStats(w, series, cfg); err != nil {
		if errors.Is(err, charts.ErrNoStats) {
			return &AppError{Message: "Species has no base stats", Err: err}
		}
		return &AppError{Message: "Failed to render chart", Err: err}
	}
	return nil
}
