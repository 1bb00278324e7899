package browser

import (
	"context"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/effectiveness"
)

// MatchupsFacade serves type effectiveness and the type table.
type MatchupsFacade struct {
	services *Services
}

// NewMatchupsFacade creates a new MatchupsFacade with the given services.
func NewMatchupsFacade(services *Services) *MatchupsFacade {
	return &MatchupsFacade{services: services}
}

// TypeRow is one row of the type table with its icon.
type TypeRow struct {
	dataset.TypeRelation
	Icon string `json:"icon"`
}

// ForSpecies computes the buckets for a species' own types.
func (m *MatchupsFacade) ForSpecies(ctx context.Context, game, key string) (*effectiveness.Result, error) {
	v, err := m.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	sp, err := v.ds.Get(key)
	if err != nil {
		return nil, speciesError(v, key, err)
	}
	res := effectiveness.Calculate(v.ds, sp.Types)
	return &res, nil
}

// ForTypes computes the buckets for an ad-hoc list of one or two types.
// Types missing from the table are reported in Skipped.
func (m *MatchupsFacade) ForTypes(ctx context.Context, game string, types []string) (*effectiveness.Result, error) {
	var subject []string
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			subject = append(subject, t)
		}
	}
	if len(subject) == 0 {
		return nil, invalid("at least one type is required")
	}
	if len(subject) > 2 {
		return nil, invalid("at most two types are allowed, got %d", len(subject))
	}

	v, err := m.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}
	res := effectiveness.Calculate(v.ds, subject)
	return &res, nil
}

// GetTypeTable returns the type relationship table in file order.
func (m *MatchupsFacade) GetTypeTable(ctx context.Context, game string) ([]TypeRow, error) {
	v, err := m.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	images := dataset.NewImages(v.ds.Game())
	rows := make([]TypeRow, 0, len(v.ds.Types()))
	for _, rel := range v.ds.Types() {
		rows = append(rows, TypeRow{TypeRelation: rel, Icon: images.Type(rel.Name)})
	}
	return rows, nil
}
