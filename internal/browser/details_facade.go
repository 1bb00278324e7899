package browser

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/details"
	"github.com/ramonehamilton/fangame-dex/internal/dex/evolution"
)

// DetailsFacade serves detail views, evolution chains and move and ability
// reference lookups.
type DetailsFacade struct {
	services *Services
}

// NewDetailsFacade creates a new DetailsFacade with the given services.
func NewDetailsFacade(services *Services) *DetailsFacade {
	return &DetailsFacade{services: services}
}

// GetDetails returns the full detail view for a species.
func (d *DetailsFacade) GetDetails(ctx context.Context, game, key string) (*details.View, error) {
	v, err := d.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	view, err := v.details.Build(key)
	if err != nil {
		return nil, speciesError(v, key, err)
	}
	return view, nil
}

// GetEvolutionChain returns the evolution line containing a species. A
// cyclic line is reported as an error rather than rendered.
func (d *DetailsFacade) GetEvolutionChain(ctx context.Context, game, key string) (*evolution.Chain, error) {
	v, err := d.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	chain, err := v.chains.Chain(key)
	if err != nil {
		return nil, speciesError(v, key, err)
	}
	return chain, nil
}

// MoveInfo is a move lookup result.
type MoveInfo struct {
	Move dataset.Move    `json:"move"`
	Row  details.MoveRow `json:"row"`
}

// GetMove looks up a move by internal or display name.
func (d *DetailsFacade) GetMove(ctx context.Context, game, name string) (*MoveInfo, error) {
	v, err := d.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	m, ok := v.ds.Move(name)
	if !ok {
		return nil, &AppError{
			Message: fmt.Sprintf("Move %q not found in %s", name, v.ds.Game()),
			Err:     fmt.Errorf("%w: move %s", ErrNotFound, name),
		}
	}
	return &MoveInfo{Move: m, Row: v.details.MoveRow(name)}, nil
}

// GetAbility looks up an ability, ignoring case and whitespace.
func (d *DetailsFacade) GetAbility(ctx context.Context, game, name string) (*details.AbilityInfo, error) {
	v, err := d.services.snapshot(ctx, game)
	if err != nil {
		return nil, err
	}

	infos := v.details.Abilities([]string{name})
	if len(infos) == 0 || !infos[0].Known {
		return nil, &AppError{
			Message: fmt.Sprintf("Ability %q not found in %s", name, v.ds.Game()),
			Err:     fmt.Errorf("%w: ability %s", ErrNotFound, name),
		}
	}
	return &infos[0], nil
}
