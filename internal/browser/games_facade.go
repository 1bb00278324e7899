package browser

import (
	"context"
	"fmt"
	"log"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// GamesFacade lists games and manages their snapshots.
type GamesFacade struct {
	services *Services
}

// NewGamesFacade creates a new GamesFacade with the given services.
func NewGamesFacade(services *Services) *GamesFacade {
	return &GamesFacade{services: services}
}

// GameInfo describes one game under the data root.
type GameInfo struct {
	Name   string        `json:"name"`
	Loaded bool          `json:"loaded"`
	Meta   *dataset.Meta `json:"meta,omitempty"`
}

// ListGames returns every game with a species file. Games already loaded
// carry their snapshot summary.
func (g *GamesFacade) ListGames(ctx context.Context) ([]GameInfo, error) {
	names, err := g.services.Store.Games()
	if err != nil {
		return nil, &AppError{Message: fmt.Sprintf("Failed to list games: %v", err), Err: err}
	}

	loaded := make(map[string]bool)
	for _, name := range g.services.Store.Loaded() {
		loaded[name] = true
	}

	games := make([]GameInfo, 0, len(names))
	for _, name := range names {
		info := GameInfo{Name: name, Loaded: loaded[name]}
		if info.Loaded {
			// Cached, so this does not touch the disk.
			if ds, err := g.services.Store.Get(ctx, name); err == nil {
				meta := ds.Meta()
				info.Meta = &meta
			}
		}
		games = append(games, info)
	}
	return games, nil
}

// Load returns the snapshot summary for a game, loading it if needed.
func (g *GamesFacade) Load(ctx context.Context, game string) (dataset.Meta, error) {
	v, err := g.services.snapshot(ctx, game)
	if err != nil {
		return dataset.Meta{}, err
	}
	return v.ds.Meta(), nil
}

// Reload reads a game's files again. On failure the previous snapshot keeps
// serving requests.
func (g *GamesFacade) Reload(ctx context.Context, game string) (dataset.Meta, error) {
	log.Printf("[Games] Reloading %s", game)
	ds, err := g.services.Store.Reload(ctx, game)
	if err != nil {
		return dataset.Meta{}, g.services.gameError(game, err)
	}
	return ds.Meta(), nil
}
