package dataset

import (
	"context"
	"log"
	"sort"
	"sync"
)

// Hooks are notified when a snapshot is (re)loaded or fails to load.
type Hooks struct {
	OnLoad  func(meta Meta, reloaded bool)
	OnError func(game string, err error)
}

// Store caches one immutable snapshot per game. Readers always get a
// complete snapshot; a reload swaps the pointer only after a successful load.
type Store struct {
	loader *Loader
	hooks  Hooks

	mu    sync.RWMutex
	games map[string]*Dataset

	// loadMu serializes loads so concurrent first requests read the files once.
	loadMu sync.Mutex
}

// NewStore creates a store backed by the given loader.
func NewStore(loader *Loader, hooks Hooks) *Store {
	return &Store{
		loader: loader,
		hooks:  hooks,
		games:  make(map[string]*Dataset),
	}
}

// Loader returns the underlying loader.
func (s *Store) Loader() *Loader {
	return s.loader
}

// Games lists the games available under the data root.
func (s *Store) Games() ([]string, error) {
	return s.loader.ListGames()
}

// Loaded lists games that currently have a snapshot in memory.
func (s *Store) Loaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]string, 0, len(s.games))
	for g := range s.games {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}

func (s *Store) cached(game string) *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[game]
}

// Get returns the snapshot for a game, loading it on first use.
func (s *Store) Get(ctx context.Context, game string) (*Dataset, error) {
	if ds := s.cached(game); ds != nil {
		return ds, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if ds := s.cached(game); ds != nil {
		return ds, nil
	}
	return s.load(ctx, game, false)
}

// Reload reads a game's files again. On failure the previous snapshot stays
// in place and the error is returned.
func (s *Store) Reload(ctx context.Context, game string) (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx, game, true)
}

// Put installs a prebuilt snapshot, replacing any cached one.
func (s *Store) Put(ds *Dataset) {
	s.mu.Lock()
	s.games[ds.Game()] = ds
	s.mu.Unlock()
}

func (s *Store) load(ctx context.Context, game string, reload bool) (*Dataset, error) {
	ds, err := s.loader.Load(ctx, game)
	if err != nil {
		log.Printf("[Store] Failed to load %s: %v", game, err)
		if s.hooks.OnError != nil {
			s.hooks.OnError(game, err)
		}
		return nil, err
	}

	s.Put(ds)
	if s.hooks.OnLoad != nil {
		s.hooks.OnLoad(ds.Meta(), reload)
	}
	return ds, nil
}
