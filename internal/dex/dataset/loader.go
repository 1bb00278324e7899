package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Data file names inside <root>/<game>/data.
const (
	SpeciesFile   = "pokemon_master_evo.json"
	MovesFile     = "moves.json"
	AbilitiesFile = "abilities.json"
	TypesFile     = "types.json"
)

// configFiles are tried in order.
var configFiles = []string{"config.yaml", "config.yml", "config.json"}

// Loader reads game datasets from a data root laid out as
// <root>/<game>/data/*.json.
type Loader struct {
	root string
}

// NewLoader creates a loader for the given data root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Root returns the data root directory.
func (l *Loader) Root() string {
	return l.root
}

// DataDir returns the directory holding a game's data files.
func (l *Loader) DataDir(game string) string {
	return filepath.Join(l.root, game, "data")
}

// ValidGameName rejects names that would escape the data root.
func ValidGameName(game string) bool {
	if game == "" || game == "." || game == ".." {
		return false
	}
	return !strings.ContainsAny(game, `/\`)
}

// ListGames returns the games under the data root that have a species file.
func (l *Loader) ListGames() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read data root: %w", err)
	}

	var games []string
	for _, e := range entries {
		if !e.IsDir() || !ValidGameName(e.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.DataDir(e.Name()), SpeciesFile)); err == nil {
			games = append(games, e.Name())
		}
	}
	sort.Strings(games)
	return games, nil
}

type fileResult struct {
	name string
	data []byte
	err  error
}

// Load reads and normalizes one game's dataset. The four data files are read
// concurrently; any failure is fatal for the whole game.
func (l *Loader) Load(ctx context.Context, game string) (*Dataset, error) {
	if !ValidGameName(game) {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, game)
	}

	dir := l.DataDir(game)
	files := []string{SpeciesFile, MovesFile, AbilitiesFile, TypesFile}
	results := make([]fileResult, len(files))

	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{name: name, err: err}
				return
			}
			data, err := os.ReadFile(filepath.Join(dir, name))
			results[i] = fileResult{name: name, data: data, err: err}
		}(i, name)
	}
	wg.Wait()

	for _, r := range results {
		if r.err == nil {
			continue
		}
		if r.name == SpeciesFile && errors.Is(r.err, os.ErrNotExist) {
			return nil, &LoadError{Game: game, File: r.name, Err: ErrGameNotFound}
		}
		return nil, &LoadError{Game: game, File: r.name, Err: r.err}
	}

	species, err := ParseSpecies(results[0].data)
	if err != nil {
		return nil, &LoadError{Game: game, File: SpeciesFile, Err: err}
	}
	moves, err := ParseMoves(results[1].data)
	if err != nil {
		return nil, &LoadError{Game: game, File: MovesFile, Err: err}
	}
	abilities, err := ParseAbilities(results[2].data)
	if err != nil {
		return nil, &LoadError{Game: game, File: AbilitiesFile, Err: err}
	}
	types, err := ParseTypes(results[3].data)
	if err != nil {
		return nil, &LoadError{Game: game, File: TypesFile, Err: err}
	}

	cfg := l.LoadGameConfig(game)
	ds := New(game, species, moves, abilities, types, cfg)
	log.Printf("[Loader] Loaded %s: %d species, %d moves, %d abilities, %d types",
		game, len(ds.Species()), len(moves), len(abilities), len(types))
	return ds, nil
}

// LoadGameConfig reads the optional per-game config. A missing or unreadable
// file yields the defaults.
func (l *Loader) LoadGameConfig(game string) GameConfig {
	dir := l.DataDir(game)
	for _, name := range configFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Printf("[Loader] %s: read %s: %v (using defaults)", game, name, err)
				return DefaultGameConfig()
			}
			continue
		}

		var cfg GameConfig
		if filepath.Ext(name) == ".json" {
			cfg, err = parseGameConfigJSON(data)
		} else {
			cfg, err = ParseGameConfig(data)
		}
		if err != nil {
			log.Printf("[Loader] %s: %s: %v (using defaults)", game, name, err)
			return DefaultGameConfig()
		}
		return cfg
	}
	return DefaultGameConfig()
}

// ParseGameConfig decodes a YAML game config, filling defaults for absent
// fields.
func ParseGameConfig(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultGameConfig(), fmt.Errorf("parse game config: %w", err)
	}
	cfg.AllowsForms = strings.ToUpper(strings.TrimSpace(cfg.AllowsForms))
	if cfg.AllowsForms == "" {
		cfg.AllowsForms = "Y"
	}
	return cfg, nil
}

func parseGameConfigJSON(data []byte) (GameConfig, error) {
	if !gjson.ValidBytes(data) {
		return DefaultGameConfig(), &ParseError{File: "config.json", Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	cfg := DefaultGameConfig()
	if excluded := Tokens(root.Get("excludedPokemon")); excluded != nil {
		cfg.ExcludedPokemon = excluded
	}
	if v := str(root, "AllowsForms"); v != "" {
		cfg.AllowsForms = strings.ToUpper(v)
	}
	return cfg, nil
}
