package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecies = `[
	{"InternalName": "BULBASAUR", "Name": "Bulbasaur", "Type1": "GRASS", "Type2": "POISON",
	 "Abilities": ["OVERGROW"], "Evolutions": "IVYSAUR,16,Level"},
	{"InternalName": "IVYSAUR", "Name": "Ivysaur", "Type1": "GRASS", "Type2": "POISON",
	 "Forms": [{"FormName": "Mega Ivysaur", "InternalName": "IVYSAUR_1"}, {"FormName": "Gmax"}]},
	{"InternalName": "MEWTWO", "Name": "Mewtwo", "Type1": "PSYCHIC"}
]`

const testMoves = `[{"InternalName": "TACKLE", "Name": "Tackle", "Type": "NORMAL"}]`

const testAbilities = `[{"Name": "Over Grow", "Description": "Boosts grass moves."}]`

const testTypes = `[
	{"Name": "Grass", "Weaknesses": "Fire,Flying"},
	{"Name": "Poison", "Weaknesses": ["Psychic"]}
]`

// writeGame creates <root>/<game>/data with the standard files plus extras.
func writeGame(t *testing.T, root, game string, extra map[string]string) {
	t.Helper()

	dir := filepath.Join(root, game, "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	files := map[string]string{
		SpeciesFile:   testSpecies,
		MovesFile:     testMoves,
		AbilitiesFile: testAbilities,
		TypesFile:     testTypes,
	}
	for name, content := range extra {
		files[name] = content
	}
	for name, content := range files {
		if content == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "vanguard", nil)

	ds, err := NewLoader(root).Load(context.Background(), "vanguard")
	require.NoError(t, err)

	assert.Equal(t, "vanguard", ds.Game())
	assert.Len(t, ds.Species(), 3)
	assert.Len(t, ds.Types(), 2)
	assert.Equal(t, "Y", ds.Config().AllowsForms)

	s, ok := ds.Lookup("bulbasaur")
	require.True(t, ok)
	assert.Equal(t, "Bulbasaur", s.Name)

	ab, ok := ds.Ability("overgrow")
	require.True(t, ok)
	assert.Equal(t, "Over Grow", ab.Name)

	m, ok := ds.Move("Tackle")
	require.True(t, ok)
	assert.Equal(t, "TACKLE", m.InternalName)

	rel, ok := ds.Type("GRASS")
	require.True(t, ok)
	assert.Equal(t, []string{"Fire", "Flying"}, rel.Weaknesses)

	meta := ds.Meta()
	if meta.Species != 3 {
		t.Errorf("Expected 3 species in meta, got %d", meta.Species)
	}
}

func TestLoader_GameNotFound(t *testing.T) {
	root := t.TempDir()

	_, err := NewLoader(root).Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = NewLoader(root).Load(context.Background(), "../etc")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLoader_MissingRequiredFile(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "broken", map[string]string{TypesFile: ""})

	_, err := NewLoader(root).Load(context.Background(), "broken")
	require.Error(t, err)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, TypesFile, lerr.File)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_MalformedFile(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "broken", map[string]string{MovesFile: `{"oops":`})

	_, err := NewLoader(root).Load(context.Background(), "broken")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "moves", perr.File)
}

func TestLoader_ConfigExclusions(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "ss2", map[string]string{
		"config.yaml": "excludedPokemon:\n  - mewtwo\n  - IVYSAUR_1\nAllowsForms: y\n",
	})

	ds, err := NewLoader(root).Load(context.Background(), "ss2")
	require.NoError(t, err)

	_, ok := ds.Lookup("MEWTWO")
	assert.False(t, ok, "excluded species should be removed")

	ivy, ok := ds.Lookup("IVYSAUR")
	require.True(t, ok)
	require.Len(t, ivy.Forms, 1)
	assert.Equal(t, "Gmax", ivy.Forms[0].Name)
	assert.Equal(t, "Y", ds.Config().AllowsForms)
}

func TestLoader_ConfigJSONDisallowsForms(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "ss2", map[string]string{
		"config.json": `{"excludedPokemon": [], "AllowsForms": "N"}`,
	})

	ds, err := NewLoader(root).Load(context.Background(), "ss2")
	require.NoError(t, err)

	ivy, _ := ds.Lookup("IVYSAUR")
	assert.Empty(t, ivy.Forms)
	assert.False(t, ds.Config().FormsAllowed())
}

func TestLoader_BadConfigFallsBack(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "ss2", map[string]string{"config.yaml": "excludedPokemon: [unterminated\n"})

	cfg := NewLoader(root).LoadGameConfig("ss2")
	assert.Equal(t, DefaultGameConfig(), cfg)
}

func TestLoader_ListGames(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "vanguard", nil)
	writeGame(t, root, "ss2", nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "data"), 0o755))

	games, err := NewLoader(root).ListGames()
	require.NoError(t, err)
	assert.Equal(t, []string{"ss2", "vanguard"}, games)
}

func TestDataset_Get(t *testing.T) {
	ds := New("g", []Species{{Key: "A", Name: "A"}, {Key: "a", Name: "dup"}}, nil, nil, nil, DefaultGameConfig())

	assert.Len(t, ds.Species(), 1)

	_, err := ds.Get("B")
	assert.ErrorIs(t, err, ErrSpeciesNotFound)
}

func TestStore_GetCachesAndReloads(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "vanguard", nil)

	var mu sync.Mutex
	var loads []bool
	store := NewStore(NewLoader(root), Hooks{
		OnLoad: func(_ Meta, reloaded bool) {
			mu.Lock()
			loads = append(loads, reloaded)
			mu.Unlock()
		},
	})

	first, err := store.Get(context.Background(), "vanguard")
	require.NoError(t, err)
	second, err := store.Get(context.Background(), "vanguard")
	require.NoError(t, err)
	assert.Same(t, first, second)

	reloaded, err := store.Reload(context.Background(), "vanguard")
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)

	assert.Equal(t, []bool{false, true}, loads)
	assert.Equal(t, []string{"vanguard"}, store.Loaded())
}

func TestStore_ReloadFailureKeepsSnapshot(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "vanguard", nil)

	var failed string
	store := NewStore(NewLoader(root), Hooks{
		OnError: func(game string, _ error) { failed = game },
	})

	before, err := store.Get(context.Background(), "vanguard")
	require.NoError(t, err)

	path := filepath.Join(root, "vanguard", "data", SpeciesFile)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err = store.Reload(context.Background(), "vanguard")
	require.Error(t, err)
	assert.Equal(t, "vanguard", failed)

	after, err := store.Get(context.Background(), "vanguard")
	require.NoError(t, err)
	assert.Same(t, before, after)
}
