// Package datasettest writes small game data directories for tests.
package datasettest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// Game is the name WriteDefault uses.
const Game = "testdex"

// Species is a small species file covering a linear chain (Bulbasaur line),
// a branching chain with a missing target (Eevee), a dual Ghost/Dark type,
// a "T" variant pair (Mewtwo) and a species with forms (Venusaur).
const Species = `[
	{"InternalName": "BULBASAUR", "Name": "Bulbasaur", "Type1": "GRASS", "Type2": "POISON",
	 "BaseStats": "45,49,49,45,65,65", "Abilities": ["OVERGROW"], "HiddenAbility": "CHLOROPHYLL",
	 "Moves": [1, "TACKLE", 3, "VINEWHIP"], "TutorMoves": ["SOLARBEAM"], "EggMoves": "PETALDANCE",
	 "Compatibility": "Monster,Grass", "Kind": "Seed", "Height": "0.7", "Weight": "6.9",
	 "Pokedex": "A strange seed was planted on its back at birth.",
	 "Evolutions": "IVYSAUR,16,Level"},
	{"InternalName": "IVYSAUR", "Name": "Ivysaur", "Type1": "GRASS", "Type2": "POISON",
	 "BaseStats": "60,62,63,60,80,80", "Abilities": "OVERGROW",
	 "Evolutions": ["VENUSAUR", 32, "Level"]},
	{"InternalName": "VENUSAUR", "Name": "Venusaur", "Type1": "GRASS", "Type2": "POISON",
	 "BaseStats": "80,82,83,80,100,100", "Abilities": "OVERGROW",
	 "Forms": [{"FormName": "Mega Venusaur", "Type1": "GRASS", "Type2": "POISON", "Abilities": "THICKFAT"}]},
	{"InternalName": "SABLEYE", "Name": "Sableye", "Type1": "GHOST", "Type2": "DARK",
	 "BaseStats": "50,75,75,50,65,65", "Abilities": "KEENEYE"},
	{"InternalName": "EEVEE", "Name": "Eevee", "Type1": "NORMAL",
	 "BaseStats": "55,55,50,55,45,65", "Abilities": "RUNAWAY",
	 "Evolutions": "VAPOREON,WATERSTONE,Item,JOLTEON,THUNDERSTONE,Item"},
	{"InternalName": "VAPOREON", "Name": "Vaporeon", "Type1": "WATER",
	 "BaseStats": "130,65,60,65,110,95", "Abilities": "WATERABSORB"},
	{"InternalName": "MEWTWO", "Name": "Mewtwo", "Type1": "PSYCHIC",
	 "BaseStats": "106,110,90,130,154,90", "Abilities": "PRESSURE"},
	{"InternalName": "MEWTWOT", "Name": "Mewtwo T", "Type1": "PSYCHIC",
	 "BaseStats": "106,110,90,130,154,90", "Abilities": "PRESSURE"}
]`

// Moves is the matching moves file.
const Moves = `[
	{"InternalName": "TACKLE", "Name": "Tackle", "Type": "NORMAL", "Category": "Physical",
	 "Power": 40, "Accuracy": 100, "Description": "A physical attack."},
	{"InternalName": "VINEWHIP", "Name": "Vine Whip", "Type": "GRASS", "Category": "Physical",
	 "Power": 45, "Accuracy": 100},
	{"InternalName": "SOLARBEAM", "Name": "Solar Beam", "Type": "GRASS", "Category": "Special",
	 "Power": 120, "Accuracy": 100, "Description": "Absorbs light, then attacks."}
]`

// Abilities is the matching abilities file.
const Abilities = `[
	{"Name": "Overgrow", "Description": "Powers up Grass-type moves in a pinch."},
	{"Name": "Chlorophyll", "Description": "Boosts Speed in sunshine."},
	{"Name": "Keen Eye", "Description": "Prevents accuracy loss."}
]`

// Types is a type table in which Ghost/Dark is immune to Normal, Fighting
// and Psychic, weak only to Fairy and resists only Poison.
const Types = `[
	{"Name": "Normal", "Weaknesses": "Fighting", "Immunities": "Ghost"},
	{"Name": "Fighting", "Weaknesses": "Psychic,Fairy", "Resistances": "Bug,Dark"},
	{"Name": "Poison", "Weaknesses": "Psychic", "Resistances": "Fighting,Poison,Bug,Grass,Fairy"},
	{"Name": "Bug", "Weaknesses": "Fire", "Resistances": "Fighting,Grass"},
	{"Name": "Ghost", "Weaknesses": "Ghost,Dark", "Resistances": "Poison,Bug", "Immunities": "Normal,Fighting"},
	{"Name": "Fire", "Weaknesses": "Water", "Resistances": "Fire,Grass,Bug,Fairy"},
	{"Name": "Water", "Weaknesses": "Grass", "Resistances": "Fire,Water"},
	{"Name": "Grass", "Weaknesses": "Fire,Poison,Bug", "Resistances": "Water,Grass"},
	{"Name": "Psychic", "Weaknesses": "Bug,Ghost,Dark", "Resistances": "Fighting,Psychic"},
	{"Name": "Dark", "Weaknesses": "Fighting,Bug,Fairy", "Resistances": "Ghost,Dark", "Immunities": "Psychic"},
	{"Name": "Fairy", "Weaknesses": "Poison", "Resistances": "Fighting,Bug,Dark"}
]`

// Files returns the default file contents keyed by file name.
func Files() map[string]string {
	return map[string]string{
		dataset.SpeciesFile:   Species,
		dataset.MovesFile:     Moves,
		dataset.AbilitiesFile: Abilities,
		dataset.TypesFile:     Types,
	}
}

// WriteGame creates <root>/<game>/data with the default files, replaced or
// extended by overrides. An empty override removes the file.
func WriteGame(t testing.TB, root, game string, overrides map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, game, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}

	files := Files()
	for name, content := range overrides {
		files[name] = content
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if content == "" {
			_ = os.Remove(path)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// WriteDefault writes the default game under a fresh temp root and returns
// the root.
func WriteDefault(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	WriteGame(t, root, Game, nil)
	return root
}
