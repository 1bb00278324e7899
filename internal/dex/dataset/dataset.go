package dataset

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Dataset is an immutable snapshot of one game's data. It is built once per
// load and passed to every algorithm; callers must treat returned slices as
// read-only.
type Dataset struct {
	game     string
	loadedAt time.Time
	config   GameConfig

	species []Species
	byKey   map[string]int

	moves     []Move
	moveIndex map[string]int

	abilities    []Ability
	abilityIndex map[string]int

	types     []TypeRelation
	typeIndex map[string]int
}

// New builds a snapshot and applies the game config: excluded species and
// forms are removed, and forms are stripped when the game disallows them.
func New(game string, species []Species, moves []Move, abilities []Ability, types []TypeRelation, cfg GameConfig) *Dataset {
	excluded := make(map[string]bool, len(cfg.ExcludedPokemon))
	for _, name := range cfg.ExcludedPokemon {
		excluded[CanonicalKey(name)] = true
	}

	d := &Dataset{
		game:         game,
		loadedAt:     time.Now(),
		config:       cfg,
		byKey:        make(map[string]int, len(species)),
		moves:        moves,
		moveIndex:    make(map[string]int, len(moves)*2),
		abilities:    abilities,
		abilityIndex: make(map[string]int, len(abilities)),
		types:        types,
		typeIndex:    make(map[string]int, len(types)),
	}

	for _, s := range species {
		key := CanonicalKey(s.Key)
		if key == "" || excluded[key] {
			continue
		}
		if _, dup := d.byKey[key]; dup {
			continue
		}
		s.Forms = filterForms(s.Forms, excluded, cfg.FormsAllowed())
		d.byKey[key] = len(d.species)
		d.species = append(d.species, s)
	}

	for i, m := range moves {
		for _, k := range []string{m.InternalName, m.Name} {
			if _, ok := d.moveIndex[k]; k != "" && !ok {
				d.moveIndex[k] = i
			}
		}
	}

	for i, a := range abilities {
		k := NormalizeAbilityName(a.Name)
		if _, ok := d.abilityIndex[k]; k != "" && !ok {
			d.abilityIndex[k] = i
		}
	}

	for i, t := range types {
		k := CanonicalKey(t.Name)
		if _, ok := d.typeIndex[k]; !ok {
			d.typeIndex[k] = i
		}
	}

	return d
}

func filterForms(forms []Form, excluded map[string]bool, allowed bool) []Form {
	if !allowed {
		return nil
	}
	if len(excluded) == 0 {
		return forms
	}
	kept := make([]Form, 0, len(forms))
	for _, f := range forms {
		if excluded[CanonicalKey(f.InternalName)] || excluded[CanonicalKey(f.Name)] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// CanonicalKey is the case-insensitive identity used for species and type names.
func CanonicalKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeAbilityName strips whitespace and lower-cases an ability name.
func NormalizeAbilityName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Game returns the game identifier.
func (d *Dataset) Game() string { return d.game }

// Config returns the game config applied to this snapshot.
func (d *Dataset) Config() GameConfig { return d.config }

// Species returns all species in file order.
func (d *Dataset) Species() []Species { return d.species }

// Moves returns all moves in file order.
func (d *Dataset) Moves() []Move { return d.moves }

// Abilities returns all abilities in file order.
func (d *Dataset) Abilities() []Ability { return d.abilities }

// Types returns the type relationship table in file order.
func (d *Dataset) Types() []TypeRelation { return d.types }

// Lookup returns the species with the given key, compared case-insensitively.
func (d *Dataset) Lookup(key string) (Species, bool) {
	i, ok := d.byKey[CanonicalKey(key)]
	if !ok {
		return Species{}, false
	}
	return d.species[i], true
}

// Get is Lookup with an ErrSpeciesNotFound error.
func (d *Dataset) Get(key string) (Species, error) {
	s, ok := d.Lookup(key)
	if !ok {
		return Species{}, fmt.Errorf("%w: %s", ErrSpeciesNotFound, key)
	}
	return s, nil
}

// Move finds a move by internal name or display name.
func (d *Dataset) Move(name string) (Move, bool) {
	i, ok := d.moveIndex[strings.TrimSpace(name)]
	if !ok {
		return Move{}, false
	}
	return d.moves[i], true
}

// Ability finds an ability ignoring case and whitespace.
func (d *Dataset) Ability(name string) (Ability, bool) {
	i, ok := d.abilityIndex[NormalizeAbilityName(name)]
	if !ok {
		return Ability{}, false
	}
	return d.abilities[i], true
}

// Type finds a type relation by name, case-insensitively.
func (d *Dataset) Type(name string) (TypeRelation, bool) {
	i, ok := d.typeIndex[CanonicalKey(name)]
	if !ok {
		return TypeRelation{}, false
	}
	return d.types[i], true
}

// Meta summarizes the snapshot.
func (d *Dataset) Meta() Meta {
	return Meta{
		Game:     d.game,
		LoadedAt: d.loadedAt,
		Species:  len(d.species),
		Moves:    len(d.moves),
		Types:    len(d.types),
	}
}
