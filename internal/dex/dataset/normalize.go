package dataset

import (
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// statLabels is the order base stats are stored in the source data.
var statLabels = []string{"HP", "Attack", "Defense", "Speed", "Sp. Atk", "Sp. Def"}

// statDisplayOrder moves Speed to the end.
var statDisplayOrder = []int{0, 1, 2, 4, 5, 3}

// Tokens returns the trimmed, non-empty entries of a field that may be stored
// either as a JSON array of scalars or as a comma-delimited string.
func Tokens(r gjson.Result) []string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}

	if !r.IsArray() {
		return splitTokens(r.String())
	}

	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		if t := strings.TrimSpace(v.String()); t != "" {
			out = append(out, t)
		}
		return true
	})
	return out
}

func splitTokens(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// firstOf returns the first of the given fields that is present and not empty.
func firstOf(obj gjson.Result, fields ...string) gjson.Result {
	for _, f := range fields {
		v := obj.Get(f)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.String && strings.TrimSpace(v.Str) == "" {
			continue
		}
		return v
	}
	return gjson.Result{}
}

func str(obj gjson.Result, fields ...string) string {
	return strings.TrimSpace(firstOf(obj, fields...).String())
}

// ParseEvolutionString splits a flattened "TARGET,PARAM,METHOD,..." string
// into triples. A trailing group with fewer than three tokens is dropped.
func ParseEvolutionString(s string) []Triple {
	triples, _ := groupTriples(splitTokens(s))
	return triples
}

// ParseEvolutions normalizes an Evolutions field. Nested arrays are taken one
// triple each; a flat array or a string is grouped into threes. The second
// return value is the number of tokens that did not form a complete triple.
func ParseEvolutions(r gjson.Result) ([]Triple, int) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, 0
	}

	if r.IsArray() {
		nested := false
		r.ForEach(func(_, v gjson.Result) bool {
			nested = v.IsArray()
			return !nested
		})
		if nested {
			var triples []Triple
			dropped := 0
			r.ForEach(func(_, v gjson.Result) bool {
				if !v.IsArray() {
					dropped++
					return true
				}
				parts := v.Array()
				if len(parts) < 3 {
					dropped += len(parts)
					return true
				}
				triples = append(triples, Triple{
					Target: strings.TrimSpace(parts[0].String()),
					Param:  strings.TrimSpace(parts[1].String()),
					Method: strings.TrimSpace(parts[2].String()),
				})
				return true
			})
			return triples, dropped
		}
	}

	return groupTriples(Tokens(r))
}

func groupTriples(toks []string) ([]Triple, int) {
	var triples []Triple
	i := 0
	for ; i+2 < len(toks); i += 3 {
		triples = append(triples, Triple{Target: toks[i], Param: toks[i+1], Method: toks[i+2]})
	}
	return triples, len(toks) - i
}

// parseStats maps BaseStats into display order. Six values are labelled,
// a single value is HP, an object keeps its own keys in document order.
func parseStats(r gjson.Result) []Stat {
	switch {
	case r.IsObject():
		var stats []Stat
		r.ForEach(func(k, v gjson.Result) bool {
			stats = append(stats, Stat{Name: k.String(), Value: v.String()})
			return true
		})
		return stats
	case r.IsArray() || r.Type == gjson.String:
		vals := Tokens(r)
		switch len(vals) {
		case len(statLabels):
			stats := make([]Stat, 0, len(statLabels))
			for _, idx := range statDisplayOrder {
				stats = append(stats, Stat{Name: statLabels[idx], Value: vals[idx]})
			}
			return stats
		case 1:
			return []Stat{{Name: "HP", Value: vals[0]}}
		}
	}
	return nil
}

// parseLevelUpMoves reads the flat [level, move, level, move, ...] list.
func parseLevelUpMoves(r gjson.Result) []LevelUpMove {
	toks := Tokens(r)
	moves := make([]LevelUpMove, 0, len(toks)/2)
	for i := 0; i+1 < len(toks); i += 2 {
		moves = append(moves, LevelUpMove{Level: toks[i], Move: toks[i+1]})
	}
	return moves
}

func parseTypes(obj gjson.Result) []string {
	t1 := str(obj, "Type1")
	t2 := str(obj, "Type2")
	if t1 == "" && t2 == "" {
		return Tokens(firstOf(obj, "Types", "types"))
	}

	types := make([]string, 0, 2)
	if t1 != "" {
		types = append(types, t1)
	}
	if t2 != "" && t2 != t1 {
		types = append(types, t2)
	}
	return types
}

func parseForm(r gjson.Result) Form {
	f := Form{
		InternalName:    str(r, "InternalName"),
		Name:            str(r, "FormName", "name"),
		Types:           parseTypes(r),
		Abilities:       Tokens(firstOf(r, "Abilities", "abilities")),
		HiddenAbilities: Tokens(firstOf(r, "HiddenAbilities", "HiddenAbility")),
		Stats:           parseStats(r.Get("BaseStats")),
	}
	for _, m := range parseLevelUpMoves(r.Get("Moves")) {
		f.Moves = append(f.Moves, m.Move)
	}
	return f
}

func parseSpecies(r gjson.Result, index int) Species {
	key := str(r, "InternalName")
	s := Species{
		Key:             key,
		Name:            str(r, "Name"),
		Types:           parseTypes(r),
		Abilities:       Tokens(r.Get("Abilities")),
		HiddenAbilities: Tokens(firstOf(r, "HiddenAbilities", "HiddenAbility")),
		Stats:           parseStats(r.Get("BaseStats")),
		LevelUpMoves:    parseLevelUpMoves(r.Get("Moves")),
		TutorMoves:      Tokens(r.Get("TutorMoves")),
		EggMoves:        Tokens(r.Get("EggMoves")),
		EggGroups:       Tokens(r.Get("Compatibility")),
		Profile: Profile{
			Kind:       str(r, "Kind", "Species"),
			DexEntry:   str(r, "Pokedex"),
			Height:     str(r, "Height"),
			Weight:     str(r, "Weight"),
			BaseExp:    str(r, "BaseEXP", "BaseExp"),
			CatchRate:  str(r, "Rareness", "CatchRate"),
			Friendship: str(r, "Happiness", "BaseFriendship"),
			GrowthRate: str(r, "GrowthRate"),
			GenderRate: str(r, "GenderRate", "GenderRatio"),
		},
		Index: index,
	}
	if s.Name == "" {
		s.Name = key
	}

	evos, dropped := ParseEvolutions(r.Get("Evolutions"))
	if dropped > 0 {
		log.Printf("[Dataset] %s: dropped %d trailing evolution token(s)", key, dropped)
	}
	s.Evolutions = evos

	r.Get("Forms").ForEach(func(_, v gjson.Result) bool {
		s.Forms = append(s.Forms, parseForm(v))
		return true
	})
	return s
}

// ParseSpecies parses the species file.
func ParseSpecies(data []byte) ([]Species, error) {
	root, err := parseRoot(data, "species")
	if err != nil {
		return nil, err
	}

	var out []Species
	root.ForEach(func(_, v gjson.Result) bool {
		if s := parseSpecies(v, len(out)); s.Key != "" {
			out = append(out, s)
		}
		return true
	})
	return out, nil
}

// ParseMoves parses the moves file.
func ParseMoves(data []byte) ([]Move, error) {
	root, err := parseRoot(data, "moves")
	if err != nil {
		return nil, err
	}

	var out []Move
	root.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Move{
			InternalName: str(v, "InternalName"),
			Name:         str(v, "Name"),
			Type:         str(v, "Type"),
			Category:     str(v, "Category"),
			Power:        str(v, "Power", "BaseDamage"),
			Accuracy:     str(v, "Accuracy"),
			Description:  str(v, "Description"),
		})
		return true
	})
	return out, nil
}

// ParseAbilities parses the abilities file.
func ParseAbilities(data []byte) ([]Ability, error) {
	root, err := parseRoot(data, "abilities")
	if err != nil {
		return nil, err
	}

	var out []Ability
	root.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Ability{
			InternalName: str(v, "InternalName"),
			Name:         str(v, "Name"),
			Description:  str(v, "Description"),
		})
		return true
	})
	return out, nil
}

// ParseTypes parses the type relationship table. Both an array of objects
// with a Name field and an object keyed by type name are accepted; the
// result keeps document order.
func ParseTypes(data []byte) ([]TypeRelation, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{File: "types", Reason: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	var out []TypeRelation
	add := func(name string, v gjson.Result) {
		if name == "" {
			return
		}
		out = append(out, TypeRelation{
			Name:        name,
			Weaknesses:  Tokens(firstOf(v, "Weaknesses", "weaknesses")),
			Resistances: Tokens(firstOf(v, "Resistances", "resistances")),
			Immunities:  Tokens(firstOf(v, "Immunities", "immunities")),
		})
	}

	switch {
	case root.IsArray():
		root.ForEach(func(_, v gjson.Result) bool {
			add(str(v, "Name", "name"), v)
			return true
		})
	case root.IsObject():
		root.ForEach(func(k, v gjson.Result) bool {
			add(strings.TrimSpace(k.String()), v)
			return true
		})
	default:
		return nil, &ParseError{File: "types", Reason: "expected array or object"}
	}
	return out, nil
}

func parseRoot(data []byte, file string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &ParseError{File: file, Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return gjson.Result{}, &ParseError{File: file, Reason: "expected array"}
	}
	return root, nil
}
