// Package search filters and sorts species for the card listing.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
	"github.com/ramonehamilton/fangame-dex/internal/dex/fuzzy"
)

// Sort orders.
const (
	SortAlphabetical = "alphabetical"
	SortFileOrder    = "file"
)

// Query holds the listing filters. Every non-empty field must match; all
// matching is case-insensitive substring matching.
type Query struct {
	// Text matches name, types, abilities, egg groups and forms.
	Text    string `json:"q,omitempty"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
	Ability string `json:"ability,omitempty"`
	Move    string `json:"move,omitempty"`
	Sort    string `json:"sort,omitempty"`
}

// IsEmpty reports whether the query filters nothing.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text+q.Name+q.Type+q.Ability+q.Move) == ""
}

type normalizedForm struct {
	name      string
	types     []string
	abilities []string
	moves     []string
}

// normalized is the lower-cased search view of a species.
type normalized struct {
	name      string
	types     []string
	abilities []string
	moves     []string
	eggGroups []string
	forms     []normalizedForm
}

func normalize(s dataset.Species) normalized {
	n := normalized{
		name:      strings.ToLower(s.Name),
		types:     lower(s.Types),
		abilities: lower(unique(s.Abilities, s.HiddenAbilities)),
		eggGroups: lower(s.EggGroups),
	}

	levelUp := make([]string, 0, len(s.LevelUpMoves))
	for _, m := range s.LevelUpMoves {
		levelUp = append(levelUp, m.Move)
	}
	n.moves = lower(unique(levelUp, s.TutorMoves, s.EggMoves))

	for _, f := range s.Forms {
		n.forms = append(n.forms, normalizedForm{
			name:      strings.ToLower(f.Name),
			types:     lower(f.Types),
			abilities: lower(unique(f.Abilities, f.HiddenAbilities)),
			moves:     lower(f.Moves),
		})
	}
	return n
}

func (n normalized) matches(q Query) bool {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text != "" {
		hit := strings.Contains(n.name, text) ||
			anyContains(n.types, text) ||
			anyContains(n.abilities, text) ||
			anyContains(n.eggGroups, text)
		for _, f := range n.forms {
			if hit {
				break
			}
			hit = strings.Contains(f.name, text) || anyContains(f.types, text) || anyContains(f.abilities, text)
		}
		if !hit {
			return false
		}
	}

	if name := strings.ToLower(strings.TrimSpace(q.Name)); name != "" {
		if !strings.Contains(n.name, name) && !n.anyForm(func(f normalizedForm) bool { return strings.Contains(f.name, name) }) {
			return false
		}
	}
	if typ := strings.ToLower(strings.TrimSpace(q.Type)); typ != "" {
		if !anyContains(n.types, typ) && !n.anyForm(func(f normalizedForm) bool { return anyContains(f.types, typ) }) {
			return false
		}
	}
	if ab := strings.ToLower(strings.TrimSpace(q.Ability)); ab != "" {
		if !anyContains(n.abilities, ab) && !n.anyForm(func(f normalizedForm) bool { return anyContains(f.abilities, ab) }) {
			return false
		}
	}
	if mv := strings.ToLower(strings.TrimSpace(q.Move)); mv != "" {
		if !anyContains(n.moves, mv) && !n.anyForm(func(f normalizedForm) bool { return anyContains(f.moves, mv) }) {
			return false
		}
	}
	return true
}

func (n normalized) anyForm(fn func(normalizedForm) bool) bool {
	for _, f := range n.forms {
		if fn(f) {
			return true
		}
	}
	return false
}

// Index is a prepared search view over one snapshot.
type Index struct {
	ds      *dataset.Dataset
	entries []dataset.Species
	views   []normalized
}

// NewIndex prepares the listing for a snapshot. Base species that have a "T"
// variant are hidden.
func NewIndex(ds *dataset.Dataset) *Index {
	entries := CollapseVariants(ds.Species())
	idx := &Index{
		ds:      ds,
		entries: entries,
		views:   make([]normalized, len(entries)),
	}
	for i, s := range entries {
		idx.views[i] = normalize(s)
	}
	return idx
}

// Len returns the number of listed species.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Find returns the species matching the query in the requested order.
func (idx *Index) Find(q Query) []dataset.Species {
	var out []dataset.Species
	if q.IsEmpty() {
		out = append(out, idx.entries...)
	} else {
		for i, v := range idx.views {
			if v.matches(q) {
				out = append(out, idx.entries[i])
			}
		}
	}

	SortSpecies(out, q.Sort)
	slog.Debug("species search", "game", idx.ds.Game(), "query", q, "results", len(out))
	return out
}

// Suggest returns species names close to a key or name that was not found.
func (idx *Index) Suggest(query string, limit int) []string {
	names := make([]string, 0, len(idx.entries)*2)
	for _, s := range idx.entries {
		names = append(names, s.Name)
	}
	opts := fuzzy.DefaultSearchOptions()
	if limit > 0 {
		opts.MaxResults = limit
	}

	var out []string
	seen := make(map[string]bool)
	for _, r := range fuzzy.Search(query, names, opts) {
		key := idx.entries[r.Index].Key
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// SortSpecies orders species in place. Unknown orders keep file order.
func SortSpecies(list []dataset.Species, order string) {
	switch order {
	case SortAlphabetical:
		sort.SliceStable(list, func(i, j int) bool {
			a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
			if a != b {
				return a < b
			}
			return list[i].Index < list[j].Index
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Index < list[j].Index
		})
	}
}

// CollapseVariants hides a species X when a species XT also exists.
func CollapseVariants(list []dataset.Species) []dataset.Species {
	variants := make(map[string]bool)
	for _, s := range list {
		key := dataset.CanonicalKey(s.Key)
		if strings.HasSuffix(key, "T") {
			variants[strings.TrimSuffix(key, "T")] = true
		}
	}

	out := make([]dataset.Species, 0, len(list))
	for _, s := range list {
		key := dataset.CanonicalKey(s.Key)
		if variants[key] && !strings.HasSuffix(key, "T") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func unique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
