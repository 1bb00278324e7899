// Package effectiveness computes how much damage each attacking type deals to
// a subject with one or two types.
package effectiveness

import (
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// Multiplier is the net damage multiplier against the subject from one
// attacking type. Immunity is a separate state rather than a zero factor so
// later modifiers cannot move it.
type Multiplier struct {
	immune bool
	factor float64
}

// Neutral is the multiplier of a type nothing has touched.
func Neutral() Multiplier {
	return Multiplier{factor: 1}
}

// Immune reports whether the attacking type deals no damage.
func (m Multiplier) Immune() bool {
	return m.immune
}

// Value returns the numeric multiplier.
func (m Multiplier) Value() float64 {
	if m.immune {
		return 0
	}
	return m.factor
}

// Scale multiplies a non-immune multiplier.
func (m Multiplier) Scale(by float64) Multiplier {
	if m.immune {
		return m
	}
	return Multiplier{factor: m.factor * by}
}

// MakeImmune returns the absorbing immune state.
func (m Multiplier) MakeImmune() Multiplier {
	return Multiplier{immune: true}
}

// Entry is the multiplier for one attacking type.
type Entry struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Buckets groups attacking types by the damage they deal to the subject.
type Buckets struct {
	Immune          []string `json:"immune"`
	HyperEffective  []string `json:"hypereffective"`
	Weaknesses      []string `json:"weaknesses"`
	BarelyEffective []string `json:"barelyeffective"`
	Resistances     []string `json:"resistances"`
}

// Result is the outcome of a calculation.
type Result struct {
	Subject     []string `json:"subject"`
	Skipped     []string `json:"skipped,omitempty"`
	Multipliers []Entry  `json:"multipliers"`
	Buckets
}

// Lookup returns a type's relation row.
type Lookup interface {
	Types() []dataset.TypeRelation
	Type(name string) (dataset.TypeRelation, bool)
}

// Calculate combines the relations of each subject type. Subject types that
// are missing from the table contribute nothing.
func Calculate(table Lookup, subject []string) Result {
	res := Result{Subject: dedupe(subject)}

	acc := newAccumulator(table.Types())
	for _, t := range res.Subject {
		rel, ok := table.Type(t)
		if !ok {
			res.Skipped = append(res.Skipped, t)
			continue
		}
		for _, atk := range rel.Weaknesses {
			acc.apply(atk, func(m Multiplier) Multiplier { return m.Scale(2) })
		}
		for _, atk := range rel.Resistances {
			acc.apply(atk, func(m Multiplier) Multiplier { return m.Scale(0.5) })
		}
		for _, atk := range rel.Immunities {
			acc.apply(atk, Multiplier.MakeImmune)
		}
	}

	for _, k := range acc.ordered() {
		name, m := acc.names[k], acc.values[k]
		res.Multipliers = append(res.Multipliers, Entry{Type: name, Value: m.Value()})
		switch {
		case m.Immune():
			res.Immune = append(res.Immune, name)
		case m.factor == 4:
			res.HyperEffective = append(res.HyperEffective, name)
		case m.factor == 2:
			res.Weaknesses = append(res.Weaknesses, name)
		case m.factor == 0.25:
			res.BarelyEffective = append(res.BarelyEffective, name)
		case m.factor == 0.5:
			res.Resistances = append(res.Resistances, name)
		}
	}
	return res
}

// accumulator tracks touched attacking types. Output order is the table's
// order, then types the table does not list in the order they were touched.
type accumulator struct {
	tableOrder map[string]int
	values     map[string]Multiplier
	names      map[string]string
	extra      []string
}

func newAccumulator(table []dataset.TypeRelation) *accumulator {
	a := &accumulator{
		tableOrder: make(map[string]int, len(table)),
		values:     make(map[string]Multiplier),
		names:      make(map[string]string),
	}
	for i, rel := range table {
		k := dataset.CanonicalKey(rel.Name)
		if _, ok := a.tableOrder[k]; !ok {
			a.tableOrder[k] = i
		}
	}
	return a
}

func (a *accumulator) apply(attacker string, fn func(Multiplier) Multiplier) {
	k := dataset.CanonicalKey(attacker)
	if k == "" {
		return
	}
	m, ok := a.values[k]
	if !ok {
		m = Neutral()
		a.names[k] = strings.TrimSpace(attacker)
		if _, listed := a.tableOrder[k]; !listed {
			a.extra = append(a.extra, k)
		}
	}
	a.values[k] = fn(m)
}

func (a *accumulator) ordered() []string {
	keys := make([]string, 0, len(a.values))
	listed := make([]string, len(a.tableOrder))
	for k, i := range a.tableOrder {
		if i < len(listed) {
			listed[i] = k
		}
	}
	for _, k := range listed {
		if _, touched := a.values[k]; k != "" && touched {
			keys = append(keys, k)
		}
	}
	return append(keys, a.extra...)
}

func dedupe(types []string) []string {
	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		k := dataset.CanonicalKey(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, strings.TrimSpace(t))
	}
	return out
}
