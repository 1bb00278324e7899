// Package evolution reconstructs evolution chains from the per-species
// evolution lists of a dataset snapshot.
package evolution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// ErrCycle is returned when the evolution data loops back on itself.
var ErrCycle = errors.New("evolution cycle detected")

// Edge is a directed evolution from Source to Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Method string `json:"method,omitempty"`
	Param  string `json:"param,omitempty"`
}

// Graph is the forward adjacency of every evolution in a snapshot. Sources
// keep dataset order and edges keep the order they were listed in.
type Graph struct {
	sources []string
	forward map[string][]Edge
}

// NewGraph builds the forward evolution graph of a snapshot.
func NewGraph(ds *dataset.Dataset) *Graph {
	g := &Graph{forward: make(map[string][]Edge)}
	for _, s := range ds.Species() {
		for _, t := range s.Evolutions {
			g.AddEdge(Edge{Source: s.Key, Target: t.Target, Method: t.Method, Param: t.Param})
		}
	}
	return g
}

// AddEdge appends an edge to its source's outgoing list.
func (g *Graph) AddEdge(e Edge) {
	src := canonical(e.Source)
	if _, ok := g.forward[src]; !ok {
		g.sources = append(g.sources, src)
	}
	g.forward[src] = append(g.forward[src], e)
}

// Evolutions returns the outgoing edges of a species.
func (g *Graph) Evolutions(key string) []Edge {
	return g.forward[canonical(key)]
}

// Predecessor returns the source of the first edge, in insertion order, whose
// target is key.
func (g *Graph) Predecessor(key string) (string, bool) {
	want := canonical(key)
	for _, src := range g.sources {
		for _, e := range g.forward[src] {
			if canonical(e.Target) == want {
				return e.Source, true
			}
		}
	}
	return "", false
}

// FindRoot walks predecessors from key until a species with no incoming edge
// is reached. A species seen twice on the walk yields ErrCycle.
func (g *Graph) FindRoot(key string) (string, error) {
	root := key
	seen := map[string]bool{canonical(key): true}
	for {
		prev, ok := g.Predecessor(root)
		if !ok {
			return root, nil
		}
		if seen[canonical(prev)] {
			return "", fmt.Errorf("%w: %s is its own ancestor", ErrCycle, prev)
		}
		seen[canonical(prev)] = true
		root = prev
	}
}

// Len returns the number of edges in the graph.
func (g *Graph) Len() int {
	n := 0
	for _, edges := range g.forward {
		n += len(edges)
	}
	return n
}

func canonical(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
