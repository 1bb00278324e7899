package evolution

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/fangame-dex/internal/dex/dataset"
)

// Node is one stage of a rendered evolution chain. Key identifies the species
// so a client can select it and re-open the detail view.
type Node struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Sprite   dataset.Sprite `json:"sprite"`
	Current  bool           `json:"current"`
	Missing  bool           `json:"missing,omitempty"`
	Branches []Branch       `json:"branches,omitempty"`
}

// Branch is an evolution out of a node, labelled with its method.
type Branch struct {
	Method   string `json:"method"`
	Param    string `json:"param,omitempty"`
	Label    string `json:"label"`
	ItemIcon string `json:"itemIcon,omitempty"`
	Node     Node   `json:"node"`
}

// Chain is the full evolution line of the queried species.
type Chain struct {
	Query string `json:"query"`
	Root  Node   `json:"root"`
}

// Builder renders evolution chains from one snapshot.
type Builder struct {
	ds     *dataset.Dataset
	graph  *Graph
	images dataset.Images
}

// NewBuilder builds the evolution graph for a snapshot.
func NewBuilder(ds *dataset.Dataset) *Builder {
	return &Builder{
		ds:     ds,
		graph:  NewGraph(ds),
		images: dataset.NewImages(ds.Game()),
	}
}

// Graph returns the underlying evolution graph.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// FindRoot resolves the earliest ancestor of a species.
func (b *Builder) FindRoot(key string) (string, error) {
	s, err := b.ds.Get(key)
	if err != nil {
		return "", err
	}
	return b.graph.FindRoot(s.Key)
}

// Chain renders the complete evolution line containing key, rooted at its
// earliest ancestor. A species reachable along two paths appears twice.
func (b *Builder) Chain(key string) (*Chain, error) {
	s, err := b.ds.Get(key)
	if err != nil {
		return nil, err
	}

	root, err := b.graph.FindRoot(s.Key)
	if err != nil {
		return nil, err
	}

	onPath := make(map[string]bool)
	node, err := b.render(root, canonical(s.Key), onPath)
	if err != nil {
		return nil, err
	}
	return &Chain{Query: s.Key, Root: node}, nil
}

func (b *Builder) render(key, current string, onPath map[string]bool) (Node, error) {
	ck := canonical(key)
	if onPath[ck] {
		return Node{}, fmt.Errorf("%w: %s reached again from its own descendants", ErrCycle, key)
	}
	onPath[ck] = true
	defer delete(onPath, ck)

	node := b.stage(key)
	node.Current = ck == current

	for _, e := range b.graph.Evolutions(key) {
		child, err := b.render(e.Target, current, onPath)
		if err != nil {
			return Node{}, err
		}
		branch := Branch{
			Method: e.Method,
			Param:  e.Param,
			Label:  MethodLabel(e.Method, e.Param),
			Node:   child,
		}
		if e.Param != "" && IsItemMethod(e.Method) {
			branch.ItemIcon = b.images.Item(e.Param)
		}
		node.Branches = append(node.Branches, branch)
	}
	return node, nil
}

func (b *Builder) stage(key string) Node {
	s, ok := b.ds.Lookup(key)
	if !ok {
		return Node{Key: key, Name: key, Missing: true, Sprite: b.images.Species(key, dataset.ViewFront)}
	}
	return Node{Key: s.Key, Name: s.Name, Sprite: b.images.Species(s.Key, dataset.ViewFront)}
}

// IsItemMethod reports whether an evolution method consumes an item.
func IsItemMethod(method string) bool {
	return strings.Contains(strings.ToLower(method), "item")
}

// MethodLabel formats a method for display. Item methods show the item name
// separately via the branch's item icon, so only the method is returned.
func MethodLabel(method, param string) string {
	label := "Method"
	if method != "" {
		label = strings.ReplaceAll(method, "_", " ")
	}
	if param == "" || IsItemMethod(method) {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, param)
}

// Walk calls fn for every node in the chain, depth first.
func (c *Chain) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for i := range n.Branches {
			walk(&n.Branches[i].Node, depth+1)
		}
	}
	walk(&c.Root, 0)
}
