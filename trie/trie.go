package trie

import (
	"fmt"
	"strings"

	"github.com/erraggy/o2t/internal/naming"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/seed"
)

// Trie is the namespace tree for one generation pass. It is not safe for
// concurrent use.
type Trie struct {
	root  *Node
	seeds int
}

// New returns an empty trie.
func New() *Trie {
	root := newNode(RootPart)
	root.root = true
	return &Trie{root: root}
}

// Root returns the root node.
func (t *Trie) Root() *Node { return t.root }

// Seeds returns the number of seeds inserted so far.
func (t *Trie) Seeds() int { return t.seeds }

// Segments splits a seed path on "/" and formats each non-empty segment.
func Segments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		out = append(out, naming.FormatPath(seg))
	}
	return out
}

// Insert adds a seed, creating missing nodes along its path. When two seeds
// map to the same formatted path the later one replaces the earlier leaf.
func (t *Trie) Insert(s seed.Seed) error {
	parts := Segments(s.Path)
	if len(parts) == 0 {
		return &o2terrors.InvariantError{
			Where:   "trie.Insert",
			Message: fmt.Sprintf("seed path %q has no segments", s.Path),
		}
	}
	node := t.root
	for _, key := range parts {
		child, ok := node.children.Get(key)
		if !ok {
			child = newNode(key)
			node.children.Set(key, child)
		}
		node = child
	}
	node.leaf = &Leaf{Path: s.OriginalPath, Content: s.Content}
	t.seeds++
	return nil
}

// InsertAll inserts seeds in order, stopping at the first error.
func (t *Trie) InsertAll(seeds []seed.Seed) error {
	for _, s := range seeds {
		if err := t.Insert(s); err != nil {
			return err
		}
	}
	return nil
}

// Build returns a trie holding seeds.
func Build(seeds []seed.Seed) (*Trie, error) {
	t := New()
	if err := t.InsertAll(seeds); err != nil {
		return nil, err
	}
	return t, nil
}

// Find returns the node reached by following segments from the root.
// Segments may be raw ("users", "{id}") or already formatted.
func (t *Trie) Find(segments ...string) (*Node, bool) {
	node := t.root
	for _, seg := range segments {
		child, ok := node.children.Get(seg)
		if !ok {
			child, ok = node.children.Get(naming.FormatPath(seg))
		}
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// WalkFunc is called for each node with its depth (root is 0). Returning a
// non-nil error stops the walk.
type WalkFunc func(n *Node, depth int) error

// Walk visits every node in pre-order, children in insertion order.
func (t *Trie) Walk(fn WalkFunc) error {
	return walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.children.All() {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes a trie's shape.
type Stats struct {
	Nodes      int // all nodes except the root
	Namespaces int
	Parents    int
	Leaves     int
	Invalid    int
	MaxDepth   int
}

// Stats counts nodes per kind.
func (t *Trie) Stats() Stats {
	var st Stats
	_ = t.Walk(func(n *Node, depth int) error {
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		switch n.Kind() {
		case KindRoot:
			return nil
		case KindNamespace:
			st.Namespaces++
		case KindParent:
			st.Parents++
		case KindLeaf:
			st.Leaves++
		default:
			st.Invalid++
		}
		st.Nodes++
		return nil
	})
	return st
}
