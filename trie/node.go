package trie

import (
	"github.com/erraggy/o2t/internal/naming"
	"github.com/erraggy/o2t/internal/orderedmap"
	"github.com/erraggy/o2t/seed"
)

// RootPart is the reserved name of the root node.
const RootPart = "TrieRoot"

// NodeKind classifies a node by its shape.
type NodeKind int

const (
	// KindInvalid is a non-root node with neither leaf nor children.
	// Insertion never produces it.
	KindInvalid NodeKind = iota
	// KindRoot is the root of the trie.
	KindRoot
	// KindNamespace groups children and carries no operation.
	KindNamespace
	// KindParent carries an operation and has children.
	KindParent
	// KindLeaf carries an operation and has no children.
	KindLeaf
)

// String returns the kind's name.
func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "ROOT"
	case KindNamespace:
		return "NAMESPACE"
	case KindParent:
		return "PARENT_NODE"
	case KindLeaf:
		return "CHILD_NODE"
	default:
		return "INVALID"
	}
}

// Leaf is the operation attached to a node. Path and content travel together.
type Leaf struct {
	// Path is the original route, e.g. /users/{id}.
	Path    string
	Content seed.Content
}

// Node is one segment of the route hierarchy.
type Node struct {
	key      string
	part     string
	root     bool
	leaf     *Leaf
	children *orderedmap.Map[string, *Node]
}

func newNode(key string) *Node {
	part := key
	if !naming.IsIdentifier(part) {
		part = naming.SafeIdentifier(part)
	}
	return &Node{
		key:      key,
		part:     part,
		children: orderedmap.New[string, *Node](0),
	}
}

// Key returns the formatted segment the node is stored under.
func (n *Node) Key() string { return n.key }

// Part returns the node's identifier, used as its namespace name.
func (n *Node) Part() string { return n.part }

// Leaf returns the node's operation, or nil.
func (n *Node) Leaf() *Leaf { return n.leaf }

// IsRoot reports whether n is the root.
func (n *Node) IsRoot() bool { return n.root }

// Len returns the number of children.
func (n *Node) Len() int { return n.children.Len() }

// Children returns the children in insertion order.
func (n *Node) Children() []*Node { return n.children.Values() }

// Child returns the child stored under a formatted segment.
func (n *Node) Child(key string) (*Node, bool) { return n.children.Get(key) }

// Kind classifies the node by its shape.
func (n *Node) Kind() NodeKind {
	hasChildren := n.children.Len() > 0
	switch {
	case n.root:
		return KindRoot
	case n.leaf != nil && hasChildren:
		return KindParent
	case n.leaf != nil:
		return KindLeaf
	case hasChildren:
		return KindNamespace
	default:
		return KindInvalid
	}
}
