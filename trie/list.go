package trie

import "strings"

// Entry describes one non-root node for listings.
type Entry struct {
	// Name is the dotted namespace path, e.g. Get.Users.Id.
	Name  string
	Part  string
	Kind  NodeKind
	Depth int
	// Method and Route are set for nodes that carry an operation.
	Method string
	Route  string
}

// Entries lists every node except the root in pre-order. Depth starts at 1
// for the children of the root.
func (t *Trie) Entries() []Entry {
	var out []Entry
	var names []string
	_ = t.Walk(func(n *Node, depth int) error {
		if n.IsRoot() {
			return nil
		}
		names = append(names[:depth-1], n.Part())
		e := Entry{
			Name:  strings.Join(names, "."),
			Part:  n.Part(),
			Kind:  n.Kind(),
			Depth: depth,
		}
		if l := n.Leaf(); l != nil {
			e.Method = l.Content.Method
			e.Route = l.Path
		}
		out = append(out, e)
		return nil
	})
	return out
}
