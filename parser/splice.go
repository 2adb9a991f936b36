package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/o2t/o2terrors"
)

// SpliceExports combines the export of a previous pass with a newer export
// of the same project, producing the export an incremental update rendered.
//
// Paths keep the previous order; each route listed in routes takes its path
// item from newest, and listed routes the previous export lacks are appended
// in routes order. Unlisted routes only present in newest are dropped.
// Components are the previous ones overlaid by newest, name by name. Every
// other top-level key comes from newest. The result is indented JSON.
func SpliceExports(previous, newest []byte, routes []string) ([]byte, error) {
	prev, err := spliceRoot(previous, "previous export")
	if err != nil {
		return nil, err
	}
	next, err := spliceRoot(newest, "newest export")
	if err != nil {
		return nil, err
	}

	out := &yaml.Node{Kind: yaml.MappingNode}
	for key, value := range pairs(next) {
		switch key {
		case "paths":
			setPair(out, key, splicePaths(lookup(prev, key), value, routes))
		case "components":
			setPair(out, key, overlay(lookup(prev, key), value))
		default:
			setPair(out, key, value)
		}
	}
	if lookup(out, "paths") == nil && lookup(prev, "paths") != nil {
		setPair(out, "paths", splicePaths(lookup(prev, "paths"), nil, routes))
	}
	if lookup(out, "components") == nil && lookup(prev, "components") != nil {
		setPair(out, "components", lookup(prev, "components"))
	}

	var compact bytes.Buffer
	if err := writeJSON(&compact, out); err != nil {
		return nil, &o2terrors.ParseError{Path: "spliced export", Message: "encoding JSON", Cause: err}
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, compact.Bytes(), "", "  "); err != nil {
		return nil, &o2terrors.ParseError{Path: "spliced export", Message: "encoding JSON", Cause: err}
	}
	indented.WriteByte('\n')
	return indented.Bytes(), nil
}

func spliceRoot(data []byte, name string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &o2terrors.ParseError{Path: name, Message: "invalid export", Cause: err}
	}
	root := resolveNode(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &o2terrors.ParseError{Path: name, Message: "export root is not a mapping"}
	}
	return root, nil
}

func splicePaths(prev, next *yaml.Node, routes []string) *yaml.Node {
	listed := make(map[string]bool, len(routes))
	for _, route := range routes {
		listed[route] = true
	}

	out := &yaml.Node{Kind: yaml.MappingNode}
	for route, item := range pairs(prev) {
		if fresh := lookup(next, route); listed[route] && fresh != nil {
			item = fresh
		}
		setPair(out, route, item)
	}
	for _, route := range routes {
		if lookup(out, route) != nil {
			continue
		}
		if fresh := lookup(next, route); fresh != nil {
			setPair(out, route, fresh)
		}
	}
	return out
}

// overlay merges two components mappings one level deep; top wins per name.
func overlay(base, top *yaml.Node) *yaml.Node {
	if base == nil || base.Kind != yaml.MappingNode {
		return top
	}
	out := &yaml.Node{Kind: yaml.MappingNode}
	for kind, defs := range pairs(base) {
		setPair(out, kind, defs)
	}
	for kind, defs := range pairs(top) {
		prior := lookup(out, kind)
		if prior == nil || prior.Kind != yaml.MappingNode || defs.Kind != yaml.MappingNode {
			setPair(out, kind, defs)
			continue
		}
		merged := &yaml.Node{Kind: yaml.MappingNode}
		for name, def := range pairs(prior) {
			setPair(merged, name, def)
		}
		for name, def := range pairs(defs) {
			setPair(merged, name, def)
		}
		setPair(out, kind, merged)
	}
	return out
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for k, v := range pairs(m) {
		if k == key {
			return v
		}
	}
	return nil
}

// setPair replaces the value of key in place, or appends the pair.
func setPair(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func writeJSON(b *bytes.Buffer, n *yaml.Node) error {
	n = resolveNode(n)
	if n == nil {
		b.WriteString("null")
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		b.WriteByte('{')
		first := true
		for key, value := range pairs(n) {
			if !first {
				b.WriteByte(',')
			}
			first = false
			if err := writeValue(b, key); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeJSON(b, value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case yaml.SequenceNode:
		b.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		return writeValue(b, v)
	}
	return nil
}

func writeValue(b *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	b.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
