package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/trie"
	"github.com/erraggy/o2t/tsdecl"
)

// Banner opens every rendered document.
const Banner = "/* eslint-disable */\n"

// indentUnit is one nesting level.
const indentUnit = "  "

// exported lists the top-level namespaces that carry the export keyword.
var exported = map[string]bool{
	"Get":    true,
	"Post":   true,
	"Put":    true,
	"Delete": true,
}

// Render renders the trie below root as nested namespace declarations.
// Nodes are visited in pre-order and their leaf schemas compiled in that
// order; the first compile error or malformed node aborts the render.
func Render(ctx context.Context, root *trie.Node, c tsdecl.Compiler) (string, error) {
	r := &renderer{ctx: ctx, c: c}
	return r.node(root, 0)
}

type renderer struct {
	ctx context.Context
	c   tsdecl.Compiler
}

func (r *renderer) node(n *trie.Node, depth int) (string, error) {
	if err := r.ctx.Err(); err != nil {
		return "", err
	}
	pad := strings.Repeat(indentUnit, depth)

	switch n.Kind() {
	case trie.KindRoot:
		children, err := r.children(n, depth)
		if err != nil {
			return "", err
		}
		return Banner + children, nil

	case trie.KindNamespace:
		children, err := r.children(n, depth+1)
		if err != nil {
			return "", err
		}
		prefix := ""
		if depth == 0 && exported[n.Part()] {
			prefix = "export "
		}
		return fmt.Sprintf("%s%snamespace %s {\n%s%s}\n", pad, prefix, n.Part(), children, pad), nil

	case trie.KindParent:
		body, err := r.leafBody(n.Leaf(), depth+1)
		if err != nil {
			return "", err
		}
		children, err := r.children(n, depth+1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%snamespace %s {\n%s%s%s%s}\n",
			pad, n.Part(), leafDoc(n.Leaf(), pad+indentUnit), body, children, pad), nil

	case trie.KindLeaf:
		body, err := r.leafBody(n.Leaf(), depth+1)
		if err != nil {
			return "", err
		}
		if body == "" {
			return fmt.Sprintf("%s%snamespace %s {}\n", leafDoc(n.Leaf(), pad), pad, n.Part()), nil
		}
		return fmt.Sprintf("%s%snamespace %s {\n%s%s}\n", leafDoc(n.Leaf(), pad), pad, n.Part(), body, pad), nil

	default:
		return "", &o2terrors.InvariantError{
			Where:   "generator.Render",
			Message: fmt.Sprintf("node %q has neither an operation nor children", n.Key()),
		}
	}
}

func (r *renderer) children(n *trie.Node, depth int) (string, error) {
	var b strings.Builder
	for _, child := range n.Children() {
		out, err := r.node(child, depth)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// leafBody compiles the operation's Params, Body and Response in one name
// scope and indents the result.
func (r *renderer) leafBody(leaf *trie.Leaf, depth int) (string, error) {
	c := leaf.Content
	roots := []tsdecl.Root{
		{Name: seed.TitleParams, Schema: c.Params},
		{Name: seed.TitleBody, Schema: c.Body},
		{Name: seed.TitleResponse, Schema: c.Response},
	}
	out, err := r.c.Compile(r.ctx, roots...)
	if err != nil {
		return "", fmt.Errorf("generator: %s %s: %w", c.Method, leaf.Path, err)
	}
	return indent(out, strings.Repeat(indentUnit, depth)), nil
}

func leafDoc(leaf *trie.Leaf, pad string) string {
	return pad + "/**\n" +
		pad + " * @description Response Interface\n" +
		pad + " * @method " + leaf.Content.Method + "\n" +
		pad + " * @path " + leaf.Path + "\n" +
		pad + " */\n"
}

// indent prefixes every non-blank line of text with pad.
func indent(text, pad string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(pad)
		}
		b.WriteString(line)
	}
	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
