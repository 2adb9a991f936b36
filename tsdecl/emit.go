package tsdecl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/o2t/internal/naming"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/schema"
)

// Reference prefixes accepted for component schemas.
var refPrefixes = []string{"#/components/schemas/", "#/definitions/"}

type pending struct {
	name    string
	schema  *schema.Schema
	pointer string
}

// emitter holds the state of one Compile call.
type emitter struct {
	ctx   context.Context
	c     *SchemaCompiler
	decls []string
	queue []pending
	// used maps declaration names to the schema they were given to.
	used map[string]*schema.Schema
	// named maps hoisted schemas to their declaration names.
	named map[*schema.Schema]string
	// refs maps component names to declaration names.
	refs map[string]string
}

func newEmitter(ctx context.Context, c *SchemaCompiler) *emitter {
	return &emitter{
		ctx:   ctx,
		c:     c,
		used:  make(map[string]*schema.Schema),
		named: make(map[*schema.Schema]string),
		refs:  make(map[string]string),
	}
}

// reserve returns the declaration name for s and whether s still has to be
// declared. A name held by a different schema gets a numeric suffix, unless
// that schema is identical to s, in which case the name is shared.
func (e *emitter) reserve(title string, s *schema.Schema) (string, bool) {
	if name, ok := e.named[s]; ok {
		return name, false
	}
	base := naming.SafeIdentifier(title)
	name := base
	var fp string
	for i := 1; ; i++ {
		owner, taken := e.used[name]
		if !taken {
			break
		}
		if fp == "" {
			fp = s.Fingerprint()
		}
		if owner.Fingerprint() == fp {
			e.named[s] = name
			return name, false
		}
		name = base + strconv.Itoa(i)
	}
	e.used[name] = s
	e.named[s] = name
	return name, true
}

// hoist schedules s as its own declaration and returns its name.
func (e *emitter) hoist(s *schema.Schema, pointer string) string {
	name, fresh := e.reserve(s.Title, s)
	if fresh {
		e.queue = append(e.queue, pending{name: name, schema: s, pointer: pointer})
	}
	return name
}

func (e *emitter) declare(name string, s *schema.Schema, pointer string) error {
	var b strings.Builder
	writeDoc(&b, "", s.Description, s.Deprecated)
	if e.c.export {
		b.WriteString("export ")
	}
	if isInterface(s) {
		body, err := e.objectBody(s, pointer, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "interface %s %s\n", name, body)
	} else {
		t, err := e.inner(s, pointer, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "type %s = %s;\n", name, t)
	}
	e.decls = append(e.decls, b.String())
	return nil
}

// isInterface reports whether s renders as an interface: a plain object
// shape with no reference, literal or composition that needs a type alias.
func isInterface(s *schema.Schema) bool {
	if s.Ref != "" || s.HasConst || len(s.Enum) > 0 || s.Nullable ||
		len(s.AnyOf) > 0 || len(s.OneOf) > 0 || len(s.AllOf) > 0 {
		return false
	}
	switch s.Type {
	case schema.TypeObject:
		return true
	case "":
		return s.Properties != nil || (s.AdditionalProperties != nil && s.Items == nil && s.TupleItems == nil)
	default:
		return false
	}
}

// typeOf renders a nested schema, hoisting it when it has its own title.
func (e *emitter) typeOf(s *schema.Schema, pointer string, depth int) (string, error) {
	if s == nil {
		return e.c.unknown, nil
	}
	if s.Title != "" {
		return e.hoist(s, pointer), nil
	}
	return e.inner(s, pointer, depth)
}

// inner renders a schema in place, ignoring its title.
func (e *emitter) inner(s *schema.Schema, pointer string, depth int) (string, error) {
	t, err := e.base(s, pointer, depth)
	if err != nil {
		return "", err
	}
	if s.Nullable && t != "null" && t != e.c.unknown {
		t = wrapUnion(t) + " | null"
	}
	return t, nil
}

func (e *emitter) base(s *schema.Schema, pointer string, depth int) (string, error) {
	switch {
	case s.Ref != "":
		return e.ref(s.Ref, pointer)
	case s.HasConst:
		return literal(s.Const, e.c.unknown), nil
	case len(s.Enum) > 0:
		parts := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			parts = appendUnique(parts, literal(v, e.c.unknown))
		}
		return strings.Join(parts, " | "), nil
	case len(s.AllOf) > 0:
		return e.compose(s.AllOf, " & ", pointer+"/allOf", depth)
	case len(s.AnyOf) > 0:
		return e.compose(s.AnyOf, " | ", pointer+"/anyOf", depth)
	case len(s.OneOf) > 0:
		return e.compose(s.OneOf, " | ", pointer+"/oneOf", depth)
	}

	switch s.Type {
	case schema.TypeString:
		return "string", nil
	case schema.TypeNumber, schema.TypeInteger:
		return "number", nil
	case schema.TypeBoolean:
		return "boolean", nil
	case schema.TypeNull:
		return "null", nil
	case schema.TypeArray:
		return e.array(s, pointer, depth)
	case schema.TypeObject:
		return e.objectBody(s, pointer, depth)
	case "":
		if isInterface(s) {
			return e.objectBody(s, pointer, depth)
		}
		if s.Items != nil || s.TupleItems != nil {
			return e.array(s, pointer, depth)
		}
		return e.c.unknown, nil
	default:
		return e.c.unknown, nil
	}
}

func (e *emitter) array(s *schema.Schema, pointer string, depth int) (string, error) {
	if s.TupleItems != nil {
		parts := make([]string, 0, len(s.TupleItems))
		for i, item := range s.TupleItems {
			t, err := e.typeOf(item, fmt.Sprintf("%s/items/%d", pointer, i), depth)
			if err != nil {
				return "", err
			}
			parts = append(parts, t)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	if s.Items == nil {
		return e.c.unknown + "[]", nil
	}
	t, err := e.typeOf(s.Items, pointer+"/items", depth)
	if err != nil {
		return "", err
	}
	return wrapUnion(t) + "[]", nil
}

func (e *emitter) compose(list []*schema.Schema, sep, pointer string, depth int) (string, error) {
	parts := make([]string, 0, len(list))
	for i, sub := range list {
		t, err := e.typeOf(sub, pointer+"/"+strconv.Itoa(i), depth)
		if err != nil {
			return "", err
		}
		parts = appendUnique(parts, wrapUnion(t))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return strings.Join(parts, sep), nil
}

// objectBody renders "{ ... }" with members indented one level below depth.
func (e *emitter) objectBody(s *schema.Schema, pointer string, depth int) (string, error) {
	if s.Properties.Len() == 0 && (s.AdditionalProperties == nil || !s.AdditionalProperties.Allowed) {
		return "{}", nil
	}
	outer := strings.Repeat(e.c.indent, depth)
	pad := outer + e.c.indent

	var b strings.Builder
	b.WriteString("{\n")
	for name, prop := range s.Properties.All() {
		if err := e.ctx.Err(); err != nil {
			return "", err
		}
		t, err := e.typeOf(prop, pointer+"/properties/"+escapePointer(name), depth+1)
		if err != nil {
			return "", err
		}
		if prop != nil {
			writeDoc(&b, pad, prop.Description, prop.Deprecated)
		}
		opt := "?"
		if s.IsRequired(name) {
			opt = ""
		}
		fmt.Fprintf(&b, "%s%s%s: %s;\n", pad, propertyKey(name), opt, t)
	}
	if ap := s.AdditionalProperties; ap != nil && ap.Allowed {
		t := e.c.unknown
		if ap.Schema != nil {
			var err error
			t, err = e.typeOf(ap.Schema, pointer+"/additionalProperties", depth+1)
			if err != nil {
				return "", err
			}
		}
		fmt.Fprintf(&b, "%s[k: string]: %s;\n", pad, t)
	}
	b.WriteString(outer + "}")
	return b.String(), nil
}

// ref resolves a component reference to a hoisted declaration name.
func (e *emitter) ref(ref, pointer string) (string, error) {
	var name string
	for _, prefix := range refPrefixes {
		if rest, ok := strings.CutPrefix(ref, prefix); ok {
			name = unescapePointer(rest)
			break
		}
	}
	target, ok := e.c.defs.Get(name)
	if name == "" || !ok || target == nil {
		return "", &o2terrors.CompileError{
			Pointer: pointer,
			Message: fmt.Sprintf("unresolved reference %q", ref),
		}
	}
	if decl, ok := e.refs[name]; ok {
		return decl, nil
	}
	title := target.Title
	if title == "" {
		title = name
	}
	decl, fresh := e.reserve(title, target)
	if fresh {
		e.queue = append(e.queue, pending{name: decl, schema: target, pointer: ref})
	}
	e.refs[name] = decl
	return decl, nil
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func unescapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// wrapUnion parenthesizes a type with a top-level union or intersection so
// it can be used as an array element or composition operand.
func wrapUnion(t string) string {
	if hasTopLevelOperator(t) {
		return "(" + t + ")"
	}
	return t
}

// hasTopLevelOperator scans t for " | " or " & " outside brackets and
// string literals.
func hasTopLevelOperator(t string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(t); i++ {
		ch := t[i]
		switch {
		case inString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '{' || ch == '[' || ch == '(':
			depth++
		case ch == '}' || ch == ']' || ch == ')':
			depth--
		case depth == 0 && (ch == '|' || ch == '&') && i > 0 && i+1 < len(t) && t[i-1] == ' ' && t[i+1] == ' ':
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
