package parser

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/internal/orderedmap"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/schema"
)

// maxRefHops bounds chains of component references such as a parameter
// whose definition is itself a $ref.
const maxRefHops = 16

// decoder turns a YAML node tree into a Document.
type decoder struct {
	source string
	// refs holds raw component nodes by kind (parameters, requestBodies,
	// responses) and name.
	refs     map[string]map[string]*yaml.Node
	warnings []string
	logger   Logger
}

func (d *decoder) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.warnings = append(d.warnings, msg)
	d.logger.Warn(msg)
}

func (d *decoder) errorAt(n *yaml.Node, format string, args ...any) error {
	return &o2terrors.ParseError{
		Path:    d.source,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// pairs iterates a mapping node's key/value pairs with aliases resolved.
func pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, resolveNode(n.Content[i+1])) {
				return
			}
		}
	}
}

func resolveNode(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.DocumentNode, n.Kind == 0:
			return nil
		default:
			return n
		}
	}
	return nil
}

func (d *decoder) document(root *yaml.Node) (*Document, error) {
	root = resolveNode(root)
	if root == nil {
		return nil, &o2terrors.ParseError{Path: d.source, Message: "empty document"}
	}
	if root.Kind != yaml.MappingNode {
		return nil, d.errorAt(root, "document root must be an object")
	}

	doc := &Document{
		Paths:      orderedmap.New[string, *PathItem](0),
		Components: Components{Schemas: orderedmap.New[string, *schema.Schema](0)},
	}

	// Components first so operation-level refs can be inlined.
	for key, val := range pairs(root) {
		if key == "components" {
			if err := d.components(val, &doc.Components); err != nil {
				return nil, err
			}
		}
	}

	for key, val := range pairs(root) {
		switch key {
		case "openapi", "swagger":
			doc.OpenAPI = val.Value
		case "info":
			for k, v := range pairs(val) {
				switch k {
				case "title":
					doc.Info.Title = v.Value
				case "description":
					doc.Info.Description = v.Value
				case "version":
					doc.Info.Version = v.Value
				}
			}
		case "paths":
			if val.Kind != yaml.MappingNode {
				return nil, d.errorAt(val, "paths must be an object")
			}
			for route, itemNode := range pairs(val) {
				item, err := d.pathItem(route, itemNode)
				if err != nil {
					return nil, err
				}
				if doc.Paths.Has(route) {
					d.warnf("duplicate route %q: later definition wins", route)
				}
				doc.Paths.Set(route, item)
			}
		}
	}
	return doc, nil
}

func (d *decoder) components(n *yaml.Node, c *Components) error {
	if n.Kind != yaml.MappingNode {
		return d.errorAt(n, "components must be an object")
	}
	d.refs = make(map[string]map[string]*yaml.Node)
	for kind, group := range pairs(n) {
		if kind == "schemas" {
			for name, sn := range pairs(group) {
				s, err := schema.FromNode(sn)
				if err != nil {
					return d.wrapSchemaErr(err, "components.schemas."+name)
				}
				c.Schemas.Set(name, s)
			}
			continue
		}
		byName := make(map[string]*yaml.Node)
		for name, node := range pairs(group) {
			byName[name] = node
		}
		d.refs[kind] = byName
	}
	return nil
}

// deref follows a "#/components/<kind>/<name>" reference. It returns nil
// (with a warning) when the target does not exist.
func (d *decoder) deref(n *yaml.Node, kind, where string) *yaml.Node {
	for range maxRefHops {
		var ref string
		for k, v := range pairs(n) {
			if k == "$ref" {
				ref = v.Value
			}
		}
		if ref == "" {
			return n
		}
		prefix := "#/components/" + kind + "/"
		name, ok := strings.CutPrefix(ref, prefix)
		target := d.refs[kind][name]
		if !ok || target == nil {
			d.warnf("%s: unresolved reference %q", where, ref)
			return nil
		}
		n = target
	}
	d.warnf("%s: reference chain longer than %d hops", where, maxRefHops)
	return nil
}

func (d *decoder) pathItem(route string, n *yaml.Node) (*PathItem, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorAt(n, "path item %q must be an object", route)
	}
	item := &PathItem{Operations: orderedmap.New[string, *Operation](1)}
	var shared []*Parameter
	for key, val := range pairs(n) {
		if key != "parameters" {
			continue
		}
		params, err := d.parameters(route, val)
		if err != nil {
			return nil, err
		}
		shared = params
	}
	for key, val := range pairs(n) {
		if !httputil.IsMethod(key) {
			continue
		}
		op, err := d.operation(route, key, val)
		if err != nil {
			return nil, err
		}
		op.Parameters = mergeParameters(shared, op.Parameters)
		item.Operations.Set(key, op)
	}
	return item, nil
}

// mergeParameters adds path-level parameters the operation does not override.
func mergeParameters(shared, own []*Parameter) []*Parameter {
	if shared == nil {
		return own
	}
	out := make([]*Parameter, 0, len(shared)+len(own))
	for _, sp := range shared {
		overridden := false
		for _, op := range own {
			if op.Name == sp.Name && op.In == sp.In {
				overridden = true
				break
			}
		}
		if !overridden {
			out = append(out, sp)
		}
	}
	return append(out, own...)
}

func (d *decoder) operation(route, method string, n *yaml.Node) (*Operation, error) {
	where := strings.ToUpper(method) + " " + route
	if n.Kind != yaml.MappingNode {
		return nil, d.errorAt(n, "%s: operation must be an object", where)
	}
	op := &Operation{Method: method}
	for key, val := range pairs(n) {
		var err error
		switch key {
		case "summary":
			op.Summary = val.Value
		case "description":
			op.Description = val.Value
		case "operationId":
			op.OperationID = val.Value
		case "deprecated":
			op.Deprecated = val.Value == "true"
		case "tags":
			for _, t := range val.Content {
				op.Tags = append(op.Tags, resolveNode(t).Value)
			}
		case KeyApifoxStatus:
			op.Status = val.Value
		case "parameters":
			op.Parameters, err = d.parameters(where, val)
		case "requestBody":
			op.RequestBody, err = d.requestBody(where, val)
		case "responses":
			op.Responses, err = d.responses(where, val)
		default:
			if strings.HasPrefix(key, "x-") {
				if op.Extensions == nil {
					op.Extensions = orderedmap.New[string, any](1)
				}
				op.Extensions.Set(key, schema.Value(val))
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return op, nil
}

func (d *decoder) parameters(where string, n *yaml.Node) ([]*Parameter, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorAt(n, "%s: parameters must be an array", where)
	}
	params := make([]*Parameter, 0, len(n.Content))
	for _, raw := range n.Content {
		pn := d.deref(resolveNode(raw), "parameters", where)
		if pn == nil {
			continue
		}
		p := &Parameter{}
		for key, val := range pairs(pn) {
			switch key {
			case "name":
				p.Name = val.Value
			case "in":
				p.In = val.Value
			case "description":
				p.Description = val.Value
			case "required":
				p.Required = val.Value == "true"
			case "schema":
				s, err := schema.FromNode(val)
				if err != nil {
					return nil, d.wrapSchemaErr(err, where+" parameter "+p.Name)
				}
				p.Schema = s
			}
		}
		if p.Name == "" {
			d.warnf("%s: parameter without a name skipped", where)
			continue
		}
		params = append(params, p)
	}
	return params, nil
}

func (d *decoder) requestBody(where string, n *yaml.Node) (*RequestBody, error) {
	n = d.deref(n, "requestBodies", where)
	if n == nil {
		return nil, nil
	}
	rb := &RequestBody{}
	for key, val := range pairs(n) {
		switch key {
		case "description":
			rb.Description = val.Value
		case "required":
			rb.Required = val.Value == "true"
		case "content":
			content, err := d.content(where+" requestBody", val)
			if err != nil {
				return nil, err
			}
			rb.Content = content
		}
	}
	return rb, nil
}

func (d *decoder) responses(where string, n *yaml.Node) (*orderedmap.Map[string, *Response], error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorAt(n, "%s: responses must be an object", where)
	}
	out := orderedmap.New[string, *Response](len(n.Content) / 2)
	for code, rn := range pairs(n) {
		if !httputil.ValidateStatusCode(code) {
			d.warnf("%s: invalid response status code %q", where, code)
		}
		rn = d.deref(rn, "responses", where)
		if rn == nil {
			continue
		}
		resp := &Response{}
		for key, val := range pairs(rn) {
			switch key {
			case "description":
				resp.Description = val.Value
			case "content":
				content, err := d.content(where+" response "+code, val)
				if err != nil {
					return nil, err
				}
				resp.Content = content
			}
		}
		out.Set(code, resp)
	}
	return out, nil
}

func (d *decoder) content(where string, n *yaml.Node) (*orderedmap.Map[string, *MediaType], error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorAt(n, "%s: content must be an object", where)
	}
	out := orderedmap.New[string, *MediaType](len(n.Content) / 2)
	for name, mn := range pairs(n) {
		mt := &MediaType{}
		for key, val := range pairs(mn) {
			if key != "schema" {
				continue
			}
			s, err := schema.FromNode(val)
			if err != nil {
				return nil, d.wrapSchemaErr(err, where+" "+name)
			}
			mt.Schema = s
		}
		out.Set(name, mt)
	}
	return out, nil
}

// wrapSchemaErr adds the source path and location context to schema errors.
func (d *decoder) wrapSchemaErr(err error, where string) error {
	var pe *o2terrors.ParseError
	if errors.As(err, &pe) {
		pe.Path = d.source
		pe.Message = where + ": " + pe.Message
		return pe
	}
	return fmt.Errorf("%s: %w", where, err)
}
