package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/o2t/internal/orderedmap"
	"github.com/erraggy/o2t/o2terrors"
)

// FromJSON decodes a schema from JSON (or YAML) bytes, keeping property order.
func FromJSON(data []byte) (*Schema, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &o2terrors.ParseError{Message: "invalid schema document", Cause: err}
	}
	return FromNode(&root)
}

// FromNode decodes a schema from a YAML node. JSON is a subset of YAML, so
// nodes produced from JSON input work the same way.
func FromNode(n *yaml.Node) (*Schema, error) {
	n = resolve(n)
	if n == nil {
		return &Schema{}, nil
	}
	switch n.Kind {
	case yaml.MappingNode:
	case yaml.ScalarNode:
		// Boolean schemas: true accepts anything, false accepts nothing.
		if n.Tag == "!!bool" {
			return &Schema{}, nil
		}
		fallthrough
	default:
		return nil, nodeError(n, "schema must be an object")
	}

	s := &Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := resolve(n.Content[i+1])
		if err := s.decodeKeyword(key, val); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) decodeKeyword(key string, val *yaml.Node) error {
	var err error
	switch key {
	case "$ref":
		s.Ref = val.Value
	case "title":
		s.Title = val.Value
	case "description":
		s.Description = val.Value
	case "format":
		s.Format = val.Value
	case "type":
		err = s.decodeType(val)
	case "nullable":
		s.Nullable = val.Value == "true"
	case "deprecated":
		s.Deprecated = val.Value == "true"
	case "properties":
		s.Properties, err = decodeProperties(val)
	case "required":
		// Some exports emit "required": true on properties; only the list form counts.
		if val.Kind == yaml.SequenceNode {
			for _, item := range val.Content {
				s.Required = append(s.Required, resolve(item).Value)
			}
		}
	case "items":
		if val.Kind == yaml.SequenceNode {
			s.TupleItems, err = decodeList(val)
		} else {
			s.Items, err = FromNode(val)
		}
	case "additionalProperties":
		s.AdditionalProperties, err = decodeAdditional(val)
	case "enum":
		if val.Kind != yaml.SequenceNode {
			return nodeError(val, "enum must be an array")
		}
		s.Enum = make([]any, 0, len(val.Content))
		for _, item := range val.Content {
			s.Enum = append(s.Enum, Value(item))
		}
	case "const":
		s.Const, s.HasConst = Value(val), true
	case "default":
		s.Default = Value(val)
	case "anyOf":
		s.AnyOf, err = decodeList(val)
	case "oneOf":
		s.OneOf, err = decodeList(val)
	case "allOf":
		s.AllOf, err = decodeList(val)
	default:
		if strings.HasPrefix(key, "x-") {
			s.SetExtension(key, Value(val))
			return nil
		}
		if s.Extra == nil {
			s.Extra = orderedmap.New[string, any](1)
		}
		s.Extra.Set(key, Value(val))
	}
	return err
}

func (s *Schema) decodeType(val *yaml.Node) error {
	switch val.Kind {
	case yaml.ScalarNode:
		s.Type = val.Value
	case yaml.SequenceNode:
		for _, item := range val.Content {
			t := resolve(item).Value
			if t == TypeNull {
				s.Nullable = true
				continue
			}
			if s.Type == "" {
				s.Type = t
			}
		}
		if s.Type == "" && s.Nullable {
			s.Type, s.Nullable = TypeNull, false
		}
	default:
		return nodeError(val, "type must be a string or an array of strings")
	}
	return nil
}

func decodeProperties(n *yaml.Node) (*Properties, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "properties must be an object")
	}
	props := orderedmap.New[string, *Schema](len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		prop, err := FromNode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		props.Set(n.Content[i].Value, prop)
	}
	return props, nil
}

func decodeList(n *yaml.Node) ([]*Schema, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected an array of schemas")
	}
	out := make([]*Schema, 0, len(n.Content))
	for _, item := range n.Content {
		sub, err := FromNode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func decodeAdditional(n *yaml.Node) (*Additional, error) {
	if n.Kind == yaml.ScalarNode {
		return &Additional{Allowed: n.Value != "false"}, nil
	}
	sub, err := FromNode(n)
	if err != nil {
		return nil, err
	}
	return &Additional{Allowed: true, Schema: sub}, nil
}

// Value converts a node to a plain Go value: map[string]any, []any, string,
// bool, int64, float64 or nil.
func Value(n *yaml.Node) any {
	n = resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = Value(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			list = append(list, Value(item))
		}
		return list
	default:
		return scalarValue(n)
	}
}

func scalarValue(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}
	return n.Value
}

// resolve follows aliases and unwraps document nodes.
func resolve(n *yaml.Node) *yaml.Node {
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

func nodeError(n *yaml.Node, msg string) error {
	return &o2terrors.ParseError{
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf("%s (got %s)", msg, kindName(n.Kind)),
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node"
	}
}
