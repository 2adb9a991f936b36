package schema

import (
	"slices"

	"github.com/erraggy/o2t/internal/orderedmap"
)

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Apifox bookkeeping keys that carry editor metadata and no type information.
const (
	KeyApifox                 = "x-apifox"
	KeyApifoxOrders           = "x-apifox-orders"
	KeyApifoxIgnoreProperties = "x-apifox-ignore-properties"
)

// VendorKeys lists the extension keys removed by Normalize.
var VendorKeys = []string{KeyApifox, KeyApifoxOrders, KeyApifoxIgnoreProperties}

// Properties is the ordered property map of an object schema.
type Properties = orderedmap.Map[string, *Schema]

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema](0)
}

// Additional is the additionalProperties keyword: either a boolean or a schema.
type Additional struct {
	// Allowed is the boolean form; it is true whenever Schema is set.
	Allowed bool
	// Schema constrains the extra property values, if given as a schema.
	Schema *Schema
}

// Closed returns additionalProperties: false.
func Closed() *Additional {
	return &Additional{Allowed: false}
}

// Schema is a JSON Schema fragment.
type Schema struct {
	Ref         string
	Title       string
	Description string
	// Type is the single declared type; a ["t", "null"] type list decodes to
	// Type "t" with Nullable set.
	Type     string
	Nullable bool
	Format   string

	Properties           *Properties
	Required             []string
	AdditionalProperties *Additional

	// Items is the single-schema form of items; TupleItems is the array form.
	Items      *Schema
	TupleItems []*Schema

	Enum     []any
	Const    any
	HasConst bool
	Default  any

	AnyOf []*Schema
	OneOf []*Schema
	AllOf []*Schema

	Deprecated bool

	// Extensions holds "x-" keys in source order.
	Extensions *orderedmap.Map[string, any]
	// Extra holds every other keyword (minimum, maxLength, example, ...) in source order.
	Extra *orderedmap.Map[string, any]
}

// HasProperties reports whether the schema declares a properties map,
// even an empty one.
func (s *Schema) HasProperties() bool {
	return s != nil && s.Properties != nil
}

// IsEmpty reports whether s is nil or the empty schema {}.
func (s *Schema) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Ref == "" && s.Title == "" && s.Description == "" && s.Type == "" &&
		!s.Nullable && s.Format == "" && s.Properties == nil && len(s.Required) == 0 &&
		s.AdditionalProperties == nil && s.Items == nil && s.TupleItems == nil &&
		len(s.Enum) == 0 && !s.HasConst && s.Default == nil &&
		len(s.AnyOf) == 0 && len(s.OneOf) == 0 && len(s.AllOf) == 0 &&
		!s.Deprecated && s.Extensions.Len() == 0 && s.Extra.Len() == 0
}

// IsRequired reports whether name is listed in the required array.
func (s *Schema) IsRequired(name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}

// Extension returns the value of an "x-" key.
func (s *Schema) Extension(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.Extensions.Get(key)
}

// SetExtension sets an "x-" key, creating the extension map if needed.
func (s *Schema) SetExtension(key string, value any) {
	if s.Extensions == nil {
		s.Extensions = orderedmap.New[string, any](1)
	}
	s.Extensions.Set(key, value)
}

// Clone returns a deep copy of s. Scalar values held in Enum, Const, Default,
// Extensions and Extra are shared; they are never modified in place.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Required = slices.Clone(s.Required)
	out.Enum = slices.Clone(s.Enum)
	out.Items = s.Items.Clone()
	out.TupleItems = cloneList(s.TupleItems)
	out.AnyOf = cloneList(s.AnyOf)
	out.OneOf = cloneList(s.OneOf)
	out.AllOf = cloneList(s.AllOf)
	if s.Properties != nil {
		out.Properties = orderedmap.New[string, *Schema](s.Properties.Len())
		for name, prop := range s.Properties.All() {
			out.Properties.Set(name, prop.Clone())
		}
	}
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = &Additional{
			Allowed: s.AdditionalProperties.Allowed,
			Schema:  s.AdditionalProperties.Schema.Clone(),
		}
	}
	out.Extensions = cloneAnyMap(s.Extensions)
	out.Extra = cloneAnyMap(s.Extra)
	return &out
}

// StripVendorExtensions removes VendorKeys from s and every nested schema.
func (s *Schema) StripVendorExtensions() {
	s.Walk(func(n *Schema) {
		if n.Extensions == nil {
			return
		}
		for _, key := range VendorKeys {
			n.Extensions.Delete(key)
		}
		if n.Extensions.Len() == 0 {
			n.Extensions = nil
		}
	})
}

// Walk calls fn for s and every nested schema, parents before children.
func (s *Schema) Walk(fn func(*Schema)) {
	if s == nil {
		return
	}
	fn(s)
	for _, prop := range s.Properties.All() {
		prop.Walk(fn)
	}
	s.Items.Walk(fn)
	if s.AdditionalProperties != nil {
		s.AdditionalProperties.Schema.Walk(fn)
	}
	for _, list := range [][]*Schema{s.TupleItems, s.AnyOf, s.OneOf, s.AllOf} {
		for _, sub := range list {
			sub.Walk(fn)
		}
	}
}

func cloneList(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

func cloneAnyMap(m *orderedmap.Map[string, any]) *orderedmap.Map[string, any] {
	if m == nil {
		return nil
	}
	out := orderedmap.New[string, any](m.Len())
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}
