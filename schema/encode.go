package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"maps"
	"slices"

	"github.com/erraggy/o2t/internal/orderedmap"
)

// MarshalJSON encodes s with keywords in a fixed order and properties,
// extensions and extra keywords in source order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fingerprint returns a stable digest of the schema's JSON encoding.
// Equal fingerprints mean the schemas compile to the same declaration.
func (s *Schema) Fingerprint() string {
	data, err := s.MarshalJSON()
	if err != nil {
		// Only unencodable Extra values can fail; they are decoded from JSON or YAML.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type objectWriter struct {
	buf   *bytes.Buffer
	first bool
	err   error
}

func (w *objectWriter) key(k string) {
	if w.first {
		w.first = false
	} else {
		w.buf.WriteByte(',')
	}
	kb, _ := json.Marshal(k)
	w.buf.Write(kb)
	w.buf.WriteByte(':')
}

func (w *objectWriter) value(k string, v any) {
	if w.err != nil {
		return
	}
	w.key(k)
	w.err = writeValue(w.buf, v)
}

func (w *objectWriter) str(k, v string) {
	if v != "" {
		w.value(k, v)
	}
}

func (w *objectWriter) schema(k string, sub *Schema) {
	if w.err != nil || sub == nil {
		return
	}
	w.key(k)
	w.err = sub.writeJSON(w.buf)
}

func (w *objectWriter) list(k string, list []*Schema) {
	if w.err != nil || list == nil {
		return
	}
	w.key(k)
	w.buf.WriteByte('[')
	for i, sub := range list {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if w.err = sub.writeJSON(w.buf); w.err != nil {
			return
		}
	}
	w.buf.WriteByte(']')
}

func (w *objectWriter) ordered(m *orderedmap.Map[string, any]) {
	for k, v := range m.All() {
		w.value(k, v)
	}
}

func (s *Schema) writeJSON(buf *bytes.Buffer) error {
	if s == nil {
		buf.WriteString("{}")
		return nil
	}
	w := &objectWriter{buf: buf, first: true}
	buf.WriteByte('{')
	w.str("$ref", s.Ref)
	w.str("title", s.Title)
	w.str("description", s.Description)
	w.str("type", s.Type)
	if s.Nullable {
		w.value("nullable", true)
	}
	w.str("format", s.Format)
	if s.Properties != nil && w.err == nil {
		w.key("properties")
		buf.WriteByte('{')
		props := &objectWriter{buf: buf, first: true}
		for name, prop := range s.Properties.All() {
			props.schema(name, prop)
		}
		if props.err != nil {
			return props.err
		}
		buf.WriteByte('}')
	}
	if len(s.Required) > 0 {
		w.value("required", s.Required)
	}
	if ap := s.AdditionalProperties; ap != nil {
		if ap.Schema != nil {
			w.schema("additionalProperties", ap.Schema)
		} else {
			w.value("additionalProperties", ap.Allowed)
		}
	}
	w.schema("items", s.Items)
	w.list("items", s.TupleItems)
	if s.Enum != nil {
		w.value("enum", s.Enum)
	}
	if s.HasConst {
		w.value("const", s.Const)
	}
	if s.Default != nil {
		w.value("default", s.Default)
	}
	w.list("anyOf", s.AnyOf)
	w.list("oneOf", s.OneOf)
	w.list("allOf", s.AllOf)
	if s.Deprecated {
		w.value("deprecated", true)
	}
	w.ordered(s.Extensions)
	w.ordered(s.Extra)
	buf.WriteByte('}')
	return w.err
}

// writeValue encodes plain values. Maps decoded by Value have lost their
// source order, so their keys are sorted for a deterministic encoding.
func writeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(t)) {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeValue(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}
}
