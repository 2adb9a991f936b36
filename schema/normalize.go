package schema

import "github.com/erraggy/o2t/internal/naming"

// Normalize returns a copy of s rewritten for declaration compilation under
// the given title. The input is never modified.
//
//   - An array whose items have no properties is returned as is.
//   - An array whose items have properties gets those properties normalized
//     and takes the title.
//   - A schema without properties takes the title.
//   - Otherwise the properties are normalized and the schema takes the title.
//
// Normalizing a properties map visits each entry: object properties are
// titled after the property name and closed with additionalProperties: false;
// array properties are titled after the property name, and their item
// properties are normalized when present; any other property is normalized
// recursively with the property name as its title.
//
// Titles are capitalized with [naming.Capitalize]. Vendor keys are stripped
// everywhere, including from schemas the cases above leave untouched.
func Normalize(s *Schema, title string) *Schema {
	if s == nil {
		return &Schema{Title: naming.Capitalize(title)}
	}
	out := s.Clone()
	out.StripVendorExtensions()
	normalize(out, title)
	return out
}

// normalize rewrites s in place; s must be owned by the caller.
func normalize(s *Schema, title string) {
	switch {
	case isListArray(s) && !s.Items.HasProperties():
		return
	case isListArray(s):
		normalizeProperties(s.Items.Properties)
	case s.HasProperties():
		normalizeProperties(s.Properties)
	}
	s.Title = naming.Capitalize(title)
}

func normalizeProperties(props *Properties) {
	for name, prop := range props.All() {
		if prop == nil {
			continue
		}
		switch prop.Type {
		case TypeObject:
			normalizeProperties(prop.Properties)
			prop.Title = naming.Capitalize(name)
			prop.AdditionalProperties = Closed()
		case TypeArray:
			if isListArray(prop) && prop.Items.HasProperties() {
				normalizeProperties(prop.Items.Properties)
				prop.AdditionalProperties = Closed()
			}
			prop.Title = naming.Capitalize(name)
		default:
			normalize(prop, name)
		}
	}
}

// isListArray reports whether s is an array with a single items schema.
// Tuple arrays and arrays without items do not qualify.
func isListArray(s *Schema) bool {
	return s.Type == TypeArray && s.Items != nil && s.TupleItems == nil
}
