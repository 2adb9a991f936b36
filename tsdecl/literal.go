package tsdecl

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/erraggy/o2t/internal/naming"
)

// writeDoc writes a JSDoc block for a description, indented by pad.
// Nothing is written when there is neither a description nor a deprecation.
func writeDoc(b *strings.Builder, pad, description string, deprecated bool) {
	description = strings.TrimSpace(description)
	if description == "" && !deprecated {
		return
	}
	b.WriteString(pad + "/**\n")
	if description != "" {
		description = strings.ReplaceAll(description, "*/", "*\\/")
		for _, line := range strings.Split(description, "\n") {
			line = strings.TrimRight(line, " \t\r")
			if line == "" {
				b.WriteString(pad + " *\n")
				continue
			}
			b.WriteString(pad + " * " + line + "\n")
		}
	}
	if deprecated {
		b.WriteString(pad + " * @deprecated\n")
	}
	b.WriteString(pad + " */\n")
}

// literal renders an enum or const value as a TypeScript literal type.
// Values without a literal form render as unknown.
func literal(v any, unknown string) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return unknown
	}
}

// quote renders s as a double-quoted string literal. HTML characters are
// kept as-is.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// propertyKey returns name unquoted when it is a valid identifier.
func propertyKey(name string) string {
	if naming.IsIdentifier(name) {
		return name
	}
	return quote(name)
}
