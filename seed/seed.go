package seed

import (
	"strings"

	"github.com/erraggy/o2t/internal/naming"
	"github.com/erraggy/o2t/schema"
)

// Seed is one operation ready for trie insertion.
type Seed struct {
	// Path is "/" + capitalized method + route, e.g. /Get/users/{id}.
	Path string
	// OriginalPath is the route as written in the document.
	OriginalPath string
	Content      Content
}

// Content holds the schemas of one operation. Each schema is normalized and
// titled (Params, Body, Response); nil or empty schemas compile to nothing.
type Content struct {
	// Method is the lowercase HTTP method.
	Method   string
	Params   *schema.Schema
	Body     *schema.Schema
	Response *schema.Schema
}

// Schemas returns the present content schemas in emission order.
func (c Content) Schemas() []*schema.Schema {
	out := make([]*schema.Schema, 0, 3)
	for _, s := range []*schema.Schema{c.Params, c.Body, c.Response} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Path builds the synthetic trie path for a method and route.
func Path(method, route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return "/" + naming.Capitalize(strings.ToLower(method)) + route
}
