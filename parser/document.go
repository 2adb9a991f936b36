package parser

import (
	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/internal/orderedmap"
	"github.com/erraggy/o2t/schema"
)

// Apifox extension keys read by the parser.
const (
	// KeyApifoxStatus holds the lifecycle status of an operation.
	KeyApifoxStatus = "x-apifox-status"
)

// Apifox operation statuses.
const (
	StatusDeveloping = "developing"
	StatusTesting    = "testing"
	StatusReleased   = "released"
	StatusDeprecated = "deprecated"
)

// AllStatuses lists every Apifox status in lifecycle order.
var AllStatuses = []string{StatusDeveloping, StatusTesting, StatusReleased, StatusDeprecated}

// Document is an Apifox OpenAPI export.
type Document struct {
	OpenAPI string
	Info    Info
	// Paths maps each route to its path item, in source order.
	Paths      *orderedmap.Map[string, *PathItem]
	Components Components
}

// Info is the document's info object.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Components holds the reusable definitions a document may reference.
// Only schemas survive decoding; parameter, request body and response
// references are inlined into their operations.
type Components struct {
	Schemas *orderedmap.Map[string, *schema.Schema]
}

// PathItem holds the operations of one route.
type PathItem struct {
	// Operations maps lowercase method names to operations, in source order.
	Operations *orderedmap.Map[string, *Operation]
}

// Operation returns the operation for a lowercase method, or nil.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil {
		return nil
	}
	op, _ := p.Operations.Get(method)
	return op
}

// Operation is a single route + method entry.
type Operation struct {
	Method      string
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Deprecated  bool
	// Status is the x-apifox-status value, empty when absent.
	Status string
	// Parameters is nil when the operation has no parameters key.
	Parameters  []*Parameter
	RequestBody *RequestBody
	// Responses maps status codes to responses, in source order.
	Responses  *orderedmap.Map[string, *Response]
	Extensions *orderedmap.Map[string, any]
}

// HasParameters reports whether the operation declares a parameters list,
// even an empty one.
func (o *Operation) HasParameters() bool {
	return o != nil && o.Parameters != nil
}

// QueryParameters returns the parameters located in the query string.
func (o *Operation) QueryParameters() []*Parameter {
	if o == nil {
		return nil
	}
	var out []*Parameter
	for _, p := range o.Parameters {
		if p.In == InQuery {
			out = append(out, p)
		}
	}
	return out
}

// RequestSchema returns the JSON request body schema, or nil.
func (o *Operation) RequestSchema() *schema.Schema {
	if o == nil || o.RequestBody == nil {
		return nil
	}
	return jsonSchema(o.RequestBody.Content)
}

// ResponseSchema returns the JSON schema of the response for status code, or nil.
func (o *Operation) ResponseSchema(code string) *schema.Schema {
	if o == nil {
		return nil
	}
	resp, ok := o.Responses.Get(code)
	if !ok || resp == nil {
		return nil
	}
	return jsonSchema(resp.Content)
}

// Parameter locations.
const (
	InQuery  = "query"
	InPath   = "path"
	InHeader = "header"
	InCookie = "cookie"
)

// Parameter is an operation parameter.
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Schema      *schema.Schema
}

// RequestBody is an operation request body.
type RequestBody struct {
	Description string
	Required    bool
	Content     *orderedmap.Map[string, *MediaType]
}

// Response is a single operation response.
type Response struct {
	Description string
	Content     *orderedmap.Map[string, *MediaType]
}

// MediaType is a content entry.
type MediaType struct {
	Schema *schema.Schema
}

// jsonSchema returns the application/json schema. Other media types,
// including +json variants and parameterized forms, are not consulted.
func jsonSchema(content *orderedmap.Map[string, *MediaType]) *schema.Schema {
	if mt, ok := content.Get(httputil.MediaTypeJSON); ok && mt != nil {
		return mt.Schema
	}
	return nil
}
