package seed

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/internal/naming"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/schema"
)

// Titles of the three content declarations.
const (
	TitleParams   = "Params"
	TitleBody     = "Body"
	TitleResponse = "Response"
)

// SupportedMethods lists the methods that produce seeds, in extraction order.
var SupportedMethods = []string{
	httputil.MethodGet,
	httputil.MethodPost,
	httputil.MethodPut,
	httputil.MethodDelete,
}

// Option configures Extract.
type Option func(*extractConfig) error

type extractConfig struct {
	statuses []string
	methods  []string
	unmarked bool
	logger   parser.Logger
}

// WithStatuses sets the enabled x-apifox-status values.
// The default enables all four Apifox statuses.
func WithStatuses(statuses ...string) Option {
	return func(cfg *extractConfig) error {
		if len(statuses) == 0 {
			return &o2terrors.ConfigError{Option: "statuses", Message: "at least one status is required"}
		}
		cfg.statuses = slices.Clone(statuses)
		return nil
	}
}

// WithMethods restricts extraction to a subset of SupportedMethods.
func WithMethods(methods ...string) Option {
	return func(cfg *extractConfig) error {
		out := make([]string, 0, len(methods))
		for _, m := range methods {
			m = strings.ToLower(strings.TrimSpace(m))
			if !slices.Contains(SupportedMethods, m) {
				return &o2terrors.ConfigError{Option: "methods", Value: m, Message: "supported methods are get, post, put and delete"}
			}
			out = append(out, m)
		}
		cfg.methods = out
		return nil
	}
}

// WithUnmarked admits operations that carry no x-apifox-status at all,
// which makes plain OpenAPI documents usable.
func WithUnmarked(enabled bool) Option {
	return func(cfg *extractConfig) error {
		cfg.unmarked = enabled
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *extractConfig) error {
		cfg.logger = l
		return nil
	}
}

func (cfg *extractConfig) enabled(op *parser.Operation) bool {
	if op.Status == "" {
		return cfg.unmarked
	}
	return slices.Contains(cfg.statuses, op.Status)
}

// Extract builds one seed per enabled operation, iterating routes in document
// order and, within a route, GET, POST, PUT and DELETE in that order.
func Extract(doc *parser.Document, opts ...Option) ([]Seed, error) {
	cfg := &extractConfig{
		statuses: slices.Clone(parser.AllStatuses),
		methods:  SupportedMethods,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("seed: invalid options: %w", err)
		}
	}
	logger := parser.OrNop(cfg.logger)
	if doc == nil {
		return nil, nil
	}

	var seeds []Seed
	for route, item := range doc.Paths.All() {
		for _, method := range SupportedMethods {
			if !slices.Contains(cfg.methods, method) {
				continue
			}
			op := item.Operation(method)
			if op == nil {
				continue
			}
			if !cfg.enabled(op) {
				logger.Debug("skipping operation", "method", method, "route", route, "status", op.Status)
				continue
			}
			seeds = append(seeds, Seed{
				Path:         Path(method, route),
				OriginalPath: route,
				Content:      content(method, op),
			})
		}
	}
	logger.Debug("extracted seeds", "count", len(seeds))
	return seeds, nil
}

func content(method string, op *parser.Operation) Content {
	c := Content{Method: method}
	if op.HasParameters() {
		c.Params = params(op)
	}
	if method == httputil.MethodPost || method == httputil.MethodPut {
		if raw := op.RequestSchema(); raw != nil {
			c.Body = wrap(raw, TitleBody)
		}
	}
	if op.Responses != nil {
		c.Response = response(op)
	}
	return c
}

// params collects the query parameters into a closed Params object.
// Required parameters are listed in the object's required array.
func params(op *parser.Operation) *schema.Schema {
	out := &schema.Schema{
		Title:                TitleParams,
		Type:                 schema.TypeObject,
		AdditionalProperties: schema.Closed(),
		Properties:           schema.NewProperties(),
	}
	for _, p := range op.QueryParameters() {
		prop := schema.Normalize(p.Schema, TitleParams+naming.Capitalize(p.Name))
		if prop.Description == "" {
			prop.Description = p.Description
		}
		out.Properties.Set(p.Name, prop)
		if p.Required && !slices.Contains(out.Required, p.Name) {
			out.Required = append(out.Required, p.Name)
		}
	}
	return out
}

// response wraps the 200 JSON response; anything missing yields the empty schema.
func response(op *parser.Operation) *schema.Schema {
	raw := op.ResponseSchema(httputil.StatusOK)
	if raw == nil {
		return &schema.Schema{}
	}
	return wrap(raw, TitleResponse)
}

// wrap normalizes raw under its own title and presents it as a closed object
// named title. A normalized schema without properties (arrays, scalars,
// references) takes the wrapper's title, closure and required list itself.
func wrap(raw *schema.Schema, title string) *schema.Schema {
	norm := schema.Normalize(raw, raw.Title)
	required := slices.Clone(raw.Required)

	if !norm.HasProperties() || norm.Type == schema.TypeArray {
		norm.Title = title
		norm.AdditionalProperties = schema.Closed()
		norm.Required = required
		return norm
	}
	return &schema.Schema{
		Title:                title,
		Description:          norm.Description,
		Type:                 schema.TypeObject,
		AdditionalProperties: schema.Closed(),
		Required:             required,
		Properties:           norm.Properties,
	}
}

