package tsdecl

import (
	"context"
	"errors"
	"strings"

	"github.com/erraggy/o2t/internal/orderedmap"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/schema"
)

// Root is one top-level declaration request.
type Root struct {
	// Name is the declaration name; when empty, Schema.Title is used.
	Name   string
	Schema *schema.Schema
}

// name returns the declaration name, or "" when the root compiles to nothing.
func (r Root) name() string {
	if r.Schema.IsEmpty() {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Schema.Title
}

// Compiler turns schemas into declaration text.
type Compiler interface {
	// Compile renders each root in order, followed by its hoisted
	// declarations. Roots share one name scope, so a hoisted schema that
	// two roots both reach is declared once. Untitled and empty roots are
	// skipped; when every root is skipped the result is "".
	Compile(ctx context.Context, roots ...Root) (string, error)
}

// Definitions are the component schemas $ref pointers resolve against.
type Definitions = orderedmap.Map[string, *schema.Schema]

// NewDefinitions returns an empty Definitions with room for size schemas.
func NewDefinitions(size int) *Definitions {
	return orderedmap.New[string, *schema.Schema](size)
}

// Option configures a SchemaCompiler.
type Option func(*SchemaCompiler)

// WithDefinitions sets the component schemas used to resolve
// #/components/schemas/<name> references.
func WithDefinitions(defs *Definitions) Option {
	return func(c *SchemaCompiler) {
		c.defs = defs
	}
}

// WithIndent sets the indentation unit. Default: two spaces.
func WithIndent(indent string) Option {
	return func(c *SchemaCompiler) {
		c.indent = indent
	}
}

// WithUnknownType sets the type used for schemas without a usable type.
// Default: unknown.
func WithUnknownType(t string) Option {
	return func(c *SchemaCompiler) {
		if t != "" {
			c.unknown = t
		}
	}
}

// WithExport prefixes every declaration with the export keyword.
func WithExport(enabled bool) Option {
	return func(c *SchemaCompiler) {
		c.export = enabled
	}
}

// SchemaCompiler is the built-in Compiler. It holds no per-call state and
// is safe for concurrent use.
type SchemaCompiler struct {
	defs    *Definitions
	indent  string
	unknown string
	export  bool
}

// New returns a SchemaCompiler.
func New(opts ...Option) *SchemaCompiler {
	c := &SchemaCompiler{
		indent:  "  ",
		unknown: "unknown",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Compiler = (*SchemaCompiler)(nil)

// Compile implements Compiler.
func (c *SchemaCompiler) Compile(ctx context.Context, roots ...Root) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e := newEmitter(ctx, c)
	for _, r := range roots {
		name := r.name()
		if name == "" {
			continue
		}
		declName, fresh := e.reserve(name, r.Schema)
		if fresh {
			if err := e.declare(declName, r.Schema, ""); err != nil {
				return "", withTitle(err, name)
			}
		}
		for len(e.queue) > 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			next := e.queue[0]
			e.queue = e.queue[1:]
			if err := e.declare(next.name, next.schema, next.pointer); err != nil {
				return "", withTitle(err, name)
			}
		}
	}
	return strings.Join(e.decls, "\n"), nil
}

// CompileSchema compiles a single schema under name.
func CompileSchema(ctx context.Context, c Compiler, s *schema.Schema, name string) (string, error) {
	return c.Compile(ctx, Root{Name: name, Schema: s})
}

func withTitle(err error, title string) error {
	var ce *o2terrors.CompileError
	if errors.As(err, &ce) && ce.Title == "" {
		ce.Title = title
	}
	return err
}
