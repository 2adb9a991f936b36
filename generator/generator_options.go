package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/erraggy/o2t/internal/options"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/tsdecl"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	parsed   *parser.ParseResult

	ctx context.Context
	gen *Generator
}

// GenerateWithOptions generates declarations using functional options.
// This provides a flexible, extensible API that combines input source selection
// and configuration in a single function call.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithURL("https://apifox.example.com/export/openapi.json"),
//	    generator.WithPackageName("petstore"),
//	    generator.WithStatuses("released"),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	switch {
	case cfg.filePath != nil:
		return cfg.gen.GenerateContext(cfg.ctx, *cfg.filePath)
	case cfg.reader != nil:
		return cfg.gen.GenerateReader(cfg.ctx, cfg.reader)
	default:
		return cfg.gen.GenerateParsed(cfg.ctx, cfg.parsed)
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		ctx: context.Background(),
		gen: New(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("generator input",
		cfg.filePath != nil, cfg.reader != nil, cfg.parsed != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithURL specifies an http or https URL as the input source
func WithURL(url string) Option {
	return func(cfg *generateConfig) error {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return &o2terrors.ConfigError{Option: "url", Value: url, Message: "must start with http:// or https://"}
		}
		cfg.filePath = &url
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *generateConfig) error {
		if r == nil {
			return &o2terrors.ConfigError{Option: "reader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result *parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		if result == nil {
			return &o2terrors.ConfigError{Option: "parsed", Message: "parse result cannot be nil"}
		}
		cfg.parsed = result
		return nil
	}
}

// WithContext sets the context used for fetching and compiling.
// Default: context.Background()
func WithContext(ctx context.Context) Option {
	return func(cfg *generateConfig) error {
		if ctx == nil {
			return &o2terrors.ConfigError{Option: "context", Message: "context cannot be nil"}
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithStatuses sets the enabled x-apifox-status values.
// Default: developing, testing, released and deprecated
func WithStatuses(statuses ...string) Option {
	return func(cfg *generateConfig) error {
		if len(statuses) == 0 {
			return &o2terrors.ConfigError{Option: "statuses", Message: "at least one status is required"}
		}
		cfg.gen.Statuses = slices.Clone(statuses)
		return nil
	}
}

// WithMethods restricts generation to a subset of get, post, put and delete.
func WithMethods(methods ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Methods = slices.Clone(methods)
		return nil
	}
}

// WithUnmarked admits operations that carry no x-apifox-status.
// Default: false
func WithUnmarked(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.IncludeUnmarked = enabled
		return nil
	}
}

// WithPackageName specifies the npm package name, without the @types/ scope.
// Default: "api"
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if strings.TrimSpace(name) == "" {
			return &o2terrors.ConfigError{Option: "package name", Message: "package name cannot be empty"}
		}
		cfg.gen.PackageName = name
		return nil
	}
}

// WithVersion overrides the timestamped package version.
func WithVersion(version string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Version = version
		return nil
	}
}

// WithAuthor sets the package.json author.
func WithAuthor(author string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Author = author
		return nil
	}
}

// WithCompiler replaces the built-in cached schema compiler.
func WithCompiler(c tsdecl.Compiler) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Compiler = c
		return nil
	}
}

// WithCacheSize sets the size of the built-in compile cache.
// Default: tsdecl.DefaultCacheSize
func WithCacheSize(size int) Option {
	return func(cfg *generateConfig) error {
		if size < 0 {
			return &o2terrors.ConfigError{Option: "cache size", Value: size, Message: "must not be negative"}
		}
		cfg.gen.CacheSize = size
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Logger = l
		return nil
	}
}

// WithUserAgent sets the User-Agent used when fetching URLs.
func WithUserAgent(ua string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.UserAgent = ua
		return nil
	}
}

// WithHTTPClient sets the client used when fetching URLs.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.HTTPClient = client
		return nil
	}
}

// WithTimeout bounds URL downloads.
// Default: 30 seconds
func WithTimeout(d time.Duration) Option {
	return func(cfg *generateConfig) error {
		if d <= 0 {
			return &o2terrors.ConfigError{Option: "timeout", Value: d, Message: "must be positive"}
		}
		cfg.gen.Timeout = d
		return nil
	}
}

// WithHistoryDefinitions supplies the component schemas of the export the
// history seeds came from, so kept operations still resolve their $refs.
func WithHistoryDefinitions(defs *tsdecl.Definitions) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.HistoryDefinitions = defs
		return nil
	}
}

// WithHistory enables incremental generation: seeds of routes not listed in
// changed are taken from history, the rest from the new export.
func WithHistory(history []seed.Seed, changed []string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Incremental = true
		cfg.gen.History = history
		cfg.gen.Changed = slices.Clone(changed)
		return nil
	}
}
