package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erraggy/o2t"
	"github.com/erraggy/o2t/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	ctx        context.Context
	userAgent  string
	httpClient *http.Client
	timeout    time.Duration
	maxSize    int64
	logger     Logger

	// sourceName overrides SourcePath in the result
	sourceName *string
}

// ParseWithOptions parses an export using functional options.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("export.json"),
//	    parser.WithLogger(logger),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := New()
	p.UserAgent = cfg.userAgent
	p.HTTPClient = cfg.httpClient
	p.Logger = cfg.logger
	if cfg.timeout > 0 {
		p.Timeout = cfg.timeout
	}
	if cfg.maxSize > 0 {
		p.MaxSize = cfg.maxSize
	}

	var result *ParseResult
	switch {
	case cfg.filePath != nil:
		result, err = p.ParseContext(cfg.ctx, *cfg.filePath)
	case cfg.reader != nil:
		result, err = p.ParseReader(cfg.reader)
	default:
		result, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}
	return result, nil
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		ctx:       context.Background(),
		userAgent: o2t.UserAgent(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("parser input",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithContext sets the context used when fetching a URL.
func WithContext(ctx context.Context) Option {
	return func(cfg *parseConfig) error {
		if ctx != nil {
			cfg.ctx = ctx
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent header for URL fetches
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for URL fetches
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithTimeout bounds URL fetches when no custom client is set
func WithTimeout(d time.Duration) Option {
	return func(cfg *parseConfig) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxSize limits the accepted document size in bytes
func WithMaxSize(n int64) Option {
	return func(cfg *parseConfig) error {
		if n < 0 {
			return fmt.Errorf("max size must not be negative, got %d", n)
		}
		cfg.maxSize = n
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithSourceName overrides SourcePath in the result
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}
