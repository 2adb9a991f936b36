package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/o2t"
	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/o2terrors"
)

// DefaultMaxSize is the largest document the parser accepts (64 MiB).
const DefaultMaxSize int64 = 64 << 20

// Parser handles Apifox export parsing
type Parser struct {
	// UserAgent is the User-Agent string used when fetching URLs.
	// Defaults to o2t.UserAgent() if not set.
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a client with Timeout is created.
	HTTPClient *http.Client
	// Timeout bounds a URL download when HTTPClient is nil.
	// Default: 30 seconds
	Timeout time.Duration
	// MaxSize is the maximum document size in bytes. Default: DefaultMaxSize
	MaxSize int64
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: o2t.UserAgent(),
		Timeout:   httputil.DefaultTimeout,
		MaxSize:   DefaultMaxSize,
	}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

func (p *Parser) maxSize() int64 {
	if p.MaxSize > 0 {
		return p.MaxSize
	}
	return DefaultMaxSize
}

// ParseResult contains a parsed document and metadata about its source.
//
// Callers should treat ParseResult as read-only after parsing; seeds and
// compiled declarations share schema pointers with it.
type ParseResult struct {
	// SourcePath is the file path or URL the document was read from.
	// For readers and byte slices it is ParseReader.<ext> or ParseBytes.<ext>.
	SourcePath string
	// SourceFormat is the format of the source data (JSON or YAML)
	SourceFormat SourceFormat
	// Document is the decoded export
	Document *Document
	// Raw holds the exact bytes that were parsed. It is what the snapshot
	// store persists for incremental updates.
	Raw []byte
	// Warnings contains non-fatal issues such as unresolved references
	Warnings []string
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the document
	Stats DocumentStats
}

// Parse parses an export file or URL.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	return p.ParseContext(context.Background(), specPath)
}

// ParseContext parses an export file or URL. For URLs (http:// or https://)
// the content is fetched with ctx; local files are read from disk.
func (p *Parser) ParseContext(ctx context.Context, specPath string) (*ParseResult, error) {
	var (
		data   []byte
		format SourceFormat
		err    error
	)
	loadStart := time.Now()
	if isURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(ctx, specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = p.readFile(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromPath(specPath)
	}
	loadTime := time.Since(loadStart)

	res, err := p.parse(data, specPath)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses an export from an io.Reader.
// SourcePath is set to ParseReader.json or ParseReader.yaml.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, p.maxSize()+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > p.maxSize() {
		return nil, &o2terrors.ParseError{Path: "ParseReader", Message: fmt.Sprintf("input exceeds %s", FormatBytes(p.maxSize()))}
	}
	res, err := p.parse(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + res.SourceFormat.Ext()
	return res, nil
}

// ParseBytes parses an export from a byte slice.
// SourcePath is set to ParseBytes.json or ParseBytes.yaml.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + res.SourceFormat.Ext()
	return res, nil
}

func (p *Parser) parse(data []byte, source string) (*ParseResult, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &o2terrors.ParseError{Path: source, Message: "invalid JSON or YAML", Cause: err}
	}
	d := &decoder{source: source, logger: p.log()}
	doc, err := d.document(&root)
	if err != nil {
		return nil, err
	}
	res := &ParseResult{
		SourcePath:   source,
		SourceFormat: detectFormatFromContent(data),
		Document:     doc,
		Raw:          data,
		Warnings:     d.warnings,
		SourceSize:   int64(len(data)),
		Stats:        GetDocumentStats(doc),
	}
	p.log().Debug("parsed document",
		"source", source,
		"size", FormatBytes(res.SourceSize),
		"routes", res.Stats.PathCount,
		"operations", res.Stats.OperationCount,
		"warnings", len(res.Warnings))
	return res, nil
}

func (p *Parser) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	if info.Size() > p.maxSize() {
		return nil, &o2terrors.ParseError{Path: path, Message: fmt.Sprintf("file is %s, limit is %s", FormatBytes(info.Size()), FormatBytes(p.maxSize()))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	return data, nil
}

// fetchURL fetches content from a URL and returns the bytes and Content-Type header
func (p *Parser) fetchURL(ctx context.Context, urlStr string) ([]byte, string, error) {
	client := p.HTTPClient
	if client == nil {
		client = httputil.NewClient(p.Timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &o2terrors.FetchError{URL: urlStr, Cause: err}
	}
	userAgent := p.UserAgent
	if userAgent == "" {
		userAgent = o2t.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	p.log().Debug("fetching document", "url", urlStr)
	resp, err := client.Do(req) //nolint:gosec // URL is user-provided input
	if err != nil {
		return nil, "", &o2terrors.FetchError{URL: urlStr, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &o2terrors.FetchError{URL: urlStr, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxSize()+1))
	if err != nil {
		return nil, "", &o2terrors.FetchError{URL: urlStr, Cause: err}
	}
	if int64(len(data)) > p.maxSize() {
		return nil, "", &o2terrors.FetchError{URL: urlStr, Cause: fmt.Errorf("response exceeds %s", FormatBytes(p.maxSize()))}
	}
	return data, resp.Header.Get("Content-Type"), nil
}
