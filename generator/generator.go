package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/erraggy/o2t"
	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/internal/issues"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/publish"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/trie"
	"github.com/erraggy/o2t/tsdecl"
)

// DefaultPackageName is used when no package name is configured.
const DefaultPackageName = "api"

// Severity indicates the severity level of a generation issue
type Severity = issues.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = issues.SeverityInfo
	// SeverityWarning indicates input that was generated with a fallback
	SeverityWarning = issues.SeverityWarning
	// SeverityError indicates input that was left out of the generation
	SeverityError = issues.SeverityError
	// SeverityCritical indicates a failure that aborted the generation
	SeverityCritical = issues.SeverityCritical
)

// GenerateIssue represents a single generation issue
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "index.d.ts", "package.json")
	Name string
	// Content is the file content
	Content []byte
}

// Stats summarizes a generation pass.
type Stats struct {
	// Document counts the routes and operations of the source
	Document parser.DocumentStats
	// Seeds is the number of operations that were rendered
	Seeds int
	// Trie counts the rendered namespaces per kind
	Trie trie.Stats
}

// GenerateResult contains the results of generating declarations from an export
type GenerateResult struct {
	// Files contains index.d.ts followed by package.json
	Files []GeneratedFile
	// Manifest is the package manifest written to package.json
	Manifest publish.Manifest
	// Seeds are the operations that were rendered, in render order. They are
	// what a later incremental pass merges against.
	Seeds []seed.Seed
	// Merge is the outcome of the incremental merge, or nil for a full pass
	Merge *seed.MergeResult
	// SourcePath is the file path or URL the export was read from
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat parser.SourceFormat
	// Raw holds the exact source bytes, for snapshot stores
	Raw []byte
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// ErrorCount is the total number of errors
	ErrorCount int
	// Success is true if every changed route could be resolved
	Success bool
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to extract, merge and render
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the pass
	Stats Stats
	// Cache reports the compile cache counters when the built-in cached
	// compiler was used, and is nil otherwise
	Cache *tsdecl.CacheStats
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// HasErrors returns true if there are any errors
func (r *GenerateResult) HasErrors() bool {
	return r.ErrorCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Declarations returns the content of index.d.ts.
func (r *GenerateResult) Declarations() string {
	if f := r.GetFile(publish.MainFile); f != nil {
		return string(f.Content)
	}
	return ""
}

// Generator handles declaration generation from Apifox exports
type Generator struct {
	// PackageName is the unscoped npm package name
	// If empty, defaults to "api"
	PackageName string

	// Author is written into package.json
	Author string

	// Version overrides the timestamped 1.0.0-<ms> package version
	Version string

	// Statuses are the enabled x-apifox-status values
	// Default: all four Apifox statuses
	Statuses []string

	// Methods restricts generation to a subset of get, post, put and delete
	// Default: all four
	Methods []string

	// IncludeUnmarked admits operations without an x-apifox-status
	IncludeUnmarked bool

	// Compiler renders the operation schemas. If nil, a cached schema
	// compiler bound to the document's component schemas is created per pass.
	Compiler tsdecl.Compiler

	// CacheSize is the compile cache size of the built-in compiler
	// Default: tsdecl.DefaultCacheSize
	CacheSize int

	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string

	// HTTPClient is the client used when fetching URLs
	HTTPClient *http.Client

	// Timeout bounds URL downloads when HTTPClient is nil
	Timeout time.Duration

	// Logger is the structured logger. If nil, logging is disabled.
	Logger parser.Logger

	// Incremental enables merging with History; Changed lists the routes
	// whose operations are taken from the new export.
	Incremental bool
	History     []seed.Seed
	Changed     []string

	// HistoryDefinitions are the component schemas History was extracted
	// against. Kept operations may reference components the new export no
	// longer has, so the compiler sees these overlaid by the new export's.
	HistoryDefinitions *tsdecl.Definitions

	// now is the manifest clock; tests replace it.
	now func() time.Time
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		PackageName: DefaultPackageName,
		Statuses:    slices.Clone(parser.AllStatuses),
		Methods:     slices.Clone(seed.SupportedMethods),
		CacheSize:   tsdecl.DefaultCacheSize,
		UserAgent:   o2t.UserAgent(),
		Timeout:     httputil.DefaultTimeout,
	}
}

func (g *Generator) log() parser.Logger {
	return parser.OrNop(g.Logger)
}

func (g *Generator) newParser() *parser.Parser {
	p := parser.New()
	if g.UserAgent != "" {
		p.UserAgent = g.UserAgent
	}
	if g.Timeout > 0 {
		p.Timeout = g.Timeout
	}
	p.HTTPClient = g.HTTPClient
	p.Logger = g.Logger
	return p
}

// Generate generates declarations from an export file or URL
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	return g.GenerateContext(context.Background(), specPath)
}

// GenerateContext generates declarations from an export file or URL,
// fetching URLs with ctx.
func (g *Generator) GenerateContext(ctx context.Context, specPath string) (*GenerateResult, error) {
	pr, err := g.newParser().ParseContext(ctx, specPath)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return g.GenerateParsed(ctx, pr)
}

// GenerateReader generates declarations from an export read from r.
func (g *Generator) GenerateReader(ctx context.Context, r io.Reader) (*GenerateResult, error) {
	pr, err := g.newParser().ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return g.GenerateParsed(ctx, pr)
}

// GenerateParsed generates declarations from an already parsed export.
func (g *Generator) GenerateParsed(ctx context.Context, pr *parser.ParseResult) (*GenerateResult, error) {
	if pr == nil || pr.Document == nil {
		return nil, fmt.Errorf("generator: no document to generate from")
	}
	logger := g.log()
	start := time.Now()

	result := &GenerateResult{
		SourcePath:   pr.SourcePath,
		SourceFormat: pr.SourceFormat,
		Raw:          pr.Raw,
		LoadTime:     pr.LoadTime,
		SourceSize:   pr.SourceSize,
		Stats:        Stats{Document: pr.Stats},
	}
	for _, w := range pr.Warnings {
		result.addIssue(pr.SourcePath, w, SeverityWarning)
	}

	seeds, err := seed.Extract(pr.Document, g.extractOptions()...)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	if len(seeds) == 0 {
		result.addIssue(pr.SourcePath, "no operations matched the enabled statuses", SeverityWarning)
	}

	if g.Incremental {
		mr := seed.Merge(g.History, seeds, g.Changed, logger)
		result.Merge = &mr
		seeds = mr.Seeds
		for _, route := range mr.Stale {
			result.addIssue(route, "changed route is missing from the new export; previous declarations kept", SeverityWarning)
		}
		if mr.Err != nil {
			result.addIssue("", mr.Err.Error(), SeverityError)
		}
	}
	for _, s := range seeds {
		if s.Content.Response.IsEmpty() {
			result.addIssue(s.Path, "no 200 application/json response; Response omitted", SeverityInfo)
		}
	}

	tr, err := trie.Build(seeds)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	compiler := g.Compiler
	var cached *tsdecl.CachedCompiler
	if compiler == nil {
		cached, err = tsdecl.NewCached(tsdecl.New(tsdecl.WithDefinitions(g.definitions(pr.Document))), g.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("generator: compile cache: %w", err)
		}
		compiler = cached
	}

	text, err := Render(ctx, tr.Root(), compiler)
	if err != nil {
		return nil, err
	}

	manifest := g.manifest()
	data, err := manifest.Marshal()
	if err != nil {
		return nil, err
	}

	result.Files = []GeneratedFile{
		{Name: publish.MainFile, Content: []byte(text)},
		{Name: publish.ManifestFile, Content: data},
	}
	result.Manifest = manifest
	result.Seeds = seeds
	result.Stats.Seeds = len(seeds)
	result.Stats.Trie = tr.Stats()
	if cached != nil {
		st := cached.Stats()
		result.Cache = &st
	}
	result.Success = result.ErrorCount == 0
	result.GenerateTime = time.Since(start)

	logger.Info("generated declarations",
		"package", manifest.Name,
		"seeds", len(seeds),
		"namespaces", result.Stats.Trie.Nodes,
		"duration", result.GenerateTime,
	)
	return result, nil
}

// definitions returns the component schemas operations are compiled
// against: the export's own, plus those only History knows about when
// merging. The new export wins on name clashes.
func (g *Generator) definitions(doc *parser.Document) *tsdecl.Definitions {
	current := doc.Components.Schemas
	if !g.Incremental || g.HistoryDefinitions.Len() == 0 {
		return current
	}
	merged := tsdecl.NewDefinitions(g.HistoryDefinitions.Len() + current.Len())
	for name, s := range g.HistoryDefinitions.All() {
		merged.Set(name, s)
	}
	for name, s := range current.All() {
		merged.Set(name, s)
	}
	return merged
}

func (g *Generator) extractOptions() []seed.Option {
	opts := []seed.Option{
		seed.WithUnmarked(g.IncludeUnmarked),
		seed.WithLogger(g.Logger),
	}
	if len(g.Statuses) > 0 {
		opts = append(opts, seed.WithStatuses(g.Statuses...))
	}
	if len(g.Methods) > 0 {
		opts = append(opts, seed.WithMethods(g.Methods...))
	}
	return opts
}

func (g *Generator) manifest() publish.Manifest {
	name := g.PackageName
	if name == "" {
		name = DefaultPackageName
	}
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	m := publish.NewManifest(name, g.Author, now())
	if g.Version != "" {
		m.Version = g.Version
	}
	return m
}

func (r *GenerateResult) addIssue(path, message string, sev Severity) {
	r.Issues = append(r.Issues, GenerateIssue{Path: path, Message: message, Severity: sev})
	switch sev {
	case SeverityInfo:
		r.InfoCount++
	case SeverityWarning:
		r.WarningCount++
	case SeverityError, SeverityCritical:
		r.ErrorCount++
	}
}
