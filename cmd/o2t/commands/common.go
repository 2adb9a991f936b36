// Package commands provides CLI command handlers for o2t.
package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/o2t"
	"github.com/erraggy/o2t/generator"
	"github.com/erraggy/o2t/internal/cliutil"
	"github.com/erraggy/o2t/internal/config"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/snapshot"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Stdout receives command output. Tests replace it.
var Stdout io.Writer = os.Stdout

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to Stdout.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(Stdout, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// FormatSpecPath returns a display-friendly path for the export.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// listFlag is a repeatable or comma-separated string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// SourceFlags are the export selection flags shared by every command that
// reads an export.
type SourceFlags struct {
	URL      string
	Statuses listFlag
	Methods  listFlag
	Unmarked bool
	Verbose  bool
}

func (f *SourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.URL, "u", "", "URL to fetch the export from")
	fs.StringVar(&f.URL, "url", "", "URL to fetch the export from")
	fs.Var(&f.Statuses, "s", "enabled x-apifox-status values, comma-separated or repeated (default: all)")
	fs.Var(&f.Statuses, "statuses", "enabled x-apifox-status values, comma-separated or repeated (default: all)")
	fs.Var(&f.Methods, "m", "restrict to methods: get, post, put, delete")
	fs.Var(&f.Methods, "methods", "restrict to methods: get, post, put, delete")
	fs.BoolVar(&f.Unmarked, "unmarked", false, "include operations without an x-apifox-status")
	fs.BoolVar(&f.Verbose, "verbose", false, "log debug output to stderr")
}

// source returns the export location: the URL flag, or the single
// positional argument (a file path or "-" for stdin).
func (f *SourceFlags) source(fs *flag.FlagSet) (string, error) {
	switch {
	case f.URL != "" && fs.NArg() > 0:
		return "", errors.New("use either --url or a file argument, not both")
	case f.URL != "":
		return f.URL, nil
	case fs.NArg() == 1:
		return fs.Arg(0), nil
	default:
		return "", errors.New("exactly one file path, URL (--url), or '-' for stdin is required")
	}
}

// statuses returns the enabled statuses: the flag when given, the
// configuration otherwise.
func (f *SourceFlags) statuses(cfg *config.Config) ([]string, error) {
	if len(f.Statuses) == 0 {
		return cfg.Statuses, nil
	}
	statuses, invalid := config.ParseStatuses(strings.Join(f.Statuses, ","))
	if len(invalid) > 0 {
		return nil, fmt.Errorf("unknown status %q; valid statuses: %s", invalid[0], strings.Join(parser.AllStatuses, ", "))
	}
	return statuses, nil
}

// generatorOptions returns the options that select and read the export.
func (f *SourceFlags) generatorOptions(fs *flag.FlagSet, cfg *config.Config, logger parser.Logger) ([]generator.Option, string, error) {
	src, err := f.source(fs)
	if err != nil {
		return nil, "", err
	}
	statuses, err := f.statuses(cfg)
	if err != nil {
		return nil, "", err
	}

	opts := []generator.Option{
		generator.WithStatuses(statuses...),
		generator.WithUnmarked(f.Unmarked),
		generator.WithTimeout(cfg.HTTPTimeout),
		generator.WithCacheSize(cfg.CompileCacheSize),
		generator.WithLogger(logger),
	}
	if len(f.Methods) > 0 {
		opts = append(opts, generator.WithMethods(f.Methods...))
	}
	switch {
	case f.URL != "":
		opts = append(opts, generator.WithURL(src))
	case src == StdinFilePath:
		opts = append(opts, generator.WithReader(os.Stdin))
	default:
		opts = append(opts, generator.WithFilePath(src))
	}
	return opts, src, nil
}

// newLogger builds the stderr logger: debug with --verbose, the configured
// level otherwise.
func newLogger(cfg *config.Config, verbose bool) parser.Logger {
	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	return parser.NewSlogAdapter(cliutil.NewLogger(os.Stderr, level))
}

// openStore opens the snapshot store for a package whose files live in dir.
func openStore(cfg *config.Config, name, dir string) (snapshot.Store, error) {
	sc := cfg.Snapshot(name)
	sc.Dir = dir
	store, err := snapshot.Open(sc)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	return store, nil
}

// printResult writes the generation summary.
func printResult(title, src string, result *generator.GenerateResult, output string) {
	cliutil.Writef(Stdout, "%s\n%s\n\n", title, cliutil.Rule(title))
	cliutil.Writef(Stdout, "o2t version: %s\n", o2t.Version())
	cliutil.Writef(Stdout, "Export: %s\n", FormatSpecPath(src))
	cliutil.Writef(Stdout, "Source Size: %s\n", parser.FormatBytes(result.SourceSize))
	cliutil.Writef(Stdout, "Routes: %d\n", result.Stats.Document.PathCount)
	cliutil.Writef(Stdout, "Operations: %d\n", result.Stats.Document.OperationCount)
	cliutil.Writef(Stdout, "Rendered: %d\n", result.Stats.Seeds)
	cliutil.Writef(Stdout, "Namespaces: %d\n", result.Stats.Trie.Nodes)
	cliutil.Writef(Stdout, "Package: %s@%s\n", result.Manifest.Name, result.Manifest.Version)
	cliutil.Writef(Stdout, "Load Time: %v\n", result.LoadTime)
	cliutil.Writef(Stdout, "Generate Time: %v\n\n", result.GenerateTime)

	if len(result.Issues) > 0 {
		cliutil.Writef(Stdout, "Generation Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			cliutil.Writef(Stdout, "  %s\n", issue.String())
		}
		cliutil.Writef(Stdout, "\n")
	}

	cliutil.Writef(Stdout, "Generated Files (%d):\n", len(result.Files))
	for _, file := range result.Files {
		cliutil.Writef(Stdout, "  - %s/%s (%d bytes)\n", output, file.Name, len(file.Content))
	}
	cliutil.Writef(Stdout, "\n")
}

// printSummary writes the closing status line and returns an error when
// the pass recorded errors.
func printSummary(result *generator.GenerateResult) error {
	if result.Success {
		cliutil.Writef(Stdout, "✓ Generation successful")
		if result.InfoCount > 0 || result.WarningCount > 0 {
			cliutil.Writef(Stdout, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
		}
		cliutil.Writef(Stdout, "\n")
		return nil
	}
	cliutil.Writef(Stdout, "✗ Generation completed with %d error(s)\n", result.ErrorCount)
	return fmt.Errorf("generation completed with %d error(s)", result.ErrorCount)
}
