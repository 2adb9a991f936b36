package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/o2t/generator"
	"github.com/erraggy/o2t/internal/cliutil"
	"github.com/erraggy/o2t/internal/config"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/publish"
	"github.com/erraggy/o2t/snapshot"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	SourceFlags

	Output      string
	PackageName string
	Author      string
	Version     string
	Publish     bool
	NoSnapshot  bool
	EnvFile     string
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}
	flags.register(fs)
	registerPackageFlags(fs, &flags.Output, &flags.PackageName, &flags.Author, &flags.Version, &flags.EnvFile)
	fs.BoolVar(&flags.Publish, "publish", false, "run the publish script on the output directory")
	fs.BoolVar(&flags.NoSnapshot, "no-snapshot", false, "don't save the export snapshot used by update")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: o2t generate [flags] <file|->\n")
		cliutil.Writef(fs.Output(), "       o2t generate [flags] --url <url>\n\n")
		cliutil.Writef(fs.Output(), "Generate nested TypeScript namespace declarations from an Apifox OpenAPI export.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  o2t generate -n users export.json\n")
		cliutil.Writef(fs.Output(), "  o2t generate -n users -s released,testing -o ./types export.yaml\n")
		cliutil.Writef(fs.Output(), "  o2t generate -n users -u https://apifox.example.com/export/openapi --publish\n")
		cliutil.Writef(fs.Output(), "  cat export.json | o2t generate -n users -\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Stale regular files in the output directory are removed first\n")
		cliutil.Writef(fs.Output(), "  - The export is saved as a snapshot for later 'o2t update' runs\n")
		cliutil.Writef(fs.Output(), "  - Defaults come from O2T_* environment variables and an optional .env file\n")
	}

	return fs, flags
}

func registerPackageFlags(fs *flag.FlagSet, output, name, author, version, envFile *string) {
	fs.StringVar(output, "o", "", "output directory (default: O2T_OUTPUT_DIR or generated)")
	fs.StringVar(output, "output", "", "output directory (default: O2T_OUTPUT_DIR or generated)")
	fs.StringVar(name, "n", generator.DefaultPackageName, "package name, published as @types/<name>")
	fs.StringVar(name, "name", generator.DefaultPackageName, "package name, published as @types/<name>")
	fs.StringVar(author, "author", "", "package.json author (default: O2T_AUTHOR)")
	fs.StringVar(version, "version", "", "package version (default: 1.0.0-<unix ms>)")
	fs.StringVar(envFile, "env-file", "", "load settings from this .env file instead of ./.env")
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(flags.EnvFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, flags.Verbose)

	opts, src, err := flags.generatorOptions(fs, cfg, logger)
	if err != nil {
		fs.Usage()
		return err
	}
	opts = append(opts, packageOptions(cfg, flags.PackageName, flags.Author, flags.Version)...)

	ctx := context.Background()
	result, err := generator.GenerateWithOptions(append(opts, generator.WithContext(ctx))...)
	if err != nil {
		return fmt.Errorf("generating declarations: %w", err)
	}

	output := outputDir(cfg, flags.Output)
	printResult("Apifox Declaration Generator", src, result, output)
	if err := finish(ctx, cfg, logger, result, finishOptions{
		name:     flags.PackageName,
		output:   output,
		snapshot: !flags.NoSnapshot,
		publish:  flags.Publish,
	}); err != nil {
		return err
	}
	return printSummary(result)
}

func loadConfig(envFile string) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func packageOptions(cfg *config.Config, name, author, version string) []generator.Option {
	if author == "" {
		author = cfg.Author
	}
	opts := []generator.Option{
		generator.WithPackageName(name),
		generator.WithAuthor(author),
	}
	if version != "" {
		opts = append(opts, generator.WithVersion(version))
	}
	return opts
}

func outputDir(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.OutputDir
}

type finishOptions struct {
	name     string
	output   string
	snapshot bool
	// raw is the export to save; result.Raw when nil.
	raw      []byte
	publish  bool
}

// finish writes the generated files, saves the export snapshot and runs the
// publish script, in that order.
func finish(ctx context.Context, cfg *config.Config, logger parser.Logger, result *generator.GenerateResult, opts finishOptions) error {
	if err := result.WriteFiles(opts.output, snapshot.DefaultFileName); err != nil {
		return fmt.Errorf("writing files: %w", err)
	}

	if opts.snapshot {
		store, err := openStore(cfg, opts.name, opts.output)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		raw := opts.raw
		if raw == nil {
			raw = result.Raw
		}
		if err := store.Save(ctx, raw); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		logger.Info("saved snapshot", "backend", cfg.SnapshotBackend, "bytes", len(raw))
	}

	if opts.publish {
		p := &publish.Publisher{
			Script:      cfg.PublishScript,
			Credentials: cfg.Credentials(),
			Stdout:      Stdout,
			Logger:      logger,
		}
		if err := p.Publish(ctx, opts.output); err != nil {
			return fmt.Errorf("publishing %s: %w", result.Manifest.Tag(), err)
		}
		cliutil.Writef(Stdout, "Published %s\n", result.Manifest.Tag())
	}
	return nil
}
