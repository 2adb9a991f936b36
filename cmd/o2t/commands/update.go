package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/o2t/generator"
	"github.com/erraggy/o2t/internal/cliutil"
	"github.com/erraggy/o2t/internal/config"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/snapshot"
	"github.com/erraggy/o2t/tsdecl"
)

// UpdateFlags contains flags for the update command
type UpdateFlags struct {
	SourceFlags

	Output      string
	PackageName string
	Author      string
	Version     string
	EnvFile     string
	ChangeList  string
	Changed     listFlag
	Publish     bool
}

// SetupUpdateFlags creates and configures a FlagSet for the update command.
func SetupUpdateFlags() (*flag.FlagSet, *UpdateFlags) {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	flags := &UpdateFlags{}
	flags.register(fs)
	registerPackageFlags(fs, &flags.Output, &flags.PackageName, &flags.Author, &flags.Version, &flags.EnvFile)
	fs.StringVar(&flags.ChangeList, "change-list", "", "file listing changed routes, one per line (default: O2T_CHANGE_LIST or .o2t)")
	fs.Var(&flags.Changed, "c", "changed route, comma-separated or repeated; overrides --change-list")
	fs.Var(&flags.Changed, "changed", "changed route, comma-separated or repeated; overrides --change-list")
	fs.BoolVar(&flags.Publish, "publish", false, "run the publish script on the output directory")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: o2t update [flags] <file|->\n")
		cliutil.Writef(fs.Output(), "       o2t update [flags] --url <url>\n\n")
		cliutil.Writef(fs.Output(), "Regenerate declarations for changed routes only. Operations of every other route\n")
		cliutil.Writef(fs.Output(), "are taken from the snapshot saved by the previous generate or update.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  o2t update -n users export.json                  # routes listed in .o2t\n")
		cliutil.Writef(fs.Output(), "  o2t update -n users -c /users,/users/{id} export.json\n")
		cliutil.Writef(fs.Output(), "\nChange list format:\n")
		cliutil.Writef(fs.Output(), "  One route per line. Blank lines and lines starting with # are ignored.\n")
	}

	return fs, flags
}

// HandleUpdate executes the update command
func HandleUpdate(args []string) error {
	fs, flags := SetupUpdateFlags()

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
	changed, err := flags.changedRoutes(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	output := outputDir(cfg, flags.Output)
	prev, err := flags.loadHistory(ctx, cfg, output)
	if err != nil {
		return err
	}
	logger.Info("loaded snapshot", "seeds", len(prev.seeds), "changed", len(changed))

	opts = append(opts, packageOptions(cfg, flags.PackageName, flags.Author, flags.Version)...)
	opts = append(opts,
		generator.WithHistory(prev.seeds, changed),
		generator.WithHistoryDefinitions(prev.definitions),
		generator.WithContext(ctx),
	)
	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("generating declarations: %w", err)
	}
	spliced, err := parser.SpliceExports(prev.raw, result.Raw, result.Merge.Updated)
	if err != nil {
		return fmt.Errorf("splicing snapshot: %w", err)
	}

	printResult("Apifox Declaration Update", src, result, output)
	if err := finish(ctx, cfg, logger, result, finishOptions{
		name:     flags.PackageName,
		output:   output,
		snapshot: true,
		raw:      spliced,
		publish:  flags.Publish,
	}); err != nil {
		return err
	}
	return printSummary(result)
}

// changedRoutes returns the --changed routes, or the change list file.
func (f *UpdateFlags) changedRoutes(cfg *config.Config) ([]string, error) {
	if len(f.Changed) > 0 {
		return snapshot.ParseChangeList(strings.NewReader(strings.Join(f.Changed, "\n")))
	}
	path := f.ChangeList
	if path == "" {
		path = cfg.ChangeList
	}
	routes, err := snapshot.ReadChangeList(path)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no changed routes listed in %s", path)
	}
	return routes, nil
}

// history is the state of the previous pass, loaded from the snapshot.
type history struct {
	seeds       []seed.Seed
	definitions *tsdecl.Definitions
	raw         []byte
}

// loadHistory extracts the seeds of the saved snapshot with the same
// selection as the new export.
func (f *UpdateFlags) loadHistory(ctx context.Context, cfg *config.Config, output string) (*history, error) {
	store, err := openStore(cfg, f.PackageName, output)
	if err != nil {
		return nil, err
	}
	raw, err := store.Load(ctx)
	_ = store.Close()
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, fmt.Errorf("no snapshot for package %q; run 'o2t generate' first", f.PackageName)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	pr, err := parser.ParseWithOptions(parser.WithBytes(raw), parser.WithSourceName("snapshot"))
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	statuses, err := f.statuses(cfg)
	if err != nil {
		return nil, err
	}
	opts := []seed.Option{seed.WithStatuses(statuses...), seed.WithUnmarked(f.Unmarked)}
	if len(f.Methods) > 0 {
		opts = append(opts, seed.WithMethods(f.Methods...))
	}
	seeds, err := seed.Extract(pr.Document, opts...)
	if err != nil {
		return nil, err
	}
	return &history{seeds: seeds, definitions: pr.Document.Components.Schemas, raw: raw}, nil
}
