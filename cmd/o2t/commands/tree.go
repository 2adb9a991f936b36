package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/o2t/internal/cliutil"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/trie"
)

// TreeFlags contains flags for the tree command
type TreeFlags struct {
	SourceFlags

	Format  string
	EnvFile string
}

// TreeNode is one node of the tree command's structured output.
type TreeNode struct {
	Name   string `json:"name"             yaml:"name"`
	Kind   string `json:"kind"             yaml:"kind"`
	Depth  int    `json:"depth"            yaml:"depth"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Route  string `json:"route,omitempty"  yaml:"route,omitempty"`
}

// SetupTreeFlags creates and configures a FlagSet for the tree command.
func SetupTreeFlags() (*flag.FlagSet, *TreeFlags) {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	flags := &TreeFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.EnvFile, "env-file", "", "load settings from this .env file instead of ./.env")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: o2t tree [flags] <file|->\n")
		cliutil.Writef(fs.Output(), "       o2t tree [flags] --url <url>\n\n")
		cliutil.Writef(fs.Output(), "Print the namespace tree an export produces, with each node's classification.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  o2t tree export.json\n")
		cliutil.Writef(fs.Output(), "  o2t tree -s released --format json export.json\n")
	}

	return fs, flags
}

// HandleTree executes the tree command
func HandleTree(args []string) error {
	fs, flags := SetupTreeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.EnvFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, flags.Verbose)

	src, err := flags.source(fs)
	if err != nil {
		fs.Usage()
		return err
	}
	statuses, err := flags.statuses(cfg)
	if err != nil {
		return err
	}

	parseOpts := []parser.Option{parser.WithTimeout(cfg.HTTPTimeout), parser.WithLogger(logger)}
	if src == StdinFilePath {
		parseOpts = append(parseOpts, parser.WithReader(os.Stdin))
	} else {
		parseOpts = append(parseOpts, parser.WithFilePath(src))
	}
	pr, err := parser.ParseWithOptions(parseOpts...)
	if err != nil {
		return fmt.Errorf("parsing export: %w", err)
	}

	seedOpts := []seed.Option{seed.WithStatuses(statuses...), seed.WithUnmarked(flags.Unmarked), seed.WithLogger(logger)}
	if len(flags.Methods) > 0 {
		seedOpts = append(seedOpts, seed.WithMethods(flags.Methods...))
	}
	seeds, err := seed.Extract(pr.Document, seedOpts...)
	if err != nil {
		return err
	}
	tr, err := trie.Build(seeds)
	if err != nil {
		return err
	}

	nodes := treeNodes(tr.Entries())
	if flags.Format != FormatText {
		return OutputStructured(nodes, flags.Format)
	}
	writeTree(nodes)
	st := tr.Stats()
	cliutil.Writef(Stdout, "\n%d operations, %d nodes (%d namespaces, %d parents, %d leaves)\n",
		tr.Seeds(), st.Nodes, st.Namespaces, st.Parents, st.Leaves)
	return nil
}

func treeNodes(entries []trie.Entry) []TreeNode {
	nodes := make([]TreeNode, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, TreeNode{
			Name:   e.Name,
			Kind:   e.Kind.String(),
			Depth:  e.Depth,
			Method: e.Method,
			Route:  e.Route,
		})
	}
	return nodes
}

// writeTree prints one indented line per node, e.g.
//
//	Get [NAMESPACE]
//	  Users [PARENT_NODE] get /users
func writeTree(nodes []TreeNode) {
	for _, n := range nodes {
		part := n.Name[strings.LastIndex(n.Name, ".")+1:]
		line := strings.Repeat("  ", n.Depth-1) + part + " [" + n.Kind + "]"
		if n.Route != "" {
			line += " " + n.Method + " " + n.Route
		}
		cliutil.Writef(Stdout, "%s\n", line)
	}
}
