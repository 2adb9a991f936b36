package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agext/levenshtein"

	"github.com/erraggy/o2t"
	"github.com/erraggy/o2t/cmd/o2t/commands"
	"github.com/erraggy/o2t/internal/mcpserver"
)

// commandNames lists the commands offered as suggestions for typos.
var commandNames = []string{"generate", "update", "tree", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("o2t v%s\n", o2t.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "generate":
		err = commands.HandleGenerate(os.Args[2:])
	case "update":
		err = commands.HandleUpdate(os.Args[2:])
	case "tree":
		err = commands.HandleTree(os.Args[2:])
	case "mcp":
		err = runMCP()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// suggestCommand returns the closest command within edit distance 2, or ""
// when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein.Distance(input, name, nil); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func printUsage() {
	fmt.Println(`o2t - Apifox OpenAPI to TypeScript declarations

Usage:
  o2t <command> [options]

Commands:
  generate    Generate the declaration package from an export file or URL
  update      Regenerate only the routes listed in the change list
  tree        Show the namespace tree an export produces
  mcp         Serve the generate and tree tools over MCP (stdio)
  version     Show version information
  help        Show this help message

Examples:
  o2t generate -n users export.json
  o2t generate -n users -s released,testing --publish -u https://apifox.example.com/export/openapi
  o2t update -n users -c /users/{id} export.json
  o2t tree --format yaml export.json

Configuration is read from O2T_* environment variables and ./.env.
Run 'o2t <command> --help' for more information on a command.`)
}
