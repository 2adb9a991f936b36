// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes o2t declaration generation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/o2t"
)

const serverInstructions = `o2t MCP server: turns Apifox OpenAPI exports into nested TypeScript namespace declarations.

Tools:
- generate: render index.d.ts (and package.json) for an export; optionally write them to output_dir
- tree: list the namespace tree with each node's classification (NAMESPACE, PARENT_NODE, CHILD_NODE)

Configuration: defaults are configurable via O2T_MCP_* environment variables set in your MCP client config.

Key settings:
- O2T_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for local file exports
- O2T_MCP_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched exports
- O2T_MCP_CACHE_ENABLED (default: true): disable export caching entirely
- O2T_MCP_TREE_LIMIT (default: 200): default result limit for tree
- O2T_MCP_ALLOW_PRIVATE_IPS (default: false): allow URL inputs on private networks
- O2T_COMPILE_CACHE_SIZE (default: 1024): compile cache entries per generate call

Caching: Parsed exports are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "o2t", Version: o2t.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate nested TypeScript namespace declarations from an Apifox OpenAPI export. Every operation becomes a namespace under its HTTP method (Get, Post, Put, Delete) and route segments, holding Params, Body and Response declarations. Filter operations by x-apifox-status with statuses and by method with methods. Returns the index.d.ts text, the package.json manifest and counts. Set output_dir to also write the files; stale regular files in that directory are removed first.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree",
		Description: "List the namespace tree an export produces, in emission order. Each node reports its dotted name, classification (NAMESPACE, PARENT_NODE, CHILD_NODE), depth and, for operation nodes, method and route. Filter with kind or prefix; use group_by (kind, depth or method) to get distribution counts instead of individual nodes. Use offset/limit to paginate.",
	}, handleTree)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.TreeLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.TreeLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is one of the allowed values.
func validateGroupBy(groupBy string, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}
