package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/trie"
)

var treeGroupBy = []string{"kind", "depth", "method"}

type treeInput struct {
	Spec     specInput `json:"spec"               jsonschema:"The Apifox export to build the tree from"`
	Statuses []string  `json:"statuses,omitempty" jsonschema:"Enabled x-apifox-status values (default: all four)"`
	Methods  []string  `json:"methods,omitempty"  jsonschema:"Restrict to a subset of get, post, put, delete"`
	Unmarked bool      `json:"unmarked,omitempty" jsonschema:"Include operations without an x-apifox-status"`
	Kind     string    `json:"kind,omitempty"     jsonschema:"Only nodes of this kind: NAMESPACE, PARENT_NODE or CHILD_NODE"`
	Prefix   string    `json:"prefix,omitempty"   jsonschema:"Only nodes whose dotted name starts with this prefix, e.g. Get.Users"`
	GroupBy  string    `json:"group_by,omitempty" jsonschema:"Group results and return counts: kind, depth or method"`
	Offset   int       `json:"offset,omitempty"   jsonschema:"Skip the first N results"`
	Limit    int       `json:"limit,omitempty"    jsonschema:"Maximum results to return (default 200)"`
}

type treeNode struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Depth  int    `json:"depth"`
	Method string `json:"method,omitempty"`
	Route  string `json:"route,omitempty"`
}

type treeOutput struct {
	Total    int          `json:"total"`
	Returned int          `json:"returned"`
	Seeds    int          `json:"seeds"`
	Nodes    []treeNode   `json:"nodes,omitempty"`
	Groups   []groupCount `json:"groups,omitempty"`
}

func handleTree(ctx context.Context, _ *mcp.CallToolRequest, input treeInput) (*mcp.CallToolResult, treeOutput, error) {
	if err := validateGroupBy(input.GroupBy, treeGroupBy); err != nil {
		return errResult(err), treeOutput{}, nil
	}
	kind := strings.ToUpper(strings.TrimSpace(input.Kind))
	if kind != "" && !validKind(kind) {
		return errResult(fmt.Errorf("invalid kind %q; valid values: NAMESPACE, PARENT_NODE, CHILD_NODE", input.Kind)), treeOutput{}, nil
	}

	parseResult, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), treeOutput{}, nil
	}
	seeds, err := seed.Extract(parseResult.Document, input.extractOptions()...)
	if err != nil {
		return errResult(err), treeOutput{}, nil
	}
	tr, err := trie.Build(seeds)
	if err != nil {
		return errResult(err), treeOutput{}, nil
	}

	var matched []trie.Entry
	for _, e := range tr.Entries() {
		if kind != "" && e.Kind.String() != kind {
			continue
		}
		if input.Prefix != "" && !strings.HasPrefix(e.Name, input.Prefix) {
			continue
		}
		matched = append(matched, e)
	}

	output := treeOutput{Total: len(matched), Seeds: len(seeds)}
	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, groupKey(strings.ToLower(input.GroupBy)))
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	output.Nodes = makeSlice[treeNode](len(page))
	for _, e := range page {
		output.Nodes = append(output.Nodes, treeNode{
			Name:   e.Name,
			Kind:   e.Kind.String(),
			Depth:  e.Depth,
			Method: e.Method,
			Route:  e.Route,
		})
	}
	output.Returned = len(output.Nodes)
	return nil, output, nil
}

func (in treeInput) extractOptions() []seed.Option {
	opts := []seed.Option{seed.WithUnmarked(in.Unmarked)}
	if len(in.Statuses) > 0 {
		opts = append(opts, seed.WithStatuses(in.Statuses...))
	}
	if len(in.Methods) > 0 {
		opts = append(opts, seed.WithMethods(in.Methods...))
	}
	return opts
}

func validKind(kind string) bool {
	switch kind {
	case trie.KindNamespace.String(), trie.KindParent.String(), trie.KindLeaf.String():
		return true
	}
	return false
}

func groupKey(groupBy string) func(trie.Entry) []string {
	switch groupBy {
	case "depth":
		return func(e trie.Entry) []string { return []string{strconv.Itoa(e.Depth)} }
	case "method":
		return func(e trie.Entry) []string {
			if e.Method == "" {
				return nil
			}
			return []string{e.Method}
		}
	default:
		return func(e trie.Entry) []string { return []string{e.Kind.String()} }
	}
}
