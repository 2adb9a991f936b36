package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/o2t/generator"
	"github.com/erraggy/o2t/snapshot"
)

type generateInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The Apifox export to generate declarations from"`
	Statuses    []string  `json:"statuses,omitempty"     jsonschema:"Enabled x-apifox-status values (default: developing, testing, released, deprecated)"`
	Methods     []string  `json:"methods,omitempty"      jsonschema:"Restrict to a subset of get, post, put, delete"`
	Unmarked    bool      `json:"unmarked,omitempty"     jsonschema:"Include operations without an x-apifox-status"`
	PackageName string    `json:"package_name,omitempty" jsonschema:"npm package name without the @types/ scope (default: api)"`
	Author      string    `json:"author,omitempty"       jsonschema:"Author written into package.json"`
	OutputDir   string    `json:"output_dir,omitempty"   jsonschema:"Directory to write index.d.ts and package.json to"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type issueInfo struct {
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

type generateOutput struct {
	Success        bool                `json:"success"`
	PackageName    string              `json:"package_name"`
	Version        string              `json:"version"`
	OutputDir      string              `json:"output_dir,omitempty"`
	Files          []generatedFileInfo `json:"files"`
	Declarations   string              `json:"declarations"`
	RouteCount     int                 `json:"route_count"`
	OperationCount int                 `json:"operation_count"`
	SeedCount      int                 `json:"seed_count"`
	NamespaceCount int                 `json:"namespace_count"`
	InfoCount      int                 `json:"info_count"`
	WarningCount   int                 `json:"warning_count"`
	ErrorCount     int                 `json:"error_count"`
	Issues         []issueInfo         `json:"issues,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	parseResult, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := []generator.Option{
		generator.WithParsed(parseResult),
		generator.WithContext(ctx),
		generator.WithUnmarked(input.Unmarked),
		generator.WithCacheSize(cfg.CompileCacheSize),
	}
	if len(input.Statuses) > 0 {
		opts = append(opts, generator.WithStatuses(input.Statuses...))
	}
	if len(input.Methods) > 0 {
		opts = append(opts, generator.WithMethods(input.Methods...))
	}
	if input.PackageName != "" {
		opts = append(opts, generator.WithPackageName(input.PackageName))
	}
	if input.Author != "" {
		opts = append(opts, generator.WithAuthor(input.Author))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:        result.Success,
		PackageName:    result.Manifest.Name,
		Version:        result.Manifest.Version,
		Declarations:   result.Declarations(),
		RouteCount:     result.Stats.Document.PathCount,
		OperationCount: result.Stats.Document.OperationCount,
		SeedCount:      result.Stats.Seeds,
		NamespaceCount: result.Stats.Trie.Nodes,
		InfoCount:      result.InfoCount,
		WarningCount:   result.WarningCount,
		ErrorCount:     result.ErrorCount,
	}

	if input.OutputDir != "" {
		dir, err := filepath.Abs(filepath.Clean(input.OutputDir))
		if err != nil {
			return errResult(fmt.Errorf("invalid output_dir: %w", err)), generateOutput{}, nil
		}
		if err := result.WriteFiles(dir, snapshot.DefaultFileName); err != nil {
			return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
		}
		output.OutputDir = dir
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{Name: f.Name, Size: len(f.Content)})
	}
	output.Issues = makeSlice[issueInfo](len(result.Issues))
	for _, iss := range result.Issues {
		output.Issues = append(output.Issues, issueInfo{
			Severity: iss.Severity.String(),
			Path:     iss.Path,
			Message:  iss.Message,
		})
	}

	return nil, output, nil
}
