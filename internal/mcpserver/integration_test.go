package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := newServer()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	assert.ElementsMatch(t, []string{"generate", "tree"}, names)
}

func TestIntegration_CallTool_Generate(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "generate",
		Arguments: map[string]any{
			"spec":         map[string]any{"content": petsExport},
			"package_name": "pets",
			"statuses":     []string{"released"},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError, "generate should succeed on a valid export")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, true, structured["success"])
	assert.Equal(t, "@types/pets", structured["package_name"])
	assert.Equal(t, float64(2), structured["seed_count"])
	assert.Contains(t, structured["declarations"], "export namespace Get {")
}

func TestIntegration_CallTool_Tree(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "tree",
		Arguments: map[string]any{
			"spec": map[string]any{"content": petsExport},
			"kind": "PARENT_NODE",
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(1), structured["total"])
	nodes, ok := structured["nodes"].([]any)
	require.True(t, ok, "nodes should be an array")
	require.Len(t, nodes, 1)
	node, ok := nodes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Get.Pets", node["name"])
	assert.Equal(t, "/pets", node["route"])
}

func TestIntegration_CallTool_Error_MissingSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tree",
		Arguments: map[string]any{"spec": map[string]any{}},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	assert.True(t, result.IsError)

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.Contains(t, text.Text, "exactly one of file, url, or content")
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
