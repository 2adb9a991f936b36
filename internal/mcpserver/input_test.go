package mcpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersExportFile = "../../testdata/users-apifox.json"

func exportWithTitle(title string) string {
	return `{"openapi": "3.0.1", "info": {"title": "` + title + `", "version": "1.0"}, "paths": {}}`
}

// withConfig swaps a config field for the duration of a test.
func withConfig(t *testing.T, mutate func(c *serverConfig)) {
	t.Helper()
	saved := *cfg
	mutate(cfg)
	t.Cleanup(func() { *cfg = saved })
}

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	result, err := specInput{File: usersExportFile}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "User Service", result.Document.Info.Title)
	assert.Equal(t, 4, result.Stats.PathCount)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	result, err := specInput{Content: exportWithTitle("Inline")}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Inline", result.Document.Info.Title)
	assert.Equal(t, "inline", result.SourcePath)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	_, err := specInput{}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	_, err := specInput{File: "foo.json", Content: "bar"}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	_, err := specInput{File: "/nonexistent/export.json"}.resolve(context.Background())
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 16 })
	_, err := specInput{Content: exportWithTitle("Too Big")}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "O2T_MCP_MAX_INLINE_SIZE")
}

func TestSpecInput_URLBlockedByDefault(t *testing.T) {
	specCache.reset()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(exportWithTitle("Remote")))
	}))
	defer srv.Close()

	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = false })
	_, err := specInput{URL: srv.URL + "/export.json"}.resolve(context.Background())
	require.Error(t, err)

	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })
	result, err := specInput{URL: srv.URL + "/export.json"}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remote", result.Document.Info.Title)
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: usersExportFile}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(exportWithTitle("V1")), 0o600))

	input := specInput{File: path}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "V1", result1.Document.Info.Title)

	require.NoError(t, os.WriteFile(path, []byte(exportWithTitle("V2")), 0o600))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "V2", result2.Document.Info.Title)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: exportWithTitle("Hash Test")}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecCache_Disabled(t *testing.T) {
	specCache.reset()
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	input := specInput{Content: exportWithTitle("Uncached")}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, 0, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	cache := newSpecCache(2)
	cache.putWithTTL("a", nil, time.Minute)
	cache.putWithTTL("b", nil, time.Minute)
	_, _ = cache.entries.Get("a") // a becomes most recently used
	cache.putWithTTL("c", nil, time.Minute)

	assert.Equal(t, 2, cache.size())
	assert.ElementsMatch(t, []string{"a", "c"}, cache.entries.Keys())
}

func TestSpecCache_ExpiryAndSweep(t *testing.T) {
	cache := newSpecCache(4)
	cache.putWithTTL("old", nil, -time.Second)
	cache.putWithTTL("fresh", nil, time.Hour)

	assert.Nil(t, cache.get("old"))
	assert.Equal(t, 1, cache.size(), "expired entry is removed on read")

	cache.putWithTTL("stale", nil, -time.Second)
	cache.sweep()
	assert.Equal(t, []string{"fresh"}, cache.entries.Keys())
}

func TestSpecCache_Sweeper(t *testing.T) {
	cache := newSpecCache(4)
	cache.putWithTTL("stale", nil, -time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.startSweeper(ctx, 10*time.Millisecond)
	cache.startSweeper(ctx, 10*time.Millisecond) // second call is a no-op

	assert.Eventually(t, func() bool { return cache.size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMakeCacheKey(t *testing.T) {
	assert.Equal(t, "url:https://example.com/export.json", makeCacheKey(specInput{URL: "https://example.com/export.json"}))
	assert.True(t, strings.HasPrefix(makeCacheKey(specInput{Content: "x"}), "content:"))
	assert.True(t, strings.HasPrefix(makeCacheKey(specInput{File: usersExportFile}), "file:"))
	assert.Empty(t, makeCacheKey(specInput{File: "/nonexistent/export.json"}))
	assert.Empty(t, makeCacheKey(specInput{}))
}
