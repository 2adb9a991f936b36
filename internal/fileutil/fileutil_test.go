package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearRegularFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"index.d.ts", "package.json", "raw_data.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), ReadableByAll))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), DirMode))

	removed, err := ClearRegularFiles(dir, "raw_data.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.d.ts", "package.json"}, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"nested", "raw_data.json"}, names)
}

func TestClearRegularFilesMissingDir(t *testing.T) {
	removed, err := ClearRegularFiles(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
