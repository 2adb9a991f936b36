package tsdecl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompiler struct {
	calls int
	inner Compiler
}

func (c *countingCompiler) Compile(ctx context.Context, roots ...Root) (string, error) {
	c.calls++
	return c.inner.Compile(ctx, roots...)
}

func TestCachedCompiler(t *testing.T) {
	counter := &countingCompiler{inner: New(WithDefinitions(userDefs(t)))}
	c, err := NewCached(counter, 0)
	require.NoError(t, err)

	src := `{"type":"object","properties":{"id":{"type":"integer"}}}`
	first := compile(t, c, Root{Name: "Params", Schema: mustDecode(t, src)})
	second := compile(t, c, Root{Name: "Params", Schema: mustDecode(t, src)})
	assert.Equal(t, first, second)
	assert.Equal(t, 1, counter.calls)

	compile(t, c, Root{Name: "Other", Schema: mustDecode(t, src)})
	assert.Equal(t, 2, counter.calls)
	assert.Equal(t, CacheStats{Hits: 1, Misses: 2, Entries: 2}, c.Stats())

	c.Purge()
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCachedCompilerSkipsErrors(t *testing.T) {
	counter := &countingCompiler{inner: New()}
	c, err := NewCached(counter, 4)
	require.NoError(t, err)

	root := Root{Name: "Bad", Schema: mustDecode(t, `{"$ref":"#/components/schemas/Nope"}`)}
	for range 2 {
		_, err := c.Compile(context.Background(), root)
		require.Error(t, err)
	}
	assert.Equal(t, 2, counter.calls)
	assert.Equal(t, 0, c.Stats().Entries)
}
