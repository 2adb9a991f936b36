package tsdecl

import (
	"context"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled results a CachedCompiler keeps.
const DefaultCacheSize = 1024

// CachedCompiler memoizes another Compiler. Results are keyed by each
// root's declaration name and schema fingerprint, so structurally equal
// inputs share an entry regardless of pointer identity. Errors are not
// cached. The key does not cover the inner compiler's definitions, so a
// CachedCompiler should not outlive the document it was built for.
type CachedCompiler struct {
	inner  Compiler
	cache  *lru.Cache[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps inner with an LRU cache of size entries. A size of zero
// or less selects DefaultCacheSize.
func NewCached(inner Compiler, size int) (*CachedCompiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedCompiler{inner: inner, cache: cache}, nil
}

var _ Compiler = (*CachedCompiler)(nil)

// Compile implements Compiler.
func (c *CachedCompiler) Compile(ctx context.Context, roots ...Root) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := cacheKey(roots)
	if out, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return out, nil
	}
	c.misses.Add(1)
	out, err := c.inner.Compile(ctx, roots...)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Stats returns the current counters.
func (c *CachedCompiler) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.cache.Len(),
	}
}

// Purge drops every cached entry.
func (c *CachedCompiler) Purge() {
	c.cache.Purge()
}

func cacheKey(roots []Root) string {
	var b strings.Builder
	for _, r := range roots {
		name := r.name()
		if name == "" {
			continue
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(r.Schema.Fingerprint())
		b.WriteByte(';')
	}
	return b.String()
}
