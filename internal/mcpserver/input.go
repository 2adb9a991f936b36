package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erraggy/o2t/parser"
)

// specInput represents the three ways an export can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an Apifox OpenAPI export on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an Apifox OpenAPI export from"`
	Content string `json:"content,omitempty" jsonschema:"Inline export content (JSON or YAML)"`
}

// cacheEntry holds a cached parse result with its expiry.
type cacheEntry struct {
	result    *parser.ParseResult
	expiresAt time.Time
}

func (e *cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// specCacheStore is a session-scoped LRU of parsed exports.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type specCacheStore struct {
	entries        *lru.Cache[string, *cacheEntry]
	sweeperStarted atomic.Bool
}

var specCache = newSpecCache(cfg.CacheMaxSize)

func newSpecCache(size int) *specCacheStore {
	// size is at least 1, so New cannot fail.
	entries, _ := lru.New[string, *cacheEntry](max(size, 1))
	return &specCacheStore{entries: entries}
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *specCacheStore) get(key string) *parser.ParseResult {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if e.expired(time.Now()) {
		c.entries.Remove(key)
		return nil
	}
	return e.result
}

// putWithTTL stores a result, evicting the least recently used entry if at capacity.
func (c *specCacheStore) putWithTTL(key string, result *parser.ParseResult, ttl time.Duration) {
	c.entries.Add(key, &cacheEntry{result: result, expiresAt: time.Now().Add(ttl)})
}

// sweep removes all expired entries from the cache.
func (c *specCacheStore) sweep() {
	now := time.Now()
	for _, key := range c.entries.Keys() {
		if e, ok := c.entries.Peek(key); ok && e.expired(now) {
			c.entries.Remove(key)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.entries.Purge()
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	return c.entries.Len()
}

// makeCacheKey creates a cache key for the given export input.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	default:
		return ""
	}
}

// resolve parses the export from whichever input was provided, using the
// cache for file, URL, and content inputs.
func (s specInput) resolve(ctx context.Context) (*parser.ParseResult, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set O2T_MCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		switch {
		case s.File != "":
			ttl = cfg.CacheFileTTL
		case s.URL != "":
			ttl = cfg.CacheURLTTL
		default:
			ttl = cfg.CacheContentTTL
		}
	}

	if key != "" {
		if cached := specCache.get(key); cached != nil {
			return cached, nil
		}
	}

	opts := []parser.Option{
		parser.WithContext(ctx),
		parser.WithTimeout(cfg.HTTPTimeout),
	}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
		// Agents supply these URLs, so private addresses stay blocked unless allowed.
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient(cfg.HTTPTimeout)))
		}
	case s.Content != "":
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithSourceName("inline"))
	}

	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		specCache.putWithTTL(key, result, ttl)
	}
	return result, nil
}
