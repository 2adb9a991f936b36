package mcpserver

import (
	"time"

	"github.com/erraggy/o2t/internal/config"
	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/tsdecl"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Export cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Tree tool defaults.
	TreeLimit int
	MaxLimit  int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool
	HTTPTimeout     time.Duration

	// CompileCacheSize bounds the per-call compile cache.
	CompileCacheSize int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from O2T_MCP_* and shared O2T_* environment
// variables. Invalid values log a warning and fall back to the default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       config.EnvBool("O2T_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       config.EnvInt("O2T_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       config.EnvDuration("O2T_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        config.EnvDuration("O2T_MCP_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    config.EnvDuration("O2T_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: config.EnvDuration("O2T_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		TreeLimit:          config.EnvInt("O2T_MCP_TREE_LIMIT", 200),
		MaxLimit:           config.EnvInt("O2T_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(config.EnvInt("O2T_MCP_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:    config.EnvBool("O2T_MCP_ALLOW_PRIVATE_IPS", false),
		HTTPTimeout:        config.EnvDuration("O2T_HTTP_TIMEOUT", httputil.DefaultTimeout),
		CompileCacheSize:   config.EnvInt("O2T_COMPILE_CACHE_SIZE", tsdecl.DefaultCacheSize),
	}
}
