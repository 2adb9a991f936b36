// Package config loads o2t settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erraggy/o2t/internal/httputil"
	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/parser"
	"github.com/erraggy/o2t/publish"
	"github.com/erraggy/o2t/snapshot"
	"github.com/erraggy/o2t/tsdecl"
)

// Defaults for settings without an environment value.
const (
	DefaultOutputDir     = "generated"
	DefaultPublishScript = "publish.sh"
	DefaultS3Bucket      = "o2t-snapshots"
)

// Config holds every setting the CLI and MCP server read from the
// environment. Command-line flags override these values.
type Config struct {
	// Registry credentials passed to the publish script.
	Registry string
	Username string
	Password string
	Email    string

	// Author is written into package.json.
	Author string

	// Statuses are the enabled x-apifox-status values.
	Statuses []string

	// OutputDir receives index.d.ts, package.json and the file snapshot.
	OutputDir string

	// ChangeList is the changed route list read by update.
	ChangeList string

	// Snapshot backend selection.
	SnapshotBackend string
	BadgerDir       string
	S3              snapshot.S3Config

	// CompileCacheSize bounds the compile cache.
	CompileCacheSize int

	// HTTPTimeout bounds export downloads.
	HTTPTimeout time.Duration

	// PublishScript is run by generate --publish.
	PublishScript string

	// LogLevel is the minimum level logged to stderr.
	LogLevel slog.Level
}

// Load reads the given .env files, or .env in the working directory when
// none are given, and then builds the configuration from O2T_* variables.
// Variables already set in the environment win over .env entries. A missing
// default .env is not an error; a missing explicit file is.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, &o2terrors.ConfigError{Option: "env file", Value: strings.Join(files, ","), Cause: err}
		}
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from the current environment.
// Invalid values log a warning and fall back to the default.
func FromEnv() *Config {
	return &Config{
		Registry:         EnvString("O2T_REGISTRY", ""),
		Username:         EnvString("O2T_USERNAME", ""),
		Password:         EnvString("O2T_PASSWORD", ""),
		Email:            EnvString("O2T_EMAIL", ""),
		Author:           EnvString("O2T_AUTHOR", ""),
		Statuses:         envStatuses("O2T_STATUSES"),
		OutputDir:        EnvString("O2T_OUTPUT_DIR", DefaultOutputDir),
		ChangeList:       EnvString("O2T_CHANGE_LIST", snapshot.ChangeListFile),
		SnapshotBackend:  envChoice("O2T_SNAPSHOT_BACKEND", snapshot.BackendFile, snapshot.Backends),
		BadgerDir:        EnvString("O2T_BADGER_DIR", ""),
		CompileCacheSize: EnvInt("O2T_COMPILE_CACHE_SIZE", tsdecl.DefaultCacheSize),
		HTTPTimeout:      EnvDuration("O2T_HTTP_TIMEOUT", httputil.DefaultTimeout),
		PublishScript:    EnvString("O2T_PUBLISH_SCRIPT", DefaultPublishScript),
		LogLevel:         envLevel("O2T_LOG_LEVEL", slog.LevelInfo),
		S3: snapshot.S3Config{
			Endpoint:  EnvString("O2T_S3_ENDPOINT", ""),
			Region:    EnvString("O2T_S3_REGION", snapshot.DefaultS3Region),
			AccessKey: EnvString("O2T_S3_ACCESS_KEY", ""),
			SecretKey: EnvString("O2T_S3_SECRET_KEY", ""),
			Bucket:    EnvString("O2T_S3_BUCKET", DefaultS3Bucket),
			UseSSL:    EnvBool("O2T_S3_USE_SSL", true),
		},
	}
}

// Credentials returns the registry credentials for the publish script.
func (c *Config) Credentials() publish.Credentials {
	return publish.Credentials{
		Registry: c.Registry,
		Username: c.Username,
		Password: c.Password,
		Email:    c.Email,
	}
}

// Snapshot returns the snapshot store configuration for package name.
func (c *Config) Snapshot(name string) snapshot.Config {
	return snapshot.Config{
		Backend:   c.SnapshotBackend,
		Name:      name,
		Dir:       c.OutputDir,
		BadgerDir: c.BadgerDir,
		S3:        c.S3,
	}
}

// EnvString returns the trimmed value of key, or fallback when unset.
func EnvString(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// EnvBool parses key as a bool. Invalid values log a warning and return fallback.
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// EnvInt parses key as a positive int. Invalid values log a warning and
// return fallback.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// EnvDuration parses key as a positive duration. Invalid values log a
// warning and return fallback.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return level
}

func envChoice(key, fallback string, valid []string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	if !slices.Contains(valid, v) {
		slog.Warn("invalid env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

// envStatuses reads a comma-separated status list. Unknown statuses are
// dropped with a warning; an empty result selects every status.
func envStatuses(key string) []string {
	all := slices.Clone(parser.AllStatuses)
	v := os.Getenv(key)
	if v == "" {
		return all
	}
	statuses, invalid := ParseStatuses(v)
	for _, s := range invalid {
		slog.Warn("unknown status in env var, ignoring", "key", key, "status", s) //nolint:gosec // G706: values are structured log fields, not format strings
	}
	if len(statuses) == 0 {
		return all
	}
	return statuses
}

// ParseStatuses splits a comma-separated status list into known statuses,
// in order and without duplicates, and the unknown entries.
func ParseStatuses(list string) (statuses, invalid []string) {
	for _, s := range strings.Split(list, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		switch {
		case s == "":
		case !slices.Contains(parser.AllStatuses, s):
			invalid = append(invalid, s)
		case !slices.Contains(statuses, s):
			statuses = append(statuses, s)
		}
	}
	return statuses, invalid
}
