package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/o2t/o2terrors"
)

// DefaultFileName is the snapshot file name used by FileStore and S3Store.
const DefaultFileName = "raw_data.json"

// Backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendS3     = "s3"
)

// Backends lists the supported backend names.
var Backends = []string{BackendFile, BackendBadger, BackendS3}

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot: not found")

// Store loads and saves the raw export of the previous generation.
type Store interface {
	// Load returns the saved snapshot, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the saved snapshot.
	Save(ctx context.Context, data []byte) error
	// Close releases the store's resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of Backends. Default: file
	Backend string
	// Name identifies the package the snapshot belongs to
	Name string
	// Dir is the FileStore directory, normally the output directory
	Dir string
	// BadgerDir is the badger database directory, required by the badger
	// backend
	BadgerDir string
	// S3 configures the S3 backend
	S3 S3Config
}

// Open returns the store cfg selects.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.Dir), nil
	case BackendBadger:
		if strings.TrimSpace(cfg.BadgerDir) == "" {
			return nil, &o2terrors.ConfigError{
				Option:  "badger directory",
				Message: "the badger backend needs a database directory (O2T_BADGER_DIR)",
			}
		}
		return OpenBadger(cfg.BadgerDir, cfg.Name)
	case BackendS3:
		s3 := cfg.S3
		if s3.Prefix == "" {
			s3.Prefix = cfg.Name
		}
		return NewS3Store(s3)
	default:
		return nil, &o2terrors.ConfigError{
			Option:  "snapshot backend",
			Value:   cfg.Backend,
			Message: fmt.Sprintf("supported backends are %s", strings.Join(Backends, ", ")),
		}
	}
}

func storeErr(backend, op string, err error) error {
	return &o2terrors.StoreError{Backend: backend, Op: op, Cause: err}
}
