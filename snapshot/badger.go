package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// badgerKeyPrefix namespaces snapshot keys inside a shared database.
const badgerKeyPrefix = "o2t/snapshot/"

// BadgerStore keeps snapshots in a badger database, one key per package.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens the database in dir, or an in-memory database when dir is
// empty, and returns the store for package name.
func OpenBadger(dir, name string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storeErr(BackendBadger, "open", err)
	}
	return NewBadgerStore(db, name), nil
}

// NewBadgerStore returns a store over an open database. Closing the store
// closes db.
func NewBadgerStore(db *badger.DB, name string) *BadgerStore {
	return &BadgerStore{db: db, key: []byte(badgerKeyPrefix + name)}
}

var _ Store = (*BadgerStore)(nil)

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(BackendBadger, "load", err)
	}
	return data, nil
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, data)
	})
	if err != nil {
		return storeErr(BackendBadger, "save", err)
	}
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return storeErr(BackendBadger, "close", fmt.Errorf("close database: %w", err))
	}
	return nil
}
