package db

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"askchart/models"
)

// KV is the byte store documents are kept in. Keys are slash separated
// paths such as "alice/queries/<id>.json". Get and Delete return an error
// wrapping models.ErrNotFound for missing keys.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// BadgerKV keeps documents in a badger database.
type BadgerKV struct {
	badgerDB *badger.DB
}

// NewBadgerKV opens (or creates) a badger database at dbPath. An empty
// path opens an in-memory database.
func NewBadgerKV(dbPath string) (*BadgerKV, error) {
	opts := badger.DefaultOptions(dbPath)
	if dbPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &BadgerKV{badgerDB: badgerDB}, nil
}

func (d *BadgerKV) Close() error {
	return d.badgerDB.Close()
}

func (d *BadgerKV) Get(key string) ([]byte, error) {
	var value []byte
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, models.ErrNotFound)
	}
	return value, err
}

func (d *BadgerKV) Set(key string, value []byte) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (d *BadgerKV) Delete(key string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%s: %w", key, models.ErrNotFound)
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
}
