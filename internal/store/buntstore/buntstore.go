// Package buntstore keeps the cart in an embedded buntdb file, the closest
// thing to a device's local key-value storage.
package buntstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"
)

const defaultPath = "gomarketplace.db"

type Store struct {
	db *buntdb.DB
}

// Open opens (or creates) the database at path. ":memory:" keeps it in RAM.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("buntdb open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	var (
		val string
		ok  bool
	)
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, ok = v, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("buntdb get: %w", err)
	}
	return val, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("buntdb set: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
