package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSON-backed key-value storage. Single file, human-readable, portable.
// The mutex only covers this process; one app session owns the file.

const dataFileName = "gomarketplace.json"

var errCorrupt = errors.New("corrupt data file")

type Store struct {
	mu   sync.Mutex
	path string
}

// New stores into path, or ./gomarketplace.json when path is empty.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) dataPath() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, dataFileName), nil
}

func (s *Store) load() (map[string]string, error) {
	p, err := s.dataPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	items := map[string]string{}
	if len(b) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %w", errCorrupt, err)
	}
	return items, nil
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.dataPath()
	if err != nil {
		return err
	}
	items, err := s.load()
	if errors.Is(err, errCorrupt) {
		// set the unreadable file aside and start over so saves keep working
		if err := os.Rename(p, p+".bak"); err != nil {
			return fmt.Errorf("move corrupt file aside: %w", err)
		}
		items = map[string]string{}
	} else if err != nil {
		return err
	}
	items[key] = value

	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	// write next to the target and rename so a crash never leaves half a file
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
