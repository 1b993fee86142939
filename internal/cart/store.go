// Package cart holds the shopping cart: an ordered list of line items
// mirrored into a single storage key after every change.
package cart

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/Makepad-fr/gomarketplace/internal/model"
)

// StorageKey is the slot the cart is persisted under.
const StorageKey = "@GoMarketplace:cart"

// Storage is the key-value slot the store reads and writes.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

type Option func(*Store)

// WithLogger sets where persistence failures are reported.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store owns the cart state. Mutations are functional updates applied
// under mu; observers and persistence for one update finish before the
// next update's start.
type Store struct {
	storage Storage
	log     *slog.Logger

	mu        sync.Mutex
	products  []model.Product
	loaded    bool
	observers map[int]func([]model.Product)
	nextObs   int

	flush sync.Mutex
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		products:  []model.Product{},
		observers: make(map[int]func([]model.Product)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the state with the persisted cart. A missing, unreadable
// or malformed value leaves the cart empty; nothing is returned.
func (s *Store) Load(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loaded = true
		s.mu.Unlock()
	}()

	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		s.log.Warn("cart load failed", "key", StorageKey, "err", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		s.log.Warn("cart parse failed", "key", StorageKey, "err", err)
		return
	}
	if products == nil {
		// a stored "null" is still an empty cart
		return
	}

	s.mu.Lock()
	s.products = products
	snap := s.snapshotLocked()
	obs := s.observersLocked()
	s.flush.Lock()
	s.mu.Unlock()
	defer s.flush.Unlock()

	for _, fn := range obs {
		fn(snap)
	}
}

// Loaded reports whether Load has run to completion.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Products returns a copy of the current cart.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Summary() model.Summary {
	return model.Summarize(s.Products())
}

// AddToCart puts item in the cart. An id already present has its quantity
// raised by one and keeps the stored title, image and price.
func (s *Store) AddToCart(ctx context.Context, item model.Product) {
	s.update(ctx, func(old []model.Product) []model.Product {
		return addState(old, item)
	})
}

// Increment raises the quantity of id by one. Unknown ids are ignored.
func (s *Store) Increment(ctx context.Context, id string) {
	s.update(ctx, func(old []model.Product) []model.Product {
		return incrementState(old, id)
	})
}

// Decrement lowers the quantity of id by one, but not below 1.
func (s *Store) Decrement(ctx context.Context, id string) {
	s.update(ctx, func(old []model.Product) []model.Product {
		return decrementState(old, id)
	})
}

// Subscribe registers fn to receive every new snapshot. fn runs on the
// mutating goroutine and must not call AddToCart, Increment or Decrement.
func (s *Store) Subscribe(fn func([]model.Product)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(ctx context.Context, fn func([]model.Product) []model.Product) {
	s.mu.Lock()
	s.products = fn(s.products)
	snap := s.snapshotLocked()
	obs := s.observersLocked()
	// take flush before releasing mu so updates flush in the order applied
	s.flush.Lock()
	s.mu.Unlock()
	defer s.flush.Unlock()

	for _, o := range obs {
		o(snap)
	}
	s.persist(ctx, snap)
}

// persist writes the whole list. Failures are logged and dropped.
func (s *Store) persist(ctx context.Context, products []model.Product) {
	b, err := json.Marshal(products)
	if err != nil {
		s.log.Warn("cart encode failed", "err", err)
		return
	}
	if err := s.storage.SetItem(ctx, StorageKey, string(b)); err != nil {
		s.log.Warn("cart persist failed", "key", StorageKey, "err", err)
		return
	}
	s.log.Debug("cart persisted", "key", StorageKey, "lines", len(products))
}

func (s *Store) snapshotLocked() []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) observersLocked() []func([]model.Product) {
	out := make([]func([]model.Product), 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
