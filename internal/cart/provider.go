package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/Makepad-fr/gomarketplace/internal/model"
)

// ErrNoProvider is the panic value of Use outside a provider scope.
var ErrNoProvider = errors.New("useCart must be used within a CartProvider")

// Cart is what UI consumers get: the current lines, the mutators and a
// way to be told about new snapshots.
type Cart interface {
	Products() []model.Product
	Summary() model.Summary
	AddToCart(ctx context.Context, item model.Product)
	Increment(ctx context.Context, id string)
	Decrement(ctx context.Context, id string)
	Subscribe(fn func([]model.Product)) (cancel func())
}

var _ Cart = (*Store)(nil)

type ctxKey struct{}

// Provide loads s if needed and returns a context carrying it.
func Provide(ctx context.Context, s *Store) context.Context {
	if !s.Loaded() {
		s.Load(ctx)
	}
	return context.WithValue(ctx, ctxKey{}, s)
}

// Lookup returns the cart in scope, if any.
func Lookup(ctx context.Context) (Cart, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Use returns the cart in scope and panics with ErrNoProvider when there
// is none. Reaching it without a provider is a wiring bug.
func Use(ctx context.Context) Cart {
	c, ok := Lookup(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return c
}

// Middleware is the provider scope for HTTP handlers.
func Middleware(s *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(Provide(r.Context(), s)))
		})
	}
}
