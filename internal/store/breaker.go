package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type getResult struct {
	value string
	ok    bool
}

// Breaker stops calling a failing backend for a while so cart mutations
// don't each wait on a dead server.
type Breaker struct {
	next Storage
	get  *gobreaker.CircuitBreaker[getResult]
	set  *gobreaker.CircuitBreaker[struct{}]
}

// WithBreaker wraps s. Five consecutive failures open the circuit for
// 30 seconds. State changes are logged to log.
func WithBreaker(s Storage, name string, log *slog.Logger) *Breaker {
	return newBreaker(s, name, log, 5, 30*time.Second)
}

func newBreaker(s Storage, name string, log *slog.Logger, failures uint32, cooldown time.Duration) *Breaker {
	if log == nil {
		log = discardLogger()
	}
	settings := func(op string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name + ":" + op,
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("storage breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		}
	}
	return &Breaker{
		next: s,
		get:  gobreaker.NewCircuitBreaker[getResult](settings("get")),
		set:  gobreaker.NewCircuitBreaker[struct{}](settings("set")),
	}
}

func (b *Breaker) GetItem(ctx context.Context, key string) (string, bool, error) {
	r, err := b.get.Execute(func() (getResult, error) {
		v, ok, err := b.next.GetItem(ctx, key)
		return getResult{value: v, ok: ok}, err
	})
	if err != nil {
		return "", false, err
	}
	return r.value, r.ok, nil
}

func (b *Breaker) SetItem(ctx context.Context, key, value string) error {
	_, err := b.set.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.SetItem(ctx, key, value)
	})
	return err
}
