package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"summerschool.lol/lolcoin/internal/infrastructure/logger"
)

// ErrBackendUnavailable is returned without calling the backend while the breaker is open.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Breaker stops calling a backend after consecutive failures and probes it
// again once openTimeout has passed.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker creates a new Breaker. consecutiveFailures of zero trips on the first failure.
func NewBreaker(name string, consecutiveFailures uint32, openTimeout time.Duration, log logger.Logger) *Breaker {
	if consecutiveFailures == 0 {
		consecutiveFailures = 1
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if log == nil {
				return
			}
			log.LogWarning(context.Background(), "Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	}
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn unless the breaker is open. A nil Breaker just runs fn.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	if b == nil {
		return fn()
	}
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, b.name, err)
	}
	return result, err
}

// State returns closed, half-open or open.
func (b *Breaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}
