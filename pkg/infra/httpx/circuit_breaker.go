package httpx

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrOpen reports that the breaker rejected the call without running it.
// Callers map it to an unavailable failure so a dead remote fails fast
// instead of burning the per-call timeout.
var ErrOpen = errors.New("circuit open")

type CircuitBreaker interface {
	Execute(fn func() error) error
}

type classifierBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker builds a breaker sized for remote classifier calls: it
// trips after maxFailures consecutive failures and half-opens with a single
// probe request once timeout elapses.
func NewCircuitBreaker(logger *logrus.Logger, name string, timeout time.Duration, maxFailures uint32) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"classifier": name,
				"from":       from.String(),
				"to":         to.String(),
			}).Warn("classifier breaker state changed")
		},
	}
	return &classifierBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *classifierBreaker) Execute(fn func() error) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("breaker (%s): %w", b.breaker.Name(), ErrOpen)
	}
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", b.breaker.Name(), err)
	}
	return nil
}
