package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without contacting the backend while it is
// considered down.
var ErrCircuitOpen = gobreaker.ErrOpenState

// BreakerConfig controls when the AI backend is considered down.
type BreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the thresholds used by NewClient.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 5, OpenTimeout: 30 * time.Second}
}

type breakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps client so that repeated backend failures make
// further requests fail fast. Cancellations by the caller are not counted.
func WithCircuitBreaker(client Client, cfg BreakerConfig, log *slog.Logger) Client {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultBreakerConfig().OpenTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "ai",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &breakerClient{next: client, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerClient) Complete(ctx context.Context, req Request) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("AI backend unavailable: %w", err)
		}
		return "", err
	}
	return out.(string), nil
}
