// Package circuitbreaker wraps github.com/sony/gobreaker so that a failing
// upstream (scraping API, generation API) is cut off quickly instead of every
// request waiting for its own timeout.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned instead of gobreaker's state errors so callers do not
// need to import gobreaker.
var ErrOpen = errors.New("circuit breaker open")

// Config describes when a breaker trips and how it probes for recovery.
//
// The breaker trips once at least MinRequests calls were seen in the current
// Interval and the failure ratio reaches FailureThreshold. After Timeout it
// lets MaxRequests probe calls through (half-open).
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32

	// IsSuccessful reports errors that are not the upstream's fault, such as
	// a page with no content. nil counts every error as a failure.
	IsSuccessful func(err error) bool
}

// ScraperConfig is tuned for the scraping API: a bad page is common, a dead
// scraping provider is not, so the breaker needs a clear majority of failures.
func ScraperConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// GenerationConfig is tuned for hosted model APIs.
func GenerationConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// CircuitBreaker guards one upstream. Safe for concurrent use.
type CircuitBreaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:          cfg.Name,
			MaxRequests:   cfg.MaxRequests,
			Interval:      cfg.Interval,
			Timeout:       cfg.Timeout,
			IsSuccessful:  cfg.IsSuccessful,
			ReadyToTrip:   tripWhen(cfg.MinRequests, cfg.FailureThreshold),
			OnStateChange: logTransition,
		}),
		name: cfg.Name,
	}
}

func tripWhen(minRequests uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		if c.Requests == 0 || c.Requests < minRequests {
			return false
		}
		return float64(c.TotalFailures)/float64(c.Requests) >= ratio
	}
}

func logTransition(name string, from, to gobreaker.State) {
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

// Execute runs fn through the breaker. While the circuit is open, or the
// half-open probe budget is used up, it returns ErrOpen without calling fn.
func Execute[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		slog.Warn("circuit breaker rejected request",
			slog.String("circuit", b.name),
			slog.String("state", b.State()))
		var zero T
		return zero, ErrOpen
	case err != nil:
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// State returns "closed", "half-open" or "open".
func (b *CircuitBreaker) State() string {
	return b.cb.State().String()
}

// IsOpen reports whether calls are currently being rejected.
func (b *CircuitBreaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}
