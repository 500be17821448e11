package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
)

var _ port.InsightsCache = (*BreakerCache)(nil)

// BreakerConfig controls when the breaker opens and how long it stays open.
type BreakerConfig struct {
	// Timeout bounds every cache call.
	Timeout time.Duration
	// OpenFor is how long the breaker rejects calls before probing again.
	OpenFor             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig trips after 5 consecutive failures and probes again
// after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Timeout:             500 * time.Millisecond,
		OpenFor:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerCache guards another InsightsCache with a circuit breaker, so an
// unhealthy Redis costs one fast error instead of a timeout per request.
// Misses are not failures.
type BreakerCache struct {
	inner   port.InsightsCache
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewBreakerCache(inner port.InsightsCache, cfg BreakerConfig, logger *slog.Logger) *BreakerCache {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultBreakerConfig().ConsecutiveFailures
	}
	threshold := cfg.ConsecutiveFailures

	settings := gobreaker.Settings{
		Name:        "insights-cache",
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerCache{
		inner:   inner,
		cb:      gobreaker.NewCircuitBreaker(settings),
		timeout: cfg.Timeout,
	}
}

func (c *BreakerCache) Get(ctx context.Context, fingerprint string) (model.InsightsReport, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var found bool
	res, err := c.cb.Execute(func() (interface{}, error) {
		report, ok, err := c.inner.Get(ctx, fingerprint)
		found = ok
		return report, err
	})
	if err != nil {
		return model.InsightsReport{}, false, err
	}
	return res.(model.InsightsReport), found, nil
}

func (c *BreakerCache) Set(ctx context.Context, fingerprint string, report model.InsightsReport) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.inner.Set(ctx, fingerprint, report)
	})
	return err
}

// State reports the breaker state, for logs and tests.
func (c *BreakerCache) State() gobreaker.State { return c.cb.State() }

func (c *BreakerCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
