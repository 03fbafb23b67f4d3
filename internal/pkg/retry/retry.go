// Package retry reruns optimistic read-modify-write cycles that lost a
// version race.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig is used for zero fields of a Config.
var DefaultConfig = Config{
	MaxAttempts:  5,
	InitialDelay: 10 * time.Millisecond,
	MaxDelay:     200 * time.Millisecond,
	Multiplier:   2,
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultConfig.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultConfig.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultConfig.MaxDelay
	}
	if c.Multiplier <= 1 {
		c.Multiplier = DefaultConfig.Multiplier
	}
	return c
}

// OnVersionConflict calls fn until it succeeds, fails with an error other
// than errs.ErrVersionConflict, or MaxAttempts is reached. The last error is
// returned unchanged. onRetry, when set, is called before each new attempt.
func OnVersionConflict(ctx context.Context, cfg Config, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(cfg.InitialDelay),
		backoff.WithMaxInterval(cfg.MaxDelay),
		backoff.WithMultiplier(cfg.Multiplier),
		backoff.WithMaxElapsedTime(0),
	)
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, _ time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}

	return backoff.RetryNotify(operation, policy, notify)
}
