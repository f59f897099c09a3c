package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "igfetch/pkg/errors"
	"igfetch/pkg/logger"
)

// Operation is a function that may need retrying.
type Operation func() error

// OperationWithResult is an Operation that also produces a value.
type OperationWithResult[T any] func() (T, error)

// Config holds retry behavior.
type Config struct {
	// MaxAttempts caps the total attempts; 0 means unlimited.
	MaxAttempts int
	// Backoff computes the delay before each retry.
	Backoff BackoffStrategy
	// BackoffFor, when set, picks the backoff for a specific failure;
	// a nil return falls back to Backoff.
	BackoffFor func(error) BackoffStrategy
	// RetryIf decides whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
	// Context cancels waiting between attempts.
	Context context.Context
	Logger  logger.Logger
}

// DefaultConfig retries up to 3 times with exponential backoff.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     DefaultExponentialBackoff(),
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.GetLogger(),
	}
}

// DefaultRetryIf retries classified errors only when their kind is
// retryable. Unclassified errors are assumed transient; context
// cancellation never retries.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var classified *errs.Error
	if errors.As(err, &classified) {
		return errs.IsRetryable(classified)
	}
	return true
}

// Do executes op, retrying per cfg until success, a non-retryable error,
// exhausted attempts, or context cancellation.
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if !cfg.RetryIf(err) {
			if cfg.Logger != nil {
				cfg.Logger.DebugWithFields("error is not retryable", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return err
		}

		// no retry left, so no point sleeping for one
		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
					"attempts":   attempt,
					"last_error": err.Error(),
				})
			}
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		backoff := cfg.Backoff
		if cfg.BackoffFor != nil {
			if b := cfg.BackoffFor(err); b != nil {
				backoff = b
			}
		}
		delay := backoff.NextDelay(attempt)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"attempt":      attempt,
				"error":        err.Error(),
				"delay_ms":     delay.Milliseconds(),
				"max_attempts": cfg.MaxAttempts,
			})
		}

		if err := Wait(cfg.Context, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult is Do for operations that return a value.
func DoWithResult[T any](op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, cfg)

	return result, err
}

// Retrier is a reusable retry configuration.
type Retrier struct {
	config *Config
}

func NewRetrier(cfg *Config) *Retrier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Retrier{config: cfg}
}

func (r *Retrier) Do(op Operation) error {
	return Do(op, r.config)
}

// WithMaxAttempts returns a copy with a new attempt cap.
func (r *Retrier) WithMaxAttempts(maxAttempts int) *Retrier {
	newConfig := *r.config
	newConfig.MaxAttempts = maxAttempts
	return &Retrier{config: &newConfig}
}

// WithBackoff returns a copy with a new backoff strategy.
func (r *Retrier) WithBackoff(backoff BackoffStrategy) *Retrier {
	newConfig := *r.config
	newConfig.Backoff = backoff
	return &Retrier{config: &newConfig}
}

// WithContext returns a copy bound to ctx.
func (r *Retrier) WithContext(ctx context.Context) *Retrier {
	newConfig := *r.config
	newConfig.Context = ctx
	return &Retrier{config: &newConfig}
}

// FetchRetrier retries provider requests, picking the backoff per error
// kind so rate limiting backs off much harder than a flaky connection.
type FetchRetrier struct {
	*Retrier
	kindBackoff *KindBackoff
}

func NewFetchRetrier(maxAttempts int, log logger.Logger) *FetchRetrier {
	kindBackoff := NewKindBackoff()

	cfg := &Config{
		MaxAttempts: maxAttempts,
		Backoff:     kindBackoff.DefaultBackoff,
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      log,
	}

	return &FetchRetrier{
		Retrier:     NewRetrier(cfg),
		kindBackoff: kindBackoff,
	}
}

// Do executes op, matching the backoff to each failure's kind before the
// delay is computed, so the first retry after a rate limit already waits
// the rate-limit base.
func (fr *FetchRetrier) Do(op Operation) error {
	cfg := *fr.config
	cfg.BackoffFor = func(err error) BackoffStrategy {
		switch errs.KindOf(err) {
		case errs.KindNetwork:
			return fr.kindBackoff.NetworkBackoff
		case errs.KindRateLimited:
			return fr.kindBackoff.RateLimitBackoff
		default:
			return fr.kindBackoff.DefaultBackoff
		}
	}
	return Do(op, &cfg)
}
