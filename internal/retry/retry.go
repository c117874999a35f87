package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corsinf/usuarios-api/internal/models"
	sretry "github.com/sethvargo/go-retry"
)

// Controller executes store operations up to MaxAttempts times with a
// constant delay between attempts. Only connectivity and query-execution
// failures are retried; business-rule and validation errors pass straight
// through on first detection.
type Controller struct {
	maxAttempts int
	delay       time.Duration
	logger      *slog.Logger
}

// Observer is notified of each intermediate failure (attempt/max) before
// the next attempt starts.
type Observer func(attempt, maxAttempts int, err error)

func New(maxAttempts int, delay time.Duration, logger *slog.Logger) *Controller {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Controller{
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logger,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. The final failure after exhaustion carries the
// attempt count in its message.
func (c *Controller) Do(ctx context.Context, op string, obs Observer, fn func(ctx context.Context) error) error {
	attempt := 0

	backoff := sretry.WithMaxRetries(uint64(c.maxAttempts-1), sretry.NewConstant(c.delay))

	err := sretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !models.Retryable(err) {
			return err
		}

		c.logger.Warn("operation failed, will retry",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.maxAttempts),
			slog.Any("error", err),
		)
		if obs != nil && attempt < c.maxAttempts {
			obs(attempt, c.maxAttempts, err)
		}
		return sretry.RetryableError(err)
	})
	if err == nil {
		return nil
	}

	if models.Retryable(err) {
		return fmt.Errorf("%s failed (attempt %d/%d): %w", op, attempt, c.maxAttempts, err)
	}
	return err
}
