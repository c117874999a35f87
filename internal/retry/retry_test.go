package retry

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(maxAttempts int) *Controller {
	return New(maxAttempts, time.Millisecond, slog.Default())
}

func TestController_Do_SuccessFirstAttempt(t *testing.T) {
	c := newTestController(3)

	calls := 0
	err := c.Do(context.Background(), "op", nil, func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestController_Do_SuccessAfterTransientFailure(t *testing.T) {
	c := newTestController(3)

	notifications := 0
	obs := func(attempt, maxAttempts int, err error) {
		notifications++
	}

	calls := 0
	err := c.Do(context.Background(), "op", obs, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return models.ErrConnectionFailed
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notifications, "one notification per failed attempt before the success")
}

func TestController_Do_ExhaustsAttemptBudget(t *testing.T) {
	c := newTestController(3)

	calls := 0
	err := c.Do(context.Background(), "search users", nil, func(ctx context.Context) error {
		calls++
		return models.ErrConnectionFailed
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, models.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "3/3")
}

func TestController_Do_NonRetryableBypassesRetry(t *testing.T) {
	c := newTestController(3)

	calls := 0
	err := c.Do(context.Background(), "insert user", nil, func(ctx context.Context) error {
		calls++
		return models.ErrDuplicateEmail
	})

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	assert.Equal(t, 1, calls, "business-rule errors must not be retried")
	assert.NotContains(t, err.Error(), "/")
}

func TestController_Do_ObserverSeesIntermediateFailuresOnly(t *testing.T) {
	c := newTestController(3)

	type notification struct {
		attempt, max int
	}
	var seen []notification

	obs := func(attempt, maxAttempts int, err error) {
		seen = append(seen, notification{attempt, maxAttempts})
		assert.ErrorIs(t, err, models.ErrQueryFailed)
	}

	err := c.Do(context.Background(), "op", obs, func(ctx context.Context) error {
		return models.ErrQueryFailed
	})

	require.Error(t, err)
	// The final failure is reported through the returned error, not the
	// observer, so three attempts produce exactly two notifications.
	require.Len(t, seen, 2)
	assert.Equal(t, notification{1, 3}, seen[0])
	assert.Equal(t, notification{2, 3}, seen[1])
}

func TestController_Do_WrappedRetryableError(t *testing.T) {
	c := newTestController(2)

	wrapped := fmt.Errorf("%w: dial tcp: connection refused", models.ErrConnectionFailed)

	calls := 0
	err := c.Do(context.Background(), "op", nil, func(ctx context.Context) error {
		calls++
		return wrapped
	})

	assert.ErrorIs(t, err, models.ErrConnectionFailed)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "2/2")
}

func TestController_Do_ContextCancelled(t *testing.T) {
	c := New(3, time.Hour, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- c.Do(ctx, "op", nil, func(ctx context.Context) error {
			calls++
			return models.ErrConnectionFailed
		})
	}()

	// Cancel while the controller sits in the inter-attempt delay.
	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-done
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNew_ClampsMaxAttempts(t *testing.T) {
	c := New(0, time.Millisecond, slog.Default())

	calls := 0
	_ = c.Do(context.Background(), "op", nil, func(ctx context.Context) error {
		calls++
		return models.ErrConnectionFailed
	})

	assert.Equal(t, 1, calls)
}
