package rpc

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/stretchr/testify/require"
)

type mockNetError struct {
	msg     string
	timeout bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return false }

func fastRetry(attempts int) *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    common.NewDuration(time.Millisecond),
		MaxBackoff:        common.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2,
	}
}

func TestRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil", err: nil, retryable: false},
		{name: "net error", err: &mockNetError{msg: "i/o timeout", timeout: true}, retryable: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, retryable: true},
		{name: "connection reset", err: syscall.ECONNRESET, retryable: true},
		{name: "broken pipe", err: syscall.EPIPE, retryable: true},
		{name: "deadline", err: context.DeadlineExceeded, retryable: true},
		{name: "rate limited", err: errors.New("429 Too Many Requests"), retryable: true},
		{name: "rate limit message", err: errors.New("Rate limit reached"), retryable: true},
		{name: "bad gateway", err: errors.New("502 Bad Gateway"), retryable: true},
		{name: "unavailable", err: errors.New("503 Service Unavailable"), retryable: true},
		{name: "wrapped", err: errors.New("eth_getLogs: request timeout"), retryable: true},
		{name: "execution reverted", err: errors.New("execution reverted"), retryable: false},
		{name: "invalid params", err: errors.New("invalid argument 0: hex string without 0x prefix"), retryable: false},
		{name: "cancelled", err: context.Canceled, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.retryable, retryableError(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	t.Parallel()

	cfg := &config.RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    common.NewDuration(100 * time.Millisecond),
		MaxBackoff:        common.NewDuration(time.Second),
		BackoffMultiplier: 2,
	}

	require.Zero(t, calculateBackoff(1, cfg))

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{attempt: 2, base: 100 * time.Millisecond},
		{attempt: 3, base: 200 * time.Millisecond},
		{attempt: 4, base: 400 * time.Millisecond},
		{attempt: 10, base: time.Second},
	}

	for _, tt := range tests {
		got := calculateBackoff(tt.attempt, cfg)
		require.GreaterOrEqual(t, got, tt.base*3/4, "attempt %d", tt.attempt)
		require.LessOrEqual(t, got, tt.base*5/4, "attempt %d", tt.attempt)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("nil config runs once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retryWithBackoff(context.Background(), nil, "eth_blockNumber", func() error {
			calls++
			return syscall.ECONNRESET
		})
		require.ErrorIs(t, err, syscall.ECONNRESET)
		require.Equal(t, 1, calls)
	})

	t.Run("single attempt config runs once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retryWithBackoff(context.Background(), fastRetry(1), "eth_blockNumber", func() error {
			calls++
			return syscall.ECONNRESET
		})
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retryWithBackoff(context.Background(), fastRetry(5), "eth_getLogs", func() error {
			calls++
			if calls < 3 {
				return errors.New("503 service unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("execution reverted")
		calls := 0
		err := retryWithBackoff(context.Background(), fastRetry(5), "eth_getLogs", func() error {
			calls++
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		require.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retryWithBackoff(context.Background(), fastRetry(3), "eth_getLogs", func() error {
			calls++
			return syscall.ECONNREFUSED
		})
		require.ErrorIs(t, err, syscall.ECONNREFUSED)
		require.ErrorContains(t, err, "all 3 attempts failed")
		require.Equal(t, 3, calls)
	})

	t.Run("cancelled context during backoff", func(t *testing.T) {
		t.Parallel()

		cfg := fastRetry(5)
		cfg.InitialBackoff = common.NewDuration(time.Hour)
		cfg.MaxBackoff = common.NewDuration(time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := retryWithBackoff(ctx, cfg, "eth_getLogs", func() error {
			calls++
			cancel()
			return syscall.ECONNRESET
		})
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, calls)
	})
}
