package breaker

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("connection refused")
var errConstraint = errors.New("duplicate key")

func TestExecuteCtx_ReturnsValue(t *testing.T) {
	cb := New(Config{Name: "test-ok"})

	got, err := ExecuteCtx(context.Background(), cb, func() ([]string, error) {
		return []string{"FR"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"FR"}, got)
}

func TestExecuteCtx_CancelledContextSkipsCall(t *testing.T) {
	cb := New(Config{Name: "test-cancel"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := ExecuteCtx(ctx, cb, func() (int, error) {
		called = true
		return 1, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNew_TripsAfterFailures(t *testing.T) {
	cb := New(Config{Name: "test-trip", MinRequests: 3, Threshold: 0.5})

	for i := 0; i < 3; i++ {
		_, err := ExecuteCtx(context.Background(), cb, func() (int, error) {
			return 0, errBackend
		})
		assert.ErrorIs(t, err, errBackend)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := ExecuteCtx(context.Background(), cb, func() (int, error) {
		return 1, nil
	})
	assert.True(t, IsOpen(err))
}

func TestNew_IsSuccessfulKeepsBreakerClosed(t *testing.T) {
	cb := New(Config{
		Name:        "test-success",
		MinRequests: 2,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errConstraint)
		},
	})

	for i := 0; i < 5; i++ {
		_, err := ExecuteCtx(context.Background(), cb, func() (int, error) {
			return 0, errConstraint
		})
		assert.ErrorIs(t, err, errConstraint)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
