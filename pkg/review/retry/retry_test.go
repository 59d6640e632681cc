package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewmesh/revcore/pkg/review"
)

func cfg() Config {
	return Config{BackoffBase: time.Millisecond, BackoffMax: 5 * time.Millisecond}
}

func TestExecutor_ReturnsFirstSuccess(t *testing.T) {
	e := NewExecutor(2, cfg(), nil)
	calls := 0
	attempt := func(n int) (review.ReviewResult, error) {
		calls++
		return review.ReviewResult{Success: true}, nil
	}
	result := e.Execute(context.Background(), attempt, nil)
	assert.True(t, result.Success)
	assert.Equal(t, 1, calls)
}

func TestExecutor_RetriesOnFailureUntilExhausted(t *testing.T) {
	e := NewExecutor(2, cfg(), nil)
	calls := 0
	attempt := func(n int) (review.ReviewResult, error) {
		calls++
		return review.ReviewResult{Success: false, ErrorMessage: "nope"}, nil
	}
	result := e.Execute(context.Background(), attempt, nil)
	assert.False(t, result.Success)
	assert.Equal(t, 3, calls) // maxRetries(2) + 1
}

func TestExecutor_SucceedsAfterRetry(t *testing.T) {
	e := NewExecutor(2, cfg(), nil)
	calls := 0
	attempt := func(n int) (review.ReviewResult, error) {
		calls++
		if calls < 2 {
			return review.ReviewResult{Success: false}, nil
		}
		return review.ReviewResult{Success: true}, nil
	}
	result := e.Execute(context.Background(), attempt, nil)
	assert.True(t, result.Success)
	assert.Equal(t, 2, calls)
}

func TestExecutor_MapsThrownErrorsViaExceptionMapper(t *testing.T) {
	e := NewExecutor(0, cfg(), nil)
	attempt := func(n int) (review.ReviewResult, error) {
		return review.ReviewResult{}, errors.New("boom")
	}
	mapErr := func(err error, n int) review.ReviewResult {
		return review.ReviewResult{Success: false, ErrorMessage: err.Error()}
	}
	result := e.Execute(context.Background(), attempt, mapErr)
	require.False(t, result.Success)
	assert.Equal(t, "boom", result.ErrorMessage)
}

func TestExecutor_BackoffForDoublesUpToMax(t *testing.T) {
	e := NewExecutor(10, Config{BackoffBase: time.Second, BackoffMax: 8 * time.Second}, nil)
	assert.Equal(t, time.Second, e.backoffFor(1))
	assert.Equal(t, 2*time.Second, e.backoffFor(2))
	assert.Equal(t, 4*time.Second, e.backoffFor(3))
	assert.Equal(t, 8*time.Second, e.backoffFor(4))
	assert.Equal(t, 8*time.Second, e.backoffFor(5))
}

func TestExecutor_ContextCancellationStopsRetries(t *testing.T) {
	e := NewExecutor(5, Config{BackoffBase: time.Hour, BackoffMax: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	attempt := func(n int) (review.ReviewResult, error) {
		calls++
		if calls == 1 {
			cancel()
		}
		return review.ReviewResult{Success: false}, nil
	}
	result := e.Execute(ctx, attempt, nil)
	assert.False(t, result.Success)
	assert.Equal(t, 1, calls)
}
