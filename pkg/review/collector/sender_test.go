package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewmesh/revcore/pkg/review"
)

// fakeSession is a minimal review.Session stub: Send synchronously invokes
// whatever behavior the test configures, driving the registered handlers
// directly rather than through a real transport.
type fakeSession struct {
	messageHandlers []review.EventHandler
	idleHandlers    []review.EventHandler
	errHandlers     []review.EventHandler
	allHandlers     []review.EventHandler

	onSend func(ctx context.Context, prompt string) error
}

func (s *fakeSession) AllEvents() review.Sub {
	return func(h review.EventHandler) (review.Closer, error) {
		s.allHandlers = append(s.allHandlers, h)
		return noopCloser{}, nil
	}
}
func (s *fakeSession) Messages() review.Sub {
	return func(h review.EventHandler) (review.Closer, error) {
		s.messageHandlers = append(s.messageHandlers, h)
		return noopCloser{}, nil
	}
}
func (s *fakeSession) Idle() review.Sub {
	return func(h review.EventHandler) (review.Closer, error) {
		s.idleHandlers = append(s.idleHandlers, h)
		return noopCloser{}, nil
	}
}
func (s *fakeSession) Errors() review.Sub {
	return func(h review.EventHandler) (review.Closer, error) {
		s.errHandlers = append(s.errHandlers, h)
		return noopCloser{}, nil
	}
}
func (s *fakeSession) Send(ctx context.Context, prompt string) error {
	return s.onSend(ctx, prompt)
}
func (s *fakeSession) Close() error { return nil }

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

func TestMessageSender_Send_SuccessfulSingleMessageThenIdle(t *testing.T) {
	sess := &fakeSession{}
	sess.onSend = func(ctx context.Context, prompt string) error {
		for _, h := range sess.messageHandlers {
			h(review.EventData{Content: "# Findings\n\n### 1. A\n"})
		}
		for _, h := range sess.idleHandlers {
			h(review.EventData{})
		}
		return nil
	}

	sender := NewMessageSender(NewIdleTimeoutScheduler(5*time.Millisecond), review.DefaultTuningParams, review.SystemClock{}, nil)
	content, err := sender.Send(context.Background(), "sec", sess, "review this", time.Minute, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "# Findings\n\n### 1. A\n", content)
}

func TestMessageSender_Send_PropagatesSessionEventError(t *testing.T) {
	sess := &fakeSession{}
	sess.onSend = func(ctx context.Context, prompt string) error {
		for _, h := range sess.errHandlers {
			h(review.EventData{ErrorMessage: "boom"})
		}
		return nil
	}

	sender := NewMessageSender(NewIdleTimeoutScheduler(5*time.Millisecond), review.DefaultTuningParams, review.SystemClock{}, nil)
	_, err := sender.Send(context.Background(), "sec", sess, "review this", time.Minute, time.Minute)
	require.Error(t, err)
	var sessErr *review.SessionEventError
	assert.ErrorAs(t, err, &sessErr)
}

func TestMessageSender_Send_HardTimeoutReturnsPartialBuffer(t *testing.T) {
	sess := &fakeSession{}
	sess.onSend = func(ctx context.Context, prompt string) error {
		for _, h := range sess.messageHandlers {
			h(review.EventData{Content: "partial"})
		}
		// No idle event: the session stalls, forcing the hard timeout path.
		return nil
	}

	sender := NewMessageSender(NewIdleTimeoutScheduler(5*time.Millisecond), review.DefaultTuningParams, review.SystemClock{}, nil)
	content, err := sender.Send(context.Background(), "sec", sess, "review this", time.Hour, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "partial", content)
}
