// Package collector implements the session driver: event-driven content
// collection for one LLM session, plus the idle-timeout scheduler and
// transport-agnostic event-binding surface that feed it.
package collector

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
)

// futureState tags the terminal state of a ContentCollector's single-shot
// result future.
type futureState int32

const (
	futurePending futureState = iota
	futureDone
)

// ContentCollector assembles one session's textual output from an
// asynchronous event stream and yields it via a single-shot future.
// One ContentCollector is owned by exactly one session.
type ContentCollector struct {
	clock review.Clock

	maxAccumulatedSize int

	mu                 sync.Mutex
	accumulatedBuffer  strings.Builder
	accumulatedSize    int
	accumulatedVersion uint64
	joinedCache        string
	joinedCacheVersion uint64

	lastContent   atomic.Value // string
	lastActivity  atomic.Int64 // unix nanos
	messageCount  atomic.Int64
	toolCallCount atomic.Int64

	resultMu    sync.Mutex
	resultCh    chan struct{}
	state       atomic.Int32
	resultValue string
	resultErr   error
}

// New builds a ContentCollector. initialCapacity pre-sizes the internal
// buffer; maxAccumulatedSize is the hard cap on bytes appended.
func New(clock review.Clock, initialCapacity, maxAccumulatedSize int) *ContentCollector {
	c := &ContentCollector{
		clock:              clock,
		maxAccumulatedSize: maxAccumulatedSize,
		resultCh:           make(chan struct{}),
	}
	if initialCapacity > 0 {
		c.accumulatedBuffer.Grow(initialCapacity)
	}
	c.lastContent.Store("")
	c.lastActivity.Store(clock.Now().UnixNano())
	return c
}

// OnActivity records the current time as the last-activity time. Called for
// every event, even those carrying no payload.
func (c *ContentCollector) OnActivity() {
	c.lastActivity.Store(c.clock.Now().UnixNano())
}

// OnMessage records one streamed content fragment and toolCalls delta.
func (c *ContentCollector) OnMessage(content string, toolCalls int) {
	c.messageCount.Add(1)
	if toolCalls > 0 {
		c.toolCallCount.Add(int64(toolCalls))
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	c.lastContent.Store(content)

	c.mu.Lock()
	if c.accumulatedSize+len(content) <= c.maxAccumulatedSize {
		c.accumulatedBuffer.WriteString(content)
		c.accumulatedSize += len(content)
		c.accumulatedVersion++
	}
	c.mu.Unlock()
}

// OnIdle completes the future from the idle event: lastContent if
// non-blank, else the joined buffer if non-blank, else nothing meaningful.
func (c *ContentCollector) OnIdle() {
	c.completeOnce(func() (string, error) {
		if last, _ := c.lastContent.Load().(string); strings.TrimSpace(last) != "" {
			return last, nil
		}
		if joined := c.GetAccumulatedContent(); strings.TrimSpace(joined) != "" {
			return joined, nil
		}
		return "", nil
	})
}

// OnError completes the future exceptionally with a session event error.
func (c *ContentCollector) OnError(msg string) {
	c.completeOnce(func() (string, error) {
		return "", review.NewSessionEventError(msg)
	})
}

// OnIdleTimeout completes the future from an idle-timeout trip: the joined
// buffer if non-blank, else an IdleTimeoutError.
func (c *ContentCollector) OnIdleTimeout(elapsed, idleLimit time.Duration) {
	c.completeOnce(func() (string, error) {
		if joined := c.GetAccumulatedContent(); strings.TrimSpace(joined) != "" {
			return joined, nil
		}
		return "", review.NewIdleTimeoutError(elapsed, idleLimit)
	})
}

// TriggerIdleTimeout implements review.IdleProbe.
func (c *ContentCollector) TriggerIdleTimeout(elapsed, idleLimit time.Duration) {
	c.OnIdleTimeout(elapsed, idleLimit)
}

// completeOnce installs the result of compute as the single-shot completion,
// unless the future is already done; later completion attempts are ignored.
func (c *ContentCollector) completeOnce(compute func() (string, error)) {
	if futureState(c.state.Load()) == futureDone {
		return
	}
	c.resultMu.Lock()
	defer c.resultMu.Unlock()
	if futureState(c.state.Load()) == futureDone {
		return
	}
	value, err := compute()
	c.resultValue, c.resultErr = value, err
	c.state.Store(int32(futureDone))
	close(c.resultCh)
}

// ElapsedSinceLastActivity implements review.IdleProbe.
func (c *ContentCollector) ElapsedSinceLastActivity() time.Duration {
	last := time.Unix(0, c.lastActivity.Load())
	return c.clock.Now().Sub(last)
}

// GetAccumulatedContent returns the joined accumulated buffer, using the
// version-stamped cache when valid.
func (c *ContentCollector) GetAccumulatedContent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.joinedCacheVersion == c.accumulatedVersion {
		return c.joinedCache
	}
	joined := c.accumulatedBuffer.String()
	c.joinedCache = joined
	c.joinedCacheVersion = c.accumulatedVersion
	return joined
}

// MessageCount returns the number of onMessage calls observed so far.
func (c *ContentCollector) MessageCount() int64 { return c.messageCount.Load() }

// ToolCallCount returns the accumulated tool-call count.
func (c *ContentCollector) ToolCallCount() int64 { return c.toolCallCount.Load() }

// AwaitResult blocks until the future completes or hardTimeout elapses.
// A zero or negative hardTimeout times out immediately without completing
// the future.
func (c *ContentCollector) AwaitResult(hardTimeout time.Duration) (string, error) {
	if hardTimeout <= 0 {
		select {
		case <-c.resultCh:
			return c.resultValue, c.resultErr
		default:
			return "", review.ErrHardTimeout
		}
	}
	select {
	case <-c.resultCh:
		return c.resultValue, c.resultErr
	case <-time.After(hardTimeout):
		return "", review.ErrHardTimeout
	}
}
