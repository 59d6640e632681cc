package collector

import (
	"sync"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
)

// DefaultMinCheckInterval is the default lower bound on the idle-check tick
// period.
const DefaultMinCheckInterval = 5 * time.Second

// IdleTimeoutScheduler periodically asks a ContentCollector whether its idle
// budget is exhausted and, if so, trips it. One instance is shared by
// every agent runner in an orchestration.
type IdleTimeoutScheduler struct {
	minCheckInterval time.Duration

	mu      sync.Mutex
	closed  bool
	tickers map[*cancellable]struct{}
}

// NewIdleTimeoutScheduler builds a scheduler ready to arm idle-timeout
// checks, with a tick period never shorter than minCheckInterval (falling
// back to DefaultMinCheckInterval when zero).
func NewIdleTimeoutScheduler(minCheckInterval time.Duration) *IdleTimeoutScheduler {
	if minCheckInterval <= 0 {
		minCheckInterval = DefaultMinCheckInterval
	}
	return &IdleTimeoutScheduler{minCheckInterval: minCheckInterval, tickers: make(map[*cancellable]struct{})}
}

type cancellable struct {
	stop   chan struct{}
	once   sync.Once
	remove func()
}

// Cancel stops the repeating check. Safe to call more than once.
func (c *cancellable) Cancel() {
	c.once.Do(func() {
		close(c.stop)
		if c.remove != nil {
			c.remove()
		}
	})
}

// Schedule arms a repeating idle-timeout check against probe at period
// max(idleTimeout/4, minCheckInterval). Implements review.Scheduler.
func (s *IdleTimeoutScheduler) Schedule(probe review.IdleProbe, idleTimeout time.Duration) review.Cancellable {
	period := idleTimeout / 4
	if period < s.minCheckInterval {
		period = s.minCheckInterval
	}

	c := &cancellable{stop: make(chan struct{})}
	c.remove = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.tickers != nil {
			delete(s.tickers, c)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return c
	}
	s.tickers[c] = struct{}{}
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				elapsed := probe.ElapsedSinceLastActivity()
				if elapsed >= idleTimeout {
					probe.TriggerIdleTimeout(elapsed, idleTimeout)
				}
			}
		}
	}()

	return c
}

// Close cancels every outstanding scheduled check. Safe to call once at
// orchestrator shutdown.
func (s *IdleTimeoutScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	outstanding := make([]*cancellable, 0, len(s.tickers))
	for c := range s.tickers {
		outstanding = append(outstanding, c)
	}
	s.tickers = nil
	s.mu.Unlock()

	for _, c := range outstanding {
		c.Cancel()
	}
}
