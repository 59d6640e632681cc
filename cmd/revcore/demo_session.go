package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/collector"
)

// newScheduler builds the orchestration's shared IdleTimeoutScheduler. It is
// a thin wrapper so main can depend on the package without repeating the
// constructor call inline.
func newScheduler(minCheckInterval time.Duration) *collector.IdleTimeoutScheduler {
	return collector.NewIdleTimeoutScheduler(minCheckInterval)
}

// demoSessionClient is a stub SessionClient standing in for the real LLM
// transport. Every session immediately emits a
// single canned finding, then an idle event.
type demoSessionClient struct{}

func newDemoSessionClient() review.SessionClient {
	return demoSessionClient{}
}

func (demoSessionClient) CreateSession(ctx context.Context, cfg review.SessionConfig) (review.Session, error) {
	return &demoSession{}, nil
}

// demoSession implements review.Session with in-process callback lists per
// event stream, closed synchronously.
type demoSession struct {
	mu       sync.Mutex
	messages []review.EventHandler
	idles    []review.EventHandler
	errs     []review.EventHandler
	alls     []review.EventHandler
	closed   bool
}

func (s *demoSession) AllEvents() review.Sub { return s.subscribe(&s.alls) }
func (s *demoSession) Messages() review.Sub  { return s.subscribe(&s.messages) }
func (s *demoSession) Idle() review.Sub      { return s.subscribe(&s.idles) }
func (s *demoSession) Errors() review.Sub    { return s.subscribe(&s.errs) }

func (s *demoSession) subscribe(list *[]review.EventHandler) review.Sub {
	return func(handler review.EventHandler) (review.Closer, error) {
		s.mu.Lock()
		*list = append(*list, handler)
		idx := len(*list) - 1
		s.mu.Unlock()
		return closerFunc(func() error {
			s.mu.Lock()
			defer s.mu.Unlock()
			if idx < len(*list) {
				(*list)[idx] = nil
			}
			return nil
		}), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Send synthesizes one message event carrying a canned finding, then an
// idle event.
func (s *demoSession) Send(ctx context.Context, prompt string) error {
	content := fmt.Sprintf(
		"### 1. Demo finding\n\n| Item | Value |\n|------|-------|\n| **Priority** | Medium |\n| **指摘の概要** | prompt received (%d bytes) |\n| **該当箇所** | n/a |\n\n**推奨対応** this is a stub transport; wire a real SessionClient for actual reviews.\n**効果** demonstrates the core pipeline end to end.\n",
		len(prompt),
	)
	s.fire(s.alls, review.EventData{Type: review.EventTypeAny})
	s.fire(s.messages, review.EventData{Type: review.EventTypeMessage, Content: content})
	s.fire(s.alls, review.EventData{Type: review.EventTypeAny})
	s.fire(s.idles, review.EventData{Type: review.EventTypeIdle})
	return nil
}

func (s *demoSession) fire(handlers []review.EventHandler, e review.EventData) {
	s.mu.Lock()
	snapshot := make([]review.EventHandler, len(handlers))
	copy(snapshot, handlers)
	s.mu.Unlock()
	for _, h := range snapshot {
		if h != nil {
			h(e)
		}
	}
}

func (s *demoSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
