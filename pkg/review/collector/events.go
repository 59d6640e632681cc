package collector

import (
	"log/slog"

	"github.com/reviewmesh/revcore/pkg/review"
)

// EventSubscriptions owns four closeables bound to one ContentCollector and
// exposes CloseAll, which closes each and swallows per-subscription errors.
type EventSubscriptions struct {
	all     review.Closer
	message review.Closer
	idle    review.Closer
	errSub  review.Closer
	logger  *slog.Logger
	agent   string
}

// Register binds a ContentCollector's handlers to the four event streams a
// Session exposes. agentName is carried only for log
// context.
func Register(agentName string, c *ContentCollector, session review.Session, logger *slog.Logger) (*EventSubscriptions, error) {
	if logger == nil {
		logger = slog.Default()
	}

	allCloser, err := session.AllEvents()(func(review.EventData) {
		c.OnActivity()
	})
	if err != nil {
		return nil, err
	}

	messageCloser, err := session.Messages()(func(e review.EventData) {
		c.OnMessage(e.Content, e.ToolCalls)
	})
	if err != nil {
		_ = allCloser.Close()
		return nil, err
	}

	idleCloser, err := session.Idle()(func(review.EventData) {
		c.OnIdle()
	})
	if err != nil {
		_ = allCloser.Close()
		_ = messageCloser.Close()
		return nil, err
	}

	errCloser, err := session.Errors()(func(e review.EventData) {
		c.OnError(e.ErrorMessage)
	})
	if err != nil {
		_ = allCloser.Close()
		_ = messageCloser.Close()
		_ = idleCloser.Close()
		return nil, err
	}

	return &EventSubscriptions{
		all:     allCloser,
		message: messageCloser,
		idle:    idleCloser,
		errSub:  errCloser,
		logger:  logger,
		agent:   agentName,
	}, nil
}

// CloseAll closes each of the four subscriptions, logging (not propagating)
// any per-subscription error.
func (s *EventSubscriptions) CloseAll() {
	for _, c := range []review.Closer{s.all, s.message, s.idle, s.errSub} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			s.logger.Debug("event subscription close failed", "agent", s.agent, "error", err)
		}
	}
}
