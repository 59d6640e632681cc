package collector

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
)

// MessageSender sends one prompt to one session and returns its collected
// content, with cleanup on every exit path.
type MessageSender struct {
	scheduler review.Scheduler
	tuning    review.TuningParams
	clock     review.Clock
	logger    *slog.Logger
}

// NewMessageSender builds a MessageSender bound to the orchestration's
// shared scheduler and tuning parameters.
func NewMessageSender(scheduler review.Scheduler, tuning review.TuningParams, clock review.Clock, logger *slog.Logger) *MessageSender {
	if clock == nil {
		clock = review.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageSender{scheduler: scheduler, tuning: tuning, clock: clock, logger: logger}
}

// Send drives the full send sequence for one prompt against session: creates a
// ContentCollector, registers the four event subscriptions, arms the idle
// task, sends the prompt, and awaits a result up to hardTimeout.
func (s *MessageSender) Send(ctx context.Context, agentName string, session review.Session, prompt string, idleTimeout, hardTimeout time.Duration) (string, error) {
	c := New(s.clock, s.tuning.InitialAccumulatedCapacity, s.tuning.MaxAccumulatedSize)

	subs, err := Register(agentName, c, session, s.logger)
	if err != nil {
		return "", err
	}

	task := s.scheduler.Schedule(c, idleTimeout)
	defer func() {
		task.Cancel()
		subs.CloseAll()
	}()

	if err := session.Send(ctx, prompt); err != nil {
		return "", err
	}

	content, err := c.AwaitResult(hardTimeout)
	if err != nil {
		if err == review.ErrHardTimeout {
			if partial := c.GetAccumulatedContent(); strings.TrimSpace(partial) != "" {
				s.logger.Warn("hard timeout reached with partial content, returning partial buffer", "agent", agentName)
				return partial, nil
			}
		}
		return "", err
	}
	return content, nil
}
