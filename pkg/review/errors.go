package review

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by the session-driving and prompt-building
// components. Callers should use errors.Is against these, not string
// matching.
var (
	// ErrEmptyResponse is returned when a session attempt produced no
	// content, including after any follow-up prompts of that attempt.
	ErrEmptyResponse = errors.New("review: session produced an empty response")

	// ErrHardTimeout is returned when the hard timeout of one prompt send
	// elapsed before the session reached a terminal state.
	ErrHardTimeout = errors.New("review: hard timeout elapsed")

	// ErrBreakerOpen is returned when a circuit breaker refused to admit a
	// call.
	ErrBreakerOpen = errors.New("review: circuit breaker is open")

	// ErrUnconfiguredInstruction is returned by the prompt builder when an
	// agent's instruction template is blank.
	ErrUnconfiguredInstruction = errors.New("review: agent has no configured instruction template")
)

// IdleTimeoutError reports that a session went idle for longer than the
// configured idle timeout. It carries the observed elapsed duration and the
// configured limit so callers can log or render both.
type IdleTimeoutError struct {
	Elapsed   time.Duration
	IdleLimit time.Duration
}

func (e *IdleTimeoutError) Error() string {
	return fmt.Sprintf("review: idle for %s, exceeding idle timeout of %s", e.Elapsed, e.IdleLimit)
}

// Is reports whether target is also an *IdleTimeoutError, so
// errors.Is(err, &IdleTimeoutError{}) matches regardless of field values.
func (e *IdleTimeoutError) Is(target error) bool {
	_, ok := target.(*IdleTimeoutError)
	return ok
}

// NewIdleTimeoutError constructs an IdleTimeoutError.
func NewIdleTimeoutError(elapsed, idleLimit time.Duration) *IdleTimeoutError {
	return &IdleTimeoutError{Elapsed: elapsed, IdleLimit: idleLimit}
}

// SessionEventError wraps an error event surfaced by the transport's error
// subscription.
type SessionEventError struct {
	Message string
}

func (e *SessionEventError) Error() string {
	return fmt.Sprintf("review: session reported an error: %s", e.Message)
}

// Is reports whether target is also a *SessionEventError.
func (e *SessionEventError) Is(target error) bool {
	_, ok := target.(*SessionEventError)
	return ok
}

// NewSessionEventError constructs a SessionEventError.
func NewSessionEventError(message string) *SessionEventError {
	return &SessionEventError{Message: message}
}
