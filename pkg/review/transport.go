package review

import "context"

// SystemPromptMode selects how a session's system prompt is installed.
type SystemPromptMode int

const (
	// SystemPromptAppend adds the content to the transport's existing system
	// instructions (used for per-pass review sessions).
	SystemPromptAppend SystemPromptMode = iota
	// SystemPromptReplace replaces the transport's system instructions
	// entirely (used for the summary session).
	SystemPromptReplace
)

// SessionConfig is the configuration object consumed by
// SessionClient.CreateSession.
type SessionConfig struct {
	Model             string
	SystemPromptMode  SystemPromptMode
	SystemPrompt      string
	MCPServers        map[string]string // nil means "not provided"
	ReasoningEffort   string            // empty means "omitted" (model does not support it)
}

// EventType identifies the kind of event carried by an EventData value.
type EventType string

// Event type constants, one per subscription stream.
const (
	EventTypeAny     EventType = "any"
	EventTypeMessage EventType = "message"
	EventTypeIdle    EventType = "idle"
	EventTypeError   EventType = "error"
)

// EventData carries the payload of one session event.
type EventData struct {
	Type         EventType
	Content      string
	ToolCalls    int
	ErrorMessage string
}

// EventHandler processes one EventData value.
type EventHandler func(EventData)

// Closer releases a resource; Close must be idempotent.
type Closer interface {
	Close() error
}

// Sub registers a handler for one event stream and returns a Closer that
// unregisters it. A narrow function type rather than a full pub-sub
// interface, so fakes for testing need only implement four functions.
type Sub func(handler EventHandler) (Closer, error)

// Session is one opened LLM conversation.
// Close must be idempotent.
type Session interface {
	// Send transmits prompt to the underlying transport. The response is not
	// returned here; it is observed through the event subscriptions below.
	Send(ctx context.Context, prompt string) error

	AllEvents() Sub
	Messages() Sub
	Idle() Sub
	Errors() Sub

	Close() error
}

// SessionClient is the only transport surface the core consumes.
// Everything about how a session actually talks to an LLM lives outside
// this module.
type SessionClient interface {
	CreateSession(ctx context.Context, cfg SessionConfig) (Session, error)
}
