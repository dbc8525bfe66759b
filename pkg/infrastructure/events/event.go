package events

import (
	"slices"
	"time"
)

// Event records one step of a log analysis. The stream is the run ID for
// log.parsed, the comparison ID for runs.compared and explanations.generated,
// and the manifest path for batch.completed, so a comparison's stream reads
// as its comparison followed by its explanations.
type Event interface {
	Type() string
	StreamID() string
	// Data is one of the payload structs in pipeline_events.go.
	Data() any
	Timestamp() time.Time
	// Version is the event's 1-based position in its stream, 0 until appended.
	Version() int
}

// EventHandler observes pipeline events, e.g. to print the --trace of a
// parse or compare. A handler error is logged by the store and never fails
// the analysis that published the event.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore keeps the events of one CLI invocation. Appends to a stream
// are versioned in order; ReadAllEvents returns every stream interleaved in
// append order, which is how the trace is printed.
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the serialized form of a pipeline event in trace output.
type BaseEvent struct {
	EventType    string    `json:"type" yaml:"type"`
	Stream       string    `json:"stream" yaml:"stream"`
	EventData    any       `json:"data" yaml:"data"`
	EventTime    time.Time `json:"time" yaml:"time"`
	EventVersion int       `json:"version" yaml:"version"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) StreamID() string     { return e.Stream }
func (e BaseEvent) Data() any            { return e.EventData }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }
func (e BaseEvent) Version() int         { return e.EventVersion }

// withVersion returns a copy stamped with its position in the stream.
func (e BaseEvent) withVersion(version int) BaseEvent {
	e.EventVersion = version
	return e
}

// NewEvent creates an unversioned event; the store assigns the version on append
func NewEvent(eventType, streamID string, data any) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now(),
	}
}

// HandlerFunc adapts a function to EventHandler for a fixed set of event types
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

// OnEvents builds a handler for the given pipeline event types.
func OnEvents(fn func(Event) error, eventTypes ...string) *HandlerFunc {
	return &HandlerFunc{Types: eventTypes, Fn: fn}
}

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}
