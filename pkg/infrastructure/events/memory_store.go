package events

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// InMemoryEventStore keeps pipeline events for the lifetime of the process.
// Subscribers are notified asynchronously.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
	logger      *logrus.Logger
	pending     sync.WaitGroup
}

// NewInMemoryEventStore creates an empty store. A nil logger discards handler errors.
func NewInMemoryEventStore(logger *logrus.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		logger:      logger,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if streamID == "" {
		return fmt.Errorf("stream ID cannot be empty for event %s", event.Type())
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.streams[streamID] == nil {
		s.streams[streamID] = make([]Event, 0)
	}

	eventWithVersion := BaseEvent{
		EventType: event.Type(),
		Stream:    streamID,
		EventData: event.Data(),
		EventTime: event.Timestamp(),
	}.withVersion(len(s.streams[streamID]) + 1)

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.position++

	s.pending.Add(1)
	go s.notifySubscribers(eventWithVersion)

	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return events[fromVersion-1:], nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return s.allEvents[fromPosition:], nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		if s.subscribers[eventType] == nil {
			s.subscribers[eventType] = make([]EventHandler, 0)
		}
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0)
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

// Flush blocks until every subscriber notified so far has returned
func (s *InMemoryEventStore) Flush() {
	s.pending.Wait()
}

// Len returns the number of events appended across all streams
func (s *InMemoryEventStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.position
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	defer s.pending.Done()

	s.mutex.RLock()
	handlers := s.subscribers[event.Type()]
	s.mutex.RUnlock()

	var wg sync.WaitGroup
	for _, handler := range handlers {
		if handler.CanHandle(event.Type()) {
			wg.Add(1)
			go func(h EventHandler, e Event) {
				defer wg.Done()
				if err := h.Handle(e); err != nil {
					s.logger.WithFields(logrus.Fields{
						"module":     "events",
						"event_type": e.Type(),
						"stream":     e.StreamID(),
					}).WithError(err).Error("event handler failed")
				}
			}(handler, event)
		}
	}
	wg.Wait()
}
