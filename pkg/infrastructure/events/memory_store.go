package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps the events of every run in memory. Subscribers
// are notified synchronously, in subscription order, after the event is
// stored, so a handler observes the events of a run in sequence order.
type InMemoryEventStore struct {
	runs        map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	logger      *zap.Logger
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return NewInMemoryEventStoreWithLogger(zap.NewNop())
}

// NewInMemoryEventStoreWithLogger creates a store that reports handler failures to logger
func NewInMemoryEventStoreWithLogger(logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		runs:        make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger.Named("events"),
	}
}

// AppendEvent stores event under runID with the next sequence number of the run
func (s *InMemoryEventStore) AppendEvent(runID string, event Event) error {
	s.mutex.Lock()
	sequenced := RunEvent{
		Kind:    event.Type(),
		Run:     runID,
		Seq:     len(s.runs[runID]) + 1,
		At:      event.Timestamp(),
		Payload: event.Data(),
	}
	s.runs[runID] = append(s.runs[runID], sequenced)
	s.mutex.Unlock()

	s.notifySubscribers(sequenced)

	return nil
}

// ReadEvents returns the events of runID starting at fromSequence
func (s *InMemoryEventStore) ReadEvents(runID string, fromSequence int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	recorded := s.runs[runID]
	if fromSequence < 1 {
		fromSequence = 1
	}
	if fromSequence > len(recorded) {
		return []Event{}, nil
	}

	out := make([]Event, len(recorded)-fromSequence+1)
	copy(out, recorded[fromSequence-1:])
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(event Event) {
	s.mutex.RLock()
	handlers := make([]EventHandler, 0, len(s.subscribers[event.Type()])+len(s.subscribers[AllEvents]))
	handlers = append(handlers, s.subscribers[event.Type()]...)
	handlers = append(handlers, s.subscribers[AllEvents]...)
	s.mutex.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", event.Type()),
				zap.String("run_id", event.RunID()),
				zap.Int("sequence", event.Sequence()),
				zap.Error(err),
			)
		}
	}
}
