package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one recorded stage of a rateio run
type Event interface {
	Type() string
	RunID() string
	Sequence() int
	Timestamp() time.Time
	Data() any
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore keeps one stream of events per run
type EventStore interface {
	AppendEvent(runID string, event Event) error
	ReadEvents(runID string, fromSequence int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
}

// RunEvent is the event a Journal records. Seq is assigned by the store
// and starts at 1 within a run.
type RunEvent struct {
	Kind    string    `json:"type"`
	Run     string    `json:"run_id"`
	Seq     int       `json:"sequence"`
	At      time.Time `json:"timestamp"`
	Payload any       `json:"data,omitempty"`
}

func (e RunEvent) Type() string         { return e.Kind }
func (e RunEvent) RunID() string        { return e.Run }
func (e RunEvent) Sequence() int        { return e.Seq }
func (e RunEvent) Timestamp() time.Time { return e.At }
func (e RunEvent) Data() any            { return e.Payload }

// String renders the event as a single trace line:
// time, run#sequence, type and the JSON payload.
func (e RunEvent) String() string {
	payload := []byte("{}")
	if e.Payload != nil {
		if data, err := json.Marshal(e.Payload); err == nil {
			payload = data
		}
	}
	return fmt.Sprintf("%s %s#%d %-18s %s",
		e.At.Format("15:04:05.000"), e.Run, e.Seq, e.Kind, payload)
}

// NewRunEvent creates an unsequenced event for runID
func NewRunEvent(eventType, runID string, data any) RunEvent {
	return RunEvent{
		Kind:    eventType,
		Run:     runID,
		At:      time.Now(),
		Payload: data,
	}
}

// Journal records the events of one run under the run's stream.
// A nil Journal or a Journal without a store discards everything.
type Journal struct {
	store EventStore
	runID string
}

// NewJournal creates a journal for runID backed by store
func NewJournal(store EventStore, runID string) *Journal {
	return &Journal{store: store, runID: runID}
}

// RunID returns the stream the journal writes to
func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.runID
}

// Record appends an event of the given type
func (j *Journal) Record(eventType string, data any) error {
	if j == nil || j.store == nil {
		return nil
	}
	return j.store.AppendEvent(j.runID, NewRunEvent(eventType, j.runID, data))
}

// Events returns every event recorded for the run, oldest first
func (j *Journal) Events() ([]Event, error) {
	if j == nil || j.store == nil {
		return []Event{}, nil
	}
	return j.store.ReadEvents(j.runID, 1)
}
