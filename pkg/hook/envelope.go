package hook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the JSON shape events take on the wire (Kafka records, Redis
// stream entries, trail rows). Type and field keys are the stable codes from
// EventType and FieldName, so a trail written today stays readable after the
// vocabulary grows.
type Envelope struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Timestamp string            `json:"timestamp"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// EncodeEvent wraps a built event in an Envelope. Events that already carry a
// transport identity keep it, so an event relayed between hops is written to
// every trail under the same ID; locally built events get a fresh one.
func EncodeEvent(e Event) Envelope {
	fields := make(map[string]string)
	for _, f := range e.Fields() {
		fields[string(f.Name)] = f.Value
	}
	id := ""
	if carrier, ok := e.(interface{ ID() string }); ok {
		id = carrier.ID()
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Envelope{
		ID:        id,
		Type:      string(e.Type()),
		Timestamp: e.Timestamp().Format(time.RFC3339Nano),
		Fields:    fields,
	}
}

// MarshalEvent encodes a built event straight to envelope JSON.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(EncodeEvent(e))
}

// DecodeEnvelope rebuilds an Event from envelope JSON and re-validates it.
// Transport data is untrusted: unknown type or field codes and structurally
// incomplete events are rejected here so they cannot re-enter a trail.
func DecodeEnvelope(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal event envelope: %w", err)
	}
	return env.Event()
}

// Event rebuilds and validates the enveloped event. The transported timestamp
// and ID are carried over unchanged: the rebuilt event records when the action
// happened, not when the envelope was decoded.
func (env Envelope) Event() (Event, error) {
	eventType, err := ParseEventType(env.Type)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse event timestamp %q: %w", env.Timestamp, err)
	}
	b := NewBuilder().EventType(eventType)
	for code, value := range env.Fields {
		name, err := ParseFieldName(code)
		if err != nil {
			return nil, err
		}
		b.Field(name, value)
	}
	event, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.built = ts
	event.id = env.ID
	return event, nil
}
