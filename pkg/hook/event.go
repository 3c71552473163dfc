package hook

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// EventType enumerates the registry actions an event can record. The string
// values are stable wire codes, persisted in trails and published to sinks;
// the set is append-only.
type EventType string

const (
	EventCreateBucket      EventType = "CREATE_BUCKET"
	EventUpdateBucket      EventType = "UPDATE_BUCKET"
	EventDeleteBucket      EventType = "DELETE_BUCKET"
	EventCreateFlow        EventType = "CREATE_FLOW"
	EventUpdateFlow        EventType = "UPDATE_FLOW"
	EventDeleteFlow        EventType = "DELETE_FLOW"
	EventCreateFlowVersion EventType = "CREATE_FLOW_VERSION"
)

// AllEventTypes lists every declared event type. Tests assert the
// required-field table below is total over this slice; adding a constant
// without extending both is caught there.
var AllEventTypes = []EventType{
	EventCreateBucket,
	EventUpdateBucket,
	EventDeleteBucket,
	EventCreateFlow,
	EventUpdateFlow,
	EventDeleteFlow,
	EventCreateFlowVersion,
}

// RequiredFields returns the field names an event of this type must carry to
// be structurally valid. The switch is deliberate: adding an EventType
// constant forces a decision here rather than silently defaulting in a map.
// ok is false for types outside the closed set.
func (t EventType) RequiredFields() ([]FieldName, bool) {
	switch t {
	case EventCreateBucket, EventUpdateBucket, EventDeleteBucket:
		return []FieldName{FieldBucketID, FieldUser}, true
	case EventCreateFlow, EventUpdateFlow, EventDeleteFlow:
		return []FieldName{FieldBucketID, FieldFlowID, FieldUser}, true
	case EventCreateFlowVersion:
		return []FieldName{FieldBucketID, FieldFlowID, FieldVersion, FieldUser, FieldComment}, true
	default:
		return nil, false
	}
}

// ParseEventType maps a wire code back to an EventType.
func ParseEventType(code string) (EventType, error) {
	t := EventType(code)
	if _, ok := t.RequiredFields(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, code)
	}
	return t, nil
}

// Sentinel errors for event construction and validation. Validation failures
// are state errors: the caller built an inconsistent event and must fix the
// construction, not retry.
var (
	ErrUnknownFieldName = errors.New("unknown event field name")
	ErrNoEventType      = errors.New("event has no event type")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingField     = errors.New("event missing required field")
)

// Event is an immutable record of a single registry action. Implementations
// are safe to share across goroutines once built.
type Event interface {
	// Type returns the kind of action this event records.
	Type() EventType

	// Field returns the field with the given name. The second return is
	// false when no such field is attached; absence is not an error.
	Field(name FieldName) (Field, bool)

	// Fields returns a snapshot of every attached field, sorted by name.
	Fields() []Field

	// Timestamp reports when the event was built.
	Timestamp() time.Time

	// Validate checks that every field required by the event's type is
	// present. It is side-effect-free and idempotent. Surplus fields never
	// fail validation. A nil return asserts the event is well-formed.
	Validate() error
}

// StandardEvent is the canonical Event implementation produced by Builder.
type StandardEvent struct {
	eventType EventType
	fields    map[FieldName]Field
	built     time.Time
	id        string
}

var _ Event = (*StandardEvent)(nil)

func (e *StandardEvent) Type() EventType { return e.eventType }

// ID returns the envelope identity the event arrived with, or the empty
// string for locally built events that have not crossed a transport yet.
func (e *StandardEvent) ID() string { return e.id }

func (e *StandardEvent) Field(name FieldName) (Field, bool) {
	f, ok := e.fields[name]
	return f, ok
}

func (e *StandardEvent) Fields() []Field {
	out := make([]Field, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (e *StandardEvent) Timestamp() time.Time { return e.built }

func (e *StandardEvent) Validate() error {
	if e.eventType == "" {
		return ErrNoEventType
	}
	required, ok := e.eventType.RequiredFields()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.eventType)
	}
	for _, name := range required {
		if _, present := e.fields[name]; !present {
			return fmt.Errorf("%w: %s event requires %s", ErrMissingField, e.eventType, name)
		}
	}
	return nil
}

// Equal reports whether two events record the same action with the same
// field set. Timestamps are excluded: two builders snapshotting identical
// content produce equal events.
func (e *StandardEvent) Equal(other Event) bool {
	if other == nil || e.eventType != other.Type() {
		return false
	}
	otherFields := other.Fields()
	if len(otherFields) != len(e.fields) {
		return false
	}
	for _, f := range otherFields {
		if mine, ok := e.fields[f.Name]; !ok || mine != f {
			return false
		}
	}
	return true
}
