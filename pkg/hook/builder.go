package hook

import (
	"fmt"
	"time"
)

// Builder accumulates an event type and fields, then snapshots them into an
// immutable StandardEvent. It is a single-writer accumulator: each logical
// "record this action" operation should own its own Builder. Later writes to
// the same field name overwrite earlier ones.
//
// Build never validates; callers invoke Validate on the result explicitly.
type Builder struct {
	eventType EventType
	fields    map[FieldName]Field
	err       error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{fields: make(map[FieldName]Field)}
}

// EventType sets or replaces the event type.
func (b *Builder) EventType(t EventType) *Builder {
	b.eventType = t
	return b
}

// Field adds or replaces a field by name and value. An unknown or empty name
// is a construction error: it is recorded at this call site and surfaced by
// Build, and the malformed field is never attached.
func (b *Builder) Field(name FieldName, value string) *Builder {
	f, err := NewField(name, value)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	return b.Add(f)
}

// Add adds or replaces a pre-built field.
func (b *Builder) Add(f Field) *Builder {
	if _, ok := knownFieldNames[f.Name]; !ok {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %q", ErrUnknownFieldName, f.Name)
		}
		return b
	}
	b.fields[f.Name] = f
	return b
}

// Build produces an immutable snapshot of the accumulated type and fields,
// or the first construction error recorded by Field/Add. The Builder remains
// usable afterwards; the snapshot is independent, not a view.
func (b *Builder) Build() (*StandardEvent, error) {
	if b.err != nil {
		return nil, b.err
	}
	fields := make(map[FieldName]Field, len(b.fields))
	for name, f := range b.fields {
		fields[name] = f
	}
	return &StandardEvent{
		eventType: b.eventType,
		fields:    fields,
		built:     time.Now().UTC(),
	}, nil
}
