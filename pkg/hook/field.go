package hook

import "fmt"

// FieldName identifies the semantic meaning of a piece of event metadata.
// The string values are wire codes: they are persisted in audit trails and
// published to external sinks, so they are append-only and must never be
// renamed or reused.
type FieldName string

const (
	FieldBucketID FieldName = "BUCKET_ID"
	FieldFlowID   FieldName = "FLOW_ID"
	FieldVersion  FieldName = "VERSION"
	FieldUser     FieldName = "USER"
	FieldComment  FieldName = "COMMENT"

	// Optional metadata names. Never required by any event type, but
	// carried when available to make trails readable without a lookup.
	FieldBucketName FieldName = "BUCKET_NAME"
	FieldFlowName   FieldName = "FLOW_NAME"
)

var knownFieldNames = map[FieldName]struct{}{
	FieldBucketID:   {},
	FieldFlowID:     {},
	FieldVersion:    {},
	FieldUser:       {},
	FieldComment:    {},
	FieldBucketName: {},
	FieldFlowName:   {},
}

// ParseFieldName maps a wire code back to a FieldName. Codes outside the
// closed vocabulary are rejected so foreign data cannot smuggle new keys
// into a trail.
func ParseFieldName(code string) (FieldName, error) {
	name := FieldName(code)
	if _, ok := knownFieldNames[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldName, code)
	}
	return name, nil
}

// Field is one (name, value) metadata pair attached to an event. It is a
// comparable value object: copies are independent and two fields are equal
// iff both name and value match. The value is an opaque string; semantic
// parsing belongs to callers.
type Field struct {
	Name  FieldName
	Value string
}

// NewField builds a Field, rejecting names outside the closed vocabulary.
// Misuse surfaces here, at the construction site, not later at validation.
func NewField(name FieldName, value string) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("%w: empty field name", ErrUnknownFieldName)
	}
	if _, ok := knownFieldNames[name]; !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownFieldName, name)
	}
	return Field{Name: name, Value: value}, nil
}
