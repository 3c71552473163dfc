// Package hook models the audit events emitted when the registry is changed.
//
// An Event is an immutable record of one action (bucket created, flow version
// committed, ...) tagged with an EventType and carrying Field metadata. Each
// EventType mandates a fixed set of FieldNames; an event is only handed to
// sinks after Validate confirms that set is present. Events are assembled
// with Builder, validated explicitly, and then fanned out to Providers by the
// dispatch package.
package hook
