// Package registry is the action-recording seam of the service layer: one
// factory per registry action builds the corresponding hook event, and
// Recorder validates and forwards it to the dispatcher.
package registry

import (
	"strconv"

	"verso/internal/registry/models"
	"verso/pkg/hook"
)

// BucketCreated builds the event recording a bucket creation by user.
func BucketCreated(b models.Bucket, user string) (hook.Event, error) {
	return bucketEvent(hook.EventCreateBucket, b, user)
}

// BucketUpdated builds the event recording a bucket update by user.
func BucketUpdated(b models.Bucket, user string) (hook.Event, error) {
	return bucketEvent(hook.EventUpdateBucket, b, user)
}

// BucketDeleted builds the event recording a bucket deletion by user.
func BucketDeleted(b models.Bucket, user string) (hook.Event, error) {
	return bucketEvent(hook.EventDeleteBucket, b, user)
}

// FlowCreated builds the event recording a flow creation by user.
func FlowCreated(f models.Flow, user string) (hook.Event, error) {
	return flowEvent(hook.EventCreateFlow, f, user)
}

// FlowUpdated builds the event recording a flow update by user.
func FlowUpdated(f models.Flow, user string) (hook.Event, error) {
	return flowEvent(hook.EventUpdateFlow, f, user)
}

// FlowDeleted builds the event recording a flow deletion by user.
func FlowDeleted(f models.Flow, user string) (hook.Event, error) {
	return flowEvent(hook.EventDeleteFlow, f, user)
}

// FlowVersionCreated builds the event recording a committed flow version.
func FlowVersionCreated(v models.FlowVersion, user string) (hook.Event, error) {
	return hook.NewBuilder().
		EventType(hook.EventCreateFlowVersion).
		Field(hook.FieldBucketID, v.BucketID).
		Field(hook.FieldFlowID, v.FlowID).
		Field(hook.FieldVersion, strconv.Itoa(v.Version)).
		Field(hook.FieldUser, user).
		Field(hook.FieldComment, v.Comment).
		Build()
}

func bucketEvent(t hook.EventType, b models.Bucket, user string) (hook.Event, error) {
	builder := hook.NewBuilder().
		EventType(t).
		Field(hook.FieldBucketID, b.ID).
		Field(hook.FieldUser, user)
	if b.Name != "" {
		builder.Field(hook.FieldBucketName, b.Name)
	}
	return builder.Build()
}

func flowEvent(t hook.EventType, f models.Flow, user string) (hook.Event, error) {
	builder := hook.NewBuilder().
		EventType(t).
		Field(hook.FieldBucketID, f.BucketID).
		Field(hook.FieldFlowID, f.ID).
		Field(hook.FieldUser, user)
	if f.Name != "" {
		builder.Field(hook.FieldFlowName, f.Name)
	}
	return builder.Build()
}
