package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verso/pkg/hook"
)

func buildEvent(t *testing.T, eventType hook.EventType, fields map[hook.FieldName]string) hook.Event {
	t.Helper()
	b := hook.NewBuilder().EventType(eventType)
	for name, value := range fields {
		b.Field(name, value)
	}
	event, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, event.Validate())
	return event
}

func TestProvider_RecordsInOrder(t *testing.T) {
	p := New()
	ctx := context.Background()

	first := buildEvent(t, hook.EventCreateBucket, map[hook.FieldName]string{
		hook.FieldBucketID: "b-1",
		hook.FieldUser:     "admin",
	})
	second := buildEvent(t, hook.EventDeleteBucket, map[hook.FieldName]string{
		hook.FieldBucketID: "b-1",
		hook.FieldUser:     "admin",
	})

	require.NoError(t, p.Handle(ctx, first))
	require.NoError(t, p.Handle(ctx, second))

	events := p.Events()
	require.Len(t, events, 2)
	assert.Equal(t, hook.EventCreateBucket, events[0].Type())
	assert.Equal(t, hook.EventDeleteBucket, events[1].Type())

	assert.Len(t, p.ByType(hook.EventDeleteBucket), 1)
	assert.Empty(t, p.ByType(hook.EventCreateFlow))

	p.Clear()
	assert.Empty(t, p.Events())
}
