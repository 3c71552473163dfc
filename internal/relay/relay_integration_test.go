//go:build integration

package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"verso/internal/relay"
	"verso/pkg/hook"
	"verso/pkg/hook/dispatch"
	kafkaprovider "verso/pkg/hook/providers/kafka"
	"verso/pkg/hook/providers/memory"
	"verso/pkg/testutil/containers"
)

// TestKafkaRoundTrip exercises the whole transport: producer provider,
// broker, relay consumer, dispatcher, trail provider.
func TestKafkaRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)
	defer func() { _ = broker.Container.Terminate(ctx) }()

	const topic = "verso.hook.events.test"

	producer, err := kafkaprovider.New([]string{broker.Broker}, topic)
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, producer.EnsureTopic(ctx, 1, 1))

	sink := memory.New()
	dispatcher := dispatch.New([]hook.Provider{sink})

	consumer, err := relay.New([]string{broker.Broker}, topic, "round-trip-test", dispatcher)
	require.NoError(t, err)
	defer consumer.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = dispatcher.Run(runCtx) }()
	go func() { _ = consumer.Run(runCtx) }()

	event, err := hook.NewBuilder().
		EventType(hook.EventCreateFlowVersion).
		Field(hook.FieldBucketID, "b-1").
		Field(hook.FieldFlowID, "f-1").
		Field(hook.FieldVersion, "1").
		Field(hook.FieldUser, "admin").
		Field(hook.FieldComment, "first version").
		Build()
	require.NoError(t, err)
	require.NoError(t, event.Validate())

	require.NoError(t, producer.Handle(ctx, event))

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if len(sink.Events()) == 1 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	events := sink.Events()
	require.Len(t, events, 1)
	require.Equal(t, hook.EventCreateFlowVersion, events[0].Type())
	version, ok := events[0].Field(hook.FieldVersion)
	require.True(t, ok)
	require.Equal(t, "1", version.Value)
	require.True(t, events[0].Timestamp().Equal(event.Timestamp()),
		"relayed event records when the action happened, not when it was consumed")
}

// TestMalformedRecordsAreSkipped shows a poison record never stalls the
// consumer group.
func TestMalformedRecordsAreSkipped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)
	defer func() { _ = broker.Container.Terminate(ctx) }()

	const topic = "verso.hook.events.poison"

	producer, err := kafkaprovider.New([]string{broker.Broker}, topic)
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, producer.EnsureTopic(ctx, 1, 1))

	sink := memory.New()
	dispatcher := dispatch.New([]hook.Provider{sink})

	consumer, err := relay.New([]string{broker.Broker}, topic, "poison-test", dispatcher)
	require.NoError(t, err)
	defer consumer.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = dispatcher.Run(runCtx) }()
	go func() { _ = consumer.Run(runCtx) }()

	// Raw junk straight onto the topic, then a valid event behind it.
	require.NoError(t, produceRaw(ctx, broker.Broker, topic, []byte("{definitely not an envelope")))

	event, err := hook.NewBuilder().
		EventType(hook.EventDeleteFlow).
		Field(hook.FieldBucketID, "b-1").
		Field(hook.FieldFlowID, "f-1").
		Field(hook.FieldUser, "admin").
		Build()
	require.NoError(t, err)
	require.NoError(t, producer.Handle(ctx, event))

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if len(sink.Events()) == 1 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	events := sink.Events()
	require.Len(t, events, 1, "valid event must get past the poison record")
	require.Equal(t, hook.EventDeleteFlow, events[0].Type())
}
