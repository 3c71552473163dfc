package hook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	original, err := NewBuilder().
		EventType(EventCreateFlowVersion).
		Field(FieldBucketID, "b-1").
		Field(FieldFlowID, "f-1").
		Field(FieldVersion, "7").
		Field(FieldUser, "ci-bot").
		Field(FieldComment, "nightly import").
		Field(FieldFlowName, "ingest").
		Build()
	require.NoError(t, err)
	require.NoError(t, original.Validate())

	data, err := MarshalEvent(original)
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)

	assert.Equal(t, original.Type(), decoded.Type())
	assert.ElementsMatch(t, original.Fields(), decoded.Fields())
	assert.True(t, original.Equal(decoded))
	assert.True(t, decoded.Timestamp().Equal(original.Timestamp()),
		"decoded timestamp %v must be the transported one, not decode time", decoded.Timestamp())
}

func TestEnvelopeRoundTrip_PreservesIdentity(t *testing.T) {
	original, err := NewBuilder().
		EventType(EventCreateBucket).
		Field(FieldBucketID, "b-1").
		Field(FieldUser, "admin").
		Build()
	require.NoError(t, err)

	first := EncodeEvent(original)

	data, err := json.Marshal(first)
	require.NoError(t, err)
	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)

	// A relayed event keeps its envelope identity across hops, so every
	// trail it lands in records it under the same ID.
	second := EncodeEvent(decoded)
	assert.Equal(t, first.ID, second.ID)
}

func TestEncodeEvent_AssignsDistinctIDs(t *testing.T) {
	event, err := NewBuilder().
		EventType(EventCreateBucket).
		Field(FieldBucketID, "b-1").
		Field(FieldUser, "admin").
		Build()
	require.NoError(t, err)

	first := EncodeEvent(event)
	second := EncodeEvent(event)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, string(EventCreateBucket), first.Type)
}

func TestDecodeEnvelope_RejectsBadTransportData(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte("{not json"))
		require.Error(t, err)
	})

	t.Run("unknown type code", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"id":"1","type":"REWIND_HISTORY","timestamp":"2026-01-01T00:00:00Z"}`))
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("unknown field code", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"id":"1","type":"CREATE_BUCKET","timestamp":"2026-01-01T00:00:00Z","fields":{"BUCKET_ID":"b","USER":"u","MOOD":"great"}}`))
		assert.ErrorIs(t, err, ErrUnknownFieldName)
	})

	t.Run("structurally incomplete event", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"id":"1","type":"CREATE_BUCKET","timestamp":"2026-01-01T00:00:00Z","fields":{"BUCKET_ID":"b"}}`))
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"id":"1","type":"CREATE_BUCKET","timestamp":"yesterdayish","fields":{"BUCKET_ID":"b","USER":"u"}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timestamp")
	})

	t.Run("missing timestamp", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"id":"1","type":"CREATE_BUCKET","fields":{"BUCKET_ID":"b","USER":"u"}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timestamp")
	})
}
