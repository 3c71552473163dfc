package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	t.Run("accepts known name", func(t *testing.T) {
		f, err := NewField(FieldBucketID, "b-1")
		require.NoError(t, err)
		assert.Equal(t, FieldBucketID, f.Name)
		assert.Equal(t, "b-1", f.Value)
	})

	t.Run("accepts empty value", func(t *testing.T) {
		// Values are opaque; an empty comment is still a comment field.
		f, err := NewField(FieldComment, "")
		require.NoError(t, err)
		assert.Equal(t, "", f.Value)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewField("", "x")
		assert.ErrorIs(t, err, ErrUnknownFieldName)
	})

	t.Run("rejects name outside vocabulary", func(t *testing.T) {
		_, err := NewField(FieldName("FAVOURITE_COLOUR"), "teal")
		assert.ErrorIs(t, err, ErrUnknownFieldName)
	})
}

func TestFieldEquality(t *testing.T) {
	a, err := NewField(FieldFlowID, "f-1")
	require.NoError(t, err)
	b, err := NewField(FieldFlowID, "f-1")
	require.NoError(t, err)
	c, err := NewField(FieldFlowID, "f-2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseFieldName_RoundTrip(t *testing.T) {
	for name := range knownFieldNames {
		parsed, err := ParseFieldName(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, parsed)
	}

	_, err := ParseFieldName("bucket_id") // codes are case-sensitive
	assert.ErrorIs(t, err, ErrUnknownFieldName)
}
