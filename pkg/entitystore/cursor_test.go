package entitystore

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 1 << 40} {
		got, err := decodeCursor("widget", encodeCursor(seq))
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty cursor starts at the beginning", func(t *testing.T) {
		seq, err := decodeCursor("widget", "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), seq)
	})

	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "%%%"},
		{"missing prefix", base64.RawURLEncoding.EncodeToString([]byte("12"))},
		{"non numeric", base64.RawURLEncoding.EncodeToString([]byte("seq:abc"))},
		{"negative", base64.RawURLEncoding.EncodeToString([]byte("seq:-3"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCursor("widget", tt.cursor)
			require.Error(t, err)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}
