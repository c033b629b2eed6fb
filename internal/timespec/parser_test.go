package timespec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want time.Time
	}{
		{"2026-03-05T10:30:00Z", time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2026-03-05", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"48h", now.Add(48 * time.Hour)},
		{"+90m", now.Add(90 * time.Minute)},
		{"+3d", now.Add(72 * time.Hour)},
		{" 2026-03-05 ", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want.UnixMilli(), got)
		})
	}

	t.Run("epoch millis", func(t *testing.T) {
		got, err := Parse("1772323200000", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1772323200000), got)
	})

	for _, bad := range []string{"", "tomorrow", "+xd", "2026-13-01"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := Parse(bad, now)
			assert.Error(t, err)
		})
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2026-03-05", "2026-03-07", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2*24*60*60*1000), to-from)

	from, to, err = ParseRange("", "", now)
	require.NoError(t, err)
	assert.Zero(t, from)
	assert.Zero(t, to)

	_, _, err = ParseRange("2026-03-05", "", now)
	assert.Error(t, err)

	_, _, err = ParseRange("2026-03-07", "2026-03-05", now)
	assert.ErrorContains(t, err, "--from must be before --to")

	_, _, err = ParseRange("2026-03-07", "2026-03-07", now)
	assert.Error(t, err)

	_, _, err = ParseRange("soon", "2026-03-07", now)
	assert.ErrorContains(t, err, "invalid --from")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2026-03-05T00:00:00Z", Format(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli()))
}
