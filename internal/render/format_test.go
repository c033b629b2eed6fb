package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"empty", "", "-"},
		{"short", "hello", "hello"},
		{"exactly 60 chars", strings.Repeat("a", 60), strings.Repeat("a", 60)},
		{"61 chars", strings.Repeat("a", 61), strings.Repeat("a", 57) + "..."},
		{"multi-line", "First line\nSecond line", "First line"},
		{"whitespace", "  \n  hello world  \n  ", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatText(tt.text))
		})
	}
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "b1", formatID("b1"))
	assert.Equal(t, "3f2a9c1e", formatID("3f2a9c1e-7b4d-4a8e-9c2f-1d3e5f7a9b0c"))
}

func TestFormatDate(t *testing.T) {
	midnight := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "2026-03-05", formatDate(midnight))
	assert.Equal(t, "2026-03-05 14:30", formatDate(midnight+int64(14*time.Hour/time.Millisecond)+int64(30*time.Minute/time.Millisecond)))
	assert.Equal(t, "-", formatDate(0))
}

func TestJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONL(&buf, domain.SeedUsers()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(domain.SeedUsers()))

	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &u))
	assert.Equal(t, domain.SeedUsers()[0], u)
}

func TestSingleJSON(t *testing.T) {
	var buf bytes.Buffer
	b := domain.SeedBookings()[0]
	require.NoError(t, SingleJSON(&buf, b))

	assert.Contains(t, buf.String(), `"hostId": "host-ava"`)
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}

func TestTables(t *testing.T) {
	t.Run("hosts", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := Hosts(&buf, domain.SeedHosts())
		require.NoError(t, err)
		assert.Equal(t, len(domain.SeedHosts()), n)
		assert.Contains(t, buf.String(), "Ava Thompson")
		assert.Contains(t, buf.String(), "£45/night")
	})

	t.Run("bookings show host names when joined", func(t *testing.T) {
		hosts := domain.SeedHosts()
		bookings := []domain.BookingWithHost{
			{Booking: domain.SeedBookings()[0], Host: &hosts[0]},
			{Booking: domain.SeedBookings()[1]},
		}
		var buf bytes.Buffer
		n, err := Bookings(&buf, bookings)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Contains(t, buf.String(), "Ava Thompson")
		assert.Contains(t, buf.String(), "host-chloe")
	})

	t.Run("empty lists", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := Users(&buf, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Contains(t, buf.String(), "No users found")
	})

	t.Run("messages", func(t *testing.T) {
		var buf bytes.Buffer
		n := Messages(&buf, domain.SeedChats()[0].Messages)
		assert.Equal(t, 2, n)
		assert.Contains(t, buf.String(), "u1: Hello")
	})
}
