package redisstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPatterns(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"record", RecordKey("prod", "booking", "b-1"), "dogroom:prod:record:booking:b-1"},
		{"record prefix", RecordKeyPrefix("prod", "booking"), "dogroom:prod:record:booking:"},
		{"index", IndexKey("prod", "bookings"), "dogroom:prod:index:bookings"},
		{"index seq", IndexSeqKey("prod", "bookings"), "dogroom:prod:index:bookings:seq"},
		{"seeded", SeededKey("prod", "host"), "dogroom:prod:seeded:host"},
		{"lock", LockKey("prod", "host:h1"), "dogroom:prod:lock:host:h1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestInstanceIsolation(t *testing.T) {
	assert.NotEqual(t, RecordKey("a", "host", "h1"), RecordKey("b", "host", "h1"))
	assert.NotEqual(t, IndexKey("a", "hosts"), IndexKey("b", "hosts"))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]e\\f`, escapeGlob(`a*b?c[d]e\f`))
	assert.Equal(t, "plain", escapeGlob("plain"))
}
