package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// sqliteArgs points a command at a fresh database file.
func sqliteArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--driver", "sqlite", "--sqlite", filepath.Join(t.TempDir(), "dogroom.db")}
}

func run(t *testing.T, base []string, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append(append([]string{}, base...), args...)...)
}

func TestHostsCommands(t *testing.T) {
	db := sqliteArgs(t)

	t.Run("list pages through hosts with the cursor", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "json", "hosts", "list", "--limit", "2")
		require.NoError(t, err)

		var first entitystore.Page[domain.Host]
		require.NoError(t, json.Unmarshal([]byte(out), &first))
		require.Len(t, first.Items, 2)
		assert.Equal(t, "host-ava", first.Items[0].ID)
		assert.Equal(t, "host-ben", first.Items[1].ID)
		require.NotEmpty(t, first.Next)

		out, _, err = run(t, db, "-o", "json", "hosts", "list", "--limit", "2", "--cursor", first.Next)
		require.NoError(t, err)

		var second entitystore.Page[domain.Host]
		require.NoError(t, json.Unmarshal([]byte(out), &second))
		require.Len(t, second.Items, 2)
		assert.Equal(t, "host-chloe", second.Items[0].ID)
	})

	t.Run("explicit limit below one returns a single host", func(t *testing.T) {
		for _, limit := range []string{"0", "-3"} {
			out, _, err := run(t, db, "-o", "json", "hosts", "list", "--limit", limit)
			require.NoError(t, err)

			var page entitystore.Page[domain.Host]
			require.NoError(t, json.Unmarshal([]byte(out), &page))
			assert.Len(t, page.Items, 1, "--limit %s", limit)
			assert.NotEmpty(t, page.Next)
		}
	})

	t.Run("unset limit uses the configured default", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "json", "hosts", "list")
		require.NoError(t, err)

		var page entitystore.Page[domain.Host]
		require.NoError(t, json.Unmarshal([]byte(out), &page))
		assert.Greater(t, len(page.Items), 1)
	})

	t.Run("last page has a null cursor", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "json", "hosts", "list", "--limit", "1000")
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(out), &raw))
		assert.Equal(t, "null", string(raw["next"]))
	})

	t.Run("table output names the next cursor", func(t *testing.T) {
		out, _, err := run(t, db, "hosts", "list", "--limit", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Ava Thompson")
		assert.Contains(t, out, "--cursor")
	})

	t.Run("get unknown host", func(t *testing.T) {
		_, errOut, err := run(t, db, "hosts", "get", "host-nobody")
		require.Error(t, err)
		assert.Contains(t, errOut, "host 'host-nobody' not found")
	})

	t.Run("search filters by pet size", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "jsonl", "hosts", "search", "--pet-size", "large")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.NotEmpty(t, lines)
		var best domain.HostPreview
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &best))
		assert.Equal(t, "host-chloe", best.ID)
		assert.NotContains(t, out, "host-ben")
	})

	t.Run("search needs both dates", func(t *testing.T) {
		_, errOut, err := run(t, db, "hosts", "search", "--from", "2026-01-03")
		require.Error(t, err)
		assert.Contains(t, errOut, "invalid date range")
	})
}

func TestBookingsCommands(t *testing.T) {
	db := sqliteArgs(t)

	t.Run("overlap with a confirmed booking is refused", func(t *testing.T) {
		_, errOut, err := run(t, db, "bookings", "create",
			"--host", "host-ava", "--user", "u2", "--from", "2026-01-04", "--to", "2026-01-08")
		require.Error(t, err)
		assert.Contains(t, errOut, "dates are not available")
	})

	var created domain.Booking
	t.Run("free dates are booked pending", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "json", "bookings", "create",
			"--host", "host-ava", "--user", "u2", "--from", "2026-01-06", "--to", "2026-01-08")
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &created))
		assert.Equal(t, domain.BookingPending, created.Status)
		assert.Equal(t, "host-ava", created.HostID)
	})

	t.Run("confirm by short id", func(t *testing.T) {
		require.NotEmpty(t, created.ID)
		out, _, err := run(t, db, "bookings", "confirm", created.ID[:8])
		require.NoError(t, err)
		assert.Contains(t, out, "confirmed")
	})

	t.Run("confirmed booking cannot be rejected", func(t *testing.T) {
		_, errOut, err := run(t, db, "bookings", "reject", created.ID)
		require.Error(t, err)
		assert.Contains(t, errOut, "cannot move from confirmed to rejected")
	})

	t.Run("list by user joins hosts", func(t *testing.T) {
		out, _, err := run(t, db, "-o", "jsonl", "bookings", "list", "--user", "u2")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2, "seeded b3 and the new booking")
		var last domain.BookingWithHost
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
		assert.Equal(t, created.ID, last.ID)
		require.NotNil(t, last.Host)
		assert.Equal(t, "Ava Thompson", last.Host.Name)
	})

	t.Run("cancel frees the dates", func(t *testing.T) {
		_, _, err := run(t, db, "bookings", "cancel", created.ID)
		require.NoError(t, err)

		_, _, err = run(t, db, "bookings", "create",
			"--host", "host-ava", "--user", "u3", "--from", "2026-01-06", "--to", "2026-01-07")
		assert.NoError(t, err)
	})

	t.Run("list needs exactly one filter", func(t *testing.T) {
		_, errOut, err := run(t, db, "bookings", "list")
		require.Error(t, err)
		assert.Contains(t, errOut, "Exactly one of --user or --host")
	})
}

func TestUsersAndChatsCommands(t *testing.T) {
	mr := miniredis.RunT(t)
	base := []string{"--redis-url", "redis://" + mr.Addr(), "--name", "cli-test"}

	t.Run("users", func(t *testing.T) {
		out, _, err := run(t, base, "-o", "json", "users", "create", "  Riley ")
		require.NoError(t, err)

		var u domain.User
		require.NoError(t, json.Unmarshal([]byte(out), &u))
		assert.Equal(t, "Riley", u.Name)

		out, _, err = run(t, base, "users", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Alex Morgan")
		assert.Contains(t, out, "Riley")
	})

	t.Run("chats", func(t *testing.T) {
		_, _, err := run(t, base, "chats", "send", "c2", "Crate training works", "--user", "u3")
		require.NoError(t, err)

		out, _, err := run(t, base, "-o", "jsonl", "chats", "messages", "c2")
		require.NoError(t, err)
		var msg domain.ChatMessage
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &msg))
		assert.Equal(t, "Crate training works", msg.Text)
		assert.Equal(t, "u3", msg.UserID)
	})

	t.Run("records are namespaced by instance", func(t *testing.T) {
		keys := mr.Keys()
		require.NotEmpty(t, keys)
		for _, k := range keys {
			assert.True(t, strings.HasPrefix(k, "dogroom:cli-test:"), k)
		}
	})
}
