package booking

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/entities"
	"github.com/dyluth/dogroom/internal/testutil"
	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = int64(1_700_000_000_000)

func setupTestService(t *testing.T) (*Service, *entities.Store) {
	t.Helper()
	backend, _ := testutil.NewRedisStore(t)

	store, err := entities.New(backend)
	require.NoError(t, err)

	for _, h := range []domain.Host{
		{ID: "h1", Name: "Host One", Rating: 4.5},
		{ID: "h2", Name: "Host Two", Rating: 4.0},
	} {
		_, err := store.Hosts.Create(context.Background(), h)
		require.NoError(t, err)
	}

	var n atomic.Int64
	svc := NewService(store,
		WithLocker(backend),
		WithIDGenerator(func() string { return fmt.Sprintf("bk-%04d", n.Add(1)) }),
		WithClock(func() time.Time { return time.UnixMilli(testNow) }),
	)
	return svc, store
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending booking", func(t *testing.T) {
		svc, store := setupTestService(t)

		b, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
		require.NoError(t, err)
		assert.Equal(t, "bk-0001", b.ID)
		assert.Equal(t, domain.BookingPending, b.Status)
		assert.Equal(t, testNow, b.CreatedAt)

		stored, err := store.Bookings.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b, stored)
	})

	t.Run("invalid requests are rejected before storage", func(t *testing.T) {
		svc, _ := setupTestService(t)

		for name, req := range map[string]CreateRequest{
			"missing host":      {UserID: "u1", From: 10, To: 20},
			"missing user":      {HostID: "h1", From: 10, To: 20},
			"inverted interval": {HostID: "h1", UserID: "u1", From: 20, To: 10},
			"empty interval":    {HostID: "h1", UserID: "u1", From: 10, To: 10},
			"unknown host too":  {HostID: "ghost", UserID: "u1", From: 20, To: 10},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Create(ctx, req)
				require.Error(t, err)
				assert.True(t, entitystore.IsInvalidArgument(err))
			})
		}
	})

	t.Run("unknown host is not found", func(t *testing.T) {
		svc, _ := setupTestService(t)
		_, err := svc.Create(ctx, CreateRequest{HostID: "ghost", UserID: "u1", From: 10, To: 20})
		assert.True(t, entitystore.IsNotFound(err))
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		svc, store := setupTestService(t)

		_, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u2", From: 15, To: 25})
		assert.True(t, entitystore.IsConflict(err))

		_, err = svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u2", From: 20, To: 30})
		assert.NoError(t, err, "touching intervals do not conflict")

		_, err = svc.Create(ctx, CreateRequest{HostID: "h2", UserID: "u2", From: 15, To: 25})
		assert.NoError(t, err, "other hosts are independent")

		all, err := store.Bookings.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("cancelled booking no longer blocks", func(t *testing.T) {
		svc, _ := setupTestService(t)

		b, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, b.ID)
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u2", From: 15, To: 25})
		assert.NoError(t, err)
	})

	t.Run("concurrent overlapping requests admit exactly one", func(t *testing.T) {
		svc, store := setupTestService(t)

		const requests = 8
		var wg sync.WaitGroup
		var created, conflicts atomic.Int64
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svc.Create(ctx, CreateRequest{
					HostID: "h1",
					UserID: fmt.Sprintf("u%d", i),
					From:   100 + int64(i),
					To:     200 + int64(i),
				})
				switch {
				case err == nil:
					created.Add(1)
				case entitystore.IsConflict(err):
					conflicts.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int64(1), created.Load())
		assert.Equal(t, int64(requests-1), conflicts.Load())

		bookings, err := store.Bookings.All(ctx)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()

	newBooking := func(t *testing.T, svc *Service) domain.Booking {
		b, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
		require.NoError(t, err)
		return b
	}

	t.Run("cancel is idempotent", func(t *testing.T) {
		svc, _ := setupTestService(t)
		b := newBooking(t, svc)

		first, err := svc.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, first.Status)

		second, err := svc.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("confirm then cancel", func(t *testing.T) {
		svc, _ := setupTestService(t)
		b := newBooking(t, svc)

		confirmed, err := svc.Confirm(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, confirmed.Status)

		_, err = svc.Reject(ctx, b.ID)
		assert.True(t, entitystore.IsConflict(err), "confirmed bookings cannot be rejected")

		cancelled, err := svc.Cancel(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	})

	t.Run("terminal bookings stay terminal", func(t *testing.T) {
		svc, store := setupTestService(t)
		b := newBooking(t, svc)

		_, err := svc.Reject(ctx, b.ID)
		require.NoError(t, err)

		_, err = svc.Confirm(ctx, b.ID)
		assert.True(t, entitystore.IsConflict(err))
		_, err = svc.Cancel(ctx, b.ID)
		assert.True(t, entitystore.IsConflict(err))

		stored, err := store.Bookings.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingRejected, stored.Status)
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, store := setupTestService(t)

		_, err := svc.Cancel(ctx, "missing")
		assert.True(t, entitystore.IsNotFound(err))

		ok, err := store.Bookings.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestService(t)

	_, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{HostID: "h2", UserID: "u2", From: 10, To: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{HostID: "h2", UserID: "u1", From: 30, To: 40})
	require.NoError(t, err)

	results, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "h1", results[0].HostID)
	require.NotNil(t, results[0].Host)
	assert.Equal(t, "Host One", results[0].Host.Name)
	assert.Equal(t, "Host Two", results[1].Host.Name)

	t.Run("missing host leaves the join empty", func(t *testing.T) {
		require.NoError(t, store.Hosts.Delete(ctx, "h1"))

		results, err := svc.ListForUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Nil(t, results[0].Host)
	})

	t.Run("user id is required", func(t *testing.T) {
		_, err := svc.ListForUser(ctx, "")
		assert.True(t, entitystore.IsInvalidArgument(err))
	})

	t.Run("user without bookings gets an empty list", func(t *testing.T) {
		results, err := svc.ListForUser(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestListForHost(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	_, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{HostID: "h2", UserID: "u2", From: 10, To: 20})
	require.NoError(t, err)

	results, err := svc.ListForHost(ctx, "h2")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u2", results[0].UserID)
}

func TestCreateOnSQLite(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewSQLiteStore(t)

	store, err := entities.New(backend)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSeed(ctx))

	svc := NewService(store, WithLocker(backend))

	// host-ava is booked for days 2..5 after the seed base.
	seeded, err := store.Bookings.Get(ctx, "b1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{HostID: "host-ava", UserID: "u3", From: seeded.From, To: seeded.To})
	assert.True(t, entitystore.IsConflict(err))

	b, err := svc.Create(ctx, CreateRequest{HostID: "host-ava", UserID: "u3", From: seeded.To, To: seeded.To + 1})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
}

func TestCreateAcrossSQLiteHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	var n atomic.Int64
	newID := func() string { return fmt.Sprintf("bk-%04d", n.Add(1)) }

	var services []*Service
	var stores []*entities.Store
	for i := 0; i < 2; i++ {
		backend := testutil.OpenSQLiteStore(t, path)
		store, err := entities.New(backend)
		require.NoError(t, err)
		stores = append(stores, store)
		services = append(services, NewService(store, WithLocker(backend), WithIDGenerator(newID)))
	}

	_, err := stores[0].Hosts.Create(ctx, domain.Host{ID: "h1", Name: "Host One"})
	require.NoError(t, err)

	const rounds = 5
	const requests = 8
	for round := 0; round < rounds; round++ {
		from := int64(1000 * (round + 1))

		var wg sync.WaitGroup
		var created atomic.Int64
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := services[i%2].Create(ctx, CreateRequest{
					HostID: "h1",
					UserID: fmt.Sprintf("u%d", i),
					From:   from + int64(i),
					To:     from + 100 + int64(i),
				})
				switch {
				case err == nil:
					created.Add(1)
				case entitystore.IsConflict(err):
				default:
					t.Errorf("round %d: unexpected error: %v", round, err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int64(1), created.Load(), "round %d", round)
	}

	all, err := stores[1].Bookings.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, rounds)
}

func TestCheckConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	_, err := svc.Create(ctx, CreateRequest{HostID: "h1", UserID: "u1", From: 10, To: 20})
	require.NoError(t, err)

	for name, tc := range map[string]struct {
		hostID   string
		from, to int64
		want     bool
	}{
		"overlap":        {"h1", 15, 25, true},
		"contained":      {"h1", 12, 18, true},
		"touching end":   {"h1", 20, 30, false},
		"touching start": {"h1", 0, 10, false},
		"other host":     {"h2", 15, 25, false},
		"unknown host":   {"ghost", 15, 25, false},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := svc.CheckConflict(ctx, tc.hostID, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("cancelled bookings are ignored", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{HostID: "h2", UserID: "u1", From: 50, To: 60})
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, b.ID)
		require.NoError(t, err)

		got, err := svc.CheckConflict(ctx, "h2", 50, 60)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		for name, tc := range map[string]struct {
			hostID   string
			from, to int64
		}{
			"missing host": {"", 10, 20},
			"inverted":     {"h1", 20, 10},
			"empty":        {"h1", 10, 10},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := svc.CheckConflict(ctx, tc.hostID, tc.from, tc.to)
				assert.True(t, entitystore.IsInvalidArgument(err))
			})
		}
	})
}
