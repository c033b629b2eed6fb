package entitystore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("serializes holders of one key", func(t *testing.T) {
		km := newKeyedMutex()
		ctx := context.Background()

		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := km.lock(ctx, "k")
				if !assert.NoError(t, err) {
					return
				}
				v := counter
				time.Sleep(time.Millisecond)
				counter = v + 1
				unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, 20, counter)
		assert.Empty(t, km.locks)
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		km := newKeyedMutex()
		ctx := context.Background()

		unlockA, err := km.lock(ctx, "a")
		require.NoError(t, err)
		defer unlockA()

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := km.lock(ctx, "b")
		require.NoError(t, err)
		unlockB()
	})

	t.Run("waiter gives up when context is done", func(t *testing.T) {
		km := newKeyedMutex()
		unlock, err := km.lock(context.Background(), "k")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = km.lock(ctx, "k")
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		unlock()
		unlock() // second call is a no-op
		assert.Empty(t, km.locks)
	})
}

func TestLocalLocker(t *testing.T) {
	locker := NewLocalLocker()
	unlock, err := locker.Lock(context.Background(), "host:h1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "host:h1")
	assert.Error(t, err)

	unlock()
	unlock, err = locker.Lock(context.Background(), "host:h1")
	require.NoError(t, err)
	unlock()
}
