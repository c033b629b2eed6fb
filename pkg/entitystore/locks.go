package entitystore

import (
	"context"
	"sync"
)

// keyedMutex is a lock table keyed by string. Entries are reference counted
// and dropped once no goroutine holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// lock blocks until key is acquired or ctx is done.
func (k *keyedMutex) lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

func (k *keyedMutex) release(key string, e *keyedEntry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// LocalLocker is a process-local Locker. Backends that can be shared between
// processes put their own lease behind it, as sqlitestore does.
type LocalLocker struct {
	km *keyedMutex
}

// NewLocalLocker creates an empty process-local lock table.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{km: newKeyedMutex()}
}

// Lock implements Locker.
func (l *LocalLocker) Lock(ctx context.Context, name string) (func(), error) {
	return l.km.lock(ctx, name)
}
