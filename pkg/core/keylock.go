package core

import (
	"context"
	"sync"
)

// keyLocks holds one process-wide semaphore per key, reference counted so
// that keys nobody waits on are dropped.
var keyLocks = struct {
	sync.Mutex
	m map[string]*keyLock
}{m: make(map[string]*keyLock)}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// LockKey acquires the process-wide lock for key, blocking until it is free or
// ctx is done. Stores key it by the artifact they persist to, so every
// Repository over the same file shares one exclusion scope.
func LockKey(ctx context.Context, key string) (func(), error) {
	keyLocks.Lock()
	l, ok := keyLocks.m[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		keyLocks.m[key] = l
	}
	l.refs++
	keyLocks.Unlock()

	release := func() {
		keyLocks.Lock()
		l.refs--
		if l.refs == 0 {
			delete(keyLocks.m, key)
		}
		keyLocks.Unlock()
	}

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		release()
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			release()
		})
	}, nil
}
