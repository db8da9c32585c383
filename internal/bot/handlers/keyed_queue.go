package handlers

import (
	"context"
	"sync"
)

// KeyedQueue runs functions one at a time per key, in arrival order.
// Different keys run concurrently.
type KeyedQueue struct {
	mu     sync.Mutex
	chains map[int64]chan struct{}
}

// NewKeyedQueue creates an empty KeyedQueue.
func NewKeyedQueue() *KeyedQueue {
	return &KeyedQueue{chains: map[int64]chan struct{}{}}
}

// Run waits for earlier work on key, then calls fn. It returns ctx.Err()
// without calling fn if ctx ends while waiting.
func (q *KeyedQueue) Run(ctx context.Context, key int64, fn func(context.Context) error) error {
	q.mu.Lock()
	previous := q.chains[key]
	next := make(chan struct{})
	q.chains[key] = next
	q.mu.Unlock()

	if previous != nil {
		select {
		case <-previous:
		case <-ctx.Done():
			// Later callers are chained behind next, so it may only close
			// once previous is done.
			go func() {
				<-previous
				q.release(key, next)
			}()
			return ctx.Err()
		}
	}

	defer q.release(key, next)
	return fn(ctx)
}

// Pending returns the number of keys with queued or running work.
func (q *KeyedQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chains)
}

func (q *KeyedQueue) release(key int64, done chan struct{}) {
	close(done)
	q.mu.Lock()
	if q.chains[key] == done {
		delete(q.chains, key)
	}
	q.mu.Unlock()
}
