package syncq

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// State describes the persistence sync state of a key
type State string

const (
	StateSynced  State = "synced"
	StatePending State = "pending"
	StateFailed  State = "failed"
)

const defaultQueueSize = 64

// Queue runs persistence writes asynchronously while keeping writes
// for the same key in submission order. A failed write is retried
// once; a write that fails again is dropped and recorded in the sync
// state, it never surfaces as a mutation error to the caller.
type Queue struct {
	mu      sync.Mutex
	workers map[string]chan task
	states  map[string]State
	group   *errgroup.Group
	closed  bool
}

type task struct {
	ctx context.Context
	op  func(ctx context.Context) error
}

func New() *Queue {
	return &Queue{
		workers: make(map[string]chan task),
		states:  make(map[string]State),
		group:   &errgroup.Group{},
	}
}

// Enqueue submits a write for the key. Writes for the same key run in
// submission order; writes for different keys run concurrently.
func (q *Queue) Enqueue(ctx context.Context, key string, op func(ctx context.Context) error) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return goerr.New("sync queue is closed", goerr.V("key", key))
	}

	ch, exists := q.workers[key]
	if !exists {
		ch = make(chan task, defaultQueueSize)
		q.workers[key] = ch
		q.group.Go(func() error {
			q.run(key, ch)
			return nil
		})
	}
	q.states[key] = StatePending
	q.mu.Unlock()

	bgCtx := logging.With(context.Background(), logging.From(ctx))

	select {
	case ch <- task{ctx: bgCtx, op: op}:
		return nil
	default:
		// Queue is saturated for this key, shed the write
		q.setState(key, StateFailed)
		return goerr.New("sync queue is full", goerr.V("key", key))
	}
}

func (q *Queue) run(key string, ch chan task) {
	for t := range ch {
		err := t.op(t.ctx)
		if err != nil {
			// One retry for transient store failures
			err = t.op(t.ctx)
		}
		if err != nil {
			logging.From(t.ctx).Warn("persistence write failed, keeping local state",
				"key", key,
				"error", err.Error(),
			)
			q.setState(key, StateFailed)
			continue
		}
		q.setStateIfIdle(key, ch, StateSynced)
	}
}

func (q *Queue) setState(key string, st State) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.states[key] = st
}

// setStateIfIdle marks the key synced only when no later write is queued
func (q *Queue) setStateIfIdle(key string, ch chan task, st State) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(ch) == 0 {
		q.states[key] = st
	}
}

// SyncState reports whether the key's writes have reached the store.
// Unknown keys report as synced.
func (q *Queue) SyncState(key string) State {
	q.mu.Lock()
	defer q.mu.Unlock()

	if st, exists := q.states[key]; exists {
		return st
	}
	return StateSynced
}

// Close drains all pending writes and stops the workers
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for _, ch := range q.workers {
		close(ch)
	}
	q.mu.Unlock()

	return q.group.Wait()
}
