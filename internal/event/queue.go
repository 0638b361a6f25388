package event

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultWriteTimeout = 10 * time.Second

// writeQueue persists snapshots of one collection in the background.
// Enqueue never blocks. A newer snapshot replaces one that has not been
// written yet, so the last write always wins. At most one write per queue
// is in flight.
type writeQueue[T any] struct {
	name    string
	write   func(ctx context.Context, snapshot []T) error
	logger  *slog.Logger
	timeout time.Duration

	mu         sync.Mutex
	pending    []T
	hasPending bool
	busy       bool
	idle       chan struct{} // closed when busy goes false
}

func newWriteQueue[T any](name string, write func(context.Context, []T) error, logger *slog.Logger) *writeQueue[T] {
	return &writeQueue[T]{
		name:    name,
		write:   write,
		logger:  logger,
		timeout: defaultWriteTimeout,
	}
}

// enqueue schedules snapshot for writing. snapshot must not be modified afterwards.
func (q *writeQueue[T]) enqueue(snapshot []T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = snapshot
	q.hasPending = true
	if q.busy {
		return
	}
	q.busy = true
	q.idle = make(chan struct{})
	go q.drain()
}

func (q *writeQueue[T]) drain() {
	for {
		q.mu.Lock()
		if !q.hasPending {
			q.busy = false
			close(q.idle)
			q.mu.Unlock()
			return
		}
		snapshot := q.pending
		q.pending = nil
		q.hasPending = false
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if err := q.write(ctx, snapshot); err != nil {
			q.logger.Warn("persist failed", "collection", q.name, "error", err)
		}
		cancel()
	}
}

// flush waits until every snapshot enqueued so far has been written.
func (q *writeQueue[T]) flush(ctx context.Context) error {
	q.mu.Lock()
	if !q.busy {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
