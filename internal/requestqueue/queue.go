// Package requestqueue provides the bounded fan-out queue that sits between
// a connection's reader and the fixed worker pool that serves it (spec.md
// §5 "Connection model": "a bounded fan-out queue... a fixed pool of
// workers"). The buffer itself is github.com/eapache/queue, sarama's own
// ring-buffer queue; this package adds the blocking, context-aware
// push/pop sarama doesn't need (sarama queues in-process Go values, never
// across a network boundary with a cancelable caller).
package requestqueue

import (
	"context"
	"errors"
	"sync"

	"github.com/eapache/queue"
)

// ErrClosed is returned by Push once the queue has been closed.
var ErrClosed = errors.New("requestqueue: queue closed")

// Job is one unit of work moving through the queue: a parsed request
// together with the single-use reply channel its connection is waiting on.
type Job struct {
	Handle func() ([]byte, error)
	Reply  chan<- Result
}

// Result is what a worker sends back on Job.Reply once Handle returns: the
// framed-ready response body, or the error Handle failed with. Err and Resp
// are never both set - a caller checks Err first.
type Result struct {
	Resp []byte
	Err  error
}

// Queue is a bounded, blocking multi-producer/multi-consumer job queue.
// Push blocks while the queue is at capacity; Pop blocks while it is
// empty. Both unblock on ctx cancellation or Close.
type Queue struct {
	mu       sync.Mutex
	buf      *queue.Queue
	capacity int
	closed   bool
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New returns a Queue that blocks producers once capacity jobs are queued.
func New(capacity int) *Queue {
	return &Queue{
		buf:      queue.New(),
		capacity: capacity,
		notEmpty: make(chan struct{}),
		notFull:  make(chan struct{}),
	}
}

// Push enqueues job, blocking while the queue is full. It returns
// ctx.Err() if ctx is canceled first, or ErrClosed if the queue is closed.
func (q *Queue) Push(ctx context.Context, job Job) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrClosed
		}
		if q.buf.Length() < q.capacity {
			q.buf.Add(job)
			q.wake(&q.notEmpty)
			q.mu.Unlock()
			return nil
		}
		wait := q.notFull
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pop removes and returns the oldest job, blocking while the queue is
// empty. It returns ok=false once the queue is closed with nothing left
// to drain, or if ctx is canceled first.
func (q *Queue) Pop(ctx context.Context) (Job, bool) {
	for {
		q.mu.Lock()
		if q.buf.Length() > 0 {
			job := q.buf.Peek().(Job)
			q.buf.Remove()
			if !q.closed {
				// Close already closed notFull; closing it again would panic.
				q.wake(&q.notFull)
			}
			q.mu.Unlock()
			return job, true
		}
		if q.closed {
			q.mu.Unlock()
			return Job{}, false
		}
		wait := q.notEmpty
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return Job{}, false
		}
	}
}

// Close wakes every blocked Push/Pop. Jobs already buffered are still
// returned by Pop until the buffer is empty; only after that does Pop
// start reporting ok=false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.notEmpty)
	close(q.notFull)
}

// wake closes *ch to release every current waiter, then installs a fresh
// channel for the next generation of waiters.
func (q *Queue) wake(ch *chan struct{}) {
	close(*ch)
	*ch = make(chan struct{})
}
