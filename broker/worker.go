package broker

import (
	"context"

	"github.com/tyrannican/kafka-broker/internal/requestqueue"
)

// runWorker pops jobs off the shared queue and runs them until ctx is
// canceled or the queue is closed and drained - the same shape as the
// reference server's ServerWorker::start loop, just with a fixed Go
// worker pool in place of WORKER_COUNT spawned tokio tasks.
func runWorker(ctx context.Context, q *requestqueue.Queue) {
	for {
		job, ok := q.Pop(ctx)
		if !ok {
			return
		}

		resp, err := job.Handle()
		select {
		case job.Reply <- requestqueue.Result{Resp: resp, Err: err}:
		default:
			// The connection gave up waiting (ctx canceled); drop the
			// reply rather than block a worker on an abandoned channel.
		}
	}
}
