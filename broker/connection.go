package broker

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/tyrannican/kafka-broker/internal/requestqueue"
	"github.com/tyrannican/kafka-broker/protocol"
)

// handleConnection is the per-connection loop: read one framed request,
// hand it to the worker pool, wait for the single reply, write it back,
// and repeat until the client disconnects or ctx is canceled. It mirrors
// ConnectionHandler::handle_connection from the Rust reference server:
// one request in flight per connection at a time, with the queue and
// worker pool providing the concurrency across connections.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	for {
		body, err := protocol.ReadFrame(conn, s.config.MaxFrameBytes)
		if err != nil {
			if !isExpectedCloseErr(err) {
				logf("broker: reading request from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		req, err := protocol.ParseRequest(body)
		if err != nil {
			logf("broker: parsing request from %s: %v", conn.RemoteAddr(), err)
			return
		}

		reply := make(chan requestqueue.Result, 1)
		job := requestqueue.Job{
			Handle: func() ([]byte, error) {
				return s.dispatcher.Handle(req)
			},
			Reply: reply,
		}

		if err := s.queue.Push(ctx, job); err != nil {
			logf("broker: enqueuing request from %s: %v", conn.RemoteAddr(), err)
			return
		}

		select {
		case result := <-reply:
			if result.Err != nil {
				// A handler-internal parse error means the client sent a
				// malformed payload. It cannot be safely answered, so the
				// connection is closed rather than given a synthesized
				// response (spec.md §9).
				logf("broker: handling api_key %d request from %s: %v", req.Header.ApiKey, conn.RemoteAddr(), result.Err)
				return
			}
			if err := protocol.WriteFrame(conn, result.Resp); err != nil {
				logf("broker: writing response to %s: %v", conn.RemoteAddr(), err)
				return
			}
		case <-time.After(s.config.RequestTimeout):
			logf("broker: request from %s timed out after %s", conn.RemoteAddr(), s.config.RequestTimeout)
			return
		case <-ctx.Done():
			return
		}
	}
}

func isExpectedCloseErr(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
