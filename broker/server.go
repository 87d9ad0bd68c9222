package broker

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/tyrannican/kafka-broker/internal/requestqueue"
	"github.com/tyrannican/kafka-broker/protocol"
)

// Server owns the listener, the fan-out queue, and the fixed worker pool
// described in spec.md §5: "acceptor task -> per-connection task ->
// bounded fan-out queue -> fixed pool of workers -> per-request reply
// channel -> framed write back". It is the Go-native restatement of the
// reference server's Server/ServerWorker pair, generalized to a real
// net.Listener accept loop instead of a single pre-bound socket.
type Server struct {
	config     *Config
	dispatcher *Dispatcher
	queue      *requestqueue.Queue

	listener net.Listener
}

// NewServer wires a Server around store and writer; it does not start
// accepting connections until Start is called.
func NewServer(config *Config, store protocol.MetadataStore, writer protocol.ProduceWriter, mx *Metrics) *Server {
	return &Server{
		config:     config,
		dispatcher: NewDispatcher(store, writer, mx),
		queue:      requestqueue.New(config.QueueCapacity),
	}
}

// Start binds the listener, launches the worker pool and the accept
// loop, and blocks until ctx is canceled or an unrecoverable error
// occurs. Every goroutine it spawns is supervised by an errgroup, the
// same "one failure stops the group" discipline sarama's admin client
// uses around its batches of concurrent broker calls.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("broker: listening on %s: %w", s.config.ListenAddr, err)
	}
	if s.config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.config.MaxConnections)
	}
	s.listener = ln
	logf("broker: listening on %s", ln.Addr())

	group, gctx := errgroup.WithContext(ctx)

	for i := 0; i < s.config.WorkerCount; i++ {
		group.Go(func() error {
			runWorker(gctx, s.queue)
			return nil
		})
	}

	group.Go(func() error {
		return s.accept(gctx)
	})

	group.Go(func() error {
		<-gctx.Done()
		s.queue.Close()
		return s.listener.Close()
	})

	err = group.Wait()
	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// accept runs the acceptor loop: one goroutine per connection, each
// reading requests and depositing them on the shared queue.
func (s *Server) accept(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("broker: accept: %w", err)
		}

		go s.handleConnection(ctx, conn)
	}
}

// Stop closes the listener; in-flight connections observe ctx
// cancellation passed to Start and exit on their own.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
