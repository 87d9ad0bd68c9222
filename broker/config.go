package broker

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Config collects the tunables spec.md §5 and §6 leave as deployment
// knobs: listen address, worker pool size, queue depth, frame limits and
// the on-disk paths the metadata log and partition segments live under.
// It mirrors sarama's Config: a single struct with a NewConfig
// constructor that fills in defaults, and a Validate method that
// accumulates every problem instead of stopping at the first one.
type Config struct {
	// ListenAddr is the TCP address the broker accepts connections on.
	ListenAddr string

	// MetadataLogPath is the fixed cluster-metadata log file read once at
	// startup (spec.md §4.C).
	MetadataLogPath string

	// LogDir is the root directory partition segments live under
	// (spec.md §6): <LogDir>/<topic>-<partition>/00000000000000000000.log
	LogDir string

	// WorkerCount is the number of fixed workers draining the request
	// queue (spec.md §5: "a fixed pool of workers").
	WorkerCount int

	// QueueCapacity bounds the fan-out queue between connections and
	// workers (spec.md §5: "a bounded fan-out queue").
	QueueCapacity int

	// MaxConnections caps concurrently accepted connections. Zero means
	// unlimited.
	MaxConnections int

	// MaxFrameBytes bounds a single request's message_size field
	// (spec.md §2).
	MaxFrameBytes int32

	// RequestTimeout bounds how long a connection waits for its reply
	// before the connection is dropped.
	RequestTimeout time.Duration
}

// NewConfig returns a Config with spec.md's defaults filled in: a
// worker pool of 10 (spec.md §5), a queue depth generous enough not to
// backpressure a single connection under normal load, and the fixed
// KRaft log paths spec.md §4.C/§6 name.
func NewConfig() *Config {
	return &Config{
		ListenAddr:      ":9092",
		MetadataLogPath: "/tmp/kraft-combined-logs/__cluster_metadata-0/00000000000000000000.log",
		LogDir:          "/tmp/kraft-combined-logs",
		WorkerCount:     10,
		QueueCapacity:   256,
		MaxConnections:  0,
		MaxFrameBytes:   16 * 1024 * 1024,
		RequestTimeout:  30 * time.Second,
	}
}

// Validate reports every configuration problem at once via
// hashicorp/go-multierror, the way sarama's Config.Validate does, rather
// than returning on the first failure.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.ListenAddr == "" {
		errs = multierror.Append(errs, fmt.Errorf("broker: ListenAddr must not be empty"))
	}
	if c.MetadataLogPath == "" {
		errs = multierror.Append(errs, fmt.Errorf("broker: MetadataLogPath must not be empty"))
	}
	if c.LogDir == "" {
		errs = multierror.Append(errs, fmt.Errorf("broker: LogDir must not be empty"))
	}
	if c.WorkerCount <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("broker: WorkerCount must be positive, got %d", c.WorkerCount))
	}
	if c.QueueCapacity <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("broker: QueueCapacity must be positive, got %d", c.QueueCapacity))
	}
	if c.MaxConnections < 0 {
		errs = multierror.Append(errs, fmt.Errorf("broker: MaxConnections must not be negative, got %d", c.MaxConnections))
	}
	if c.MaxFrameBytes <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("broker: MaxFrameBytes must be positive, got %d", c.MaxFrameBytes))
	}
	if c.RequestTimeout <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("broker: RequestTimeout must be positive, got %s", c.RequestTimeout))
	}

	return errs.ErrorOrNil()
}
