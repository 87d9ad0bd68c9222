// Command kafka-broker runs the wire-protocol broker described in
// spec.md: it loads the cluster-metadata log, then serves ApiVersions,
// DescribeTopicPartitions, Fetch and Produce over a plain TCP listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/tyrannican/kafka-broker/broker"
	"github.com/tyrannican/kafka-broker/metadatalog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config := broker.NewConfig()

	flag.StringVar(&config.ListenAddr, "listen", config.ListenAddr, "TCP address to accept connections on")
	flag.StringVar(&config.MetadataLogPath, "metadata-log", config.MetadataLogPath, "path to the cluster-metadata log")
	flag.StringVar(&config.LogDir, "log-dir", config.LogDir, "root directory partition segments live under")
	flag.IntVar(&config.WorkerCount, "workers", config.WorkerCount, "number of request workers")
	flag.IntVar(&config.QueueCapacity, "queue-capacity", config.QueueCapacity, "bounded request queue depth")
	flag.IntVar(&config.MaxConnections, "max-connections", config.MaxConnections, "maximum concurrent connections (0 = unlimited)")
	flag.Parse()

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, warnings := metadatalog.Load(config.MetadataLogPath, config.LogDir)
	if store == nil {
		return fmt.Errorf("loading cluster metadata log: %w", warnings)
	}
	if warnings != nil {
		// Malformed batches drop only themselves (spec.md §4.C); the
		// store built from everything else is still usable.
		fmt.Fprintf(os.Stderr, "kafka-broker: metadata log warnings: %v\n", warnings)
	}

	writer := broker.NewFileProduceWriter(config.LogDir)
	mx := broker.NewMetrics(gometrics.NewRegistry())
	server := broker.NewServer(config, store, writer, mx)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Start(ctx)
}
