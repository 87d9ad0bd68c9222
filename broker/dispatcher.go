// Package broker implements the connection acceptor, worker pool and
// dispatcher described in spec.md §4.E-F: components that sit above the
// wire codec in package protocol and the read-only index in metadatalog.
package broker

import (
	"fmt"

	"github.com/tyrannican/kafka-broker/protocol"
)

// Dispatcher resolves an api_key to its handler and enforces the declared
// version range (spec.md §4.E). It holds no per-request state; every worker
// shares one Dispatcher built once at server construction.
type Dispatcher struct {
	store  protocol.MetadataStore
	writer protocol.ProduceWriter
	mx     *Metrics
}

// NewDispatcher builds a Dispatcher over a read-only metadata store and a
// produce writer. Both are shared, immutable-after-construction handles.
func NewDispatcher(store protocol.MetadataStore, writer protocol.ProduceWriter, mx *Metrics) *Dispatcher {
	return &Dispatcher{store: store, writer: writer, mx: mx}
}

// Handle dispatches req and returns the framed-ready response body (the
// bytes a worker prepends with the frame length, per spec.md §4.B/E). The
// only error it returns is a payload-decode failure, which callers must
// treat as connection-fatal (spec.md §7).
func (d *Dispatcher) Handle(req protocol.Request) ([]byte, error) {
	header := req.Header
	d.mx.RequestReceived(header.ApiKey)

	if header.ApiKey == protocol.ApiKeyUnsupported || !isSupported(header) {
		return protocol.UnsupportedVersionResponse(header.CorrelationID), nil
	}

	switch header.ApiKey {
	case protocol.ApiKeyApiVersions:
		return protocol.HandleApiVersions(header), nil

	case protocol.ApiKeyDescribeTopicPartitions:
		parsed, err := protocol.DecodeDescribeTopicPartitionsRequest(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode DescribeTopicPartitions: %w", err)
		}
		return protocol.HandleDescribeTopicPartitions(header, parsed, d.store), nil

	case protocol.ApiKeyFetch:
		parsed, err := protocol.DecodeFetchRequest(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode Fetch: %w", err)
		}
		resp := protocol.HandleFetch(header, parsed, d.store)
		d.mx.FetchServed(parsed, d.store)
		return resp, nil

	case protocol.ApiKeyProduce:
		parsed, err := protocol.DecodeProduceRequest(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode Produce: %w", err)
		}
		resp := protocol.HandleProduce(header, parsed, d.store, d.writer)
		d.mx.ProduceServed(parsed)
		return resp, nil

	default:
		// Every key in the supported set is handled above; reaching this
		// means supportedAPIs and this switch have drifted apart.
		return protocol.UnsupportedVersionResponse(header.CorrelationID), nil
	}
}

func isSupported(header protocol.RequestHeader) bool {
	switch header.ApiKey {
	case protocol.ApiKeyApiVersions, protocol.ApiKeyDescribeTopicPartitions, protocol.ApiKeyFetch, protocol.ApiKeyProduce:
		return protocol.IsSupportedVersion(header.ApiKey, header.ApiVersion)
	default:
		return false
	}
}
