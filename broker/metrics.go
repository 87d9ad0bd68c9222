package broker

import (
	"fmt"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/tyrannican/kafka-broker/protocol"
)

// Metrics wraps a go-metrics Registry with the per-API and per-topic meters
// this broker cares about, in the same getOrRegister* style the teacher uses
// in fetch_request.go's getOrRegisterTopicMeter call.
type Metrics struct {
	registry gometrics.Registry
}

// NewMetrics builds a Metrics over registry, or a fresh private registry if
// registry is nil - mirroring sarama's Config.MetricRegistry default.
func NewMetrics(registry gometrics.Registry) *Metrics {
	if registry == nil {
		registry = gometrics.NewRegistry()
	}
	return &Metrics{registry: registry}
}

// Registry exposes the underlying go-metrics registry for embedders that
// want to export it (e.g. via metrics/graphite, as sarama's own consumers
// commonly do).
func (m *Metrics) Registry() gometrics.Registry {
	return m.registry
}

func (m *Metrics) requestMeter(apiKey protocol.ApiKey) gometrics.Meter {
	name := fmt.Sprintf("requests-%d", apiKey)
	return gometrics.GetOrRegisterMeter(name, m.registry)
}

// RequestReceived marks one request dispatched for apiKey, regardless of
// whether the version is supported.
func (m *Metrics) RequestReceived(apiKey protocol.ApiKey) {
	m.requestMeter(apiKey).Mark(1)
}

func topicMeter(registry gometrics.Registry, prefix, topic string) gometrics.Meter {
	name := fmt.Sprintf("%s-for-topic-%s", prefix, topic)
	return gometrics.GetOrRegisterMeter(name, registry)
}

// FetchServed marks one fetch-rate tick per requested topic and a
// byte-count tick sized to what was actually read off disk for each
// partition, letting operators see hot topics the same way sarama's
// consumer-side meters do.
func (m *Metrics) FetchServed(req protocol.FetchRequest, store protocol.MetadataStore) {
	for _, topic := range req.Topics {
		topicMeter(m.registry, "fetch-rate", topic.TopicUUID.String()).Mark(1)
		for _, part := range topic.Partitions {
			if data, ok := store.ReadLogRecords(topic.TopicUUID, part.PartitionID); ok {
				topicMeter(m.registry, "fetch-bytes-total", topic.TopicUUID.String()).Mark(int64(len(data)))
			}
		}
	}
}

// ProduceServed marks one produce-rate tick per topic and a byte-count tick
// per partition's record batch payload.
func (m *Metrics) ProduceServed(req protocol.ProduceRequest) {
	for _, topic := range req.Topics {
		topicMeter(m.registry, "produce-rate", topic.Name).Mark(1)
		for _, part := range topic.Partitions {
			topicMeter(m.registry, "produce-bytes-total", topic.Name).Mark(int64(len(part.RecordBatches)))
		}
	}
}
