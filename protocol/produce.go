package protocol

// ProduceWriter is the disk-write side of Produce (spec.md §4.D), kept
// behind an interface so protocol stays free of file I/O; broker wires a
// breaker-guarded implementation in produce_store.go.
type ProduceWriter interface {
	WriteRecordBatch(topicName string, partitionIndex int32, data []byte) error
}

// ProducePartitionRequest is one partition entry within a Produce topic.
type ProducePartitionRequest struct {
	Index         int32
	RecordBatches []byte
}

// ProduceTopicRequest is one topic entry within a Produce request.
type ProduceTopicRequest struct {
	Name       string
	Partitions []ProducePartitionRequest
}

// ProduceRequest is the decoded payload of a Produce (key 0) request.
type ProduceRequest struct {
	TransactionalID string
	Acks            int16
	Timeout         int32
	Topics          []ProduceTopicRequest
}

// DecodeProduceRequest parses payload.
func DecodeProduceRequest(payload []byte) (ProduceRequest, error) {
	pd := newRealDecoder(payload)

	var req ProduceRequest
	var err error
	if req.TransactionalID, err = pd.getCompactString(); err != nil {
		return ProduceRequest{}, err
	}
	if req.Acks, err = pd.getInt16(); err != nil {
		return ProduceRequest{}, err
	}
	if req.Timeout, err = pd.getInt32(); err != nil {
		return ProduceRequest{}, err
	}

	topicCount, err := pd.getCompactArrayLength()
	if err != nil {
		return ProduceRequest{}, err
	}
	req.Topics = make([]ProduceTopicRequest, topicCount)
	for i := range req.Topics {
		name, err := pd.getCompactString()
		if err != nil {
			return ProduceRequest{}, err
		}
		partitionCount, err := pd.getCompactArrayLength()
		if err != nil {
			return ProduceRequest{}, err
		}
		partitions := make([]ProducePartitionRequest, partitionCount)
		for j := range partitions {
			if partitions[j].Index, err = pd.getInt32(); err != nil {
				return ProduceRequest{}, err
			}
			if partitions[j].RecordBatches, err = pd.getCompactBytes(); err != nil {
				return ProduceRequest{}, err
			}
			if err := pd.getTagBuffer(); err != nil {
				return ProduceRequest{}, err
			}
		}
		if err := pd.getTagBuffer(); err != nil {
			return ProduceRequest{}, err
		}
		req.Topics[i] = ProduceTopicRequest{Name: name, Partitions: partitions}
	}

	if err := pd.getTagBuffer(); err != nil {
		return ProduceRequest{}, err
	}

	return req, nil
}

// HandleProduce builds the Produce response body. For each (topic, partition)
// it resolves the topic through store and, if known, writes the raw record
// batch bytes through writer - the one synchronous, best-effort disk
// operation a handler performs (spec.md §4.E).
func HandleProduce(header RequestHeader, req ProduceRequest, store MetadataStore, writer ProduceWriter) []byte {
	pe := newRealEncoder()
	pe.putInt32(header.CorrelationID)
	pe.putTagBuffer()

	pe.putCompactArrayLength(len(req.Topics))
	for _, topic := range req.Topics {
		pe.putCompactString(topic.Name)
		pe.putCompactArrayLength(len(topic.Partitions))
		for _, part := range topic.Partitions {
			encodeProducePartitionResult(pe, store, writer, topic.Name, part)
		}
		pe.putTagBuffer()
	}

	pe.putInt32(0) // throttle_time_ms
	pe.putTagBuffer()

	return pe.bytes()
}

func encodeProducePartitionResult(pe *realEncoder, store MetadataStore, writer ProduceWriter, topicName string, part ProducePartitionRequest) {
	topicID, known := store.TopicUUID(topicName)
	if !known || !store.ValidPartition(topicID, part.Index) {
		pe.putInt32(part.Index)
		pe.putInt16(int16(ErrUnknownTopicOrPartition))
		pe.putInt64(-1) // base_offset
		pe.putInt64(-1) // log_append_time
		pe.putInt64(-1) // log_start_offset
		pe.putCompactArrayLength(0)
		pe.putNullableCompactString(nil) // error_message
		pe.putTagBuffer()
		return
	}

	errCode := ErrNone
	if err := writer.WriteRecordBatch(topicName, part.Index, part.RecordBatches); err != nil {
		errCode = ErrUnknownServerError
	}

	pe.putInt32(part.Index)
	pe.putInt16(int16(errCode))
	pe.putInt64(0)  // base_offset
	pe.putInt64(-1) // log_append_time
	pe.putInt64(0)  // log_start_offset
	pe.putCompactArrayLength(0)
	pe.putNullableCompactString(nil) // error_message
	pe.putTagBuffer()
}
