package protocol

import "github.com/google/uuid"

// FetchPartitionRequest is one requested partition within a Fetch request's
// topic entry (spec.md §4.D; field order follows original_source's
// request/fetch.rs).
type FetchPartitionRequest struct {
	PartitionID        int32
	CurrentLeaderEpoch int32
	FetchOffset        int64
	LastFetchedEpoch   int32
	LogStartOffset     int64
	PartitionMaxBytes  int32
}

// FetchTopicRequest is one requested topic within a Fetch request.
type FetchTopicRequest struct {
	TopicUUID  uuid.UUID
	Partitions []FetchPartitionRequest
}

// FetchRequest is the decoded payload of a Fetch (key 1, versions 0-16)
// request.
type FetchRequest struct {
	MaxWaitMs    int32
	MinBytes     int32
	MaxBytes     int32
	Isolation    int8
	SessionID    int32
	SessionEpoch int32
	Topics       []FetchTopicRequest
	RackID       string
}

// DecodeFetchRequest parses payload.
func DecodeFetchRequest(payload []byte) (FetchRequest, error) {
	pd := newRealDecoder(payload)

	var req FetchRequest
	var err error
	if req.MaxWaitMs, err = pd.getInt32(); err != nil {
		return FetchRequest{}, err
	}
	if req.MinBytes, err = pd.getInt32(); err != nil {
		return FetchRequest{}, err
	}
	if req.MaxBytes, err = pd.getInt32(); err != nil {
		return FetchRequest{}, err
	}
	if req.Isolation, err = pd.getInt8(); err != nil {
		return FetchRequest{}, err
	}
	if req.SessionID, err = pd.getInt32(); err != nil {
		return FetchRequest{}, err
	}
	if req.SessionEpoch, err = pd.getInt32(); err != nil {
		return FetchRequest{}, err
	}

	topicCount, err := pd.getCompactArrayLength()
	if err != nil {
		return FetchRequest{}, err
	}
	req.Topics = make([]FetchTopicRequest, topicCount)
	for i := range req.Topics {
		topicUUID, err := pd.getUUID()
		if err != nil {
			return FetchRequest{}, err
		}
		partitionCount, err := pd.getCompactArrayLength()
		if err != nil {
			return FetchRequest{}, err
		}
		partitions := make([]FetchPartitionRequest, partitionCount)
		for j := range partitions {
			p := &partitions[j]
			if p.PartitionID, err = pd.getInt32(); err != nil {
				return FetchRequest{}, err
			}
			if p.CurrentLeaderEpoch, err = pd.getInt32(); err != nil {
				return FetchRequest{}, err
			}
			if p.FetchOffset, err = pd.getInt64(); err != nil {
				return FetchRequest{}, err
			}
			if p.LastFetchedEpoch, err = pd.getInt32(); err != nil {
				return FetchRequest{}, err
			}
			if p.LogStartOffset, err = pd.getInt64(); err != nil {
				return FetchRequest{}, err
			}
			if p.PartitionMaxBytes, err = pd.getInt32(); err != nil {
				return FetchRequest{}, err
			}
		}
		if err := pd.getTagBuffer(); err != nil {
			return FetchRequest{}, err
		}
		req.Topics[i] = FetchTopicRequest{TopicUUID: topicUUID, Partitions: partitions}
	}

	forgottenCount, err := pd.getCompactArrayLength()
	if err != nil {
		return FetchRequest{}, err
	}
	for i := 0; i < forgottenCount; i++ {
		if _, err := pd.getUUID(); err != nil {
			return FetchRequest{}, err
		}
		if _, err := pd.getInt32(); err != nil {
			return FetchRequest{}, err
		}
	}

	if req.RackID, err = pd.getCompactString(); err != nil {
		return FetchRequest{}, err
	}
	if err := pd.getTagBuffer(); err != nil {
		return FetchRequest{}, err
	}

	return req, nil
}

// HandleFetch builds the Fetch response body, reading raw log bytes for
// every known (topic, partition) pair through store (spec.md §4.D).
func HandleFetch(header RequestHeader, req FetchRequest, store MetadataStore) []byte {
	pe := newRealEncoder()
	pe.putInt32(header.CorrelationID)
	pe.putTagBuffer()
	pe.putInt32(0) // throttle_time_ms
	pe.putInt16(int16(ErrNone))
	pe.putInt32(req.SessionID)

	pe.putCompactArrayLength(len(req.Topics))
	for _, topic := range req.Topics {
		encodeFetchTopicResponse(pe, topic, store)
	}
	pe.putTagBuffer()

	return pe.bytes()
}

func encodeFetchTopicResponse(pe *realEncoder, topic FetchTopicRequest, store MetadataStore) {
	pe.putUUID(topic.TopicUUID)

	if !store.HasTopic(topic.TopicUUID) {
		pe.putCompactArrayLength(1)
		pe.putInt32(0) // partition_id
		pe.putInt16(int16(ErrUnknownTopicID))
		pe.putInt64(0) // high_watermark
		pe.putInt64(0) // last_stable_offset
		pe.putInt64(0) // log_start_offset
		pe.putCompactArrayLength(0) // aborted_transactions
		pe.putInt32(0)              // preferred_read_replica
		pe.putCompactBytes(nil)     // records
		pe.putTagBuffer()
		pe.putTagBuffer()
		return
	}

	pe.putCompactArrayLength(len(topic.Partitions))
	for _, part := range topic.Partitions {
		pe.putInt32(part.PartitionID)
		pe.putInt16(int16(ErrNone))
		pe.putInt64(0) // high_watermark
		pe.putInt64(0) // last_stable_offset
		pe.putInt64(0) // log_start_offset
		pe.putCompactArrayLength(0) // aborted_transactions
		pe.putInt32(0)              // preferred_read_replica

		records, _ := store.ReadLogRecords(topic.TopicUUID, part.PartitionID)
		pe.putCompactBytes(records)
		pe.putTagBuffer()
	}
	pe.putTagBuffer()
}
