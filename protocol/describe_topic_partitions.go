package protocol

import (
	"sort"

	"github.com/google/uuid"
)

// DescribeTopicPartitionsRequest is the decoded payload of a
// DescribeTopicPartitions (key 75, version 0) request (spec.md §4.D).
type DescribeTopicPartitionsRequest struct {
	TopicNames     []string
	PartitionLimit int32
	Cursor         int8
}

// DecodeDescribeTopicPartitionsRequest parses payload.
func DecodeDescribeTopicPartitionsRequest(payload []byte) (DescribeTopicPartitionsRequest, error) {
	pd := newRealDecoder(payload)

	n, err := pd.getCompactArrayLength()
	if err != nil {
		return DescribeTopicPartitionsRequest{}, err
	}

	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, err := pd.getCompactString()
		if err != nil {
			return DescribeTopicPartitionsRequest{}, err
		}
		if err := pd.getTagBuffer(); err != nil {
			return DescribeTopicPartitionsRequest{}, err
		}
		names = append(names, name)
	}

	partitionLimit, err := pd.getInt32()
	if err != nil {
		return DescribeTopicPartitionsRequest{}, err
	}
	cursor, err := pd.getInt8()
	if err != nil {
		return DescribeTopicPartitionsRequest{}, err
	}
	if err := pd.getTagBuffer(); err != nil {
		return DescribeTopicPartitionsRequest{}, err
	}

	return DescribeTopicPartitionsRequest{
		TopicNames:     names,
		PartitionLimit: partitionLimit,
		Cursor:         cursor,
	}, nil
}

// HandleDescribeTopicPartitions builds the response body. Topic names are
// sorted byte-lexicographically before emission - the deterministic
// ordering spec.md §4.D and §8 require regardless of request order.
func HandleDescribeTopicPartitions(header RequestHeader, req DescribeTopicPartitionsRequest, store MetadataStore) []byte {
	names := append([]string(nil), req.TopicNames...)
	sort.Strings(names)

	pe := newRealEncoder()
	pe.putInt32(header.CorrelationID)
	pe.putTagBuffer()
	pe.putInt32(0) // throttle_time_ms

	pe.putCompactArrayLength(len(names))
	for _, name := range names {
		encodeTopicResult(pe, name, store)
	}

	pe.putRawBytes([]byte{noCursor})
	pe.putTagBuffer()

	return pe.bytes()
}

func encodeTopicResult(pe *realEncoder, name string, store MetadataStore) {
	id, known := store.TopicUUID(name)
	if !known {
		pe.putInt16(int16(ErrUnknownTopicOrPartition))
		pe.putCompactString(name)
		pe.putUUID(uuid.Nil)
		pe.putInt8(0) // is_internal
		pe.putCompactArrayLength(0)
		pe.putInt32(0) // authorized_operations
		pe.putTagBuffer()
		return
	}

	partitions, _ := store.PartitionsByName(name)

	pe.putInt16(int16(ErrNone))
	pe.putCompactString(name)
	pe.putUUID(id)
	pe.putInt8(0) // is_internal
	pe.putCompactArrayLength(len(partitions))
	for _, part := range partitions {
		encodePartitionDescription(pe, part)
	}
	pe.putInt32(0) // authorized_operations
	pe.putTagBuffer()
}

func encodePartitionDescription(pe *realEncoder, part PartitionRecord) {
	pe.putInt16(int16(ErrNone))
	pe.putInt32(part.PartitionID)
	pe.putInt32(part.Leader)
	pe.putInt32(part.LeaderEpoch)
	pe.putInt32Array(part.ReplicaIDs)
	pe.putInt32Array(part.ISRIDs)
	pe.putCompactArrayLength(0) // eligible_leader_replicas
	pe.putCompactArrayLength(0) // last_known_elr
	pe.putCompactArrayLength(0) // offline_replicas
	pe.putTagBuffer()
}
