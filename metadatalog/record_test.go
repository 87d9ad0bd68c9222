package metadatalog

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The helpers below hand-assemble on-disk RecordBatch bytes the way a real
// KRaft log would contain them, so parseLogBytes can be exercised without a
// fixture file on disk.

func appendInt8(buf []byte, v int8) []byte   { return append(buf, byte(v)) }
func appendInt16(buf []byte, v int16) []byte { return binary.BigEndian.AppendUint16(buf, uint16(v)) }
func appendInt32(buf []byte, v int32) []byte { return binary.BigEndian.AppendUint32(buf, uint32(v)) }
func appendInt64(buf []byte, v int64) []byte { return binary.BigEndian.AppendUint64(buf, uint64(v)) }
func appendUvarint(buf []byte, v uint64) []byte { return binary.AppendUvarint(buf, v) }
func appendVarint(buf []byte, v int64) []byte   { return binary.AppendVarint(buf, v) }
func appendCompactString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)+1))
	return append(buf, s...)
}
func appendUUID(buf []byte, id uuid.UUID) []byte { return append(buf, id[:]...) }
func appendCompactInt32Array(buf []byte, vals []int32) []byte {
	buf = appendUvarint(buf, uint64(len(vals)+1))
	for _, v := range vals {
		buf = appendInt32(buf, v)
	}
	return buf
}
func appendCompactUUIDArray(buf []byte, vals []uuid.UUID) []byte {
	buf = appendUvarint(buf, uint64(len(vals)+1))
	for _, v := range vals {
		buf = appendUUID(buf, v)
	}
	return buf
}

func buildTopicPayload(name string, id uuid.UUID) []byte {
	var buf []byte
	buf = appendInt8(buf, 0) // frame_version
	buf = appendInt8(buf, 2) // record_type: Topic
	buf = appendInt8(buf, 0) // version
	buf = appendCompactString(buf, name)
	buf = appendUUID(buf, id)
	buf = appendInt8(buf, 0) // tag buffer
	return buf
}

func buildPartitionPayload(partitionID int32, topicID uuid.UUID, replicas, isr []int32, leader int32) []byte {
	var buf []byte
	buf = appendInt8(buf, 0) // frame_version
	buf = appendInt8(buf, 3) // record_type: Partition
	buf = appendInt8(buf, 0) // version
	buf = appendInt32(buf, partitionID)
	buf = appendUUID(buf, topicID)
	buf = appendCompactInt32Array(buf, replicas)
	buf = appendCompactInt32Array(buf, isr)
	buf = appendCompactInt32Array(buf, nil) // removing
	buf = appendCompactInt32Array(buf, nil) // adding
	buf = appendInt32(buf, leader)
	buf = appendInt32(buf, 0) // leader_epoch
	buf = appendInt32(buf, 0) // partition_epoch
	buf = appendCompactUUIDArray(buf, nil) // directories
	buf = appendInt8(buf, 0)               // tag buffer
	return buf
}

func wrapRecord(value []byte) []byte {
	var body []byte
	body = appendInt8(body, 0)          // attributes
	body = appendVarint(body, 0)        // timestamp_delta
	body = appendVarint(body, 0)        // offset_delta
	body = appendVarint(body, -1)       // key_length (null)
	body = appendVarint(body, int64(len(value)))
	body = append(body, value...)
	body = appendUvarint(body, 0) // headers_count

	var out []byte
	out = appendVarint(out, int64(len(body)))
	out = append(out, body...)
	return out
}

func buildRecordBatch(baseOffset int64, records [][]byte) []byte {
	var recordsData []byte
	for _, r := range records {
		recordsData = append(recordsData, wrapRecord(r)...)
	}

	var body []byte
	body = appendInt32(body, 0)  // partition_leader_epoch
	body = appendInt8(body, 2)   // magic
	body = appendInt32(body, 0)  // crc
	body = appendInt16(body, 0)  // attributes (no compression)
	body = appendInt32(body, int32(len(records)-1)) // last_offset_delta
	body = appendInt64(body, 0)  // base_timestamp
	body = appendInt64(body, 0)  // max_timestamp
	body = appendInt64(body, -1) // producer_id
	body = appendInt16(body, -1) // producer_epoch
	body = appendInt32(body, -1) // base_sequence
	body = appendInt32(body, int32(len(records)))
	body = append(body, recordsData...)

	var out []byte
	out = appendInt64(out, baseOffset)
	out = appendInt32(out, int32(len(body)))
	out = append(out, body...)
	return out
}

func TestParseLogBytesTopicAndPartitionSameBatch(t *testing.T) {
	topicID := uuid.New()
	batch := buildRecordBatch(0, [][]byte{
		buildTopicPayload("orders", topicID),
		buildPartitionPayload(0, topicID, []int32{1, 2}, []int32{1, 2}, 1),
	})

	events, err := parseLogBytes(batch)
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.NotNil(t, events[0].topic)
	assert.Equal(t, "orders", events[0].topic.Name)
	assert.Equal(t, topicID, events[0].topic.UUID)

	require.NotNil(t, events[1].partition)
	assert.Equal(t, int32(0), events[1].partition.PartitionID)
	assert.Equal(t, topicID, events[1].partition.TopicUUID)
	assert.Equal(t, []int32{1, 2}, events[1].partition.ReplicaIDs)
}

func TestParseLogBytesAcrossTwoBatches(t *testing.T) {
	topicID := uuid.New()
	batch1 := buildRecordBatch(0, [][]byte{buildTopicPayload("orders", topicID)})
	batch2 := buildRecordBatch(1, [][]byte{buildPartitionPayload(0, topicID, []int32{1}, []int32{1}, 1)})

	raw := append(append([]byte{}, batch1...), batch2...)

	events, err := parseLogBytes(raw)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.NotNil(t, events[0].topic)
	assert.NotNil(t, events[1].partition)
}

func TestParseLogBytesSkipsMalformedBatchOnly(t *testing.T) {
	topicID := uuid.New()
	good := buildRecordBatch(0, [][]byte{buildTopicPayload("orders", topicID)})
	truncated := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 10, 1, 2, 3} // batch_length 10, only 3 bytes follow

	raw := append(append([]byte{}, good...), truncated...)

	events, err := parseLogBytes(raw)
	assert.Error(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "orders", events[0].topic.Name)
}
