package protocol

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFetchRequestPayload(t *testing.T, topics []FetchTopicRequest, rackID string) []byte {
	t.Helper()
	e := newRealEncoder()
	e.putInt32(500)  // max_wait_ms
	e.putInt32(1)    // min_bytes
	e.putInt32(1 << 20)
	e.putInt8(0) // isolation
	e.putInt32(0)
	e.putInt32(0)

	e.putCompactArrayLength(len(topics))
	for _, topic := range topics {
		e.putUUID(topic.TopicUUID)
		e.putCompactArrayLength(len(topic.Partitions))
		for _, p := range topic.Partitions {
			e.putInt32(p.PartitionID)
			e.putInt32(p.CurrentLeaderEpoch)
			e.putInt64(p.FetchOffset)
			e.putInt32(p.LastFetchedEpoch)
			e.putInt64(p.LogStartOffset)
			e.putInt32(p.PartitionMaxBytes)
		}
		e.putTagBuffer()
	}

	e.putCompactArrayLength(0) // forgotten topics
	e.putCompactString(rackID)
	e.putTagBuffer()

	return e.bytes()
}

func TestDecodeFetchRequestRoundTrip(t *testing.T) {
	topicID := uuid.New()
	topics := []FetchTopicRequest{{
		TopicUUID: topicID,
		Partitions: []FetchPartitionRequest{{
			PartitionID:       0,
			FetchOffset:       10,
			PartitionMaxBytes: 1024,
		}},
	}}
	payload := buildFetchRequestPayload(t, topics, "rack-1")

	req, err := DecodeFetchRequest(payload)
	require.NoError(t, err)
	require.Len(t, req.Topics, 1)
	assert.Equal(t, topicID, req.Topics[0].TopicUUID)
	require.Len(t, req.Topics[0].Partitions, 1)
	assert.Equal(t, int32(0), req.Topics[0].Partitions[0].PartitionID)
	assert.Equal(t, int64(10), req.Topics[0].Partitions[0].FetchOffset)
	assert.Equal(t, "rack-1", req.RackID)
}

func TestHandleFetchKnownTopicEchoesLogBytes(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.addTopic("orders", id, PartitionRecord{PartitionID: 0, TopicUUID: id})
	store.setLog("orders", 0, []byte("record-batch-bytes"))

	req := FetchRequest{Topics: []FetchTopicRequest{{
		TopicUUID:  id,
		Partitions: []FetchPartitionRequest{{PartitionID: 0}},
	}}}
	resp := HandleFetch(RequestHeader{CorrelationID: 11}, req, store)

	d := newRealDecoder(resp)
	corrID, err := d.getInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(11), corrID)
	require.NoError(t, d.getTagBuffer())

	_, _ = d.getInt32() // throttle_time_ms
	errCode, err := d.getInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(ErrNone), errCode)
	_, _ = d.getInt32() // session_id

	topicCount, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 1, topicCount)

	gotID, err := d.getUUID()
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	partCount, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 1, partCount)

	_, _ = d.getInt32() // partition_id
	partErr, err := d.getInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(ErrNone), partErr)

	_, _ = d.getInt64() // high_watermark
	_, _ = d.getInt64() // last_stable_offset
	_, _ = d.getInt64() // log_start_offset
	_, _ = d.getCompactArrayLength() // aborted_transactions
	_, _ = d.getInt32()              // preferred_read_replica

	records, err := d.getCompactBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("record-batch-bytes"), records)
}

func TestHandleFetchUnknownTopicReturnsSyntheticPartition(t *testing.T) {
	store := newFakeStore()
	unknownID := uuid.New()

	req := FetchRequest{Topics: []FetchTopicRequest{{TopicUUID: unknownID}}}
	resp := HandleFetch(RequestHeader{CorrelationID: 12}, req, store)

	d := newRealDecoder(resp)
	_, _ = d.getInt32()
	_ = d.getTagBuffer()
	_, _ = d.getInt32()
	_, _ = d.getInt16()
	_, _ = d.getInt32()

	_, err := d.getCompactArrayLength()
	require.NoError(t, err)

	gotID, err := d.getUUID()
	require.NoError(t, err)
	assert.Equal(t, unknownID, gotID)

	n, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	partitionID, err := d.getInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(0), partitionID)

	errCode, err := d.getInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(ErrUnknownTopicID), errCode)
}
