package protocol

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal, hand-populated MetadataStore for protocol-level
// handler tests, in place of the real metadatalog.Store (which lives in a
// separate package to avoid an import cycle back into protocol).
type fakeStore struct {
	names      map[string]uuid.UUID
	partitions map[uuid.UUID][]PartitionRecord
	logs       map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		names:      make(map[string]uuid.UUID),
		partitions: make(map[uuid.UUID][]PartitionRecord),
		logs:       make(map[string][]byte),
	}
}

func (s *fakeStore) addTopic(name string, id uuid.UUID, partitions ...PartitionRecord) {
	s.names[name] = id
	s.partitions[id] = partitions
}

func (s *fakeStore) setLog(topic string, partition int32, data []byte) {
	s.logs[key(topic, partition)] = data
}

func (s *fakeStore) TopicUUID(name string) (uuid.UUID, bool) {
	id, ok := s.names[name]
	return id, ok
}

func (s *fakeStore) PartitionsByName(name string) ([]PartitionRecord, bool) {
	id, ok := s.names[name]
	if !ok {
		return nil, false
	}
	return s.partitions[id], true
}

func (s *fakeStore) HasTopic(id uuid.UUID) bool {
	for _, v := range s.names {
		if v == id {
			return true
		}
	}
	return false
}

func (s *fakeStore) ValidPartition(id uuid.UUID, partitionID int32) bool {
	for _, p := range s.partitions[id] {
		if p.PartitionID == partitionID {
			return true
		}
	}
	return false
}

func (s *fakeStore) ReadLogRecords(id uuid.UUID, partitionID int32) ([]byte, bool) {
	for name, topicID := range s.names {
		if topicID == id {
			data, ok := s.logs[key(name, partitionID)]
			return data, ok
		}
	}
	return nil, false
}

func key(topic string, partition int32) string {
	return fmt.Sprintf("%s#%d", topic, partition)
}

func TestHandleDescribeTopicPartitionsKnownTopic(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.addTopic("orders", id, PartitionRecord{
		PartitionID: 0,
		TopicUUID:   id,
		ReplicaIDs:  []int32{1, 2, 3},
		ISRIDs:      []int32{1, 2, 3},
		Leader:      1,
		LeaderEpoch: 0,
	})

	req := DescribeTopicPartitionsRequest{TopicNames: []string{"orders"}, PartitionLimit: 10, Cursor: -1}
	resp := HandleDescribeTopicPartitions(RequestHeader{CorrelationID: 1}, req, store)

	d := newRealDecoder(resp)
	corrID, err := d.getInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), corrID)
	require.NoError(t, d.getTagBuffer())

	throttle, err := d.getInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(0), throttle)

	n, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	errCode, err := d.getInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(ErrNone), errCode)

	name, err := d.getCompactString()
	require.NoError(t, err)
	assert.Equal(t, "orders", name)

	gotID, err := d.getUUID()
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestHandleDescribeTopicPartitionsUnknownTopic(t *testing.T) {
	store := newFakeStore()
	req := DescribeTopicPartitionsRequest{TopicNames: []string{"missing"}}
	resp := HandleDescribeTopicPartitions(RequestHeader{CorrelationID: 2}, req, store)

	d := newRealDecoder(resp)
	_, err := d.getInt32()
	require.NoError(t, err)
	require.NoError(t, d.getTagBuffer())
	_, err = d.getInt32()
	require.NoError(t, err)

	n, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	errCode, err := d.getInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(ErrUnknownTopicOrPartition), errCode)

	name, err := d.getCompactString()
	require.NoError(t, err)
	assert.Equal(t, "missing", name)

	gotID, err := d.getUUID()
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, gotID)
}

func TestHandleDescribeTopicPartitionsSortsNames(t *testing.T) {
	store := newFakeStore()
	req := DescribeTopicPartitionsRequest{TopicNames: []string{"zeta", "alpha"}}
	resp := HandleDescribeTopicPartitions(RequestHeader{CorrelationID: 3}, req, store)

	d := newRealDecoder(resp)
	_, _ = d.getInt32()
	_ = d.getTagBuffer()
	_, _ = d.getInt32()
	n, err := d.getCompactArrayLength()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, _ = d.getInt16()
	first, err := d.getCompactString()
	require.NoError(t, err)
	assert.Equal(t, "alpha", first)
}
