package metadatalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrannican/kafka-broker/protocol"
)

func partitionRecordPtr(topicID uuid.UUID, partitionID int32) *protocol.PartitionRecord {
	return &protocol.PartitionRecord{PartitionID: partitionID, TopicUUID: topicID}
}

func TestAssembleStoreTracksCurrentTopicAcrossBatches(t *testing.T) {
	ordersID := uuid.New()
	paymentsID := uuid.New()

	events := []recordEvent{
		{topic: &topicRecord{Name: "orders", UUID: ordersID}},
		{partition: partitionRecordPtr(ordersID, 0)},
		{topic: &topicRecord{Name: "payments", UUID: paymentsID}},
		{partition: partitionRecordPtr(paymentsID, 0)},
		{partition: partitionRecordPtr(ordersID, 1)}, // wrong topic context: dropped
	}

	store := assembleStore("/tmp/logs", events)

	ordersPartitions, ok := store.PartitionsByName("orders")
	require.True(t, ok)
	assert.Len(t, ordersPartitions, 1)

	paymentsPartitions, ok := store.PartitionsByName("payments")
	require.True(t, ok)
	assert.Len(t, paymentsPartitions, 1)

	assert.True(t, store.HasTopic(ordersID))
	assert.True(t, store.ValidPartition(ordersID, 0))
	assert.False(t, store.ValidPartition(ordersID, 1))
}

func TestLoadMissingMetadataFileYieldsEmptyStore(t *testing.T) {
	dir := t.TempDir()
	store, err := Load(filepath.Join(dir, "does-not-exist.log"), dir)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.False(t, store.HasTopic(uuid.New()))
}

func TestLoadParsesRealFile(t *testing.T) {
	dir := t.TempDir()
	topicID := uuid.New()
	batch := buildRecordBatch(0, [][]byte{
		buildTopicPayload("orders", topicID),
		buildPartitionPayload(0, topicID, []int32{1}, []int32{1}, 1),
	})

	metadataPath := filepath.Join(dir, "00000000000000000000.log")
	require.NoError(t, os.WriteFile(metadataPath, batch, 0o644))

	store, err := Load(metadataPath, dir)
	require.NoError(t, err)
	id, ok := store.TopicUUID("orders")
	require.True(t, ok)
	assert.Equal(t, topicID, id)
	assert.True(t, store.ValidPartition(id, 0))
}

func TestReadLogRecordsReadsSegmentFile(t *testing.T) {
	dir := t.TempDir()
	topicID := uuid.New()
	segmentDir := filepath.Join(dir, "orders-0")
	require.NoError(t, os.MkdirAll(segmentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(segmentDir, "00000000000000000000.log"), []byte("segment-bytes"), 0o644))

	store := assembleStore(dir, []recordEvent{
		{topic: &topicRecord{Name: "orders", UUID: topicID}},
		{partition: partitionRecordPtr(topicID, 0)},
	})

	data, ok := store.ReadLogRecords(topicID, 0)
	require.True(t, ok)
	assert.Equal(t, []byte("segment-bytes"), data)

	_, ok = store.ReadLogRecords(uuid.New(), 0)
	assert.False(t, ok)
}
