package protocol

import "github.com/google/uuid"

// PartitionRecord is the decoded shape of a Partition payload record
// (spec.md §3), shared between metadatalog (which builds it from the
// on-disk log) and the DescribeTopicPartitions/Fetch handlers (which read
// it back out). It lives in this package rather than metadatalog so the
// handlers below can depend on the shape without importing the log reader.
type PartitionRecord struct {
	PartitionID      int32
	TopicUUID        uuid.UUID
	ReplicaIDs       []int32
	ISRIDs           []int32
	RemovingReplicas []int32
	AddingReplicas   []int32
	Leader           int32
	LeaderEpoch      int32
	PartitionEpoch   int32
	Directories      []uuid.UUID
}

// MetadataStore is the read-only lookup surface API handlers consult,
// matching the five contracts in spec.md §4.C. Defining it here (rather
// than in metadatalog) keeps this package's handlers decoupled from the log
// parser's implementation; metadatalog.Store satisfies it structurally.
type MetadataStore interface {
	TopicUUID(name string) (uuid.UUID, bool)
	PartitionsByName(name string) ([]PartitionRecord, bool)
	HasTopic(id uuid.UUID) bool
	ValidPartition(id uuid.UUID, partitionID int32) bool
	ReadLogRecords(id uuid.UUID, partitionID int32) ([]byte, bool)
}
