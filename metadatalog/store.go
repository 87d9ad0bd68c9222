// Package metadatalog implements the one-shot cluster-metadata log reader
// described in spec.md §4.C: it parses the on-disk RecordBatch sequence
// into an immutable, read-only index shared by every broker worker, and it
// serves the raw per-partition log files Fetch echoes back and Produce
// overwrites.
package metadatalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tyrannican/kafka-broker/protocol"
)

// Store is the immutable index built once at server construction (spec.md
// §4.C / §5 "Shared resources"). It implements protocol.MetadataStore.
type Store struct {
	logDir     string
	byName     map[string]uuid.UUID
	byUUID     map[uuid.UUID]string
	partitions map[uuid.UUID][]protocol.PartitionRecord
}

var _ protocol.MetadataStore = (*Store)(nil)

// Load reads metadataPath and builds a Store whose Fetch/Produce log files
// live under logDir. A missing metadata file yields an empty store, not an
// error (spec.md §4.C, §6): only a read error on an *existing* file, or a
// malformed batch, is surfaced - and a malformed batch only drops that one
// batch (the accompanying multierror is returned alongside a still-usable
// Store, for the caller to log).
func Load(metadataPath, logDir string) (*Store, error) {
	raw, err := os.ReadFile(metadataPath)
	if errors.Is(err, os.ErrNotExist) {
		return newStore(logDir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("metadatalog: reading %s: %w", metadataPath, err)
	}

	events, warnings := parseLogBytes(raw)
	store := assembleStore(logDir, events)
	return store, warnings
}

func newStore(logDir string) *Store {
	return &Store{
		logDir:     logDir,
		byName:     make(map[string]uuid.UUID),
		byUUID:     make(map[uuid.UUID]string),
		partitions: make(map[uuid.UUID][]protocol.PartitionRecord),
	}
}

// assembleStore builds the index from a file-ordered event stream. A Topic
// record establishes the "current topic context" until the next Topic
// record, and that context survives across RecordBatch boundaries - the
// Open Question resolution recorded in SPEC_FULL.md and DESIGN.md: a
// Partition record is attached only when its UUID matches the Topic record
// that most recently preceded it, regardless of which batch introduced
// either record; a Partition record whose UUID does not match the current
// topic is dropped.
func assembleStore(logDir string, events []recordEvent) *Store {
	store := newStore(logDir)

	var currentTopic *topicRecord
	for _, ev := range events {
		switch {
		case ev.topic != nil:
			t := *ev.topic
			currentTopic = &t
			store.byName[t.Name] = t.UUID
			store.byUUID[t.UUID] = t.Name
			if _, ok := store.partitions[t.UUID]; !ok {
				store.partitions[t.UUID] = nil
			}
		case ev.partition != nil:
			if currentTopic != nil && ev.partition.TopicUUID == currentTopic.UUID {
				store.partitions[currentTopic.UUID] = append(store.partitions[currentTopic.UUID], *ev.partition)
			}
		}
	}

	return store
}

// TopicUUID implements protocol.MetadataStore.
func (s *Store) TopicUUID(name string) (uuid.UUID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// PartitionsByName implements protocol.MetadataStore.
func (s *Store) PartitionsByName(name string) ([]protocol.PartitionRecord, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.partitions[id], true
}

// HasTopic implements protocol.MetadataStore.
func (s *Store) HasTopic(id uuid.UUID) bool {
	_, ok := s.byUUID[id]
	return ok
}

// ValidPartition implements protocol.MetadataStore.
func (s *Store) ValidPartition(id uuid.UUID, partitionID int32) bool {
	for _, p := range s.partitions[id] {
		if p.PartitionID == partitionID {
			return true
		}
	}
	return false
}

// ReadLogRecords implements protocol.MetadataStore: it reads the raw
// on-disk segment for (id, partitionID), the bytes Fetch echoes back
// verbatim (spec.md §4.C, §6).
func (s *Store) ReadLogRecords(id uuid.UUID, partitionID int32) ([]byte, bool) {
	name, ok := s.byUUID[id]
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(s.segmentPath(name, partitionID))
	if err != nil {
		return nil, false
	}
	return data, true
}

// segmentPath is the fixed per-partition log layout from spec.md §6:
// <LOG_DIR>/<topic_name>-<partition_id>/00000000000000000000.log
func (s *Store) segmentPath(topicName string, partitionID int32) string {
	return filepath.Join(s.logDir, fmt.Sprintf("%s-%d", topicName, partitionID), "00000000000000000000.log")
}

// LogDir exposes the configured log root so broker's produce writer shares
// the exact same path convention.
func (s *Store) LogDir() string {
	return s.logDir
}
