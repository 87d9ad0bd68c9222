package metadatalog

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/tyrannican/kafka-broker/protocol"
)

// recordBatchHeader is the fixed-width portion of an on-disk RecordBatch
// body, following base_offset and batch_length (spec.md §3).
type recordBatchHeader struct {
	PartitionLeaderEpoch int32
	Magic                int8
	CRC                  int32
	Attributes           int16
	LastOffsetDelta      int32
	BaseTimestamp        int64
	MaxTimestamp         int64
	ProducerID           int64
	ProducerEpoch        int16
	BaseSequence         int32
}

const recordBatchHeaderLen = 4 + 1 + 4 + 2 + 4 + 8 + 8 + 8 + 2 + 4

// topicRecord is a payload record of type 2.
type topicRecord struct {
	Name string
	UUID uuid.UUID
}

// featureRecord is a payload record of type 12; parsed but never indexed
// (spec.md §4.C).
type featureRecord struct {
	Name         string
	FeatureLevel int16
}

// recordEvent is one payload record surfaced from the log, in on-disk
// order. Exactly one field is non-nil.
type recordEvent struct {
	topic     *topicRecord
	partition *protocol.PartitionRecord
}

// parseLogBytes walks every RecordBatch in raw and returns the accumulated
// record events in file order, plus a non-fatal multierror describing any
// batches that failed to parse (spec.md §4.C: "a fatal parse error for that
// batch only" - the file as a whole still yields every batch that did parse
// cleanly). Events are returned in one flat, file-ordered slice rather than
// grouped per batch so the caller can track "the current topic" across
// batch boundaries - see the Open Question note in SPEC_FULL.md on why a
// Partition record's topic context must survive past the RecordBatch that
// introduced it.
func parseLogBytes(raw []byte) ([]recordEvent, error) {
	var events []recordEvent
	var warnings *multierror.Error

	off := 0
	batchIndex := 0
	for off < len(raw) {
		if len(raw)-off < 12 {
			warnings = multierror.Append(warnings, fmt.Errorf("batch %d: truncated base_offset/batch_length", batchIndex))
			break
		}
		// base_offset (int64) is discarded - spec.md §4.C.
		off += 8
		batchLength := int32(binary.BigEndian.Uint32(raw[off:]))
		off += 4

		if batchLength < 0 || int(batchLength) > len(raw)-off {
			warnings = multierror.Append(warnings, fmt.Errorf("batch %d: batch_length %d exceeds remaining file", batchIndex, batchLength))
			break
		}

		body := raw[off : off+int(batchLength)]
		off += int(batchLength)
		batchIndex++

		batchEvents, err := parseOneBatch(body)
		if err != nil {
			warnings = multierror.Append(warnings, fmt.Errorf("batch %d: %w", batchIndex-1, err))
			continue
		}
		events = append(events, batchEvents...)
	}

	return events, warnings.ErrorOrNil()
}

func parseOneBatch(body []byte) ([]recordEvent, error) {
	if len(body) < recordBatchHeaderLen+4 {
		return nil, fmt.Errorf("truncated record batch header")
	}

	r := newByteReader(body)
	header := recordBatchHeader{
		PartitionLeaderEpoch: r.int32(),
		Magic:                r.int8(),
		CRC:                  r.int32(),
		Attributes:           r.int16(),
		LastOffsetDelta:      r.int32(),
		BaseTimestamp:        r.int64(),
		MaxTimestamp:         r.int64(),
		ProducerID:           r.int64(),
		ProducerEpoch:        r.int16(),
		BaseSequence:         r.int32(),
	}
	recordsCount := r.int32()
	if r.err != nil {
		return nil, r.err
	}

	recordsData := body[r.off:]
	codec := codecFromAttributes(header.Attributes)
	if codec != codecNone {
		decompressed, err := decompressRecords(codec, recordsData)
		if err != nil {
			return nil, err
		}
		recordsData = decompressed
	}

	rr := newByteReader(recordsData)
	var events []recordEvent

	for i := int32(0); i < recordsCount; i++ {
		if rr.err != nil {
			return nil, rr.err
		}
		if rr.remaining() == 0 {
			return nil, fmt.Errorf("expected %d records, ran out of data after %d", recordsCount, i)
		}

		recordLen := rr.varint()
		if rr.err != nil {
			return nil, rr.err
		}
		recordBody := rr.take(int(recordLen))
		if rr.err != nil {
			return nil, rr.err
		}

		rec := newByteReader(recordBody)
		_ = rec.int8() // attributes
		_ = rec.varint()
		_ = rec.varint()

		keyLen := rec.varint()
		if keyLen >= 0 {
			rec.take(int(keyLen))
		}

		valueLen := rec.varint()
		var value []byte
		if valueLen >= 0 {
			value = rec.take(int(valueLen))
		}
		_ = rec.uvarint() // headers_count, always 0
		if rec.err != nil {
			return nil, rec.err
		}

		if len(value) < 2 {
			continue // empty payload record; nothing to index
		}

		topic, partition, feature, err := decodePayloadRecord(value)
		if err != nil {
			return nil, err
		}

		switch {
		case topic != nil:
			events = append(events, recordEvent{topic: topic})
		case partition != nil:
			events = append(events, recordEvent{partition: partition})
		case feature != nil:
			// parsed, not indexed - spec.md §4.C.
		}
	}

	return events, nil
}

// decodePayloadRecord decodes the frame_version/record_type prefixed value
// of a Record into exactly one of a topicRecord, a PartitionRecord, or a
// featureRecord, per spec.md §3. An unrecognized record_type aborts just
// this batch, matching the invariant that unknown types "abort batch
// parsing" without aborting the whole file.
func decodePayloadRecord(value []byte) (*topicRecord, *protocol.PartitionRecord, *featureRecord, error) {
	r := newByteReader(value)
	_ = r.int8() // frame_version
	recordType := r.int8()
	if r.err != nil {
		return nil, nil, nil, r.err
	}

	switch recordType {
	case 2:
		t, err := decodeTopicRecord(r)
		return t, nil, nil, err
	case 3:
		p, err := decodePartitionRecord(r)
		return nil, p, nil, err
	case 12:
		f, err := decodeFeatureRecord(r)
		return nil, nil, f, err
	default:
		return nil, nil, nil, fmt.Errorf("unknown record type %d", recordType)
	}
}

func decodeTopicRecord(r *byteReader) (*topicRecord, error) {
	_ = r.int8() // version
	name := r.compactString()
	id := r.uuid()
	_ = r.int8() // tag buffer
	if r.err != nil {
		return nil, r.err
	}
	return &topicRecord{Name: name, UUID: id}, nil
}

func decodeFeatureRecord(r *byteReader) (*featureRecord, error) {
	_ = r.int8() // version
	name := r.compactString()
	level := r.int16()
	_ = r.int8() // tag buffer
	if r.err != nil {
		return nil, r.err
	}
	return &featureRecord{Name: name, FeatureLevel: level}, nil
}

func decodePartitionRecord(r *byteReader) (*protocol.PartitionRecord, error) {
	_ = r.int8() // version
	partitionID := r.int32()
	topicUUID := r.uuid()
	replicaIDs := r.int32Array()
	isrIDs := r.int32Array()
	removing := r.int32Array()
	adding := r.int32Array()
	leader := r.int32()
	leaderEpoch := r.int32()
	partitionEpoch := r.int32()
	directories := r.uuidArray()
	_ = r.int8() // tag buffer
	if r.err != nil {
		return nil, r.err
	}

	return &protocol.PartitionRecord{
		PartitionID:      partitionID,
		TopicUUID:        topicUUID,
		ReplicaIDs:       replicaIDs,
		ISRIDs:           isrIDs,
		RemovingReplicas: removing,
		AddingReplicas:   adding,
		Leader:           leader,
		LeaderEpoch:      leaderEpoch,
		PartitionEpoch:   partitionEpoch,
		Directories:      directories,
	}, nil
}
