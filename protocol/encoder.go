package protocol

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// packetEncoder is the write-side half of the wire codec, named and shaped
// after sarama's own packetEncoder: every protocol struct grows an encode
// method that takes one of these instead of hand-rolling byte math inline.
type packetEncoder interface {
	putInt8(in int8)
	putInt16(in int16)
	putInt32(in int32)
	putInt64(in int64)
	putUUID(in uuid.UUID)

	putVarint(in int64)
	putUvarint(in uint64)

	// putCompactArrayLength writes len+1 as an unsigned varint - the
	// flexible-version array length convention.
	putCompactArrayLength(n int)
	// putCompactString writes a KIP-482 compact string: unsigned
	// varint(len+1) followed by the raw bytes.
	putCompactString(s string)
	// putNullableString writes the v0-style header client_id: an int16
	// length (or -1 for null) followed by raw bytes.
	putNullableString(s *string)
	// putRawBytes appends bytes with no length prefix of its own.
	putRawBytes(b []byte)
	// putCompactBytes writes a compact-array-style byte blob.
	putCompactBytes(b []byte)
	// putTagBuffer writes the single empty-tag-buffer byte every flexible
	// response and header emits.
	putTagBuffer()

	bytes() []byte
}

// realEncoder is the only packetEncoder implementation; it owns a growing
// byte slice and has no push/pop length-patching stack because nothing in
// this protocol subset needs to backfill a length after encoding content of
// unknown size up front (every compact array/string length is known before
// its elements are written).
type realEncoder struct {
	raw []byte
}

func newRealEncoder() *realEncoder {
	return &realEncoder{raw: make([]byte, 0, 256)}
}

func (e *realEncoder) putInt8(in int8) {
	e.raw = append(e.raw, byte(in))
}

func (e *realEncoder) putInt16(in int16) {
	var scratch [2]byte
	binary.BigEndian.PutUint16(scratch[:], uint16(in))
	e.raw = append(e.raw, scratch[:]...)
}

func (e *realEncoder) putInt32(in int32) {
	var scratch [4]byte
	binary.BigEndian.PutUint32(scratch[:], uint32(in))
	e.raw = append(e.raw, scratch[:]...)
}

func (e *realEncoder) putInt64(in int64) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], uint64(in))
	e.raw = append(e.raw, scratch[:]...)
}

func (e *realEncoder) putUUID(in uuid.UUID) {
	e.raw = append(e.raw, in[:]...)
}

func (e *realEncoder) putVarint(in int64) {
	e.raw = putVarint(e.raw, in)
}

func (e *realEncoder) putUvarint(in uint64) {
	e.raw = putUvarint(e.raw, in)
}

func (e *realEncoder) putCompactArrayLength(n int) {
	e.putUvarint(compactLen(n))
}

func (e *realEncoder) putCompactString(s string) {
	e.putUvarint(compactLen(len(s)))
	e.raw = append(e.raw, s...)
}

func (e *realEncoder) putNullableString(s *string) {
	if s == nil {
		e.putInt16(-1)
		return
	}
	e.putInt16(int16(len(*s)))
	e.raw = append(e.raw, *s...)
}

func (e *realEncoder) putRawBytes(b []byte) {
	e.raw = append(e.raw, b...)
}

func (e *realEncoder) putCompactBytes(b []byte) {
	e.putUvarint(compactLen(len(b)))
	e.raw = append(e.raw, b...)
}

func (e *realEncoder) putTagBuffer() {
	e.raw = append(e.raw, tagBuffer)
}

func (e *realEncoder) bytes() []byte {
	return e.raw
}

// putInt32Array writes a compact array of int32 - the replica/ISR id list
// shape shared by DescribeTopicPartitions and the metadata parser.
func (e *realEncoder) putInt32Array(in []int32) {
	e.putCompactArrayLength(len(in))
	for _, v := range in {
		e.putInt32(v)
	}
}

// putNullableCompactString writes a KIP-482 nullable compact string: raw
// varint 0 for null, otherwise len+1 followed by the bytes - used for
// Produce's error_message field.
func (e *realEncoder) putNullableCompactString(s *string) {
	if s == nil {
		e.putUvarint(0)
		return
	}
	e.putCompactString(*s)
}

// putUUIDArray writes a compact array of UUIDs (the directories field).
func (e *realEncoder) putUUIDArray(in []uuid.UUID) {
	e.putCompactArrayLength(len(in))
	for _, v := range in {
		e.putUUID(v)
	}
}
