package protocol

import "encoding/binary"

// Kafka's "unsigned varint" and "varint" wire types are the same base-128,
// little-endian, continuation-bit-in-MSB encoding as protobuf's LEB128, so
// encoding/binary's Uvarint/Varint do the bit-level work; this matches the
// choice packetd's Kafka decoder makes for the same reason. What Kafka layers
// on top - the compact-array/compact-string "length+1" convention - lives in
// the helpers below, not in the varint codec itself.

// maxVarintLen is large enough for any value this protocol subset produces:
// partition counts, record lengths and string lengths never approach the
// 64-bit range, but binary.MaxVarintLen64 costs nothing to allocate for.
const maxVarintLen = binary.MaxVarintLen64

// putUvarint appends x as an unsigned varint and returns the updated slice.
func putUvarint(buf []byte, x uint64) []byte {
	var scratch [maxVarintLen]byte
	n := binary.PutUvarint(scratch[:], x)
	return append(buf, scratch[:n]...)
}

// putVarint appends x as a zigzag-encoded signed varint.
func putVarint(buf []byte, x int64) []byte {
	var scratch [maxVarintLen]byte
	n := binary.PutVarint(scratch[:], x)
	return append(buf, scratch[:n]...)
}

// getUvarint reads an unsigned varint from buf, returning the value, the
// number of bytes consumed, and false if buf ended before a terminating byte.
func getUvarint(buf []byte) (uint64, int, bool) {
	x, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, false
	}
	return x, n, true
}

// getVarint reads a zigzag-encoded signed varint from buf.
func getVarint(buf []byte) (int64, int, bool) {
	x, n := binary.Varint(buf)
	if n <= 0 {
		return 0, 0, false
	}
	return x, n, true
}

// compactLen encodes a compact-array/compact-string length as len+1.
func compactLen(n int) uint64 {
	return uint64(n) + 1
}

// DecodeUvarint exposes the unsigned-varint reader to callers outside this
// package (metadatalog's record reader in particular) so the "LEB128 bit
// math lives in one place" rule holds across package boundaries too.
func DecodeUvarint(buf []byte) (value uint64, n int, ok bool) {
	return getUvarint(buf)
}

// DecodeVarint exposes the zigzag-varint reader the same way.
func DecodeVarint(buf []byte) (value int64, n int, ok bool) {
	return getVarint(buf)
}

// DecompactLen exposes the compact-array/compact-string length convention
// (raw == 0 means 0 elements, otherwise raw-1) to metadatalog's record
// reader.
func DecompactLen(raw uint64) int {
	return decompactLen(raw)
}

// decompactLen turns a decoded raw compact-array/compact-string length back
// into an element count. raw == 0 means "0 elements" (or, for strings, the
// explicit null some flexible-version fields allow); this package applies
// that rule uniformly rather than sometimes treating raw == 0 as an error,
// per the open question in spec.md §9 on the source's mixed raw-1/saturating
// policy.
func decompactLen(raw uint64) int {
	if raw == 0 {
		return 0
	}
	return int(raw - 1)
}
