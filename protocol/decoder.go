package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// PacketDecodingError mirrors sarama's own decode-error type: a single error
// kind for every malformed-payload case a handler can hit, since the spec
// treats all of them as connection-fatal (spec.md §7).
type PacketDecodingError struct {
	Info string
}

func (e PacketDecodingError) Error() string {
	return fmt.Sprintf("kafka: error decoding packet: %s", e.Info)
}

var errInsufficientData = PacketDecodingError{Info: "insufficient data to decode packet, more bytes expected"}

// packetDecoder is the read-side half of the wire codec.
type packetDecoder interface {
	getInt8() (int8, error)
	getInt16() (int16, error)
	getInt32() (int32, error)
	getInt64() (int64, error)
	getUUID() (uuid.UUID, error)

	getVarint() (int64, error)
	getUvarint() (uint64, error)

	getCompactArrayLength() (int, error)
	getCompactString() (string, error)
	getNullableString() (*string, error)
	getRawBytes(n int) ([]byte, error)
	getCompactBytes() ([]byte, error)
	getTagBuffer() error

	remaining() int
	peek(n int) ([]byte, error)
}

// realDecoder reads from a fixed byte slice left to right; like
// realEncoder it needs no stack, since nothing here decodes
// length-delimited sub-messages whose encoder pushed a placeholder.
type realDecoder struct {
	raw []byte
	off int
}

func newRealDecoder(raw []byte) *realDecoder {
	return &realDecoder{raw: raw}
}

func (d *realDecoder) remaining() int {
	return len(d.raw) - d.off
}

func (d *realDecoder) peek(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, errInsufficientData
	}
	return d.raw[d.off : d.off+n], nil
}

func (d *realDecoder) getInt8() (int8, error) {
	if d.remaining() < 1 {
		return 0, errInsufficientData
	}
	v := int8(d.raw[d.off])
	d.off++
	return v, nil
}

func (d *realDecoder) getInt16() (int16, error) {
	if d.remaining() < 2 {
		return 0, errInsufficientData
	}
	v := int16(binary.BigEndian.Uint16(d.raw[d.off:]))
	d.off += 2
	return v, nil
}

func (d *realDecoder) getInt32() (int32, error) {
	if d.remaining() < 4 {
		return 0, errInsufficientData
	}
	v := int32(binary.BigEndian.Uint32(d.raw[d.off:]))
	d.off += 4
	return v, nil
}

func (d *realDecoder) getInt64() (int64, error) {
	if d.remaining() < 8 {
		return 0, errInsufficientData
	}
	v := int64(binary.BigEndian.Uint64(d.raw[d.off:]))
	d.off += 8
	return v, nil
}

func (d *realDecoder) getUUID() (uuid.UUID, error) {
	if d.remaining() < 16 {
		return uuid.Nil, errInsufficientData
	}
	var id uuid.UUID
	copy(id[:], d.raw[d.off:d.off+16])
	d.off += 16
	return id, nil
}

func (d *realDecoder) getVarint() (int64, error) {
	v, n, ok := getVarint(d.raw[d.off:])
	if !ok {
		return 0, errInsufficientData
	}
	d.off += n
	return v, nil
}

func (d *realDecoder) getUvarint() (uint64, error) {
	v, n, ok := getUvarint(d.raw[d.off:])
	if !ok {
		return 0, errInsufficientData
	}
	d.off += n
	return v, nil
}

func (d *realDecoder) getCompactArrayLength() (int, error) {
	raw, err := d.getUvarint()
	if err != nil {
		return 0, err
	}
	return decompactLen(raw), nil
}

func (d *realDecoder) getCompactString() (string, error) {
	raw, err := d.getUvarint()
	if err != nil {
		return "", err
	}
	n := decompactLen(raw)
	b, err := d.getRawBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *realDecoder) getNullableString() (*string, error) {
	length, err := d.getInt16()
	if err != nil {
		return nil, err
	}
	if length == -1 {
		return nil, nil
	}
	b, err := d.getRawBytes(int(length))
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func (d *realDecoder) getRawBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, PacketDecodingError{Info: fmt.Sprintf("negative length %d", n)}
	}
	if d.remaining() < n {
		return nil, errInsufficientData
	}
	b := d.raw[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *realDecoder) getCompactBytes() ([]byte, error) {
	raw, err := d.getUvarint()
	if err != nil {
		return nil, err
	}
	return d.getRawBytes(decompactLen(raw))
}

// getInt32Array reads a compact array of int32.
func (d *realDecoder) getInt32Array() ([]int32, error) {
	n, err := d.getCompactArrayLength()
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		if out[i], err = d.getInt32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// getUUIDArray reads a compact array of UUIDs.
func (d *realDecoder) getUUIDArray() ([]uuid.UUID, error) {
	n, err := d.getCompactArrayLength()
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, n)
	for i := range out {
		if out[i], err = d.getUUID(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *realDecoder) getTagBuffer() error {
	tag, err := d.getInt8()
	if err != nil {
		return err
	}
	if tag != tagBuffer {
		return PacketDecodingError{Info: fmt.Sprintf("non-zero tag buffer: %d", tag)}
	}
	return nil
}
