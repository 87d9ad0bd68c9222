package metadatalog

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/tyrannican/kafka-broker/protocol"
)

// byteReader is a sticky-error cursor over a record's raw bytes. Record
// bodies in the metadata log are short, fully-buffered slices (never a
// streaming io.Reader), so a plain offset-and-error struct is simpler here
// than reusing protocol's packetDecoder, which is built around framed
// requests instead.
type byteReader struct {
	buf []byte
	off int
	err error
}

func newByteReader(buf []byte) *byteReader {
	return &byteReader{buf: buf}
}

func (r *byteReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *byteReader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("metadatalog: truncated %s", what)
	}
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.remaining() < n {
		r.fail("field")
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *byteReader) int8() int8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int8(b[0])
}

func (r *byteReader) int16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.BigEndian.Uint16(b))
}

func (r *byteReader) int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *byteReader) int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (r *byteReader) uuid() uuid.UUID {
	b := r.take(16)
	if b == nil {
		return uuid.Nil
	}
	var id uuid.UUID
	copy(id[:], b)
	return id
}

func (r *byteReader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n, ok := protocol.DecodeVarint(r.buf[r.off:])
	if !ok {
		r.fail("varint")
		return 0
	}
	r.off += n
	return v
}

func (r *byteReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, ok := protocol.DecodeUvarint(r.buf[r.off:])
	if !ok {
		r.fail("uvarint")
		return 0
	}
	r.off += n
	return v
}

func (r *byteReader) compactLen() int {
	return protocol.DecompactLen(r.uvarint())
}

func (r *byteReader) compactString() string {
	n := r.compactLen()
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *byteReader) int32Array() []int32 {
	n := r.compactLen()
	if r.err != nil || n <= 0 {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = r.int32()
	}
	return out
}

func (r *byteReader) uuidArray() []uuid.UUID {
	n := r.compactLen()
	if r.err != nil || n <= 0 {
		return nil
	}
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = r.uuid()
	}
	return out
}
