package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxFrameBytes is the frame-size ceiling spec.md §4.B defaults to
// (16 MiB) when a broker.Config does not override it.
const DefaultMaxFrameBytes = 16 * 1024 * 1024

// ErrFrameTooLarge is returned by ReadFrame when message_size exceeds the
// configured ceiling; the caller treats this as connection-fatal (spec.md §7).
type ErrFrameTooLarge struct {
	Size, Max int32
}

func (e ErrFrameTooLarge) Error() string {
	return fmt.Sprintf("kafka: frame size %d exceeds maximum %d", e.Size, e.Max)
}

// ReadFrame reads one length-prefixed request frame from r: a big-endian
// int32 message_size followed by exactly that many bytes. It tolerates short
// reads by looping on io.ReadFull, which already accumulates partial reads
// for us - the "must tolerate short TCP reads" requirement in spec.md §4.B.
// A zero-length read before any bytes are consumed surfaces as io.EOF so the
// caller can distinguish a clean peer close from a mid-frame disconnect.
func ReadFrame(r io.Reader, maxFrameBytes int32) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}

	size := int32(binary.BigEndian.Uint32(sizeBuf[:]))
	if size < 0 || size > maxFrameBytes {
		return nil, ErrFrameTooLarge{Size: size, Max: maxFrameBytes}
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteFrame prepends body with its big-endian int32 length and writes the
// whole thing in one call, giving symmetric outbound framing (spec.md §4.B).
func WriteFrame(w io.Writer, body []byte) error {
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(body)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
