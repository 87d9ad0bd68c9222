package metadatalog

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	xerialsnappy "github.com/eapache/go-xerial-snappy"
)

// compressionCodec is the low 3 bits of a RecordBatch's attributes field
// (spec.md §3), the same bit layout sarama decodes before picking a codec.
type compressionCodec int8

const (
	codecNone   compressionCodec = 0
	codecGzip   compressionCodec = 1
	codecSnappy compressionCodec = 2
	codecLZ4    compressionCodec = 3
	codecZstd   compressionCodec = 4
)

func codecFromAttributes(attributes int16) compressionCodec {
	return compressionCodec(attributes & 0x07)
}

// decompressRecords expands a RecordBatch's records section according to
// its codec. The cluster-metadata log this broker reads is ordinarily
// uncompressed, but the wire format allows any of sarama's codecs, so
// metadatalog honors them the same way sarama's consumer does rather than
// assuming codecNone.
func decompressRecords(codec compressionCodec, data []byte) ([]byte, error) {
	switch codec {
	case codecNone:
		return data, nil
	case codecGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip record batch: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case codecSnappy:
		return xerialsnappy.Decode(data)
	case codecLZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		return io.ReadAll(r)
	case codecZstd:
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd record batch: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("metadatalog: unsupported compression codec %d", codec)
	}
}
