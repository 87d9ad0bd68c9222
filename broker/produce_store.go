package broker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eapache/go-resiliency/breaker"

	"github.com/tyrannican/kafka-broker/protocol"
)

// FileProduceWriter implements protocol.ProduceWriter by overwriting the
// same per-partition segment files ReadLogRecords serves them back from
// (spec.md §6): the last Produce to a partition wins. Writes are guarded
// by a circuit breaker the way sarama's brokerProducer guards its network
// writes: a run of disk-write failures (a full disk, a permissions
// problem) trips the breaker so Produce fails fast with
// ErrUnknownServerError instead of blocking every caller on a slow or
// wedged filesystem.
type FileProduceWriter struct {
	logDir  string
	breaker *breaker.Breaker
}

var _ protocol.ProduceWriter = (*FileProduceWriter)(nil)

// NewFileProduceWriter returns a writer rooted at logDir, tripping its
// breaker after 3 consecutive failures and staying open for 10 seconds
// before allowing a trial write through again - the same shape as
// sarama's client breaker defaults.
func NewFileProduceWriter(logDir string) *FileProduceWriter {
	return &FileProduceWriter{
		logDir:  logDir,
		breaker: breaker.New(3, 1, 10*time.Second),
	}
}

// WriteRecordBatch overwrites the segment file for (topicName,
// partitionIndex) with data, creating the partition directory and segment
// on first write. Produce is last-writer-wins (spec.md §6): each call
// replaces whatever the segment held before, it does not append to it.
func (w *FileProduceWriter) WriteRecordBatch(topicName string, partitionIndex int32, data []byte) error {
	err := w.breaker.Run(func() error {
		return w.writeSegment(topicName, partitionIndex, data)
	})
	if err == breaker.ErrBreakerOpen {
		return fmt.Errorf("broker: produce writer circuit open for %s-%d: %w", topicName, partitionIndex, err)
	}
	return err
}

func (w *FileProduceWriter) writeSegment(topicName string, partitionIndex int32, data []byte) error {
	dir := filepath.Join(w.logDir, fmt.Sprintf("%s-%d", topicName, partitionIndex))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating partition directory: %w", err)
	}

	path := filepath.Join(dir, "00000000000000000000.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening segment: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing segment: %w", err)
	}
	return nil
}
