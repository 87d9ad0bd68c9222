package broker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProduceWriterOverwritesSegment(t *testing.T) {
	dir := t.TempDir()
	w := NewFileProduceWriter(dir)

	require.NoError(t, w.WriteRecordBatch("orders", 0, []byte("batch-one-longer")))
	require.NoError(t, w.WriteRecordBatch("orders", 0, []byte("batch-two")))

	data, err := os.ReadFile(filepath.Join(dir, "orders-0", "00000000000000000000.log"))
	require.NoError(t, err)
	assert.Equal(t, "batch-two", string(data))
}

func TestFileProduceWriterCreatesPartitionDirectory(t *testing.T) {
	dir := t.TempDir()
	w := NewFileProduceWriter(dir)

	require.NoError(t, w.WriteRecordBatch("payments", 3, []byte("x")))

	info, err := os.Stat(filepath.Join(dir, "payments-3"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
