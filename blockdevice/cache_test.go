package blockdevice_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

const testBlockSize = 64
const testTotalBlocks = 8

func newTestDevice(t *testing.T) (*blockdevice.Device, []byte) {
	t.Helper()
	backing := make([]byte, testBlockSize*testTotalBlocks)
	_, err := rand.Read(backing)
	require.NoError(t, err)

	stream := bytesextra.NewReadWriteSeeker(backing)
	dev := blockdevice.WrapStream(stream, testBlockSize, testTotalBlocks)
	return dev, backing
}

func TestDeviceReadBlocksReturnsBackingData(t *testing.T) {
	dev, backing := newTestDevice(t)

	buf := make([]byte, testBlockSize*2)
	err := dev.ReadBlocks(1, 2, buf)
	require.NoError(t, err)

	assert.Equal(t, backing[testBlockSize:testBlockSize*3], buf)
}

func TestDeviceWriteBlocksIsVisibleToSubsequentRead(t *testing.T) {
	dev, _ := newTestDevice(t)

	payload := bytes.Repeat([]byte{0xAB}, testBlockSize*2)
	require.NoError(t, dev.WriteBlocks(3, 2, payload))

	readBack := make([]byte, testBlockSize*2)
	require.NoError(t, dev.ReadBlocks(3, 2, readBack))
	assert.Equal(t, payload, readBack)
}

func TestDeviceWriteBlocksPersistsOnlyAfterFlush(t *testing.T) {
	backing := make([]byte, testBlockSize*testTotalBlocks)
	stream := bytesextra.NewReadWriteSeeker(backing)
	dev := blockdevice.WrapStream(stream, testBlockSize, testTotalBlocks)

	payload := bytes.Repeat([]byte{0x42}, testBlockSize)
	require.NoError(t, dev.WriteBlocks(0, 1, payload))

	// The in-memory backing slice hasn't seen the write until Flush.
	assert.NotEqual(t, payload, backing[:testBlockSize])

	require.NoError(t, dev.Flush())
	assert.Equal(t, payload, backing[:testBlockSize])
}

func TestDeviceReadBlocksOutOfRangeFails(t *testing.T) {
	dev, _ := newTestDevice(t)

	buf := make([]byte, testBlockSize)
	err := dev.ReadBlocks(testTotalBlocks, 1, buf)
	assert.Error(t, err)
}

func TestDeviceWriteBlocksSpanningEndFails(t *testing.T) {
	dev, _ := newTestDevice(t)

	buf := make([]byte, testBlockSize*2)
	err := dev.WriteBlocks(testTotalBlocks-1, 2, buf)
	assert.Error(t, err)
}

func TestDeviceBlockSizeAndTotalBlocks(t *testing.T) {
	dev, _ := newTestDevice(t)
	assert.EqualValues(t, testBlockSize, dev.BlockSize())
	assert.EqualValues(t, testTotalBlocks, dev.TotalBlocks())
}
