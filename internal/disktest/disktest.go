// Package disktest provides small helpers for standing up an in-memory
// blockdevice.Device for tests, without touching a real host file.
package disktest

import (
	"github.com/xaionaro-go/bytesextra"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
)

// NewMemoryDevice allocates a zeroed backing buffer of blockSize*totalBlocks
// bytes and wraps it as a Device.
func NewMemoryDevice(blockSize, totalBlocks uint) *blockdevice.Device {
	backing := make([]byte, blockSize*totalBlocks)
	return WrapBuffer(backing, blockSize, totalBlocks)
}

// WrapBuffer wraps an existing byte slice as a Device, so a test can inspect
// the raw bytes a FileSystem wrote after the fact.
func WrapBuffer(backing []byte, blockSize, totalBlocks uint) *blockdevice.Device {
	stream := bytesextra.NewReadWriteSeeker(backing)
	return blockdevice.WrapStream(stream, blockSize, totalBlocks)
}
