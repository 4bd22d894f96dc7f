package sfs

import (
	"github.com/boljen/go-bitmap"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// blockBitmap tracks which of the M device blocks are currently in use. A
// set bit means used; a clear bit means free. Reserved regions (superblock,
// inode table, directory table, the bitmap block itself) are marked used at
// format time; the allocator has no notion of "reserved" beyond that.
type blockBitmap struct {
	bits bitmap.Bitmap
}

func newBlockBitmap() *blockBitmap {
	return &blockBitmap{bits: bitmap.NewSlice(M)}
}

func decodeBlockBitmap(raw []byte) *blockBitmap {
	bits := make([]byte, len(raw))
	copy(bits, raw)
	return &blockBitmap{bits: bitmap.Bitmap(bits)}
}

// encode returns a copy of the bitmap padded out to exactly one block.
func (bm *blockBitmap) encode() []byte {
	out := make([]byte, B)
	copy(out, bm.bits.Data(false))
	return out
}

func (bm *blockBitmap) markUsed(b blockdevice.Block) {
	bm.bits.Set(int(b), true)
}

func (bm *blockBitmap) markFree(b blockdevice.Block) {
	bm.bits.Set(int(b), false)
}

func (bm *blockBitmap) isUsed(b blockdevice.Block) bool {
	return bm.bits.Get(int(b))
}

// allocate performs a first-fit scan from index 0 for a free cell, marks it
// used, and returns its index.
func (bm *blockBitmap) allocate() (blockdevice.Block, error) {
	for i := 0; i < M; i++ {
		if !bm.bits.Get(i) {
			bm.bits.Set(i, true)
			return blockdevice.Block(i), nil
		}
	}
	return blockdevice.InvalidBlock, sfserrors.ErrNoFreeBlock
}

// free marks a block as available again. Freeing an already-free block is a
// no-op.
func (bm *blockBitmap) free(b blockdevice.Block) {
	if b == blockdevice.InvalidBlock {
		return
	}
	bm.bits.Set(int(b), false)
}

// usedCount returns the number of blocks currently marked used, for
// accounting checks.
func (bm *blockBitmap) usedCount() int {
	count := 0
	for i := 0; i < M; i++ {
		if bm.bits.Get(i) {
			count++
		}
	}
	return count
}
