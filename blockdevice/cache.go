package blockdevice

import (
	"fmt"
	"io"

	"github.com/boljen/go-bitmap"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// cache is a block-oriented read/write buffer over an io.ReadWriteSeeker. It
// lazily loads blocks on first access and only flushes the ones that have
// been written to since the last flush.
//
// All block indices are relative to the start of the stream; cache has no
// notion of a superblock or any other on-disk layout.
type cache struct {
	stream      io.ReadWriteSeeker
	blockSize   uint
	totalBlocks uint
	// loadedBlocks marks which blocks have been read into data at least once.
	loadedBlocks bitmap.Bitmap
	// dirtyBlocks marks which blocks have been written since the last flush.
	dirtyBlocks bitmap.Bitmap
	data        []byte
}

func newCache(stream io.ReadWriteSeeker, blockSize, totalBlocks uint) *cache {
	return &cache{
		stream:       stream,
		blockSize:    blockSize,
		totalBlocks:  totalBlocks,
		loadedBlocks: bitmap.NewSlice(int(totalBlocks)),
		dirtyBlocks:  bitmap.NewSlice(int(totalBlocks)),
		data:         make([]byte, blockSize*totalBlocks),
	}
}

// checkRange verifies that [start, start+count) lies within the cache.
func (c *cache) checkRange(start Block, count uint) error {
	if uint(start) >= c.totalBlocks {
		return sfserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("block %d not in range [0, %d)", start, c.totalBlocks),
		)
	}
	if uint(start)+count > c.totalBlocks {
		return sfserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"range [%d, %d) exceeds device size of %d blocks",
				start, uint(start)+count, c.totalBlocks,
			),
		)
	}
	return nil
}

func (c *cache) seekToBlock(block Block) error {
	offset := int64(block) * int64(c.blockSize)
	_, err := c.stream.Seek(offset, io.SeekStart)
	return err
}

// load ensures every block in [start, start+count) has been read from the
// stream into data at least once.
func (c *cache) load(start Block, count uint) error {
	if err := c.checkRange(start, count); err != nil {
		return err
	}

	for i := uint(start); i < uint(start)+count; i++ {
		if c.loadedBlocks.Get(int(i)) {
			continue
		}

		if err := c.seekToBlock(Block(i)); err != nil {
			return sfserrors.ErrIOFailed.WrapError(err)
		}

		offset := i * c.blockSize
		buf := c.data[offset : offset+c.blockSize]
		if _, err := io.ReadFull(c.stream, buf); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return sfserrors.ErrIOFailed.WrapError(err)
		}

		c.loadedBlocks.Set(int(i), true)
		c.dirtyBlocks.Set(int(i), false)
	}
	return nil
}

// slice returns a window into the cache's backing array covering
// [start, start+count) blocks, loading any blocks not yet read.
//
// Any modification to the returned slice must be followed by markDirty for
// the same range.
func (c *cache) slice(start Block, count uint) ([]byte, error) {
	if err := c.load(start, count); err != nil {
		return nil, err
	}
	from := uint(start) * c.blockSize
	to := from + count*c.blockSize
	return c.data[from:to], nil
}

func (c *cache) markDirty(start Block, count uint) error {
	if err := c.checkRange(start, count); err != nil {
		return err
	}
	for i := uint(start); i < uint(start)+count; i++ {
		c.loadedBlocks.Set(int(i), true)
		c.dirtyBlocks.Set(int(i), true)
	}
	return nil
}

// flush writes back every dirty block in [start, start+count) and clears
// their dirty bits.
func (c *cache) flush(start Block, count uint) error {
	if err := c.checkRange(start, count); err != nil {
		return err
	}

	for i := uint(start); i < uint(start)+count; i++ {
		if !c.dirtyBlocks.Get(int(i)) {
			continue
		}

		if err := c.seekToBlock(Block(i)); err != nil {
			return sfserrors.ErrIOFailed.WrapError(err)
		}

		offset := i * c.blockSize
		buf := c.data[offset : offset+c.blockSize]
		if _, err := c.stream.Write(buf); err != nil {
			return sfserrors.ErrIOFailed.WrapError(err)
		}

		c.dirtyBlocks.Set(int(i), false)
	}
	return nil
}

func (c *cache) flushAll() error {
	return c.flush(0, c.totalBlocks)
}
