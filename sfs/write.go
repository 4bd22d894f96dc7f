package sfs

import (
	"errors"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// Write is the central algorithm of the filesystem. It writes up to
// length bytes from buf starting at fd's cursor, allocating direct and
// indirect blocks as needed, and returns the number of bytes actually
// written. A short count (including 0) is not itself an error: it signals
// either that fd is not open, length == 0, the F_MAX cap was hit, or the
// bitmap ran out of free blocks mid-write. Metadata reflects exactly the bytes that were written.
// Any other failure (a failed device read/write, a corrupt indirect block)
// is fatal and is returned as an error.
func (fs *FileSystem) Write(fd int, buf []byte) (int, error) {
	if !fs.oft.isOpen(fd) {
		return 0, nil
	}

	entry := fs.oft.entries[fd]
	in, err := fs.inodes.get(entry.inodeIndex)
	if err != nil {
		return 0, err
	}

	length := len(buf)
	if entry.cursor >= F_MAX-1 {
		return 0, nil
	}
	if maxAllowed := int(F_MAX - 1 - entry.cursor); length > maxAllowed {
		length = maxAllowed
	}
	if length == 0 {
		return 0, nil
	}

	cursor := entry.cursor
	src := buf[:length]
	written := 0

	var indirectPtrs indirectPointers
	indirectLoaded := false
	indirectDirty := false

	firstBlockVisited := true
	ranOutOfBlocks := false

	for len(src) > 0 {
		lb := cursor / B

		physBlock, allocErr := fs.resolveBlockForWrite(&in, lb, &indirectPtrs, &indirectLoaded, &indirectDirty)
		if allocErr != nil {
			if errors.Is(allocErr, sfserrors.ErrNoFreeBlock) {
				// Best-effort partial write: stop here, leave metadata for
				// the bytes already written, and surface what we managed.
				ranOutOfBlocks = true
				break
			}
			return written, allocErr
		}

		var offsetInBlock uint32
		if firstBlockVisited {
			offsetInBlock = cursor % B
		}
		windowLen := B - offsetInBlock
		if uint32(len(src)) < windowLen {
			windowLen = uint32(len(src))
		}

		scratch, err := fs.readDataBlock(physBlock)
		if err != nil {
			return written, err
		}

		copy(scratch[offsetInBlock:offsetInBlock+windowLen], src[:windowLen])
		if err := fs.writeDataBlock(physBlock, scratch); err != nil {
			return written, err
		}

		src = src[windowLen:]
		cursor += windowLen
		written += int(windowLen)
		firstBlockVisited = false

		if cursor > in.FileSize {
			in.FileSize = cursor
		}
	}

	if ranOutOfBlocks && in.Indirect != blockdevice.InvalidBlock && in.FileSize <= DP*B {
		// The indirect block was allocated for this call but the allocator
		// ran dry before any indirect data block could be written to it.
		// Undo the allocation so the inode still satisfies "indirect block
		// allocated iff file size exceeds the direct range".
		fs.bitmap.free(in.Indirect)
		in.Indirect = blockdevice.InvalidBlock
		indirectDirty = false
	}

	if indirectDirty {
		if err := fs.writeDataBlock(in.Indirect, encodeIndirectBlock(indirectPtrs)); err != nil {
			return written, err
		}
	}

	fs.inodes.set(entry.inodeIndex, in)
	entry.cursor = cursor
	fs.oft.entries[fd] = entry

	if err := fs.flushInodes(); err != nil {
		return written, err
	}
	if err := fs.flushBitmap(); err != nil {
		return written, err
	}

	return written, nil
}

// resolveBlockForWrite returns the physical block backing logical block lb
// of in, allocating a direct or indirect block (and the indirect block
// itself, if needed) from the bitmap when the slot is not yet populated.
func (fs *FileSystem) resolveBlockForWrite(
	in *inode,
	lb uint32,
	indirectPtrs *indirectPointers,
	indirectLoaded *bool,
	indirectDirty *bool,
) (blockdevice.Block, error) {
	if lb < DP {
		if in.Direct[lb] == blockdevice.InvalidBlock {
			b, err := fs.bitmap.allocate()
			if err != nil {
				return blockdevice.InvalidBlock, err
			}
			in.Direct[lb] = b
		}
		return in.Direct[lb], nil
	}

	if in.Indirect == blockdevice.InvalidBlock {
		b, err := fs.bitmap.allocate()
		if err != nil {
			return blockdevice.InvalidBlock, err
		}
		in.Indirect = b
		for i := range indirectPtrs {
			indirectPtrs[i] = blockdevice.InvalidBlock
		}
		*indirectLoaded = true
		*indirectDirty = true
	}

	if !*indirectLoaded {
		raw, err := fs.readDataBlock(in.Indirect)
		if err != nil {
			return blockdevice.InvalidBlock, err
		}
		*indirectPtrs = decodeIndirectBlock(raw)
		*indirectLoaded = true
	}

	slot := lb - DP
	alreadyAllocated := lb < ceilDivU32(in.FileSize, B)
	if !alreadyAllocated || indirectPtrs[slot] == blockdevice.InvalidBlock {
		b, err := fs.bitmap.allocate()
		if err != nil {
			return blockdevice.InvalidBlock, err
		}
		indirectPtrs[slot] = b
		*indirectDirty = true
	}
	return indirectPtrs[slot], nil
}

func ceilDivU32(n, d uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n + d - 1) / d
}
