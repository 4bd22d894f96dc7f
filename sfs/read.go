package sfs

import (
	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// Read copies up to len(buf) bytes into buf starting at fd's cursor,
// clipped to the file's current size, and returns the number of bytes
// copied. It never allocates, mutates the bitmap, or writes metadata.
func (fs *FileSystem) Read(fd int, buf []byte) (int, error) {
	if !fs.oft.isOpen(fd) {
		return -1, sfserrors.ErrNotOpen
	}

	entry := fs.oft.entries[fd]
	in, err := fs.inodes.get(entry.inodeIndex)
	if err != nil {
		return -1, err
	}

	var bytesRemaining uint32
	if entry.cursor < in.FileSize {
		bytesRemaining = in.FileSize - entry.cursor
	}
	if uint32(len(buf)) < bytesRemaining {
		bytesRemaining = uint32(len(buf))
	}
	if bytesRemaining == 0 {
		return 0, nil
	}

	cursor := entry.cursor
	dst := buf[:bytesRemaining]
	read := 0

	var indirectPtrs indirectPointers
	indirectLoaded := false
	firstBlockVisited := true

	for bytesRemaining > 0 {
		lb := cursor / B

		physBlock, err := fs.resolveBlockForRead(in, lb, &indirectPtrs, &indirectLoaded)
		if err != nil {
			return read, err
		}

		var offsetInBlock uint32
		if firstBlockVisited {
			offsetInBlock = cursor % B
		}
		windowLen := B - offsetInBlock
		if bytesRemaining < windowLen {
			windowLen = bytesRemaining
		}

		scratch, err := fs.readDataBlock(physBlock)
		if err != nil {
			return read, err
		}

		copy(dst[:windowLen], scratch[offsetInBlock:offsetInBlock+windowLen])

		dst = dst[windowLen:]
		cursor += windowLen
		read += int(windowLen)
		bytesRemaining -= windowLen
		firstBlockVisited = false
	}

	entry.cursor = cursor
	fs.oft.entries[fd] = entry
	return read, nil
}

// resolveBlockForRead returns the physical block backing logical block lb
// of in. It never allocates, and assumes dense allocation up to FileSize: a
// sentinel pointer for a logical block below FileSize means the file is
// sparse (reachable only via seek-past-EOF followed by a write further
// out), which this path reports as ErrCorrupted rather than reading as
// zeroes.
func (fs *FileSystem) resolveBlockForRead(
	in inode,
	lb uint32,
	indirectPtrs *indirectPointers,
	indirectLoaded *bool,
) (blockdevice.Block, error) {
	if lb < DP {
		if in.Direct[lb] == blockdevice.InvalidBlock {
			return blockdevice.InvalidBlock, sfserrors.ErrCorrupted.WithMessage(
				"read addressed a direct block that was never allocated",
			)
		}
		return in.Direct[lb], nil
	}

	if in.Indirect == blockdevice.InvalidBlock {
		return blockdevice.InvalidBlock, sfserrors.ErrCorrupted.WithMessage(
			"read addressed an indirect block that was never allocated",
		)
	}

	if !*indirectLoaded {
		raw, err := fs.readDataBlock(in.Indirect)
		if err != nil {
			return blockdevice.InvalidBlock, err
		}
		*indirectPtrs = decodeIndirectBlock(raw)
		*indirectLoaded = true
	}

	if indirectPtrs[lb-DP] == blockdevice.InvalidBlock {
		return blockdevice.InvalidBlock, sfserrors.ErrCorrupted.WithMessage(
			"read addressed an indirect entry that was never allocated",
		)
	}
	return indirectPtrs[lb-DP], nil
}
