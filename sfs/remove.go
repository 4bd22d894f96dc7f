package sfs

import (
	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
)

// Remove deletes the named file: its directory entry, inode, and data
// blocks (direct and indirect) are all freed. Any open-file slot referring
// to it is implicitly closed.
func (fs *FileSystem) Remove(name string) error {
	dirIdx, err := fs.dirs.findByName(name)
	if err != nil {
		return err
	}
	inodeIdx := fs.dirs.entries[dirIdx].InodeIndex

	fs.dirs.entries[dirIdx] = dirent{}
	if err := fs.flushDirs(); err != nil {
		return err
	}

	if fd, open := fs.oft.findByInode(inodeIdx); open {
		fs.oft.entries[fd] = openFileEntry{}
	}

	in, err := fs.inodes.get(inodeIdx)
	if err != nil {
		return err
	}
	size := in.FileSize

	if size > 0 {
		numBlocks := ceilDivU32(size, B)

		directCount := numBlocks
		if directCount > DP {
			directCount = DP
		}
		for i := uint32(0); i < directCount; i++ {
			if in.Direct[i] != blockdevice.InvalidBlock {
				fs.bitmap.free(in.Direct[i])
				in.Direct[i] = blockdevice.InvalidBlock
			}
		}

		if size > DP*B {
			raw, err := fs.readDataBlock(in.Indirect)
			if err == nil {
				ptrs := decodeIndirectBlock(raw)
				for lb := uint32(DP); lb < numBlocks; lb++ {
					p := ptrs[lb-DP]
					if p != blockdevice.InvalidBlock {
						fs.bitmap.free(p)
					}
				}
			}
			fs.bitmap.free(in.Indirect)
			in.Indirect = blockdevice.InvalidBlock
		}

		if err := fs.flushBitmap(); err != nil {
			return err
		}
	}

	in.FileSize = freeSize
	fs.inodes.set(inodeIdx, in)
	return fs.flushInodes()
}
