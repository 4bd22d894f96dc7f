package sfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// Check runs an fsck-style pass over every invariant of the data model:
// bitmap/inode/directory agreement, orphaned or double-claimed blocks, and
// duplicate directory names. It never stops at the first violation; every
// one found is collected into the returned error.
func (fs *FileSystem) Check() error {
	var result *multierror.Error

	owner := make(map[blockdevice.Block]string)
	claim := func(b blockdevice.Block, by string) {
		if b == blockdevice.InvalidBlock {
			return
		}
		if prev, seen := owner[b]; seen {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("block %d claimed by both %s and %s", b, prev, by),
			))
			return
		}
		owner[b] = by
		if !fs.bitmap.isUsed(b) {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("block %d used by %s but not marked used in the bitmap", b, by),
			))
		}
	}

	for b := blockdevice.Block(0); b < inodeTableFirstBlock+inodeTableNumBlocks; b++ {
		claim(b, "inode table")
	}
	for b := blockdevice.Block(dirTableFirstBlock); b < dirTableFirstBlock+dirTableNumBlocks; b++ {
		claim(b, "directory table")
	}
	claim(blockdevice.Block(bitmapBlock), "bitmap")

	namesSeen := make(map[string]bool)
	inodeOwned := make(map[int]string)

	for i, e := range fs.dirs.entries {
		if !e.Used {
			continue
		}
		if namesSeen[e.Name] {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("duplicate directory entry name %q", e.Name),
			))
		}
		namesSeen[e.Name] = true

		in, err := fs.inodes.get(e.InodeIndex)
		if err != nil {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("directory entry %d names out-of-range inode %d", i, e.InodeIndex),
			))
			continue
		}
		if in.isFree() {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("directory entry %q points at free inode %d", e.Name, e.InodeIndex),
			))
			continue
		}
		if prev, seen := inodeOwned[e.InodeIndex]; seen {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("inode %d is named by both %q and %q", e.InodeIndex, prev, e.Name),
			))
		}
		inodeOwned[e.InodeIndex] = e.Name

		label := fmt.Sprintf("inode %d (%s)", e.InodeIndex, e.Name)
		numBlocks := ceilDivU32(in.FileSize, B)

		directCount := numBlocks
		if directCount > DP {
			directCount = DP
		}
		for lb := uint32(0); lb < directCount; lb++ {
			claim(in.Direct[lb], label)
		}
		for lb := directCount; lb < DP; lb++ {
			if in.Direct[lb] != blockdevice.InvalidBlock {
				result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
					fmt.Sprintf("%s has a direct pointer beyond its file size", label),
				))
			}
		}

		if in.FileSize > DP*B {
			if in.Indirect == blockdevice.InvalidBlock {
				result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
					fmt.Sprintf("%s exceeds direct capacity but has no indirect block", label),
				))
			} else {
				claim(in.Indirect, label+" indirect")
				raw, err := fs.readDataBlock(in.Indirect)
				if err != nil {
					result = multierror.Append(result, err)
				} else {
					ptrs := decodeIndirectBlock(raw)
					for lb := uint32(DP); lb < numBlocks; lb++ {
						claim(ptrs[lb-DP], label)
					}
				}
			}
		} else if in.Indirect != blockdevice.InvalidBlock {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("%s has an indirect block but fits in direct pointers", label),
			))
		}
	}

	for i, in := range fs.inodes.entries {
		if i == rootInodeIndex || in.isFree() {
			continue
		}
		if _, named := inodeOwned[i]; !named {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("inode %d is allocated but not named by any directory entry", i),
			))
		}
	}

	for b := blockdevice.Block(0); b < M; b++ {
		if _, owned := owner[b]; !owned && fs.bitmap.isUsed(b) {
			result = multierror.Append(result, sfserrors.ErrCorrupted.WithMessage(
				fmt.Sprintf("block %d is marked used in the bitmap but owned by nothing", b),
			))
		}
	}

	return result.ErrorOrNil()
}
