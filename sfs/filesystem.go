package sfs

import (
	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// FileSystem bundles every in-memory index the filesystem needs — the
// inode table, the root directory table, the free-block bitmap, and the
// open-file table — behind the device they are mirrored from. It is not
// safe for concurrent use: every operation runs to completion before the
// next begins, matching the single-threaded contract of the on-disk
// format.
type FileSystem struct {
	dev    *blockdevice.Device
	sb     rawSuperblock
	inodes *inodeTable
	dirs   *dirTable
	bitmap *blockBitmap
	oft    *openFileTable

	// iterCursor is the directory iteration cursor shared by every Next call
	// on this FileSystem. -1 means
	// "before the first entry".
	iterCursor int
}

// Format creates a brand new device at path, lays down an empty root
// directory, and returns a mounted FileSystem ready for use. Equivalent to
// mksfs(true).
func Format(path string) (*FileSystem, error) {
	dev, err := blockdevice.CreateFresh(path, B, M)
	if err != nil {
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}
	return formatOnto(dev)
}

// FormatStream is Format for an arbitrary in-memory or test stream instead
// of a host file.
func FormatStream(dev *blockdevice.Device) (*FileSystem, error) {
	return formatOnto(dev)
}

func formatOnto(dev *blockdevice.Device) (*FileSystem, error) {
	fs := &FileSystem{
		dev:        dev,
		sb:         defaultSuperblock(),
		inodes:     newInodeTable(),
		dirs:       newDirTable(),
		bitmap:     newBlockBitmap(),
		oft:        newOpenFileTable(),
		iterCursor: -1,
	}

	// The root inode is never free; it carries no data of its own.
	root := inode{FileSize: 0, Indirect: blockdevice.InvalidBlock}
	for i := range root.Direct {
		root.Direct[i] = blockdevice.InvalidBlock
	}
	fs.inodes.set(rootInodeIndex, root)
	fs.dirs.entries[0] = dirent{Used: true, Name: rootDirName, InodeIndex: rootInodeIndex}

	for b := blockdevice.Block(0); b < inodeTableFirstBlock+inodeTableNumBlocks; b++ {
		fs.bitmap.markUsed(b)
	}
	for b := blockdevice.Block(dirTableFirstBlock); b < dirTableFirstBlock+dirTableNumBlocks; b++ {
		fs.bitmap.markUsed(b)
	}
	fs.bitmap.markUsed(blockdevice.Block(bitmapBlock))

	if err := fs.flushAll(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Mount opens an existing device at path and rebuilds the in-memory indices
// from it. Equivalent to mksfs(false).
func Mount(path string) (*FileSystem, error) {
	dev, err := blockdevice.OpenExisting(path, B, M)
	if err != nil {
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}
	return mountFrom(dev)
}

// MountStream is Mount for an arbitrary in-memory or test stream.
func MountStream(dev *blockdevice.Device) (*FileSystem, error) {
	return mountFrom(dev)
}

func mountFrom(dev *blockdevice.Device) (*FileSystem, error) {
	sbBuf := make([]byte, B)
	if err := dev.ReadBlocks(superblockBlock, 1, sbBuf); err != nil {
		return nil, err
	}
	sb, err := decodeSuperblock(sbBuf)
	if err != nil {
		return nil, err
	}

	inodeBuf := make([]byte, inodeTableNumBlocks*B)
	if err := dev.ReadBlocks(inodeTableFirstBlock, inodeTableNumBlocks, inodeBuf); err != nil {
		return nil, err
	}
	inodes, err := decodeInodeTable(inodeBuf)
	if err != nil {
		return nil, err
	}

	dirBuf := make([]byte, dirTableNumBlocks*B)
	if err := dev.ReadBlocks(dirTableFirstBlock, dirTableNumBlocks, dirBuf); err != nil {
		return nil, err
	}
	dirs, err := decodeDirTable(dirBuf)
	if err != nil {
		return nil, err
	}

	bitmapBuf := make([]byte, B)
	if err := dev.ReadBlocks(bitmapBlock, 1, bitmapBuf); err != nil {
		return nil, err
	}

	return &FileSystem{
		dev:        dev,
		sb:         sb,
		inodes:     inodes,
		dirs:       dirs,
		bitmap:     decodeBlockBitmap(bitmapBuf),
		oft:        newOpenFileTable(),
		iterCursor: -1,
	}, nil
}

// Unmount flushes every metadata region and releases the backing device.
func (fs *FileSystem) Unmount() error {
	if err := fs.flushAll(); err != nil {
		return err
	}
	return fs.dev.Close()
}

func (fs *FileSystem) flushAll() error {
	if err := fs.dev.WriteBlocks(superblockBlock, 1, fs.sb.encode()); err != nil {
		return err
	}
	if err := fs.flushInodes(); err != nil {
		return err
	}
	if err := fs.flushDirs(); err != nil {
		return err
	}
	if err := fs.flushBitmap(); err != nil {
		return err
	}
	return fs.dev.Flush()
}

func (fs *FileSystem) flushInodes() error {
	return fs.dev.WriteBlocks(inodeTableFirstBlock, inodeTableNumBlocks, fs.inodes.encode())
}

func (fs *FileSystem) flushDirs() error {
	buf, err := fs.dirs.encode()
	if err != nil {
		return err
	}
	return fs.dev.WriteBlocks(dirTableFirstBlock, dirTableNumBlocks, buf)
}

func (fs *FileSystem) flushBitmap() error {
	return fs.dev.WriteBlocks(bitmapBlock, 1, fs.bitmap.encode())
}

func (fs *FileSystem) readDataBlock(b blockdevice.Block) ([]byte, error) {
	buf := make([]byte, B)
	if err := fs.dev.ReadBlocks(b, 1, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (fs *FileSystem) writeDataBlock(b blockdevice.Block, data []byte) error {
	return fs.dev.WriteBlocks(b, 1, data)
}
