package sfs

import (
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// Open resolves name to a file descriptor, creating the file if it doesn't
// exist. Re-opening an already-open file returns its existing descriptor
// rather than a new one. An existing file opened after being closed has
// its cursor set to end-of-file (append mode); a brand new file starts at
// cursor 0.
func (fs *FileSystem) Open(name string) (int, error) {
	if err := validateName(name); err != nil {
		return -1, err
	}

	if idx, err := fs.dirs.findByName(name); err == nil {
		entry := fs.dirs.entries[idx]
		if fd, open := fs.oft.findByInode(entry.InodeIndex); open {
			return fd, nil
		}

		in, err := fs.inodes.get(entry.InodeIndex)
		if err != nil {
			return -1, err
		}

		fd, ok := fs.oft.allocateSlot()
		if !ok {
			return -1, sfserrors.ErrNoFreeSlot.WithMessage("open-file table is full")
		}
		fs.oft.entries[fd] = openFileEntry{used: true, inodeIndex: entry.InodeIndex, cursor: in.FileSize}
		return fd, nil
	}

	inodeIdx, err := fs.inodes.allocateSlot()
	if err != nil {
		return -1, err
	}
	dirIdx, err := fs.dirs.allocateSlot()
	if err != nil {
		return -1, err
	}
	fd, ok := fs.oft.allocateSlot()
	if !ok {
		return -1, sfserrors.ErrNoFreeSlot.WithMessage("open-file table is full")
	}

	fs.inodes.set(inodeIdx, freeInode())
	newInode, _ := fs.inodes.get(inodeIdx)
	newInode.FileSize = 0
	fs.inodes.set(inodeIdx, newInode)
	fs.dirs.entries[dirIdx] = dirent{Used: true, Name: name, InodeIndex: inodeIdx}
	fs.oft.entries[fd] = openFileEntry{used: true, inodeIndex: inodeIdx, cursor: 0}

	if err := fs.flushInodes(); err != nil {
		return -1, err
	}
	if err := fs.flushDirs(); err != nil {
		return -1, err
	}
	return fd, nil
}

// Close marks fd's slot empty. The underlying inode, directory entry, and
// data blocks are left untouched.
func (fs *FileSystem) Close(fd int) error {
	if !fs.oft.isOpen(fd) {
		return sfserrors.ErrNotOpen
	}
	fs.oft.entries[fd] = openFileEntry{}
	return nil
}

// Seek repositions fd's cursor to loc. loc is not bounds-checked against
// file size; callers may position the cursor anywhere, and a subsequent
// read or write behaves per its own contract.
func (fs *FileSystem) Seek(fd int, loc uint32) error {
	if !fs.oft.isOpen(fd) {
		return sfserrors.ErrNotOpen
	}
	fs.oft.entries[fd].cursor = loc
	return nil
}

// Size returns the current size of the named file.
func (fs *FileSystem) Size(name string) (uint32, error) {
	idx, err := fs.dirs.findByName(name)
	if err != nil {
		return 0, err
	}
	in, err := fs.inodes.get(fs.dirs.entries[idx].InodeIndex)
	if err != nil {
		return 0, err
	}
	return in.FileSize, nil
}

// Next advances the file system's directory iteration cursor and returns
// the next used filename. ok is false once every used entry has been
// visited; the cursor is not reset by that.
func (fs *FileSystem) Next() (name string, ok bool) {
	idx, found := fs.dirs.nextUsedAfter(fs.iterCursor)
	if !found {
		return "", false
	}
	fs.iterCursor = idx
	return fs.dirs.entries[idx].Name, true
}

// ResetIteration rewinds the directory iteration cursor to before the first
// entry, as it is at mount/format time.
func (fs *FileSystem) ResetIteration() {
	fs.iterCursor = -1
}
