package sfs

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolasPasichnik/SimpleFileSystem/internal/disktest"
)

// These tests reach into FileSystem's unexported fields to inject the kind
// of corruption Check is meant to catch; none of it is reachable through
// the public API, which is precisely why Check exists as a second line of
// defense against bugs in that API.
func newInternalFormatted(t *testing.T) *FileSystem {
	t.Helper()
	dev := disktest.NewMemoryDevice(B, M)
	fs, err := FormatStream(dev)
	require.NoError(t, err)
	return fs
}

func TestCheckDetectsDuplicateDirectoryNames(t *testing.T) {
	fs := newInternalFormatted(t)

	_, err := fs.Open("dup")
	require.NoError(t, err)

	dupDirIdx, err := fs.dirs.findByName("dup")
	require.NoError(t, err)
	dupInode := fs.dirs.entries[dupDirIdx].InodeIndex

	idx, err := fs.dirs.allocateSlot()
	require.NoError(t, err)
	fs.dirs.entries[idx] = dirent{Used: true, Name: "dup", InodeIndex: dupInode}

	checkErr := fs.Check()
	require.Error(t, checkErr)

	merr, ok := checkErr.(*multierror.Error)
	require.True(t, ok)
	assert.NotEmpty(t, merr.Errors)
}

func TestCheckDetectsBitmapDisagreement(t *testing.T) {
	fs := newInternalFormatted(t)

	in, err := fs.inodes.get(rootInodeIndex)
	require.NoError(t, err)
	in.FileSize = B
	in.Direct[0] = 500
	fs.inodes.set(rootInodeIndex, in)
	fs.bitmap.markFree(500)

	checkErr := fs.Check()
	assert.Error(t, checkErr)
}

func TestCheckDetectsOrphanedInode(t *testing.T) {
	fs := newInternalFormatted(t)

	idx, err := fs.inodes.allocateSlot()
	require.NoError(t, err)
	orphan := freeInode()
	orphan.FileSize = 0
	fs.inodes.set(idx, orphan)

	checkErr := fs.Check()
	assert.Error(t, checkErr)
}
