package sfs_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolasPasichnik/SimpleFileSystem/sfs"
)

func TestOpenAndWriteAllocatesExpectedDirectBlocks(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("alloc")
	require.NoError(t, err)
	_, err = fsys.Write(fd, bytes.Repeat([]byte{'a'}, sfs.B*2))
	require.NoError(t, err)

	require.NoError(t, fsys.Check())
}

// Directory entry 0 is permanently taken by the root directory, and D is
// smaller than N, so the directory table fills before the inode table: at
// most D-1 new files can exist at once. Opening and closing serially
// (rather than holding K descriptors open at a time) isolates
// directory-table exhaustion from open-file-table exhaustion.
func TestCreatingFilesEventuallyExhaustsDirectoryTable(t *testing.T) {
	fsys := newFormatted(t)

	created := 0
	for i := 0; i < sfs.N+5; i++ {
		name := fmt.Sprintf("f%d", i)
		fd, err := fsys.Open(name)
		if err != nil {
			break
		}
		created++
		require.NoError(t, fsys.Close(fd))
	}

	assert.Equal(t, sfs.D-1, created)
}

func TestBitmapAccountingMatchesEmptyBaselineAfterFormat(t *testing.T) {
	fsys := newFormatted(t)
	require.NoError(t, fsys.Check())
}
