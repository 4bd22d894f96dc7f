package sfs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolasPasichnik/SimpleFileSystem/sfs"
)

func TestRemoveFreesBitmapAndRejectsFurtherLookup(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("f")
	require.NoError(t, err)
	_, err = fsys.Write(fd, bytes.Repeat([]byte{'k'}, 20000))
	require.NoError(t, err)
	require.NoError(t, fsys.Close(fd))

	require.NoError(t, fsys.Remove("f"))

	_, err = fsys.Size("f")
	assert.Error(t, err)

	require.NoError(t, fsys.Check())
}

func TestRemoveThenRecreateDoesNotCollideWithOtherFiles(t *testing.T) {
	fsys := newFormatted(t)

	fdOther, err := fsys.Open("other")
	require.NoError(t, err)
	_, err = fsys.Write(fdOther, bytes.Repeat([]byte{'o'}, 4096))
	require.NoError(t, err)

	fd, err := fsys.Open("f")
	require.NoError(t, err)
	_, err = fsys.Write(fd, bytes.Repeat([]byte{'k'}, 20000))
	require.NoError(t, err)
	require.NoError(t, fsys.Remove("f"))

	fd2, err := fsys.Open("f")
	require.NoError(t, err)
	n, err := fsys.Write(fd2, bytes.Repeat([]byte{'m'}, 5000))
	require.NoError(t, err)
	assert.Equal(t, 5000, n)

	// "other" must be untouched by f's allocate/free churn.
	require.NoError(t, fsys.Seek(fdOther, 0))
	out := make([]byte, 4096)
	n, err = fsys.Read(fdOther, out)
	require.NoError(t, err)
	assert.Equal(t, 4096, n)
	assert.Equal(t, bytes.Repeat([]byte{'o'}, 4096), out)

	require.NoError(t, fsys.Check())
}

func TestRemoveImplicitlyClosesOpenDescriptor(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("f")
	require.NoError(t, err)
	require.NoError(t, fsys.Remove("f"))

	n, err := fsys.Write(fd, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRemoveNonexistentFileFails(t *testing.T) {
	fsys := newFormatted(t)
	err := fsys.Remove("nope")
	assert.Error(t, err)
}

func TestRemoveRestoresEmptyFilesystemBitmapBaseline(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("f")
	require.NoError(t, err)
	_, err = fsys.Write(fd, bytes.Repeat([]byte{'k'}, 20000))
	require.NoError(t, err)
	require.NoError(t, fsys.Remove("f"))

	require.NoError(t, fsys.Check())
}
