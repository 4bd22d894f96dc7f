package sfs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolasPasichnik/SimpleFileSystem/sfs"
)

func TestWriteCrossingDirectBlockBoundary(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("b")
	require.NoError(t, err)

	n, err := fsys.Write(fd, bytes.Repeat([]byte{'x'}, sfs.B))
	require.NoError(t, err)
	assert.Equal(t, sfs.B, n)

	n, err = fsys.Write(fd, []byte{'y'})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	size, err := fsys.Size("b")
	require.NoError(t, err)
	assert.EqualValues(t, sfs.B+1, size)
}

func TestWriteCrossingIndirectBoundary(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("c")
	require.NoError(t, err)

	n, err := fsys.Write(fd, bytes.Repeat([]byte{'z'}, sfs.DP*sfs.B))
	require.NoError(t, err)
	assert.Equal(t, sfs.DP*sfs.B, n)

	n, err = fsys.Write(fd, []byte{'!'})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	size, err := fsys.Size("c")
	require.NoError(t, err)
	assert.EqualValues(t, sfs.DP*sfs.B+1, size)

	require.NoError(t, fsys.Check())
}

func TestWriteClipsAtFMax(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("d")
	require.NoError(t, err)

	n, err := fsys.Write(fd, bytes.Repeat([]byte{'z'}, sfs.F_MAX))
	require.NoError(t, err)
	assert.Equal(t, sfs.F_MAX-1, n)

	size, err := fsys.Size("d")
	require.NoError(t, err)
	assert.EqualValues(t, sfs.F_MAX-1, size)
}

func TestRandomAccessWritePreservesSurroundingBytes(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("e")
	require.NoError(t, err)

	_, err = fsys.Write(fd, bytes.Repeat([]byte{'a'}, 2048))
	require.NoError(t, err)

	require.NoError(t, fsys.Seek(fd, 500))
	n, err := fsys.Write(fd, bytes.Repeat([]byte{'Q'}, 100))
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	require.NoError(t, fsys.Seek(fd, 0))
	out := make([]byte, 2048)
	n, err = fsys.Read(fd, out)
	require.NoError(t, err)
	assert.Equal(t, 2048, n)

	assert.Equal(t, bytes.Repeat([]byte{'Q'}, 100), out[500:600])
	assert.Equal(t, bytes.Repeat([]byte{'a'}, 500), out[:500])
	assert.Equal(t, bytes.Repeat([]byte{'a'}, 2048-600), out[600:])

	size, err := fsys.Size("e")
	require.NoError(t, err)
	assert.EqualValues(t, 2048, size)
}

func TestReadAfterWriteRoundTrips(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("f")
	require.NoError(t, err)

	payload := []byte("the quick brown fox")
	n, err := fsys.Write(fd, payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	require.NoError(t, fsys.Seek(fd, 0))
	out := make([]byte, len(payload))
	n, err = fsys.Read(fd, out)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, out)
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("g")
	require.NoError(t, err)
	_, err = fsys.Write(fd, []byte("abc"))
	require.NoError(t, err)

	require.NoError(t, fsys.Seek(fd, 100))
	out := make([]byte, 10)
	n, err := fsys.Read(fd, out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriteWithZeroLengthIsNoop(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("h")
	require.NoError(t, err)

	n, err := fsys.Write(fd, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCursorAdvancesByBytesTransferred(t *testing.T) {
	fsys := newFormatted(t)

	fd, err := fsys.Open("i")
	require.NoError(t, err)

	n, err := fsys.Write(fd, []byte("0123456789"))
	require.NoError(t, err)
	require.Equal(t, 10, n)

	require.NoError(t, fsys.Seek(fd, 0))
	out := make([]byte, 4)
	n, err = fsys.Read(fd, out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n2, err := fsys.Write(fd, []byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n2)

	size, err := fsys.Size("i")
	require.NoError(t, err)
	assert.EqualValues(t, 10, size)
}
