package sfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckPassesOnFreshAndPopulatedFilesystem(t *testing.T) {
	fsys := newFormatted(t)
	require.NoError(t, fsys.Check())

	fd, err := fsys.Open("a")
	require.NoError(t, err)
	_, err = fsys.Write(fd, []byte("hello world"))
	require.NoError(t, err)

	require.NoError(t, fsys.Check())
}
