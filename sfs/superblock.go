package sfs

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// rawSuperblock is the on-disk representation of block 0.
type rawSuperblock struct {
	Magic         uint32
	BlockSize     uint32
	TotalBlocks   uint32
	InodeCount    uint32
	RootDirInode  uint32
}

func defaultSuperblock() rawSuperblock {
	return rawSuperblock{
		Magic:        superblockMagic,
		BlockSize:    B,
		TotalBlocks:  M,
		InodeCount:   N,
		RootDirInode: rootInodeIndex,
	}
}

func (sb rawSuperblock) encode() []byte {
	out := make([]byte, B)
	writer := bytewriter.New(out)
	binary.Write(writer, binary.LittleEndian, &sb)
	return out
}

func decodeSuperblock(raw []byte) (rawSuperblock, error) {
	var sb rawSuperblock
	reader := bytes.NewReader(raw)
	if err := binary.Read(reader, binary.LittleEndian, &sb); err != nil {
		return sb, sfserrors.ErrCorrupted.WrapError(err)
	}

	if sb.Magic != superblockMagic {
		return sb, sfserrors.ErrCorrupted.WithMessage("bad superblock magic")
	}
	if sb.BlockSize != B || sb.TotalBlocks != M || sb.InodeCount != N {
		return sb, sfserrors.ErrCorrupted.WithMessage(
			"superblock geometry does not match this build's fixed layout",
		)
	}
	return sb, nil
}
