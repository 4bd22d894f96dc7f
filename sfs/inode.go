package sfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// rawInode is the on-disk representation of one inode-table entry. Pointers
// are stored as uint16 because the device never carries more than 65535
// blocks; file size needs the full uint32 range to reach F_MAX.
type rawInode struct {
	FileSize uint32
	Direct   [DP]uint16
	Indirect uint16
}

const rawInodeSize = 4 + DP*2 + 2

// inode is the in-memory, unpacked form of a rawInode. A FileSize of
// freeSize marks the slot unallocated.
type inode struct {
	FileSize uint32
	Direct   [DP]blockdevice.Block
	Indirect blockdevice.Block
}

func freeInode() inode {
	in := inode{FileSize: freeSize, Indirect: blockdevice.InvalidBlock}
	for i := range in.Direct {
		in.Direct[i] = blockdevice.InvalidBlock
	}
	return in
}

func (in inode) isFree() bool {
	return in.FileSize == freeSize
}

func rawPointerToBlock(p uint16) blockdevice.Block {
	if p == uint16(freePointer) {
		return blockdevice.InvalidBlock
	}
	return blockdevice.Block(p)
}

func blockToRawPointer(b blockdevice.Block) uint16 {
	if b == blockdevice.InvalidBlock {
		return uint16(freePointer)
	}
	return uint16(b)
}

func inodeFromRaw(raw rawInode) inode {
	in := inode{FileSize: raw.FileSize, Indirect: rawPointerToBlock(raw.Indirect)}
	for i, p := range raw.Direct {
		in.Direct[i] = rawPointerToBlock(p)
	}
	return in
}

func (in inode) toRaw() rawInode {
	raw := rawInode{FileSize: in.FileSize, Indirect: blockToRawPointer(in.Indirect)}
	for i, b := range in.Direct {
		raw.Direct[i] = blockToRawPointer(b)
	}
	return raw
}

// inodeTable is the in-memory mirror of the on-disk inode array.
type inodeTable struct {
	entries [N]inode
}

func newInodeTable() *inodeTable {
	t := &inodeTable{}
	for i := range t.entries {
		t.entries[i] = freeInode()
	}
	return t
}

// decodeInodeTable reads and unpacks the inode table from its fixed block
// range.
func decodeInodeTable(raw []byte) (*inodeTable, error) {
	if len(raw) < N*rawInodeSize {
		return nil, sfserrors.ErrCorrupted.WithMessage("inode table region too small")
	}

	t := &inodeTable{}
	reader := bytes.NewReader(raw)
	for i := 0; i < N; i++ {
		var r rawInode
		if err := binary.Read(reader, binary.LittleEndian, &r); err != nil {
			return nil, sfserrors.ErrCorrupted.WrapError(err)
		}
		t.entries[i] = inodeFromRaw(r)
	}
	return t, nil
}

// encode packs the inode table into a buffer sized to the inode-table
// block range, zero-padding any trailing bytes.
func (t *inodeTable) encode() []byte {
	out := make([]byte, inodeTableNumBlocks*B)
	writer := bytewriter.New(out)
	for i := 0; i < N; i++ {
		raw := t.entries[i].toRaw()
		binary.Write(writer, binary.LittleEndian, &raw)
	}
	return out
}

// allocateSlot returns the lowest-indexed free inode slot, or an error if
// the table is full.
func (t *inodeTable) allocateSlot() (int, error) {
	for i, in := range t.entries {
		if in.isFree() {
			return i, nil
		}
	}
	return 0, sfserrors.ErrNoFreeSlot.WithMessage("inode table is full")
}

func (t *inodeTable) get(i int) (inode, error) {
	if i < 0 || i >= N {
		return inode{}, sfserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("inode index %d out of range", i),
		)
	}
	return t.entries[i], nil
}

func (t *inodeTable) set(i int, in inode) {
	t.entries[i] = in
}
