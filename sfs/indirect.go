package sfs

import (
	"encoding/binary"

	"github.com/NikolasPasichnik/SimpleFileSystem/blockdevice"
)

// indirectPointers is the unpacked content of one indirect block: an array
// of IP_ENTRIES block indices, each 4 bytes wide (IP_ENTRIES = B / 4).
type indirectPointers [IP_ENTRIES]blockdevice.Block

func decodeIndirectBlock(raw []byte) indirectPointers {
	var ptrs indirectPointers
	for i := 0; i < IP_ENTRIES; i++ {
		v := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		ptrs[i] = indirectRawToBlock(v)
	}
	return ptrs
}

func encodeIndirectBlock(ptrs indirectPointers) []byte {
	out := make([]byte, B)
	for i, v := range ptrs {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], indirectBlockToRaw(v))
	}
	return out
}

func indirectRawToBlock(v uint32) blockdevice.Block {
	if v == freePointer {
		return blockdevice.InvalidBlock
	}
	return blockdevice.Block(v)
}

func indirectBlockToRaw(b blockdevice.Block) uint32 {
	if b == blockdevice.InvalidBlock {
		return freePointer
	}
	return uint32(b)
}
