// Package sfs implements the Simple File System: a single-user, flat
// namespace filesystem persisted onto a fixed-size block device. It owns the
// block allocator, the inode table, the root directory table, and the
// open-file table, and exposes them through a Unix-flavored API (Open,
// Close, Read, Write, Seek, Remove, ...).
package sfs

// B is the size in bytes of one block on the device.
const B = 1024

// M is the total number of blocks the device is formatted with.
const M = 1024

// N is the capacity of the inode table, including the root directory's
// inode. Since D is smaller, the directory table is what limits how many
// files can exist at once.
const N = 114

// D is the capacity of the root directory table.
const D = 96

// K is the maximum number of simultaneously open files.
const K = 10

// DP is the number of direct block pointers carried by each inode.
const DP = 12

// IP_ENTRIES is the number of block-index entries an indirect block holds.
const IP_ENTRIES = B / 4

// F_MAX is the largest file size representable given DP direct pointers and
// one indirect block of IP_ENTRIES pointers.
const F_MAX = DP*B + IP_ENTRIES*B

// L_MAX is the longest filename allowed, not counting any terminator.
const L_MAX = 15

// Fixed on-disk block ranges, under the default geometry above.
const (
	superblockBlock     = 0
	inodeTableFirstBlock = 1
	inodeTableNumBlocks  = 6
	dirTableFirstBlock   = 7
	dirTableNumBlocks    = 2
	dataFirstBlock       = 9
	bitmapBlock          = M - 1
)

// freeSize is the sentinel stored in an inode's file-size field to mark the
// inode unallocated.
const freeSize = ^uint32(0)

// freePointer is the sentinel stored in a block-pointer field to mark it
// unallocated.
const freePointer = ^uint32(0)

const superblockMagic = uint32(0x53465331) // "SFS1"

// rootInodeIndex is the inode slot permanently reserved for the root
// directory. It is never freed and the root directory entry always points
// to it.
const rootInodeIndex = 0

// rootDirName is the directory entry name bound to the root inode at format
// time.
const rootDirName = "root"
