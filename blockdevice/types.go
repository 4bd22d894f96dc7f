// Package blockdevice provides the block-oriented read/write interface the
// rest of the module treats as an external collaborator: a fixed number of
// fixed-size blocks, addressable by index, backed by a host file (or, for
// tests, any io.ReadWriteSeeker).
package blockdevice

// Block is the index of a fixed-size block on a Device.
type Block uint

// InvalidBlock is the sentinel used by callers that need to say "no block"
// in a field that otherwise holds a valid Block index.
const InvalidBlock = Block(^uint(0))
