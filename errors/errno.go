package errors

import "fmt"

// SfsErrno is a named error condition, modeled as a bare string so the zero
// value is never mistaken for "no error" and so comparisons with
// errors.Is work without pointer identity games.
type SfsErrno string

// The core set of filesystem error kinds, plus the ambient kinds needed by
// mount-time and fsck-style validation.

// ErrNotOpen: operation issued on a descriptor whose slot is empty.
const ErrNotOpen = SfsErrno("file descriptor is not open")

// ErrNameTooLong: filename length exceeds the maximum.
const ErrNameTooLong = SfsErrno("file name too long")

// ErrNotFound: no directory entry matches the given name.
const ErrNotFound = SfsErrno("no such file")

// ErrNoFreeSlot: no free inode, directory entry, or open-file slot.
const ErrNoFreeSlot = SfsErrno("no free slot available")

// ErrNoFreeBlock: the block bitmap is exhausted.
const ErrNoFreeBlock = SfsErrno("no space left on device")

// ErrIOFailed: the underlying block device failed.
const ErrIOFailed = SfsErrno("block device I/O failed")

// ErrCorrupted: a persisted invariant does not hold. Surfaced by Mount, by
// Check, and by Read when a block inside a file's size was never allocated.
const ErrCorrupted = SfsErrno("file system structure is corrupted")

// ErrInvalidArgument: a caller-supplied value is out of its documented domain
// (e.g. a geometry that doesn't fit the fixed layout rules).
const ErrInvalidArgument = SfsErrno("invalid argument")

func (e SfsErrno) Error() string {
	return string(e)
}

func (e SfsErrno) WithMessage(message string) SfsError {
	return contextualError{
		message: fmt.Sprintf("%s: %s", string(e), message),
		parents: []error{e},
	}
}

func (e SfsErrno) WrapError(err error) SfsError {
	return contextualError{
		message: fmt.Sprintf("%s: %s", string(e), err.Error()),
		parents: []error{e, err},
	}
}
