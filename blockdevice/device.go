package blockdevice

import (
	"io"
	"os"

	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// Device is a fixed-size, fixed-block-count random access store. It wraps an
// os.File (or, in tests, any io.ReadWriteSeeker) behind a block cache so
// repeated small reads/writes to the same block don't round-trip to the
// backing file until Flush or Close.
//
// Device deliberately has no notion of resizing: the total block count is
// fixed for the lifetime of the device, mirroring the fixed-geometry disk
// image the rest of this module assumes.
type Device struct {
	file  *os.File // nil when backed by an arbitrary stream (tests only)
	cache *cache
}

// CreateFresh creates a new backing file at path, sized to exactly
// blockSize*totalBlocks bytes, and returns a Device over it. If a file
// already exists at path it is truncated and reinitialized.
func CreateFresh(path string, blockSize, totalBlocks uint) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}

	size := int64(blockSize) * int64(totalBlocks)
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}

	return &Device{file: f, cache: newCache(f, blockSize, totalBlocks)}, nil
}

// OpenExisting opens an existing backing file at path. The file's size must
// be at least blockSize*totalBlocks bytes.
func OpenExisting(path string, blockSize, totalBlocks uint) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, sfserrors.ErrIOFailed.WrapError(err)
	}

	wantSize := int64(blockSize) * int64(totalBlocks)
	if info.Size() < wantSize {
		f.Close()
		return nil, sfserrors.ErrInvalidArgument.WithMessage(
			"backing file is smaller than the requested geometry",
		)
	}

	return &Device{file: f, cache: newCache(f, blockSize, totalBlocks)}, nil
}

// WrapStream builds a Device over an arbitrary io.ReadWriteSeeker instead of
// a host file. Used by tests to run the whole stack against an in-memory
// buffer.
func WrapStream(stream io.ReadWriteSeeker, blockSize, totalBlocks uint) *Device {
	return &Device{cache: newCache(stream, blockSize, totalBlocks)}
}

// BlockSize returns the fixed size of one block, in bytes.
func (d *Device) BlockSize() uint {
	return d.cache.blockSize
}

// TotalBlocks returns the fixed number of blocks on the device.
func (d *Device) TotalBlocks() uint {
	return d.cache.totalBlocks
}

// ReadBlocks copies count blocks starting at block start into buf. buf must
// be at least count*BlockSize() bytes.
func (d *Device) ReadBlocks(start Block, count uint, buf []byte) error {
	src, err := d.cache.slice(start, count)
	if err != nil {
		return err
	}
	if uint(len(buf)) < count*d.cache.blockSize {
		return sfserrors.ErrInvalidArgument.WithMessage(
			"destination buffer too small for requested block range",
		)
	}
	copy(buf, src)
	return nil
}

// WriteBlocks copies count blocks worth of data from buf into the device
// starting at block start. The write is buffered in the cache; call Flush
// or Close to persist it.
func (d *Device) WriteBlocks(start Block, count uint, buf []byte) error {
	dst, err := d.cache.slice(start, count)
	if err != nil {
		return err
	}
	if uint(len(buf)) < count*d.cache.blockSize {
		return sfserrors.ErrInvalidArgument.WithMessage(
			"source buffer too small for requested block range",
		)
	}
	copy(dst, buf[:count*d.cache.blockSize])
	return d.cache.markDirty(start, count)
}

// Flush writes every dirty block back to the backing storage.
func (d *Device) Flush() error {
	return d.cache.flushAll()
}

// Close flushes pending writes and releases the backing file, if any.
func (d *Device) Close() error {
	if err := d.cache.flushAll(); err != nil {
		return err
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
