package mem

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/uselessgoddess/dunes/internal/unsafeslice"
)

// minMappedBytes is the smallest file size Mapped will map, mirroring
// the MIN_PAGE_SIZE guard in the original Rust FileMapped backend: an
// empty or near-empty file is not worth mapping.
const minMappedBytes = 8 * 1024

// Mapped is a RawMem backed by a memory-mapped file: records survive a
// process restart, and the on-disk layout is simply the contiguous
// array of T in the platform's native byte order (spec §6.2).
//
// T must be a fixed-size, pointer-free ("plain old data") layout —
// the same contract Rust's bytemuck::Pod enforces on the original
// RawLink record. Go has no way to check that at compile time; callers
// are responsible for it, exactly as they would be for any other
// reinterpret-cast backend.
type Mapped[T any] struct {
	file   *os.File
	region mmap.MMap
	length int // number of initialized T
}

var _ RawMem[struct{}] = (*Mapped[struct{}])(nil)

// NewMapped opens (creating if necessary) the file at path and maps it
// for read/write access.
func NewMapped[T any](path string) (*Mapped[T], error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, SystemError{Cause: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, SystemError{Cause: err}
	}

	size := info.Size()
	if size < minMappedBytes {
		size = minMappedBytes
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, SystemError{Cause: err}
		}
	}

	itemSize := unsafeslice.SizeOf[T]()

	m := &Mapped[T]{file: f, length: int(info.Size()) / itemSize}
	if err := m.remap(int(size)); err != nil {
		_ = f.Close()
		return nil, err
	}

	return m, nil
}

func (m *Mapped[T]) remap(byteLen int) error {
	if m.region != nil {
		if err := m.region.Unmap(); err != nil {
			return SystemError{Cause: err}
		}
	}

	region, err := mmap.MapRegion(m.file, byteLen, mmap.RDWR, 0, 0)
	if err != nil {
		return SystemError{Cause: err}
	}

	m.region = region

	return nil
}

func (m *Mapped[T]) AsSlice() []T {
	return unsafeslice.Reinterpret[T](m.region)[:m.length]
}

func (m *Mapped[T]) AsMutSlice() []T {
	return unsafeslice.Reinterpret[T](m.region)[:m.length]
}

// Grow extends the backing file (and remaps it) by n records.
func (m *Mapped[T]) Grow(n int) (Page[T], error) {
	itemSize := unsafeslice.SizeOf[T]()
	old := m.length
	newLen := old + n
	newBytes := newLen * itemSize

	if int64(newBytes) < 0 {
		return Page[T]{}, CapacityOverflowError{Requested: newLen}
	}

	if err := m.file.Truncate(int64(newBytes)); err != nil {
		return Page[T]{}, SystemError{Cause: err}
	}

	if err := m.remap(newBytes); err != nil {
		return Page[T]{}, err
	}

	m.length = newLen

	full := unsafeslice.Reinterpret[T](m.region)

	return Page[T]{region: full[old:newLen]}, nil
}

// Shrink truncates the backing file by n records from the end.
func (m *Mapped[T]) Shrink(n int) error {
	itemSize := unsafeslice.SizeOf[T]()
	newLen := m.length - n
	if newLen < 0 {
		newLen = 0
	}

	newBytes := newLen * itemSize
	if newBytes < minMappedBytes {
		newBytes = minMappedBytes
	}

	if err := m.file.Truncate(int64(newBytes)); err != nil {
		return SystemError{Cause: err}
	}

	if err := m.remap(newBytes); err != nil {
		return err
	}

	m.length = newLen

	return nil
}

// Close unmaps the region and closes the underlying file.
func (m *Mapped[T]) Close() error {
	if m.region != nil {
		if err := m.region.Unmap(); err != nil {
			return SystemError{Cause: err}
		}
	}

	return m.file.Close()
}
