//go:build unix

package native

import (
	"os"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/wippyai/native-bridge/errors"
)

// Space allocates from anonymous private mappings.
type Space struct {
	pageSize uint32
}

// New creates a host Space.
func New() *Space {
	return &Space{pageSize: uint32(os.Getpagesize())}
}

// Alloc maps size bytes of zeroed, read-write memory.
func (s *Space) Alloc(size, align uint32) (uintptr, error) {
	if size == 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "zero-size mapping")
	}
	if align > s.pageSize {
		return 0, errors.Unsupported(errors.PhaseAlloc, "alignment above page size")
	}

	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// Free unmaps a region returned by Alloc; size must be the size it was
// allocated with.
func (s *Space) Free(addr uintptr, size, align uint32) {
	if addr == 0 || size == 0 {
		return
	}
	if err := unix.Munmap(view(addr, size)); err != nil {
		Logger().Warn("Free: munmap failed",
			zap.Uintptr("addr", addr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Read returns a view of length bytes at addr.
func (s *Space) Read(addr uintptr, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if addr == 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "read from null address")
	}
	return view(addr, length), nil
}

// Write copies data to addr.
func (s *Space) Write(addr uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if addr == 0 {
		return errors.InvalidInput(errors.PhaseEncode, "write to null address")
	}
	copy(view(addr, uint32(len(data))), data)
	return nil
}

func view(addr uintptr, n uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}
