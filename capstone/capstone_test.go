package capstone

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/wippyai/native-bridge/internal/abi"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// heapSpace implements nativebridge.Space over a byte slice and tracks
// outstanding allocations.
type heapSpace struct {
	data   []byte
	offset uint32
	live   map[uintptr]uint32
}

func newHeapSpace(size int) *heapSpace {
	return &heapSpace{data: make([]byte, size), offset: 64, live: make(map[uintptr]uint32)}
}

func (h *heapSpace) Read(addr uintptr, length uint32) ([]byte, error) {
	end := uint64(addr) + uint64(length)
	if addr == 0 || end > uint64(len(h.data)) {
		return nil, fmt.Errorf("read out of bounds: addr=%d, length=%d", addr, length)
	}
	return h.data[addr:end], nil
}

func (h *heapSpace) Write(addr uintptr, data []byte) error {
	end := uint64(addr) + uint64(len(data))
	if addr == 0 || end > uint64(len(h.data)) {
		return fmt.Errorf("write out of bounds: addr=%d, length=%d", addr, len(data))
	}
	copy(h.data[addr:], data)
	return nil
}

func (h *heapSpace) Alloc(size, align uint32) (uintptr, error) {
	h.offset = abi.AlignTo(h.offset, align)
	if uint64(h.offset)+uint64(size) > uint64(len(h.data)) {
		return 0, nil
	}
	addr := uintptr(h.offset)
	h.offset += size
	h.live[addr] = size
	return addr, nil
}

func (h *heapSpace) Free(addr uintptr, size, align uint32) {
	delete(h.live, addr)
}

// arm64 encodings
var (
	nop = []byte{0x1f, 0x20, 0x03, 0xd5}
	ret = []byte{0xc0, 0x03, 0x5f, 0xd6}
)

func code(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func nativeU32(src []byte, off int) uint32 {
	return binary.NativeEndian.Uint32(src[off:])
}
