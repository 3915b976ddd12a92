package marshal

import (
	"encoding/binary"
	"fmt"
	"testing"
	"unsafe"

	"github.com/wippyai/native-bridge/internal/abi"
	"go.bytecodealliance.org/wit"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

func requireLittleEndian(t *testing.T) {
	t.Helper()
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] != 1 {
		t.Skip("byte-literal fixtures assume a little-endian host")
	}
}

// mockSpace implements nativebridge.Space over a byte slice.
type mockSpace struct {
	data    []byte
	offset  uint32
	frees   []uintptr
	allocs  int
	failing bool
}

func newMockSpace(size int) *mockSpace {
	return &mockSpace{data: make([]byte, size), offset: 1024} // start at 1024 to test non-zero addresses
}

func (m *mockSpace) Read(addr uintptr, length uint32) ([]byte, error) {
	end := uint64(addr) + uint64(length)
	if addr == 0 || end > uint64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds: addr=%d, length=%d", addr, length)
	}
	return m.data[addr:end], nil
}

func (m *mockSpace) Write(addr uintptr, data []byte) error {
	end := uint64(addr) + uint64(len(data))
	if addr == 0 || end > uint64(len(m.data)) {
		return fmt.Errorf("write out of bounds: addr=%d, length=%d", addr, len(data))
	}
	copy(m.data[addr:], data)
	return nil
}

func (m *mockSpace) Alloc(size, align uint32) (uintptr, error) {
	if m.failing {
		return 0, fmt.Errorf("out of memory")
	}
	m.offset = abi.AlignTo(m.offset, align)
	if uint64(m.offset)+uint64(size) > uint64(len(m.data)) {
		return 0, nil
	}
	ptr := m.offset
	m.offset += size
	m.allocs++
	return uintptr(ptr), nil
}

func (m *mockSpace) Free(addr uintptr, size, align uint32) {
	m.frees = append(m.frees, addr)
}

type point struct {
	X, Y int32
}

var pointLayout = Describe("point",
	F("X", wit.S32{}),
	F("Y", wit.S32{}),
)

type pointCodec struct {
	x, y uint32
}

var pointC = pointCodec{
	x: pointLayout.MustOffset("X"),
	y: pointLayout.MustOffset("Y"),
}

func (pointCodec) Layout() *TypeLayout { return pointLayout }

func (c pointCodec) DecodeBytes(src []byte) point {
	return point{X: I32(src, c.x), Y: I32(src, c.y)}
}

func (c pointCodec) EncodeBytes(dst []byte, v point) {
	PutI32(dst, c.x, v.X)
	PutI32(dst, c.y, v.Y)
}

// panicCodec decodes by panicking, to exercise cleanup paths.
type panicCodec struct{ pointCodec }

func (panicCodec) DecodeBytes([]byte) point { panic("decode failed") }
