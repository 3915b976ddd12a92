package marshal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/wippyai/native-bridge/internal/abi"
)

// FixedLayout is the per-type capability the bridge works with: a
// structure's native layout plus the byte-level conversion in both
// directions. DecodeBytes and EncodeBytes receive exactly Layout().Size()
// bytes. DecodeBytes must copy everything it keeps; src is a view into
// foreign memory.
type FixedLayout[T any] interface {
	Layout() *TypeLayout
	DecodeBytes(src []byte) T
	EncodeBytes(dst []byte, v T)
}

// Direct returns a FixedLayout for a Go struct whose in-memory form already
// matches l, typically one declared with a structs.HostLayout field. T must
// not contain Go pointers, strings, slices, maps or interfaces. It panics if
// the Go size or alignment of T disagrees with l.
func Direct[T any](l *TypeLayout) FixedLayout[T] {
	var zero T
	if size := uint32(unsafe.Sizeof(zero)); size != l.Size() {
		panic(fmt.Sprintf("marshal: %T is %d bytes, native %s is %d", zero, size, l.Name(), l.Size()))
	}
	if align := uint32(unsafe.Alignof(zero)); align != l.Align() {
		panic(fmt.Sprintf("marshal: %T aligns to %d, native %s to %d", zero, align, l.Name(), l.Align()))
	}
	return direct[T]{layout: l}
}

type direct[T any] struct {
	layout *TypeLayout
}

func (d direct[T]) Layout() *TypeLayout { return d.layout }

func (d direct[T]) DecodeBytes(src []byte) T {
	var v T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)), src)
	return v
}

func (d direct[T]) EncodeBytes(dst []byte, v T) {
	copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)))
}

// Field accessors for hand-written codecs. Integers use the host byte
// order, as the native library wrote them.

var order = binary.NativeEndian

// U8 reads a uint8_t field.
func U8(src []byte, off uint32) uint8 { return src[off] }

// U16 reads a uint16_t field.
func U16(src []byte, off uint32) uint16 { return order.Uint16(src[off:]) }

// U32 reads a uint32_t field.
func U32(src []byte, off uint32) uint32 { return order.Uint32(src[off:]) }

// U64 reads a uint64_t field.
func U64(src []byte, off uint32) uint64 { return order.Uint64(src[off:]) }

// I32 reads an int32_t field.
func I32(src []byte, off uint32) int32 { return int32(order.Uint32(src[off:])) }

// I64 reads an int64_t field.
func I64(src []byte, off uint32) int64 { return int64(order.Uint64(src[off:])) }

// Uintptr reads a native pointer field.
func Uintptr(src []byte, off uint32) uintptr {
	if abi.PointerSize == 8 {
		return uintptr(order.Uint64(src[off:]))
	}
	return uintptr(order.Uint32(src[off:]))
}

// CString reads a NUL-terminated char[n] field.
func CString(src []byte, off, n uint32) string {
	b := src[off : off+n]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// PutU8 writes a uint8_t field.
func PutU8(dst []byte, off uint32, v uint8) { dst[off] = v }

// PutU16 writes a uint16_t field.
func PutU16(dst []byte, off uint32, v uint16) { order.PutUint16(dst[off:], v) }

// PutU32 writes a uint32_t field.
func PutU32(dst []byte, off uint32, v uint32) { order.PutUint32(dst[off:], v) }

// PutU64 writes a uint64_t field.
func PutU64(dst []byte, off uint32, v uint64) { order.PutUint64(dst[off:], v) }

// PutI32 writes an int32_t field.
func PutI32(dst []byte, off uint32, v int32) { order.PutUint32(dst[off:], uint32(v)) }

// PutI64 writes an int64_t field.
func PutI64(dst []byte, off uint32, v int64) { order.PutUint64(dst[off:], uint64(v)) }

// PutUintptr writes a native pointer field.
func PutUintptr(dst []byte, off uint32, v uintptr) {
	if abi.PointerSize == 8 {
		order.PutUint64(dst[off:], uint64(v))
		return
	}
	order.PutUint32(dst[off:], uint32(v))
}

// PutCString writes s into a char[n] field, truncated to n-1 bytes and
// NUL-padded.
func PutCString(dst []byte, off, n uint32, s string) {
	if n == 0 {
		return
	}
	b := dst[off : off+n]
	k := copy(b[:n-1], s)
	clear(b[k:])
}
