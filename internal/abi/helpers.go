package abi

import (
	"math"
	"unsafe"
)

const (
	MaxAlloc = 1 << 30 // 1 GB max single allocation

	// MaxAlign is the alignment a C malloc guarantees on supported hosts.
	MaxAlign = 8

	// PointerSize is the width of a native pointer on the host.
	PointerSize = uint32(unsafe.Sizeof(uintptr(0)))
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// IsPow2 reports whether align is a usable alignment.
func IsPow2(align uint32) bool {
	return align != 0 && align&(align-1) == 0
}
