package abi

import (
	"math"
	"testing"
)

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{17, 1, 17},
		{3, 0, 3},
	}
	for _, tc := range tests {
		if got := AlignTo(tc.offset, tc.align); got != tc.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tc.offset, tc.align, got, tc.want)
		}
	}
}

func TestSafeMulU32(t *testing.T) {
	if v, ok := SafeMulU32(8, 2); !ok || v != 16 {
		t.Errorf("SafeMulU32(8, 2) = %d, %v", v, ok)
	}
	if v, ok := SafeMulU32(248, 0); !ok || v != 0 {
		t.Errorf("SafeMulU32(248, 0) = %d, %v", v, ok)
	}
	if _, ok := SafeMulU32(math.MaxUint32, 2); ok {
		t.Error("expected overflow")
	}
}

func TestSafeAddU32(t *testing.T) {
	if v, ok := SafeAddU32(8, 8); !ok || v != 16 {
		t.Errorf("SafeAddU32(8, 8) = %d, %v", v, ok)
	}
	if _, ok := SafeAddU32(math.MaxUint32, 1); ok {
		t.Error("expected overflow")
	}
}

func TestIsPow2(t *testing.T) {
	for _, a := range []uint32{1, 2, 4, 8, 4096} {
		if !IsPow2(a) {
			t.Errorf("IsPow2(%d) = false", a)
		}
	}
	for _, a := range []uint32{0, 3, 6, 12} {
		if IsPow2(a) {
			t.Errorf("IsPow2(%d) = true", a)
		}
	}
}
