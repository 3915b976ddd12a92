package marshal

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wippyai/native-bridge/errors"
)

func writeBlock(t *testing.T, space *mockSpace, b *Block, data []byte) {
	t.Helper()
	if err := space.Write(b.Addr(), data); err != nil {
		t.Fatal(err)
	}
}

func TestDecode_Point(t *testing.T) {
	requireLittleEndian(t)
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.Allocate(pointLayout)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	writeBlock(t, space, b, []byte{1, 0, 0, 0, 2, 0, 0, 0})

	p, err := Decode[point](b, pointC)
	if err != nil {
		t.Fatal(err)
	}
	if p != (point{X: 1, Y: 2}) {
		t.Errorf("got %+v, want {1 2}", p)
	}
}

func TestDecode_ReadOnlyAndIndependent(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.Allocate(pointLayout)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if err := Encode(b, pointC, point{X: -5, Y: 9}); err != nil {
		t.Fatal(err)
	}
	before := bytes.Clone(space.data)

	p, err := Decode[point](b, pointC)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, space.data) {
		t.Error("decode modified memory")
	}

	if err := Encode(b, pointC, point{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
	if p != (point{X: -5, Y: 9}) {
		t.Errorf("decoded value changed with memory: %+v", p)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []point{{0, 0}, {1, 2}, {-1, -2}, {2147483647, -2147483648}}

	space := newMockSpace(4096)
	mgr := NewManager(space)

	for _, want := range values {
		b, err := mgr.Allocate(pointLayout)
		if err != nil {
			t.Fatal(err)
		}
		if err := Encode(b, pointC, want); err != nil {
			t.Fatal(err)
		}
		got, err := Decode[point](b, pointC)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
		b.Release()
	}
}

func TestDecodeArray_Points(t *testing.T) {
	requireLittleEndian(t)
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.AllocateN(pointLayout, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if b.Len() != 16 {
		t.Fatalf("Len: got %d, want 16", b.Len())
	}
	writeBlock(t, space, b, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0})

	pts, err := DecodeArray[point](b, pointC, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []point{{1, 2}, {3, 4}}
	if len(pts) != len(want) {
		t.Fatalf("len: got %d, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("[%d]: got %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestDecodeArray_MatchesStridedDecode(t *testing.T) {
	const n = 5
	space := newMockSpace(4096)
	mgr := NewManager(space)

	arr, err := mgr.AllocateN(pointLayout, n)
	if err != nil {
		t.Fatal(err)
	}
	defer arr.Release()

	in := make([]point, n)
	for i := range in {
		in[i] = point{X: int32(i * 10), Y: int32(-i)}
	}
	if err := EncodeArray(arr, pointC, in); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeArray[point](arr, pointC, n)
	if err != nil {
		t.Fatal(err)
	}

	one, err := mgr.Allocate(pointLayout)
	if err != nil {
		t.Fatal(err)
	}
	defer one.Release()

	stride := uintptr(SizeOf[point](pointC))
	for i := 0; i < n; i++ {
		src := space.data[arr.Addr()+uintptr(i)*stride : arr.Addr()+uintptr(i+1)*stride]
		writeBlock(t, space, one, src)
		want, err := Decode[point](one, pointC)
		if err != nil {
			t.Fatal(err)
		}
		if got[i] != want {
			t.Errorf("[%d]: array %+v, single %+v", i, got[i], want)
		}
	}
}

func TestDecodeArray_Negative(t *testing.T) {
	mgr := NewManager(newMockSpace(4096))
	b, _ := mgr.Allocate(pointLayout)
	defer b.Release()

	if _, err := DecodeArray[point](b, pointC, -1); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestDecode_AfterRelease(t *testing.T) {
	mgr := NewManager(newMockSpace(4096))
	b, err := mgr.AllocateN(pointLayout, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Release(); err != nil {
		t.Fatal(err)
	}

	if _, err := Decode[point](b, pointC); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("Decode: got %v, want ownership error", err)
	}
	if _, err := DecodeArray[point](b, pointC, 2); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("DecodeArray: got %v, want ownership error", err)
	}
	if _, err := DecodeArray[point](b, pointC, 0); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("DecodeArray(0): got %v, want ownership error", err)
	}
	if _, err := b.Bytes(); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("Bytes: got %v, want ownership error", err)
	}
	if err := Encode(b, pointC, point{}); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("Encode: got %v, want ownership error", err)
	}
}

func TestDecode_NilBlock(t *testing.T) {
	if _, err := Decode[point](nil, pointC); err == nil {
		t.Error("expected error for nil block")
	}
}

func TestDecodeArray_CountOverstated(t *testing.T) {
	t.Run("trusting", func(t *testing.T) {
		space := newMockSpace(4096)
		mgr := NewManager(space)
		b, _ := mgr.Allocate(pointLayout)
		defer b.Release()

		// the backing region is larger than the block, so the read succeeds
		pts, err := DecodeArray[point](b, pointC, 3)
		if err != nil {
			t.Fatalf("non-debug decode should trust the caller, got %v", err)
		}
		if len(pts) != 3 {
			t.Errorf("len: got %d, want 3", len(pts))
		}
		if err := b.Check(pointLayout, 3); !stderrors.Is(err, ErrOutOfBounds) {
			t.Errorf("explicit Check: got %v, want out_of_bounds", err)
		}
	})

	t.Run("debug", func(t *testing.T) {
		mgr := NewManagerWithConfig(newMockSpace(4096), &Config{Debug: true})
		b, _ := mgr.Allocate(pointLayout)
		defer b.Release()

		_, err := DecodeArray[point](b, pointC, 2)
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds}) {
			t.Errorf("got %v, want decode out_of_bounds", err)
		}
	})

	t.Run("debug_short_block", func(t *testing.T) {
		mgr := NewManagerWithConfig(newMockSpace(4096), &Config{Debug: true})
		b, _ := mgr.AllocateN(pointLayout, 0)
		defer b.Release()

		if _, err := Decode[point](b, pointC); !stderrors.Is(err, ErrOutOfBounds) {
			t.Errorf("got %v, want out_of_bounds", err)
		}
	})
}

func TestEncode_Bounds(t *testing.T) {
	mgr := NewManager(newMockSpace(4096))
	b, _ := mgr.Allocate(pointLayout)
	defer b.Release()

	err := EncodeArray(b, pointC, []point{{1, 1}, {2, 2}})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOutOfBounds}) {
		t.Errorf("got %v, want encode out_of_bounds", err)
	}
	if err := EncodeArray(b, pointC, nil); err != nil {
		t.Errorf("empty encode: %v", err)
	}
}

func TestBlock_Bytes(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManager(space)
	b, _ := mgr.Allocate(pointLayout)
	defer b.Release()

	view, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 8 {
		t.Fatalf("len: got %d, want 8", len(view))
	}
	PutI32(view, pointC.y, 42)

	p, err := Decode[point](b, pointC)
	if err != nil {
		t.Fatal(err)
	}
	if p.Y != 42 {
		t.Errorf("Y: got %d, want 42", p.Y)
	}
}
