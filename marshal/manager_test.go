package marshal

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/native-bridge/errors"
)

func TestAllocate_Length(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.Allocate(pointLayout)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if b.Len() != pointLayout.Size() {
		t.Errorf("Len: got %d, want %d", b.Len(), pointLayout.Size())
	}
	if b.Count() != 1 {
		t.Errorf("Count: got %d, want 1", b.Count())
	}
	if b.Addr() == 0 {
		t.Error("Addr should be non-zero")
	}
	if b.Addr()%uintptr(pointLayout.Align()) != 0 {
		t.Errorf("Addr %d not aligned to %d", b.Addr(), pointLayout.Align())
	}
}

func TestAllocateN_Length(t *testing.T) {
	for _, count := range []int{0, 1, 2, 7, 64} {
		space := newMockSpace(4096)
		mgr := NewManager(space)

		b, err := mgr.AllocateN(pointLayout, count)
		if err != nil {
			t.Fatalf("count %d: %v", count, err)
		}
		if want := pointLayout.Size() * uint32(count); b.Len() != want {
			t.Errorf("count %d: Len got %d, want %d", count, b.Len(), want)
		}
		if err := b.Release(); err != nil {
			t.Errorf("count %d: release: %v", count, err)
		}
	}
}

func TestAllocateN_Zero(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.AllocateN(pointLayout, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 || b.Addr() != 0 {
		t.Errorf("got len %d addr %d, want zero block", b.Len(), b.Addr())
	}
	if space.allocs != 0 {
		t.Errorf("zero-length block should not reach the allocator, got %d allocs", space.allocs)
	}

	pts, err := DecodeArray[point](b, pointC, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pts == nil || len(pts) != 0 {
		t.Errorf("got %v, want empty non-nil slice", pts)
	}

	if err := b.Release(); err != nil {
		t.Fatal(err)
	}
	if len(space.frees) != 0 {
		t.Errorf("zero-length release should not free, got %v", space.frees)
	}
	if b.Live() {
		t.Error("block should be dead after release")
	}
}

func TestAllocate_Failure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	space := newMockSpace(4096)
	space.failing = true
	mgr := NewManagerWithConfig(space, &Config{Logger: zap.New(core)})

	b, err := mgr.Allocate(pointLayout)
	if b != nil {
		t.Error("failed allocation must not return a block")
	}
	if !stderrors.Is(err, ErrAllocation) {
		t.Fatalf("got %v, want allocation error", err)
	}
	if logs.FilterMessage("allocation failed").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestAllocate_NullAddress(t *testing.T) {
	space := newMockSpace(1100)
	mgr := NewManager(space)

	_, err := mgr.AllocateN(pointLayout, 100)
	if !stderrors.Is(err, ErrAllocation) {
		t.Fatalf("got %v, want allocation error", err)
	}
}

func TestAllocate_InvalidInput(t *testing.T) {
	mgr := NewManager(newMockSpace(4096))

	t.Run("negative", func(t *testing.T) {
		_, err := mgr.AllocateN(pointLayout, -1)
		if !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("nil_layout", func(t *testing.T) {
		_, err := mgr.Allocate(nil)
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := mgr.AllocateN(pointLayout, 1<<30)
		if !stderrors.Is(err, &errors.Error{Kind: errors.KindOverflow}) {
			t.Errorf("got %v, want overflow", err)
		}
	})
}

func TestRelease_Ownership(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManager(space)

	b, err := mgr.Allocate(pointLayout)
	if err != nil {
		t.Fatal(err)
	}
	addr := b.Addr()

	if err := b.Release(); err != nil {
		t.Fatal(err)
	}
	if b.Addr() != 0 {
		t.Error("released block should have no address")
	}
	if len(space.frees) != 1 || space.frees[0] != addr {
		t.Errorf("frees = %v, want [%d]", space.frees, addr)
	}

	err = b.Release()
	if !stderrors.Is(err, ErrOwnership) {
		t.Errorf("double release: got %v, want ownership error", err)
	}
	if len(space.frees) != 1 {
		t.Errorf("double release reached the allocator: %v", space.frees)
	}

	other := NewManager(space)
	b2, _ := mgr.Allocate(pointLayout)
	defer b2.Release()
	if err := other.Release(b2); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("foreign release: got %v, want ownership error", err)
	}

	var zero Block
	if err := zero.Release(); !stderrors.Is(err, ErrOwnership) {
		t.Errorf("zero block release: got %v", err)
	}
}

func TestDebug_Guard(t *testing.T) {
	space := newMockSpace(4096)
	mgr := NewManagerWithConfig(space, &Config{Debug: true})

	t.Run("intact", func(t *testing.T) {
		b, err := mgr.Allocate(pointLayout)
		if err != nil {
			t.Fatal(err)
		}
		guard := space.data[b.Addr()+8 : b.Addr()+16]
		for i, g := range guard {
			if g != guardPattern[i%4] {
				t.Fatalf("guard byte %d = %#x", i, g)
			}
		}
		if err := b.Release(); err != nil {
			t.Errorf("release: %v", err)
		}
	})

	t.Run("overrun", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		mgr := NewManagerWithConfig(space, &Config{Debug: true, GuardSize: 16, Logger: zap.New(core)})

		b, err := mgr.Allocate(pointLayout)
		if err != nil {
			t.Fatal(err)
		}
		frees := len(space.frees)

		// a native writer that overruns by one element
		if err := space.Write(b.Addr(), make([]byte, 12)); err != nil {
			t.Fatal(err)
		}

		err = b.Release()
		if !stderrors.Is(err, ErrCorrupted) {
			t.Errorf("got %v, want corrupted", err)
		}
		if len(space.frees) != frees+1 {
			t.Error("corrupted block must still be freed")
		}
		if logs.Len() != 1 {
			t.Errorf("expected one error log, got %d", logs.Len())
		}
	})
}
