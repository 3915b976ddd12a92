package marshal

import (
	"math"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/abi"
)

// Block is a single-owner handle to a region of foreign memory sized for
// count elements of one layout. The zero Block is not usable; blocks come
// from Manager.Allocate or Manager.AllocateN.
type Block struct {
	mgr   *Manager
	name  string
	addr  uintptr
	size  uint32
	elem  uint32
	align uint32
	guard uint32
	count int
	live  bool
}

// Addr is the base address to hand to native code. A zero-length block
// has address 0.
func (b *Block) Addr() uintptr { return b.addr }

// Len is the usable length in bytes: element size times count.
func (b *Block) Len() uint32 { return b.size }

// Count is the number of elements the block was allocated for.
func (b *Block) Count() int { return b.count }

// Live reports whether the block has not been released.
func (b *Block) Live() bool { return b.live }

// Bytes returns a view of the block's memory for native-side writers. The
// view is invalid after Release.
func (b *Block) Bytes() ([]byte, error) {
	if err := b.use(errors.PhaseDecode); err != nil {
		return nil, err
	}
	if b.size == 0 {
		return nil, nil
	}
	return b.mgr.space.Read(b.addr, b.size)
}

// Release returns the block to its manager. A second Release fails with
// an ownership error.
func (b *Block) Release() error {
	if b == nil || b.mgr == nil {
		return errors.ForeignBlock(errors.PhaseRelease)
	}
	return b.mgr.Release(b)
}

// Check asserts that the block can hold count elements of l. Decoding
// does not re-validate sizes unless the manager runs in debug mode, so
// callers that receive counts from native code can call Check first.
func (b *Block) Check(l *TypeLayout, count int) error {
	if count < 0 {
		return errors.InvalidInput(errors.PhaseDecode, "negative element count")
	}
	need, ok := byteLen(l.Size(), count)
	if !ok {
		return errors.Overflow(errors.PhaseDecode, l.Name(), l.Size(), count)
	}
	if need > b.size {
		return errors.OutOfBounds(errors.PhaseDecode, l.Name(), need, b.size)
	}
	return nil
}

func (b *Block) use(phase errors.Phase) error {
	if b == nil || b.mgr == nil {
		return errors.InvalidInput(phase, "nil or unmanaged block")
	}
	if !b.live {
		return errors.Released(phase, b.name)
	}
	return nil
}

// byteLen is size*count, or false if it does not fit in 32 bits.
func byteLen(size uint32, count int) (uint32, bool) {
	if count < 0 || uint64(count) > math.MaxUint32 {
		return 0, false
	}
	return abi.SafeMulU32(size, uint32(count))
}
