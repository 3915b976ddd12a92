package marshal

import (
	"bytes"

	"go.uber.org/zap"

	nativebridge "github.com/wippyai/native-bridge"
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/abi"
)

const defaultGuardSize = 8

var guardPattern = [4]byte{0xDE, 0xAD, 0xBE, 0xEF}

// Config holds configuration for a Manager
type Config struct {
	// Logger receives allocation events. nil means the package logger.
	Logger *zap.Logger

	// Debug enables the hardened mode: every block is followed by a guard
	// region checked on release, and every decode asserts the block is
	// large enough for what it reads.
	Debug bool

	// GuardSize is the guard length in bytes in debug mode.
	// 0 means default (8).
	GuardSize uint32
}

// Manager acquires and releases blocks in one Space. It does no locking;
// a Manager and its blocks belong to one logical operation at a time.
type Manager struct {
	space nativebridge.Space
	log   *zap.Logger
	guard uint32
	debug bool
}

// NewManager creates a manager with default configuration
func NewManager(space nativebridge.Space) *Manager {
	return NewManagerWithConfig(space, nil)
}

// NewManagerWithConfig creates a manager with custom configuration
func NewManagerWithConfig(space nativebridge.Space, cfg *Config) *Manager {
	m := &Manager{space: space, log: Logger()}

	if cfg != nil {
		if cfg.Logger != nil {
			m.log = cfg.Logger
		}
		if cfg.Debug {
			m.debug = true
			m.guard = cfg.GuardSize
			if m.guard == 0 {
				m.guard = defaultGuardSize
			}
		}
	}
	return m
}

// Space returns the address space blocks are allocated in.
func (m *Manager) Space() nativebridge.Space { return m.space }

// Debug reports whether the manager runs in hardened mode.
func (m *Manager) Debug() bool { return m.debug }

// Allocate reserves one element of l. The bytes are uninitialized.
func (m *Manager) Allocate(l *TypeLayout) (*Block, error) {
	return m.AllocateN(l, 1)
}

// AllocateN reserves count contiguous elements of l. count may be 0, which
// yields a zero-length block that touches no memory and is still released
// normally. On failure no block is returned.
func (m *Manager) AllocateN(l *TypeLayout, count int) (*Block, error) {
	if l == nil {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "nil layout")
	}
	if count < 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "negative element count")
	}

	size, ok := byteLen(l.Size(), count)
	if !ok || size > abi.MaxAlloc {
		return nil, errors.Overflow(errors.PhaseAlloc, l.Name(), l.Size(), count)
	}

	b := &Block{
		mgr:   m,
		name:  l.Name(),
		size:  size,
		elem:  l.Size(),
		align: l.Align(),
		count: count,
		live:  true,
	}
	if size == 0 {
		m.log.Debug("allocate empty block", zap.String("type", b.name), zap.Int("count", count))
		return b, nil
	}
	if m.debug {
		b.guard = m.guard
	}

	total := size + b.guard
	addr, err := m.space.Alloc(total, b.align)
	if err != nil || addr == 0 {
		m.log.Warn("allocation failed",
			zap.String("type", b.name),
			zap.Uint32("size", total),
			zap.Int("count", count),
			zap.Error(err))
		return nil, errors.AllocationFailed(total, b.align, err)
	}

	if b.guard > 0 {
		if err := m.space.Write(addr+uintptr(size), guardBytes(b.guard)); err != nil {
			m.space.Free(addr, total, b.align)
			return nil, errors.AllocationFailed(total, b.align, err)
		}
	}

	b.addr = addr
	m.log.Debug("allocate",
		zap.String("type", b.name),
		zap.Uintptr("addr", addr),
		zap.Uint32("size", size),
		zap.Int("count", count))
	return b, nil
}

// Release returns b's memory to the space. The block's address is cleared
// so later decodes fail instead of reading freed memory. Releasing twice,
// or releasing a block from another manager, is an ownership error. In
// debug mode a damaged guard is reported after the memory is freed.
func (m *Manager) Release(b *Block) error {
	if b == nil {
		return errors.InvalidInput(errors.PhaseRelease, "nil block")
	}
	if b.mgr != m {
		return errors.ForeignBlock(errors.PhaseRelease)
	}
	if !b.live {
		return errors.Released(errors.PhaseRelease, b.name)
	}

	addr := b.addr
	b.live = false
	b.addr = 0
	if b.size == 0 {
		return nil
	}

	var err error
	if b.guard > 0 && !m.guardIntact(addr+uintptr(b.size), b.guard) {
		err = errors.Corrupted(addr, b.size)
		m.log.Error("block overrun detected",
			zap.String("type", b.name),
			zap.Uintptr("addr", addr),
			zap.Uint32("size", b.size))
	}

	m.space.Free(addr, b.size+b.guard, b.align)
	m.log.Debug("release",
		zap.String("type", b.name),
		zap.Uintptr("addr", addr),
		zap.Uint32("size", b.size))
	return err
}

func (m *Manager) guardIntact(addr uintptr, n uint32) bool {
	data, err := m.space.Read(addr, n)
	if err != nil {
		return false
	}
	return bytes.Equal(data, guardBytes(n))
}

func guardBytes(n uint32) []byte {
	g := make([]byte, n)
	for i := range g {
		g[i] = guardPattern[i%len(guardPattern)]
	}
	return g
}
