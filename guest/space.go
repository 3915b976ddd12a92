package guest

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/abi"
)

const (
	cabiRealloc   = "cabi_realloc"
	legacyRealloc = "canonical_abi_realloc"
	mallocName    = "malloc"
	simpleAlloc   = "alloc"

	cabiFree      = "cabi_free"
	simpleFree    = "free"
	legacyDealloc = "deallocate"
)

// simpleAlign is the alignment assumed for (size) -> ptr allocators.
const simpleAlign = 8

// Config names the allocator exports. Empty fields are resolved by
// probing the standard names.
type Config struct {
	Malloc string
	Free   string
}

// Space adapts a module's memory and allocator exports.
type Space struct {
	ctx      context.Context
	mem      api.Memory
	allocFn  api.Function
	freeFn   api.Function
	stackBuf []uint64
	mu       sync.Mutex
	simple   bool
}

// New resolves the memory and allocator exports of mod. A nil cfg probes
// the standard export names.
func New(ctx context.Context, mod api.Module, cfg *Config) (*Space, error) {
	if mod == nil {
		return nil, errors.Load("nil module", nil)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	mem := mod.Memory()
	if mem == nil {
		return nil, errors.Load("module exports no memory", nil)
	}

	defs := mod.ExportedFunctionDefinitions()
	allocName, allocDef := lookup(defs, cfg.Malloc, cabiRealloc, legacyRealloc, mallocName, simpleAlloc)
	if allocDef == nil {
		return nil, errors.Load("module exports no allocator", nil)
	}

	var simple bool
	switch len(allocDef.ParamTypes()) {
	case 1:
		simple = true
	case 4:
	default:
		return nil, errors.Load(fmt.Sprintf("allocator %q has unsupported signature", allocName), nil)
	}

	s := &Space{
		ctx:      ctx,
		mem:      mem,
		allocFn:  mod.ExportedFunction(allocName),
		stackBuf: make([]uint64, 4),
		simple:   simple,
	}

	if freeName, freeDef := lookup(defs, cfg.Free, cabiFree, simpleFree, legacyDealloc); freeDef != nil {
		s.freeFn = mod.ExportedFunction(freeName)
	} else if simple {
		Logger().Debug("no free export, allocations are never returned",
			zap.String("alloc", allocName))
	}

	return s, nil
}

func lookup(defs map[string]api.FunctionDefinition, preferred string, names ...string) (string, api.FunctionDefinition) {
	if preferred != "" {
		return preferred, defs[preferred]
	}
	for _, n := range names {
		if d, ok := defs[n]; ok {
			return n, d
		}
	}
	return "", nil
}

// SetContext sets the context used for allocator calls.
func (s *Space) SetContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

// Alloc calls the module's allocator. Single-argument allocators are
// assumed to return 8-byte aligned memory, so sizes are rounded up to keep
// consecutive bump allocations aligned.
func (s *Space) Alloc(size, align uint32) (uintptr, error) {
	if align == 0 || !abi.IsPow2(align) {
		return 0, errors.InvalidInput(errors.PhaseAlloc, fmt.Sprintf("invalid alignment %d", align))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.context()
	if s.simple {
		if align > simpleAlign {
			return 0, errors.Unsupported(errors.PhaseAlloc, fmt.Sprintf("alignment %d above allocator guarantee", align))
		}
		s.stackBuf[0] = uint64(abi.AlignTo(size, simpleAlign))
		if err := s.allocFn.CallWithStack(ctx, s.stackBuf[:1]); err != nil {
			return 0, err
		}
		return uintptr(uint32(s.stackBuf[0])), nil
	}

	s.stackBuf[0] = 0
	s.stackBuf[1] = 0
	s.stackBuf[2] = uint64(align)
	s.stackBuf[3] = uint64(size)
	if err := s.allocFn.CallWithStack(ctx, s.stackBuf[:4]); err != nil {
		return 0, err
	}
	return uintptr(uint32(s.stackBuf[0])), nil
}

// Free returns a block to the module's allocator.
func (s *Space) Free(addr uintptr, size, align uint32) {
	if addr == 0 || addr > math.MaxUint32 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.context()
	var err error
	switch {
	case s.freeFn != nil:
		def := s.freeFn.Definition()
		n := max(len(def.ParamTypes()), len(def.ResultTypes()))
		if n > len(s.stackBuf) {
			err = fmt.Errorf("free export takes %d values", n)
			break
		}
		// Extra parameters receive size then align.
		s.stackBuf[0] = uint64(addr)
		s.stackBuf[1] = uint64(size)
		s.stackBuf[2] = uint64(align)
		err = s.freeFn.CallWithStack(ctx, s.stackBuf[:n])
	case !s.simple:
		s.stackBuf[0] = uint64(addr)
		s.stackBuf[1] = uint64(size)
		s.stackBuf[2] = uint64(align)
		s.stackBuf[3] = 0
		err = s.allocFn.CallWithStack(ctx, s.stackBuf[:4])
	}
	if err != nil {
		Logger().Warn("Free: deallocation call failed",
			zap.Uintptr("addr", addr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Read returns a view of length bytes at addr. The view is invalidated if
// the module grows its memory.
func (s *Space) Read(addr uintptr, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if addr > math.MaxUint32 {
		return nil, outOfRange(errors.PhaseDecode, addr, length)
	}
	data, ok := s.mem.Read(uint32(addr), length)
	if !ok {
		return nil, outOfRange(errors.PhaseDecode, addr, length)
	}
	return data, nil
}

// Write copies data into linear memory at addr.
func (s *Space) Write(addr uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if addr > math.MaxUint32 || !s.mem.Write(uint32(addr), data) {
		return outOfRange(errors.PhaseEncode, addr, uint32(len(data)))
	}
	return nil
}

// Size returns the current size of linear memory in bytes.
func (s *Space) Size() uint32 {
	return s.mem.Size()
}

func (s *Space) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func outOfRange(phase errors.Phase, addr uintptr, length uint32) error {
	return errors.New(phase, errors.KindOutOfBounds).
		Value(addr).
		Detail("memory access out of bounds: offset=%d, length=%d", addr, length).
		Build()
}
