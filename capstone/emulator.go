package capstone

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/marshal"
)

const arm64InsnSize = 4

// Emulator plays the native side of cs_disasm for AArch64: it writes
// cs_insn records into bridge-allocated memory and hands the block to the
// caller, who owns it from then on.
type Emulator struct {
	log *zap.Logger
}

// NewEmulator creates an AArch64 emulator logging to the package logger.
func NewEmulator() *Emulator {
	return &Emulator{log: Logger()}
}

// Decode disassembles code starting at address, stopping at the first
// invalid or truncated instruction or after limit instructions. A negative
// limit means no limit.
func (e *Emulator) Decode(code []byte, address uint64, limit int) []Insn {
	var out []Insn
	for off := 0; off+arm64InsnSize <= len(code); off += arm64InsnSize {
		if limit >= 0 && len(out) == limit {
			break
		}
		raw := code[off : off+arm64InsnSize]
		inst, err := arm64asm.Decode(raw)
		if err != nil {
			e.log.Debug("stop at invalid instruction",
				zap.Uint64("address", address+uint64(off)),
				zap.Binary("bytes", raw),
				zap.Error(err))
			break
		}

		text := strings.TrimSpace(arm64asm.GNUSyntax(inst))
		mnemonic, opStr, _ := strings.Cut(text, " ")

		insn := Insn{
			ID:       uint32(inst.Op),
			Address:  address + uint64(off),
			Size:     arm64InsnSize,
			Mnemonic: mnemonic,
			OpStr:    strings.TrimSpace(opStr),
		}
		copy(insn.Bytes[:], raw)
		out = append(out, insn)
	}
	return out
}

// Fill writes the instructions decoded from code into b, at most
// b.Count() of them, and returns how many were written.
func (e *Emulator) Fill(b *marshal.Block, code []byte, address uint64) (int, error) {
	if b == nil {
		return 0, errors.InvalidInput(errors.PhaseEncode, "nil block")
	}
	insns := e.Decode(code, address, b.Count())
	if err := marshal.EncodeArray(b, InsnLayout, insns); err != nil {
		return 0, err
	}
	return len(insns), nil
}

// Disasm allocates room for every instruction in code, fills it and
// returns the block with the number of valid records. Ownership of the
// block passes to the caller. When nothing decodes no block is returned.
func (e *Emulator) Disasm(mgr *marshal.Manager, code []byte, address uint64) (*marshal.Block, int, error) {
	capacity := len(code) / arm64InsnSize
	if capacity == 0 {
		return nil, 0, nil
	}

	b, err := mgr.AllocateN(insnLayout, capacity)
	if err != nil {
		return nil, 0, err
	}

	n, err := e.Fill(b, code, address)
	if err != nil || n == 0 {
		if rerr := b.Release(); err == nil {
			err = rerr
		}
		return nil, 0, err
	}

	e.log.Debug("disasm",
		zap.Uint64("address", address),
		zap.Int("count", n),
		zap.Int("capacity", capacity))
	return b, n, nil
}

// Instructions runs the full consumer protocol: disassemble into foreign
// memory, decode the records and free the block.
func (e *Emulator) Instructions(mgr *marshal.Manager, code []byte, address uint64) (insns []Insn, err error) {
	b, n, err := e.Disasm(mgr, code, address)
	if err != nil || b == nil {
		return nil, err
	}
	defer func() {
		if rerr := b.Release(); rerr != nil && err == nil {
			insns, err = nil, rerr
		}
	}()
	return marshal.DecodeArray(b, InsnLayout, n)
}
