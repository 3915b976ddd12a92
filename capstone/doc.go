// Package capstone holds the Capstone disassembler types that cross the
// native bridge: value tables that map 1:1 onto the library's integer
// constants, and the fixed-layout structures the library fills in
// (cs_insn, cs_arm_op) together with their marshal codecs.
//
// Layouts follow the Capstone 5.0 headers (APIMajor.APIMinor):
// cs_insn from include/capstone/capstone.h, with bytes[24] and a trailing
// cs_detail pointer, is 248 bytes on 64-bit hosts; cs_arm_op from
// include/capstone/arm.h, with its reg/imm/fp/mem/setend union at offset
// 16, is 48 bytes. Libraries built from other major versions differ.
//
// The Emulator stands in for the native library. It decodes AArch64
// machine code with golang.org/x/arch and writes cs_insn records into a
// block exactly as cs_disasm would, leaving the caller to decode and free
// them through the bridge:
//
//	b, n, err := emu.Disasm(mgr, code, 0x1000)
//	if err != nil || b == nil {
//		return err
//	}
//	defer b.Release()
//	insns, err := marshal.DecodeArray(b, capstone.InsnLayout, n)
package capstone
