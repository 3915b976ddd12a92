// Package nativebridge moves structured data across a foreign boundary.
//
// A native library (for example a CPU disassembly engine) fills memory that
// the Go side allocated for it, using the library's own binary layout. This
// module sizes that memory exactly, hands out single-owner handles to it and
// turns the bytes the native code wrote back into independent Go values,
// without breaking the library's ownership contract.
//
// # Architecture Overview
//
//	nativebridge/        Root package with the Memory, Allocator and Space interfaces
//	├── marshal/         Layouts, block handles, decode / decode-array / consume-and-free
//	├── native/          Host Space backed by anonymous mmap
//	├── guest/           Space backed by a wazero module's linear memory
//	├── capstone/        Native value tables and structures consumed through marshal
//	├── errors/          Structured error types
//	└── cmd/layout/      Layout inspector and end-to-end demo
//
// # Quick Start
//
//	space := native.New()
//	mgr := marshal.NewManager(space)
//
//	block, err := mgr.AllocateN(capstone.InsnLayout.Layout(), 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer block.Release()
//
//	// hand block.Addr() to the native call, which reports n records
//
//	insns, err := marshal.DecodeArray(block, capstone.InsnLayout, n)
//
// # Ownership
//
// Every Block has exactly one owner. Release (or ConsumeAndFree) ends the
// handle's life; any later decode against it fails with an ownership error
// instead of reading freed memory.
//
// # Thread Safety
//
// Layouts and codecs are immutable and safe for concurrent use. Blocks and
// the Manager do no locking: a block must not be decoded from and released
// concurrently.
package nativebridge
