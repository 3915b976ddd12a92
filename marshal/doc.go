// Package marshal moves fixed-layout structures across a foreign boundary.
//
// The native side of the boundary owns a binary layout; this package sizes
// memory for it, hands out single-owner Blocks, and reinterprets the bytes
// native code wrote as independent Go values:
//
//	┌────────────────────────────────────────────────────────────────┐
//	│ Manager.Allocate → native call fills Block.Addr() → Decode     │
//	│                                      DecodeArray → Release     │
//	│                                      ConsumeAndFree            │
//	└────────────────────────────────────────────────────────────────┘
//
// # Layouts
//
// A structure's layout is declared once, field by field, with WIT types as
// the field vocabulary and C natural-alignment rules:
//
//	var pointLayout = marshal.Describe("point",
//	    marshal.F("X", wit.S32{}),
//	    marshal.F("Y", wit.S32{}),
//	)
//
//	pointLayout.Size()        // 8
//	pointLayout.OffsetOf("Y") // 4, nil
//	pointLayout.OffsetOf("Z") // 0, [layout] not_found
//
// Helpers cover inline arrays (Array), pointer-sized fields (Pointer) and
// unions (At pins a field to an explicit offset).
//
// # Codecs
//
// FixedLayout[T] pairs a layout with byte-level conversion for one Go type.
// Hand-written codecs resolve their field offsets once and use the U32,
// CString, PutU32... accessors. Go structs whose memory already matches the
// native layout can use Direct instead.
//
// # Ownership
//
// A Block has exactly one owner. Release, or ConsumeAndFree for one-shot
// reads, ends it; afterwards the block's address is cleared and any decode
// fails with an ownership error. Pair every allocation with a release on
// every path:
//
//	b, err := mgr.Allocate(insnLayout)
//	if err != nil {
//	    return err
//	}
//	defer b.Release()
//
// # Debug Mode
//
// Config.Debug adds a guard region after each block, verified on release,
// and asserts block sizes on every decode. Without it, decode trusts the
// sizes fixed at allocation time; Block.Check is available to callers that
// want the assertion explicitly.
//
// # Thread Safety
//
// Layouts and codecs are safe for concurrent use. Manager and Block do no
// locking; a block must not be decoded and released concurrently.
package marshal
