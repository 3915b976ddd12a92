// Package layout computes native C ABI layouts for WIT-described types.
//
// Field types are expressed with the WIT type vocabulary; sizes and
// alignments follow the host C compiler's natural-alignment rules.
//
// # Layout Rules
//
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Enums: C enums are int-sized (4 bytes)
//   - Tuples: fixed arrays / anonymous structs, laid out like records
//   - Records: fields laid out sequentially with padding for alignment,
//     total size rounded up to the largest field alignment
//   - Explicit offsets: a field may be pinned to an offset; pinned fields
//     may overlap (unions) but must be aligned
//
// Strings, lists, variants and options have no C equivalent and are rejected.
//
// This package is internal to marshal.
package layout
