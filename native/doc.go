// Package native provides a host Space backed by anonymous memory mappings.
//
// Each allocation is its own private mapping outside the Go heap, so the
// garbage collector never moves or frees it and its address can be handed
// to native code directly. Mappings are page aligned, which satisfies any
// alignment up to the page size.
//
// Read and Write trust the address they are given, as native code would:
// passing an address that is not a live allocation faults.
package native
