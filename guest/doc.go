// Package guest provides a Space over the linear memory of a WebAssembly
// module instantiated with wazero.
//
// Addresses are offsets into the module's exported memory. Allocation is
// delegated to the module's own allocator export, resolved in this order
// unless Config names one:
//
//	cabi_realloc, canonical_abi_realloc   (old, old_size, align, new_size) -> ptr
//	malloc, alloc                         (size) -> ptr
//
// and freed through cabi_free, free or deallocate when exported, otherwise
// through realloc with a new size of zero.
//
// ArenaModule returns a minimal module exporting memory, malloc and free,
// useful when the caller only needs foreign memory to stage records in.
package guest
