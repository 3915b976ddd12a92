package nativebridge

// Memory is a foreign address space. Read returns a view of the underlying
// bytes that stays valid until the range is written or freed; callers that
// keep the data must copy it.
type Memory interface {
	Read(addr uintptr, length uint32) ([]byte, error)
	Write(addr uintptr, data []byte) error
}

// Allocator reserves and returns raw blocks in a foreign address space.
// Alloc never returns a partial block: on failure the address is zero and
// the error is non-nil.
type Allocator interface {
	Alloc(size, align uint32) (uintptr, error)
	Free(addr uintptr, size, align uint32)
}

// Space is a Memory together with the Allocator that owns it.
type Space interface {
	Memory
	Allocator
}
