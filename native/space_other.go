//go:build !unix

package native

import "github.com/wippyai/native-bridge/errors"

// Space is unavailable on this platform; every operation fails.
type Space struct{}

// New creates a host Space.
func New() *Space {
	return &Space{}
}

func (s *Space) Alloc(size, align uint32) (uintptr, error) {
	return 0, errors.Unsupported(errors.PhaseAlloc, "anonymous mappings on this platform")
}

func (s *Space) Free(addr uintptr, size, align uint32) {}

func (s *Space) Read(addr uintptr, length uint32) ([]byte, error) {
	return nil, errors.Unsupported(errors.PhaseDecode, "anonymous mappings on this platform")
}

func (s *Space) Write(addr uintptr, data []byte) error {
	return errors.Unsupported(errors.PhaseEncode, "anonymous mappings on this platform")
}
