package marshal

import "github.com/wippyai/native-bridge/errors"

// Targets for errors.Is, matching the kind in any phase.
var (
	ErrLookup      = &errors.Error{Kind: errors.KindNotFound}
	ErrAllocation  = &errors.Error{Kind: errors.KindAllocation}
	ErrOwnership   = &errors.Error{Kind: errors.KindOwnership}
	ErrOutOfBounds = &errors.Error{Kind: errors.KindOutOfBounds}
	ErrCorrupted   = &errors.Error{Kind: errors.KindCorrupted}
)
