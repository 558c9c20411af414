package or1k

import "errors"

var (
	// A hardware transaction failed or the link reported an error
	ErrCommunication = errors.New("communication error")

	// The operation requires a halted target
	ErrNotHalted = errors.New("target not halted")

	// Malformed size, count, or missing buffer
	ErrInvalidArgument = errors.New("invalid argument")

	// Register index past the end of the register table
	ErrOutOfRange = errors.New("out of range")

	// Memory address not aligned to the requested element size
	ErrUnalignedAccess = errors.New("unaligned access")

	// The target cannot do what was asked
	ErrUnsupported = errors.New("unsupported")

	// The request conflicts with the target's current hardware condition
	ErrTargetFailure = errors.New("target failure")

	ErrUnknownRegister  = errors.New("unknown register")
	ErrUnknownDebugUnit = errors.New("unknown debug unit")
)
