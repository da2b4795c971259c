package engine

import "errors"

// Configuration errors returned at the engine boundary. Geometric non-fits
// are never errors; they are reported through the failure callback.
var (
	ErrInvalidMaxBinSide  = errors.New("max bin side must be positive")
	ErrInvalidDiscardStep = errors.New("discard step must be positive")
	ErrNoItems            = errors.New("no items to pack")
	ErrInvalidItem        = errors.New("invalid item")
	ErrInvalidCapacity    = errors.New("bounded free-space capacity must be positive")
	ErrUnknownPolicy      = errors.New("unknown free-space policy")
	ErrNoOrders           = errors.New("no orderings given")
	ErrUnknownOrder       = errors.New("unknown ordering")
)
