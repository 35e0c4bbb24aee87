package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingHost indicates the editor host is required but not set.
	ErrMissingHost = errors.New("execution context: host is required")

	// ErrMissingUnits indicates the unit resolver is required but not set.
	ErrMissingUnits = errors.New("execution context: unit resolver is required")

	// ErrMissingStore indicates the session store is required but not set.
	ErrMissingStore = errors.New("execution context: session store is required")
)
