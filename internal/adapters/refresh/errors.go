package refresh

import "errors"

// Sentinel kinds for refresher errors.
var (
	ErrShutdownTimeout = errors.New("refresher shutdown timed out")
)
