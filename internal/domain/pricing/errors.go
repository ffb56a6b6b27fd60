package pricing

import "errors"

// Sentinel kinds for pricing errors.
var (
	ErrInvalidPrice = errors.New("invalid price")
)
