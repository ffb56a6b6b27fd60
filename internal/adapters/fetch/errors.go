package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrFetch  = errors.New("catalog fetch failed")
	ErrStatus = errors.New("catalog fetch bad status")
)
