package datekey

import "errors"

// Sentinel kinds for date key errors.
var (
	ErrFormat = errors.New("malformed date key")
)
