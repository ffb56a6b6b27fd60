package repository

import "errors"

// Sentinel kinds for accuracy board errors.
var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidLimit = errors.New("invalid board limit")
)
