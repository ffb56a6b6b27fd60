package service

import "errors"

// Sentinel kinds for game service errors. Resolution misses surface as
// errors at this boundary so the HTTP layer can map them to statuses;
// inside the domain packages they are plain absent results.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBadDate       = errors.New("bad date parameter")
	ErrNoGameForDate = errors.New("no game for date")
	ErrItemNotFound  = errors.New("item not found")
	ErrCatalogLoad   = errors.New("catalog load failed")
)
