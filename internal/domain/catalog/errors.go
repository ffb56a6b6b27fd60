package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrMalformedCatalog = errors.New("malformed catalog")
)
