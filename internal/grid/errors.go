package grid

import "errors"

// ErrConfiguration marks unrecoverable construction-parameter problems:
// a requested gas absent from the store, or an empty/inverted altitude or
// wavenumber range. The caller must fix the request or the store and build a
// fresh grid; there is nothing to retry.
var ErrConfiguration = errors.New("grid configuration error")

// ErrDataIntegrity marks fields that cannot be propagated: mismatched axis
// lengths, non-ascending altitude layers, or NaN/negative optical depths.
// The flux walk is order-dependent, so a partial result would be meaningless;
// these are checked before the walk starts.
var ErrDataIntegrity = errors.New("grid data integrity error")
