package gishelpers

import "errors"

// Sentinel errors returned by this package. Call sites add context with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrInvalidArgument flags a non-positive dimension, chunk size,
	// memory budget or per-pixel byte size, or a malformed read/write
	// window.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a raster path does not exist.
	ErrNotFound = errors.New("raster not found")

	// ErrOpenFailed is returned when GDAL cannot interpret a file.
	ErrOpenFailed = errors.New("open failed")

	// ErrOutOfBounds is returned when a window exceeds the raster extent.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrMisconfigured is returned for unusable output configurations,
	// such as an unknown driver or a skewed source for an area raster.
	ErrMisconfigured = errors.New("misconfigured")
)
