// Package gishelpers provides small helpers for working with raster
// geospatial datasets: reading and writing rectangular sections through
// GDAL, partitioning rasters into memory-bounded chunks, converting
// categorical bands into GeoJSON polygon features, and computing per-row
// ground areas for north-up WGS84 rasters.
//
// Pixel coordinates follow the GDAL convention: the origin is the upper
// left corner of the raster, x grows rightward along columns and y grows
// downward along rows. Raster bands are numbered starting at 1.
//
// All failures surface immediately as errors wrapping one of the package
// sentinels (ErrInvalidArgument, ErrNotFound, ErrOpenFailed, ErrOutOfBounds,
// ErrMisconfigured); there are no retries and no partial results.
package gishelpers
