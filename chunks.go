package gishelpers

import (
	"fmt"
	"math"
)

// DefaultBytesPerPixel is the per-raster pixel width assumed by callers of
// MemoryLimitedChunks working with 32bit bands.
const DefaultBytesPerPixel = 4

// ChunkIterator lazily enumerates the chunks covering a raster. The zero
// value is not usable; obtain one from Chunks or MemoryLimitedChunks.
type ChunkIterator struct {
	width, height           int
	chunkWidth, chunkHeight int
	nCols, nRows            int
	col, row                int
}

// Chunks plans the partition of a width x height raster into distinct
// rectangular sections of at most chunkWidth x chunkHeight pixels. The last
// section on each dimension shrinks to the remainder, so the sections never
// overlap and their area sum equals the raster area. Sections are
// enumerated column by column: every row of column 0, then every row of
// column 1, and so on. Callers may rely on that ordering.
//
// All parameters must be positive integers, otherwise ErrInvalidArgument is
// returned before any chunk is produced.
func Chunks(width, height, chunkWidth, chunkHeight int) (*ChunkIterator, error) {
	if width <= 0 || height <= 0 || chunkWidth <= 0 || chunkHeight <= 0 {
		return nil, fmt.Errorf(
			"%w: chunk parameters must be positive integers", ErrInvalidArgument)
	}
	return &ChunkIterator{
		width:       width,
		height:      height,
		chunkWidth:  chunkWidth,
		chunkHeight: chunkHeight,
		nCols:       (width + chunkWidth - 1) / chunkWidth,
		nRows:       (height + chunkHeight - 1) / chunkHeight,
	}, nil
}

// MemoryLimitedChunks plans chunks so that loading one chunk from each of
// nRasters stacked rasters stays within memoryLimitMB megabytes, assuming
// bytesPerPixel bytes per pixel per raster. When the whole raster fits in
// the budget a single chunk covering it is planned; otherwise chunks are
// square, floor(sqrt(maxPixels)) on a side. Callers needing non-square
// chunks should call Chunks directly.
//
// A budget too small to hold a single pixel per raster fails with
// ErrInvalidArgument rather than planning empty work.
func MemoryLimitedChunks(nRasters, width, height, memoryLimitMB, bytesPerPixel int) (*ChunkIterator, error) {
	divisor := float64(nRasters) * float64(bytesPerPixel) / 1e6
	if divisor <= 0 {
		return nil, fmt.Errorf(
			"%w: n_rasters and bytes_per_pixel must be positive", ErrInvalidArgument)
	}
	maxPixels := float64(memoryLimitMB) / divisor
	if maxPixels > float64(width)*float64(height) {
		return Chunks(width, height, width, height)
	}
	size := 0
	if maxPixels > 0 {
		size = int(math.Sqrt(maxPixels))
	}
	return Chunks(width, height, size, size)
}

// Count returns the total number of chunks in the plan, regardless of how
// many have been consumed so far.
func (it *ChunkIterator) Count() int {
	return it.nCols * it.nRows
}

// Next returns the next chunk of the plan, or false once the plan is
// exhausted.
func (it *ChunkIterator) Next() (RasterBound, bool) {
	if it.col >= it.nCols {
		return RasterBound{}, false
	}
	b := chunkBound(it.width, it.height, it.chunkWidth, it.chunkHeight, it.row, it.col)
	it.row++
	if it.row >= it.nRows {
		it.row = 0
		it.col++
	}
	return b, true
}

func chunkBound(width, height, chunkWidth, chunkHeight, row, col int) RasterBound {
	xOff := col * chunkWidth
	xSize := chunkWidth
	if width-xOff <= chunkWidth {
		xSize = width - xOff
	}
	yOff := row * chunkHeight
	ySize := chunkHeight
	if height-yOff <= chunkHeight {
		ySize = height - yOff
	}
	return MakeBound(xOff, yOff, xSize, ySize)
}
