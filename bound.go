package gishelpers

import "fmt"

// RasterBound describes a rectangular section of a raster in pixel
// coordinates, using the upper left corner origin scheme that GDAL also
// uses: x grows rightward along columns, y grows downward along rows.
// RasterBound is a comparable value type; two bounds are equal when all
// four fields match.
type RasterBound struct {
	// XOff is the x pixel coordinate of the upper left corner.
	XOff int
	// YOff is the y pixel coordinate of the upper left corner.
	YOff int
	// XSize is the number of pixels on the x dimension, also known as the
	// width or the number of columns.
	XSize int
	// YSize is the number of pixels on the y dimension, also known as the
	// height or the number of rows.
	YSize int
}

func MakeBound(xOff, yOff, xSize, ySize int) RasterBound {
	return RasterBound{
		XOff:  xOff,
		YOff:  yOff,
		XSize: xSize,
		YSize: ySize,
	}
}

// Area returns the number of pixels covered by the bound.
func (b RasterBound) Area() int {
	return b.XSize * b.YSize
}

// Contains reports whether other lies entirely inside b.
func (b RasterBound) Contains(other RasterBound) bool {
	return other.XOff >= b.XOff &&
		other.YOff >= b.YOff &&
		other.XOff+other.XSize <= b.XOff+b.XSize &&
		other.YOff+other.YSize <= b.YOff+b.YSize
}

func (b RasterBound) String() string {
	return fmt.Sprintf("x_off: %d, y_off: %d, x_size: %d, y_size: %d",
		b.XOff, b.YOff, b.XSize, b.YSize)
}
