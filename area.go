package gishelpers

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
)

const (
	earthRadiusMeters = 6378137.0

	// DefaultMaxAreaChunkPixels bounds the write buffer of
	// CreateWGS84AreaRaster to 25 million pixels.
	DefaultMaxAreaChunkPixels = 5000 * 5000
)

// CellArea returns the ground area in square meters of a cellSize degree
// square pixel centered at latDeg degrees of latitude, on a spherical
// earth.
func CellArea(latDeg, cellSize float64) float64 {
	metersPerDegree := 2 * math.Pi * earthRadiusMeters / 360
	yLength := metersPerDegree * cellSize
	xLength := metersPerDegree * math.Cos(latDeg*math.Pi/180) * cellSize
	return xLength * yLength
}

// ComputeAreas computes the ground areas along a column of a north-up
// WGS84 raster, north-most row first. yRes is the raster y resolution in
// degrees (negative for north-up rasters), ySize the number of rows and
// originY the y coordinate of the upper left corner of the raster.
// Latitudes are taken at pixel centers, hence the half resolution shift.
func ComputeAreas(yRes float64, ySize int, originY float64) []float64 {
	cellSize := math.Abs(yRes)
	areas := make([]float64, ySize)
	for row := 0; row < ySize; row++ {
		lat := float64(row)*yRes + originY + yRes/2
		areas[row] = CellArea(lat, cellSize)
	}
	return areas
}

// AreaRasterOptions controls CreateWGS84AreaRaster. The zero value selects
// square meter units and the default chunk budget.
type AreaRasterOptions struct {
	// ScaleFactor multiplies every output value; for example 0.0001
	// converts the default square meters to hectares. Zero means 1.0.
	ScaleFactor float64
	// MaxChunkPixels caps the number of pixels buffered per write; zero
	// means DefaultMaxAreaChunkPixels. Budgets below one full-height
	// column are raised to one column.
	MaxChunkPixels int
}

// CreateWGS84AreaRaster writes a GeoTIFF at outPath where each pixel holds
// the ground area of the corresponding pixel of the raster at srcPath. The
// source must be a north-up WGS84 raster; a geo-transform with rotation or
// skew terms fails with ErrMisconfigured. The output copies the source
// projection, resolution and dimensions, stores Float32 values in square
// meters (times ScaleFactor) and marks nodata as -1.
func (r *RasterIO) CreateWGS84AreaRaster(srcPath, outPath string, opts AreaRasterOptions) error {
	gt, err := r.GeoTransform(srcPath)
	if err != nil {
		return err
	}
	if gt[2] != 0 || gt[4] != 0 {
		return fmt.Errorf("%w: raster must be north-up", ErrMisconfigured)
	}
	dim, err := r.Dimension(srcPath)
	if err != nil {
		return err
	}

	originY, yRes := gt[3], gt[5]
	areas := ComputeAreas(yRes, dim.YSize, originY)

	scale := opts.ScaleFactor
	if scale == 0 {
		scale = 1.0
	}
	maxChunk := opts.MaxChunkPixels
	if maxChunk == 0 {
		maxChunk = DefaultMaxAreaChunkPixels
	}
	if maxChunk < dim.YSize {
		maxChunk = dim.YSize
	}

	// Full-height column strips, so every chunk shares the one area
	// column computed above.
	chunks, err := Chunks(dim.XSize, dim.YSize, maxChunk/dim.YSize, dim.YSize)
	if err != nil {
		return err
	}

	nodata := -1.0
	err = r.CreateEmptyRaster(srcPath, outPath, CreateRasterOptions{
		DriverName: string(godal.GTiff),
		DataType:   godal.Float32,
		NoData:     &nodata,
		Creation:   DefaultGeoTIFFCreationOptions(),
	})
	if err != nil {
		return err
	}

	for chunk, ok := chunks.Next(); ok; chunk, ok = chunks.Next() {
		data := make([]float64, chunk.Area())
		for row := 0; row < chunk.YSize; row++ {
			v := areas[row] * scale
			for col := 0; col < chunk.XSize; col++ {
				data[row*chunk.XSize+col] = v
			}
		}
		bound := MakeBound(chunk.XOff, 0, chunk.XSize, chunk.YSize)
		if err := r.Write(outPath, data, bound, 1); err != nil {
			return err
		}
	}
	return nil
}
