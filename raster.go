package gishelpers

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

var registerDrivers sync.Once

// RasterIO bundles the GDAL-backed raster helpers with the logger they
// report through. The zero value is not usable; obtain one from
// NewRasterIO.
type RasterIO struct {
	log logrus.FieldLogger
}

// NewRasterIO returns a RasterIO logging through log. A nil log falls back
// to the logrus standard logger.
func NewRasterIO(log logrus.FieldLogger) *RasterIO {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RasterIO{log: log.WithField("module", "gishelpers")}
}

// RasterData is the result of RasterIO.Read: a rectangle of pixel values
// and the metadata needed to interpret it.
type RasterData struct {
	// Path is the raster the data was read from.
	Path string
	// Data holds the pixel values row-major, DataBounds.XSize per row.
	Data []float64
	// DataBounds is the pixel extent of Data within the raster.
	DataBounds RasterBound
	// RasterBounds is the pixel extent of the entire raster.
	RasterBounds RasterBound
	// NoData is the band nodata value; only meaningful when HasNoData.
	NoData    float64
	HasNoData bool
}

// At returns the value at the given row and column of the data rectangle.
func (rd *RasterData) At(row, col int) float64 {
	return rd.Data[row*rd.DataBounds.XSize+col]
}

func openDataset(path string, opts ...godal.OpenOption) (*godal.Dataset, error) {
	registerDrivers.Do(godal.RegisterAll)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	ds, err := godal.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	return ds, nil
}

func rasterBand(ds *godal.Dataset, band int) (godal.Band, error) {
	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		return godal.Band{}, fmt.Errorf(
			"%w: band %d of a %d band raster", ErrInvalidArgument, band, len(bands))
	}
	return bands[band-1], nil
}

// Dimension returns the pixel extent of the raster at path.
func (r *RasterIO) Dimension(path string) (RasterBound, error) {
	ds, err := openDataset(path)
	if err != nil {
		return RasterBound{}, err
	}
	defer ds.Close()
	st := ds.Structure()
	return MakeBound(0, 0, st.SizeX, st.SizeY), nil
}

// NoData returns the nodata value of the given band of the raster at path.
// ok is false when the band defines no nodata value.
func (r *RasterIO) NoData(path string, band int) (nodata float64, ok bool, err error) {
	ds, err := openDataset(path)
	if err != nil {
		return 0, false, err
	}
	defer ds.Close()
	bnd, err := rasterBand(ds, band)
	if err != nil {
		return 0, false, err
	}
	nodata, ok = bnd.NoData()
	return nodata, ok, nil
}

// GeoTransform returns the affine geo-transform of the raster at path in
// GDAL order: origin x, x resolution, x skew, origin y, y skew, y
// resolution.
func (r *RasterIO) GeoTransform(path string) ([6]float64, error) {
	ds, err := openDataset(path)
	if err != nil {
		return [6]float64{}, err
	}
	defer ds.Close()
	gt, err := ds.GeoTransform()
	if err != nil {
		return [6]float64{}, fmt.Errorf("reading geotransform of %s: %w", path, err)
	}
	return gt, nil
}

// Read reads an entire raster, or the rectangular section given by bounds
// when it is non-nil. Values are converted to float64 regardless of the
// band data type. A window with non-positive sizes or negative offsets
// fails with ErrInvalidArgument; a window extending past the raster extent
// fails with ErrOutOfBounds.
func (r *RasterIO) Read(path string, bounds *RasterBound, band int) (*RasterData, error) {
	ds, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	st := ds.Structure()
	raster := MakeBound(0, 0, st.SizeX, st.SizeY)
	window := raster
	if bounds != nil {
		if bounds.XSize < 1 || bounds.YSize < 1 {
			return nil, fmt.Errorf(
				"%w: x_size, y_size may not be less than 1", ErrInvalidArgument)
		}
		if bounds.XOff < 0 || bounds.YOff < 0 {
			return nil, fmt.Errorf(
				"%w: x_off, y_off may not be less than 0", ErrInvalidArgument)
		}
		if !raster.Contains(*bounds) {
			return nil, fmt.Errorf(
				"%w: window (%s) exceeds raster (%s)", ErrOutOfBounds, bounds, raster)
		}
		window = *bounds
	}

	bnd, err := rasterBand(ds, band)
	if err != nil {
		return nil, err
	}

	r.log.Debugf("reading raster %s size: (%d, %d) offset: (%d, %d)",
		path, window.XSize, window.YSize, window.XOff, window.YOff)
	data := make([]float64, window.Area())
	if err := bnd.Read(window.XOff, window.YOff, data, window.XSize, window.YSize); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	nodata, hasNoData := bnd.NoData()
	return &RasterData{
		Path:         path,
		Data:         data,
		DataBounds:   window,
		RasterBounds: raster,
		NoData:       nodata,
		HasNoData:    hasNoData,
	}, nil
}

// Write writes a rectangle of values into the raster at path. The data
// slice is row-major and must hold exactly bounds.Area() values.
func (r *RasterIO) Write(path string, data []float64, bounds RasterBound, band int) error {
	if bounds.XSize < 1 || bounds.YSize < 1 {
		return fmt.Errorf(
			"%w: x_size, y_size may not be less than 1", ErrInvalidArgument)
	}
	if len(data) != bounds.Area() {
		return fmt.Errorf("%w: %d values for a %d pixel window",
			ErrInvalidArgument, len(data), bounds.Area())
	}
	ds, err := openDataset(path, godal.Update())
	if err != nil {
		return err
	}
	bnd, err := rasterBand(ds, band)
	if err != nil {
		_ = ds.Close()
		return err
	}
	r.log.Debugf("writing raster %s size: (%d, %d) offset: (%d, %d)",
		path, bounds.XSize, bounds.YSize, bounds.XOff, bounds.YOff)
	if err := bnd.Write(bounds.XOff, bounds.YOff, data, bounds.XSize, bounds.YSize); err != nil {
		_ = ds.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return ds.Close()
}

// CreateRasterOptions controls CreateEmptyRaster. Zero values inherit from
// the source raster, except DriverName which falls back to GTiff.
type CreateRasterOptions struct {
	// DriverName is the GDAL driver used for the new raster, for example
	// "GTiff".
	DriverName string
	// DataType is the pixel type of the new raster; godal.Unknown selects
	// the source band's type.
	DataType godal.DataType
	// NoData overrides the source band's nodata value when non-nil.
	NoData *float64
	// SourceBand is the source band to take type and nodata from;
	// zero means band 1.
	SourceBand int
	// Creation is passed to the driver as creation options.
	Creation []string
}

// DefaultGeoTIFFCreationOptions returns the package default creation
// options for GeoTIFF rasters.
func DefaultGeoTIFFCreationOptions() []string {
	return []string{"COMPRESS=DEFLATE", "BIGTIFF=YES"}
}

// CreateEmptyRaster creates an empty single band raster at destPath with
// the dimensions, geo-transform and projection of the raster at sourcePath.
// Data type and nodata default to the source band's and can be overridden
// through opts. Driver and creation failures wrap ErrMisconfigured.
func (r *RasterIO) CreateEmptyRaster(sourcePath, destPath string, opts CreateRasterOptions) error {
	src, err := openDataset(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	srcBandNum := opts.SourceBand
	if srcBandNum == 0 {
		srcBandNum = 1
	}
	srcBand, err := rasterBand(src, srcBandNum)
	if err != nil {
		return err
	}

	driver := opts.DriverName
	if driver == "" {
		driver = string(godal.GTiff)
	}
	dtype := opts.DataType
	if dtype == godal.Unknown {
		dtype = srcBand.Structure().DataType
	}

	st := src.Structure()
	r.log.Debugf("creating empty raster %s (%d x %d, %s) from %s",
		destPath, st.SizeX, st.SizeY, dtype, sourcePath)
	dst, err := godal.Create(godal.DriverName(driver), destPath, 1, dtype,
		st.SizeX, st.SizeY, godal.CreationOption(opts.Creation...))
	if err != nil {
		return fmt.Errorf("%w: creating %s with driver %q: %v",
			ErrMisconfigured, destPath, driver, err)
	}
	if gt, gtErr := src.GeoTransform(); gtErr == nil {
		if err := dst.SetGeoTransform(gt); err != nil {
			_ = dst.Close()
			return fmt.Errorf("setting geotransform on %s: %w", destPath, err)
		}
	}
	if proj := src.Projection(); proj != "" {
		if err := dst.SetProjection(proj); err != nil {
			_ = dst.Close()
			return fmt.Errorf("setting projection on %s: %w", destPath, err)
		}
	}
	nodata, ok := srcBand.NoData()
	if opts.NoData != nil {
		nodata, ok = *opts.NoData, true
	}
	if ok {
		if err := dst.Bands()[0].SetNoData(nodata); err != nil {
			_ = dst.Close()
			return fmt.Errorf("setting nodata on %s: %w", destPath, err)
		}
	}
	return dst.Close()
}
