package gishelpers

import (
	"encoding/json"
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/google/uuid"
)

const rasterValField = "raster_val"

// Feature is a single GeoJSON feature extracted from a raster band. It
// marshals to the standard GeoJSON wire format.
type Feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`

	bounds [4]float64
}

// Value returns the raster value the feature's polygon was traced from.
func (f *Feature) Value() (float64, bool) {
	v, ok := f.Properties[rasterValField].(float64)
	return v, ok
}

// Bounds returns the geographic bounding box of the feature geometry as
// minx, miny, maxx, maxy.
func (f *Feature) Bounds() [4]float64 {
	return f.bounds
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// TIFFToGeoJSON returns the contents of the first band of the raster at
// path as a GeoJSON feature collection: one polygon per connected region of
// equal value, each carrying its value in the raster_val property. Best
// suited for categorical data rather than continuous variables, which will
// produce at worst a polygon per pixel.
func (r *RasterIO) TIFFToGeoJSON(path string) (*FeatureCollection, error) {
	ds, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	bnd, err := rasterBand(ds, 1)
	if err != nil {
		return nil, err
	}

	vds, err := godal.CreateVector(godal.Memory, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("creating polygon store: %w", err)
	}
	defer vds.Close()

	layer, err := vds.CreateLayer("polygonized", ds.SpatialRef(), godal.GTPolygon,
		godal.NewFieldDefinition(rasterValField, godal.FTReal))
	if err != nil {
		return nil, fmt.Errorf("creating polygon layer: %w", err)
	}

	r.log.Debugf("polygonizing raster %s", path)
	if err := bnd.Polygonize(layer, godal.PixelValueFieldIndex(0)); err != nil {
		return nil, fmt.Errorf("polygonizing %s: %w", path, err)
	}

	fc := &FeatureCollection{Type: "FeatureCollection"}
	layer.ResetReading()
	for feat := layer.NextFeature(); feat != nil; feat = layer.NextFeature() {
		geom := feat.Geometry()
		gj, err := geom.GeoJSON()
		if err != nil {
			feat.Close()
			return nil, fmt.Errorf("encoding geometry: %w", err)
		}
		bounds, err := geom.Bounds()
		if err != nil {
			feat.Close()
			return nil, fmt.Errorf("computing geometry bounds: %w", err)
		}
		val := feat.Fields()[rasterValField].Float()
		fc.Features = append(fc.Features, &Feature{
			Type:       "Feature",
			Properties: map[string]interface{}{rasterValField: val},
			Geometry:   json.RawMessage(gj),
			bounds:     bounds,
		})
		feat.Close()
	}
	r.log.Debugf("extracted %d features from %s", len(fc.Features), path)
	return fc, nil
}
