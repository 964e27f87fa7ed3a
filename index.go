package gishelpers

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vatsimnerd/util/set"
)

// FeatureFilter narrows FeatureIndex searches.
type FeatureFilter func(f *Feature) bool

// FilterValue keeps only features traced from the given raster value.
func FilterValue(value float64) FeatureFilter {
	return func(f *Feature) bool {
		v, ok := f.Value()
		return ok && v == value
	}
}

type indexedFeature struct {
	id      string
	feature *Feature
}

// boundsEpsilon pads degenerate bounding boxes; the R-tree requires
// non-zero extents on every dimension.
const boundsEpsilon = 0.0001

func rtreeRect(minX, minY, maxX, maxY float64) rtreego.Rect {
	w := maxX - minX
	if w < boundsEpsilon {
		w = boundsEpsilon
	}
	h := maxY - minY
	if h < boundsEpsilon {
		h = boundsEpsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
	return rect
}

// Bounds implements the rtreego.Spatial interface.
func (o *indexedFeature) Bounds() rtreego.Rect {
	b := o.feature.Bounds()
	return rtreeRect(b[0], b[1], b[2], b[3])
}

// FeatureIndex is a spatial index over extracted features, answering which
// polygons intersect a geographic bounding box. It is safe for concurrent
// use.
type FeatureIndex struct {
	tree  *rtreego.Rtree
	idIdx map[string]*indexedFeature
	lock  sync.RWMutex
	log   logrus.FieldLogger
}

// NewFeatureIndex builds an index over the features of fc, which may be nil
// for an empty index. A nil log falls back to the logrus standard logger.
func NewFeatureIndex(fc *FeatureCollection, log logrus.FieldLogger) *FeatureIndex {
	if log == nil {
		log = logrus.StandardLogger()
	}
	idx := &FeatureIndex{
		tree:  rtreego.NewTree(2, 25, 50),
		idIdx: make(map[string]*indexedFeature),
		log:   log.WithField("module", "gishelpers"),
	}
	if fc != nil {
		for _, f := range fc.Features {
			idx.Insert(f)
		}
	}
	return idx
}

// Insert adds a feature to the index and returns the id assigned to it.
func (i *FeatureIndex) Insert(f *Feature) string {
	obj := &indexedFeature{id: uuid.New().String(), feature: f}
	i.lock.Lock()
	defer i.lock.Unlock()
	i.tree.Insert(obj)
	i.idIdx[obj.id] = obj
	return obj.id
}

// Get returns the feature stored under id, or nil.
func (i *FeatureIndex) Get(id string) *Feature {
	i.lock.RLock()
	defer i.lock.RUnlock()
	if obj, found := i.idIdx[id]; found {
		return obj.feature
	}
	return nil
}

// Delete removes the feature stored under id, reporting whether it was
// present.
func (i *FeatureIndex) Delete(id string) bool {
	i.lock.Lock()
	defer i.lock.Unlock()
	obj, found := i.idIdx[id]
	if !found {
		return false
	}
	i.tree.Delete(obj)
	delete(i.idIdx, obj.id)
	return true
}

// Size returns the number of indexed features.
func (i *FeatureIndex) Size() int {
	i.lock.RLock()
	defer i.lock.RUnlock()
	return len(i.idIdx)
}

// SearchRect returns the features whose bounding boxes intersect the given
// geographic box, optionally narrowed by filters.
func (i *FeatureIndex) SearchRect(minX, minY, maxX, maxY float64, filters ...FeatureFilter) []*Feature {
	query := rtreeRect(minX, minY, maxX, maxY)

	i.lock.RLock()
	spatials := i.tree.SearchIntersect(query)
	i.lock.RUnlock()

	i.log.Debugf("found %d features in tree", len(spatials))
	features := make([]*Feature, 0, len(spatials))
	for _, spatial := range spatials {
		obj, ok := spatial.(*indexedFeature)
		if !ok {
			continue
		}
		if !matchAll(obj.feature, filters) {
			continue
		}
		features = append(features, obj.feature)
	}
	return features
}

func matchAll(f *Feature, filters []FeatureFilter) bool {
	for _, flt := range filters {
		if !flt(f) {
			return false
		}
	}
	return true
}

// Values returns the distinct raster values among the indexed features in
// ascending order.
func (i *FeatureIndex) Values() []float64 {
	i.lock.RLock()
	defer i.lock.RUnlock()

	values := set.New[float64]()
	for _, obj := range i.idIdx {
		if v, ok := obj.feature.Value(); ok {
			values.Add(v)
		}
	}
	out := make([]float64, 0, values.Size())
	values.Iter(func(v float64) {
		out = append(out, v)
	})
	sort.Float64s(out)
	return out
}
