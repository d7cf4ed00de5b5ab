// Package region provides the registry of monitored Romanian regions.
package region

import (
	"errors"
	"fmt"
)

// ErrUnknownRegion indicates the requested region id is not in the registry.
var ErrUnknownRegion = errors.New("unknown region")

// BBox is a geographic bounding box as [minLon, minLat, maxLon, maxLat]
// in WGS84 degrees. It marshals to a JSON array in that order.
type BBox [4]float64

// MinLon returns the western edge of the box.
func (b BBox) MinLon() float64 { return b[0] }

// MinLat returns the southern edge of the box.
func (b BBox) MinLat() float64 { return b[1] }

// MaxLon returns the eastern edge of the box.
func (b BBox) MaxLon() float64 { return b[2] }

// MaxLat returns the northern edge of the box.
func (b BBox) MaxLat() float64 { return b[3] }

// Valid reports whether the box spans a non-empty area.
func (b BBox) Valid() bool {
	return b.MinLon() < b.MaxLon() && b.MinLat() < b.MaxLat()
}

// Region is a monitored area with a stable identifier and display name.
type Region struct {
	ID   string
	Name string
	BBox BBox
}

// Registry is an immutable lookup table of regions, built once at startup
// and injected into the components that need it.
type Registry struct {
	order   []string
	regions map[string]Region
}

// NewRegistry creates a registry from the given regions.
// List order follows the order regions were provided in.
func NewRegistry(regions ...Region) *Registry {
	r := &Registry{
		order:   make([]string, 0, len(regions)),
		regions: make(map[string]Region, len(regions)),
	}
	for _, reg := range regions {
		if _, exists := r.regions[reg.ID]; !exists {
			r.order = append(r.order, reg.ID)
		}
		r.regions[reg.ID] = reg
	}
	return r
}

// DefaultRegistry returns the curated set of Romanian regions.
// Bounding boxes are hand-picked to cover each urban area and its surroundings.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Region{ID: "fagaras", Name: "Făgăraș", BBox: BBox{24.5, 45.5, 25.5, 46.0}},
		Region{ID: "iasi", Name: "Iași", BBox: BBox{27.5, 47.0, 27.8, 47.3}},
		Region{ID: "timisoara", Name: "Timișoara", BBox: BBox{21.1, 45.6, 21.4, 45.9}},
		Region{ID: "craiova", Name: "Craiova", BBox: BBox{23.7, 44.2, 24.0, 44.5}},
		Region{ID: "constanta", Name: "Constanța", BBox: BBox{28.5, 44.1, 28.8, 44.4}},
		Region{ID: "baia_mare", Name: "Baia Mare", BBox: BBox{23.4, 47.5, 23.7, 47.8}},
		Region{ID: "bucuresti", Name: "București", BBox: BBox{25.9, 44.3, 26.2, 44.6}},
		Region{ID: "cluj", Name: "Cluj", BBox: BBox{23.5, 46.7, 23.8, 47.0}},
	)
}

// Lookup returns the region with the given id.
// Returns an error wrapping ErrUnknownRegion when the id is not registered.
// Never performs I/O.
func (r *Registry) Lookup(id string) (Region, error) {
	reg, ok := r.regions[id]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, id)
	}
	return reg, nil
}

// List returns all registered regions in stable order.
func (r *Registry) List() []Region {
	out := make([]Region, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.regions[id])
	}
	return out
}

// Len returns the number of registered regions.
func (r *Registry) Len() int {
	return len(r.order)
}
