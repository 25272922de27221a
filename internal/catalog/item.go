package catalog

import (
	"strings"

	"github.com/noah-isme/safari-quote/internal/lodging"
)

// Category classifies a catalog item. The set is closed: anything else coming
// from storage is kept verbatim but treated as unknown by consumers.
type Category string

// Known item categories.
const (
	CategoryAviation   Category = "aviation"
	CategoryLodging    Category = "lodging"
	CategoryVehicle    Category = "vehicle"
	CategoryActivities Category = "activities"
	CategoryParkFees   Category = "park_fees"
	CategoryPermits    Category = "permits"
	CategoryExtras     Category = "extras"
	CategoryLogistics  Category = "logistics"
)

// ParseCategory normalises a stored category string.
func ParseCategory(v string) Category {
	return Category(strings.ToLower(strings.TrimSpace(v)))
}

// Known reports whether the category belongs to the closed set.
func (c Category) Known() bool {
	switch c {
	case CategoryAviation, CategoryLodging, CategoryVehicle, CategoryActivities,
		CategoryParkFees, CategoryPermits, CategoryExtras, CategoryLogistics:
		return true
	}
	return false
}

// CostModel tags how an item's base price scales with trip cardinalities.
type CostModel string

// Known cost models. A stored value outside this set evaluates to zero with an
// explanatory string rather than failing the calculation.
const (
	CostPerPerson           CostModel = "per_person"
	CostFixed               CostModel = "fixed"
	CostPerDayFixed         CostModel = "per_day_fixed"
	CostPerNightPerPerson   CostModel = "per_night_per_person"
	CostPerNightFixed       CostModel = "per_night_fixed"
	CostHierarchicalLodging CostModel = "hierarchical_lodging"
)

// ParseCostModel normalises a stored cost model string.
func ParseCostModel(v string) CostModel {
	return CostModel(strings.ToLower(strings.TrimSpace(v)))
}

// Known reports whether the cost model belongs to the closed set.
func (m CostModel) Known() bool {
	switch m {
	case CostPerPerson, CostFixed, CostPerDayFixed, CostPerNightPerPerson,
		CostPerNightFixed, CostHierarchicalLodging:
		return true
	}
	return false
}

// Item is one priced SKU in the operator's catalog. Items are immutable inputs
// to the engine: the snapshot they live in is never mutated by a calculation.
type Item struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Category             Category      `json:"category"`
	ParkID               *string       `json:"parkId,omitempty"`
	BasePrice            int64         `json:"basePrice"`
	CostModel            CostModel     `json:"costModel"`
	SplitAcrossTravelers bool          `json:"splitAcrossTravelers,omitempty"`
	Capacity             int           `json:"capacity,omitempty"`
	Active               bool          `json:"active"`
	Notes                string        `json:"notes,omitempty"`
	Lodging              *lodging.Meta `json:"lodging,omitempty"`
}

// Global reports whether the item applies to every park.
func (i Item) Global() bool {
	return i.ParkID == nil || strings.TrimSpace(*i.ParkID) == ""
}

// ScopedTo reports whether the item is scoped to exactly the given park.
func (i Item) ScopedTo(parkID string) bool {
	return i.ParkID != nil && *i.ParkID == parkID
}
