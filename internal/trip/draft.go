package trip

import (
	"strings"
	"time"

	"github.com/noah-isme/safari-quote/internal/lodging"
)

// Tier is the budget classification used to rank catalog suggestions.
type Tier string

// Supported tiers, cheapest first.
const (
	TierBudget     Tier = "budget"
	TierStandard   Tier = "standard"
	TierLuxury     Tier = "luxury"
	TierUltraLux   Tier = "ultra_luxury"
)

// ParseTier normalises a stored tier string.
func ParseTier(v string) Tier {
	return Tier(strings.ToLower(strings.TrimSpace(v)))
}

// Known reports whether the tier belongs to the closed set.
func (t Tier) Known() bool {
	switch t {
	case TierBudget, TierStandard, TierLuxury, TierUltraLux:
		return true
	}
	return false
}

// Source records the provenance of a derived value: system-derived entries may
// be dropped or resynchronised, explicit user choices never are.
type Source string

// Provenance values.
const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// ParkFeeRef marks a park-fee catalog item as applying to a day. Excluded
// suppresses it from pricing without deleting the record, preserving the
// "system thinks this applies" provenance.
type ParkFeeRef struct {
	ItemID   string `json:"itemId"`
	Source   Source `json:"source"`
	Excluded bool   `json:"excluded"`
}

// FreeHandLine is an ad hoc cost line that bypasses the catalog.
type FreeHandLine struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Logistics groups a day's ground transport selections.
type Logistics struct {
	Vehicle           *string  `json:"vehicle,omitempty"`
	InternalMovements []string `json:"internalMovements,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// Day holds one calendar day's selections. Day numbers are 1-based and
// contiguous within a draft.
type Day struct {
	DayNumber          int                  `json:"dayNumber"`
	ParkID             *string              `json:"parkId,omitempty"`
	Arrival            *string              `json:"arrival,omitempty"`
	ArrivalNA          bool                 `json:"arrivalNotApplicable,omitempty"`
	Lodging            *string              `json:"lodging,omitempty"`
	LodgingAllocations []lodging.Allocation `json:"lodgingAllocations,omitempty"`
	Activities         []string             `json:"activities,omitempty"`
	ActivitiesNA       bool                 `json:"activitiesNotApplicable,omitempty"`
	Extras             []string             `json:"extras,omitempty"`
	ParkFees           []ParkFeeRef         `json:"parkFees,omitempty"`
	Logistics          Logistics            `json:"logistics"`
	FreeHand           []FreeHandLine       `json:"freeHandLines,omitempty"`
}

// Draft is the in-progress itinerary being priced. It is a plain value: every
// reducer transition clones it and returns a new draft, so readers never see
// derived state that is inconsistent with the triggering selection.
type Draft struct {
	ID              string            `json:"id"`
	Travelers       int               `json:"travelers"`
	Days            int               `json:"days"`
	Tier            Tier              `json:"tier"`
	StartDate       string            `json:"startDate,omitempty"`
	TripDays        []Day             `json:"tripDays"`
	ItemQuantities  map[string]int    `json:"itemQuantities,omitempty"`
	QuantitySources map[string]Source `json:"itemQuantitySource,omitempty"`
}

// NewDraft builds a draft with contiguous empty days.
func NewDraft(id string, travelers, days int, tier Tier) Draft {
	if travelers < 1 {
		travelers = 1
	}
	if days < 1 {
		days = 1
	}
	d := Draft{
		ID:              id,
		Travelers:       travelers,
		Days:            days,
		Tier:            tier,
		TripDays:        make([]Day, days),
		ItemQuantities:  map[string]int{},
		QuantitySources: map[string]Source{},
	}
	for i := range d.TripDays {
		d.TripDays[i].DayNumber = i + 1
	}
	return d
}

// Nights returns the trip-level night count (days minus one, never negative).
func (d Draft) Nights() int {
	if d.Days <= 1 {
		return 0
	}
	return d.Days - 1
}

// DateForDay resolves the calendar date of a trip day from the optional start
// date. The boolean reports whether a date could be derived.
func (d Draft) DateForDay(dayNumber int) (time.Time, bool) {
	start := strings.TrimSpace(d.StartDate)
	if start == "" || dayNumber < 1 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, false
	}
	return t.AddDate(0, 0, dayNumber-1), true
}

// Clone returns a deep copy. Explicit field copies replace the original
// system's serialize round-trip cloning.
func (d Draft) Clone() Draft {
	out := d
	out.TripDays = make([]Day, len(d.TripDays))
	for i, day := range d.TripDays {
		out.TripDays[i] = cloneDay(day)
	}
	out.ItemQuantities = make(map[string]int, len(d.ItemQuantities))
	for k, v := range d.ItemQuantities {
		out.ItemQuantities[k] = v
	}
	out.QuantitySources = make(map[string]Source, len(d.QuantitySources))
	for k, v := range d.QuantitySources {
		out.QuantitySources[k] = v
	}
	return out
}

func cloneDay(day Day) Day {
	out := day
	out.ParkID = cloneStringPtr(day.ParkID)
	out.Arrival = cloneStringPtr(day.Arrival)
	out.Lodging = cloneStringPtr(day.Lodging)
	out.LodgingAllocations = append([]lodging.Allocation(nil), day.LodgingAllocations...)
	out.Activities = append([]string(nil), day.Activities...)
	out.Extras = append([]string(nil), day.Extras...)
	out.ParkFees = append([]ParkFeeRef(nil), day.ParkFees...)
	out.Logistics.Vehicle = cloneStringPtr(day.Logistics.Vehicle)
	out.Logistics.InternalMovements = append([]string(nil), day.Logistics.InternalMovements...)
	out.FreeHand = append([]FreeHandLine(nil), day.FreeHand...)
	return out
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (d *Draft) dayIndex(dayNumber int) (int, bool) {
	if dayNumber < 1 || dayNumber > len(d.TripDays) {
		return 0, false
	}
	return dayNumber - 1, true
}
