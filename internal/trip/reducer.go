package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
)

var (
	// ErrDayOutOfRange is returned when an intent references a day the draft does not have.
	ErrDayOutOfRange = errors.New("trip: day out of range")
	// ErrInvalidTravelers is returned when the traveler count is not positive.
	ErrInvalidTravelers = errors.New("trip: travelers must be positive")
	// ErrInvalidDays is returned when the day count is not positive.
	ErrInvalidDays = errors.New("trip: days must be positive")
	// ErrInvalidQuantity is returned for negative item quantities.
	ErrInvalidQuantity = errors.New("trip: quantity must not be negative")
	// ErrLineOutOfRange is returned when a free-hand line index does not exist.
	ErrLineOutOfRange = errors.New("trip: free-hand line out of range")
	// ErrNoLodgingSelected is returned when allocating rooms on a day without a lodging pick.
	ErrNoLodgingSelected = errors.New("trip: no lodging selected for day")
	// ErrItemNotFound is returned when an intent references a catalog item that does not exist.
	ErrItemNotFound = errors.New("trip: catalog item not found")
	// ErrFeeNotFound is returned when toggling exclusion on a fee entry the day does not carry.
	ErrFeeNotFound = errors.New("trip: park fee not present on day")
	// ErrUnknownTier is returned for tier values outside the closed set.
	ErrUnknownTier = errors.New("trip: unknown tier")
	// ErrInvalidDate is returned when a start date does not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("trip: invalid start date")
)

// Reducer applies builder intents to a draft. Every method is a pure
// transition: it clones the input draft, applies the change plus its derived
// cascades against the catalog snapshot, and returns the new draft. The input
// is never mutated, so a failed transition leaves the stored draft untouched.
type Reducer struct {
	Catalog *catalog.Snapshot
}

// SelectPark sets the day's park and resynchronises derived park fees. Fees
// applicable to the new park (park-scoped plus global, landing fees excepted)
// are added as auto entries unless already present. Auto entries that no
// longer apply are retracted. Manual entries and exclusion flags survive
// untouched, so repeating the same selection is a no-op.
func (r *Reducer) SelectPark(d Draft, dayNumber int, parkID *string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.ParkID = cloneStringPtr(parkID)
	// A park switch invalidates the park-specific arrival choice.
	day.Arrival = nil
	r.syncParkFees(day)
	r.syncLandingFee(day)
	return out, nil
}

// SelectArrival sets the day's arrival item. When the arrival is an aviation
// item the matching landing fee is derived as an auto park-fee entry, and any
// stale auto landing fee from a previous arrival kind is retracted. A default
// quantity is seeded for the arrival item unless one already exists.
func (r *Reducer) SelectArrival(d Draft, dayNumber int, itemID *string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.Arrival = cloneStringPtr(itemID)
	if itemID != nil {
		day.ArrivalNA = false
		if item, found := r.lookup(*itemID); found {
			out.seedQuantity(item, defaultQuantity(item, out.Travelers))
		}
	}
	r.syncLandingFee(day)
	return out, nil
}

// ToggleArrivalNA marks arrival as not applicable for the day. Setting the
// flag clears the arrival selection and retracts any auto landing fee.
func (r *Reducer) ToggleArrivalNA(d Draft, dayNumber int, notApplicable bool) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.ArrivalNA = notApplicable
	if notApplicable {
		day.Arrival = nil
		r.syncLandingFee(day)
	}
	return out, nil
}

// ToggleActivitiesNA marks activities as not applicable, clearing any selection.
func (r *Reducer) ToggleActivitiesNA(d Draft, dayNumber int, notApplicable bool) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.ActivitiesNA = notApplicable
	if notApplicable {
		day.Activities = nil
	}
	return out, nil
}

// SetLodging sets the day's lodging item. Existing room allocations are kept:
// switching back restores them, and pricing only reads allocations through the
// selected item's own price table.
func (r *Reducer) SetLodging(d Draft, dayNumber int, itemID *string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	out.TripDays[idx].Lodging = cloneStringPtr(itemID)
	return out, nil
}

// AddLodgingAllocation resolves a room rate from the selected lodging item's
// hierarchical price table and appends the allocation. An empty season id is
// resolved from the trip's start date, falling back to the item's default
// season for undated trips.
func (r *Reducer) AddLodgingAllocation(d Draft, dayNumber int, roomID, seasonID, occupancyKey string, quantity, guests int) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	if day.Lodging == nil {
		return d, ErrNoLodgingSelected
	}
	item, found := r.lookup(*day.Lodging)
	if !found || item.Lodging == nil {
		return d, fmt.Errorf("%w: %s", ErrItemNotFound, *day.Lodging)
	}
	if seasonID == "" {
		var travelDate time.Time
		if date, dated := out.DateForDay(dayNumber); dated {
			travelDate = date
		}
		seasonID = lodging.ResolveSeason(*item.Lodging, travelDate)
	}
	allocations, err := lodging.AddAllocation(*item.Lodging, day.LodgingAllocations, roomID, seasonID, occupancyKey, quantity, guests)
	if err != nil {
		return d, err
	}
	day.LodgingAllocations = allocations
	return out, nil
}

// RemoveLodgingAllocation drops the allocation at the given position.
func (r *Reducer) RemoveLodgingAllocation(d Draft, dayNumber, index int) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.LodgingAllocations = lodging.RemoveAllocation(day.LodgingAllocations, index)
	return out, nil
}

// SetActivities replaces the day's activity selection. Duplicate ids collapse,
// the NA flag clears when anything is selected, and each id absent from the
// quantity map is seeded at one.
func (r *Reducer) SetActivities(d Draft, dayNumber int, itemIDs []string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.Activities = dedupe(itemIDs)
	if len(day.Activities) > 0 {
		day.ActivitiesNA = false
	}
	out.seedUnitQuantities(day.Activities)
	return out, nil
}

// SetExtras replaces the day's extras selection, seeding unit quantities.
func (r *Reducer) SetExtras(d Draft, dayNumber int, itemIDs []string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	out.TripDays[idx].Extras = dedupe(itemIDs)
	out.seedUnitQuantities(out.TripDays[idx].Extras)
	return out, nil
}

// SetVehicle sets the day's vehicle. Capacity-based default quantities are
// seeded the same way as arrivals so a six-traveler party defaults to two
// four-seat vehicles.
func (r *Reducer) SetVehicle(d Draft, dayNumber int, itemID *string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	out.TripDays[idx].Logistics.Vehicle = cloneStringPtr(itemID)
	if itemID != nil {
		if item, found := r.lookup(*itemID); found {
			out.seedQuantity(item, defaultQuantity(item, out.Travelers))
		}
	}
	return out, nil
}

// SetInternalMovements replaces the day's internal movement selection.
func (r *Reducer) SetInternalMovements(d Draft, dayNumber int, itemIDs []string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	out.TripDays[idx].Logistics.InternalMovements = dedupe(itemIDs)
	out.seedUnitQuantities(out.TripDays[idx].Logistics.InternalMovements)
	return out, nil
}

// SetNotes sets the day's free-text logistics notes.
func (r *Reducer) SetNotes(d Draft, dayNumber int, notes string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	out.TripDays[idx].Logistics.Notes = notes
	return out, nil
}

// AddFreeHandLine appends an ad hoc cost line to the day.
func (r *Reducer) AddFreeHandLine(d Draft, dayNumber int, description string, amount int64) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	day.FreeHand = append(day.FreeHand, FreeHandLine{Description: description, Amount: amount})
	return out, nil
}

// UpdateFreeHandLine replaces the free-hand line at the given position.
func (r *Reducer) UpdateFreeHandLine(d Draft, dayNumber, index int, description string, amount int64) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	if index < 0 || index >= len(day.FreeHand) {
		return d, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	day.FreeHand[index] = FreeHandLine{Description: description, Amount: amount}
	return out, nil
}

// RemoveFreeHandLine drops the free-hand line at the given position.
func (r *Reducer) RemoveFreeHandLine(d Draft, dayNumber, index int) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	if index < 0 || index >= len(day.FreeHand) {
		return d, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	day.FreeHand = append(day.FreeHand[:index:index], day.FreeHand[index+1:]...)
	return out, nil
}

// AddParkFee attaches a fee to the day as a manual entry. Adding a fee the day
// already carries is a no-op regardless of its provenance or exclusion flag.
func (r *Reducer) AddParkFee(d Draft, dayNumber int, itemID string) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	if hasFee(day.ParkFees, itemID) {
		return out, nil
	}
	day.ParkFees = append(day.ParkFees, ParkFeeRef{ItemID: itemID, Source: SourceManual})
	return out, nil
}

// SetParkFeeExcluded toggles the exclusion flag on an existing fee entry. The
// entry itself stays: an excluded auto fee records that the user overrode the
// system, which keeps later fee syncs from re-adding it as billable.
func (r *Reducer) SetParkFeeExcluded(d Draft, dayNumber int, itemID string, excluded bool) (Draft, error) {
	out := d.Clone()
	idx, ok := out.dayIndex(dayNumber)
	if !ok {
		return d, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayNumber)
	}
	day := &out.TripDays[idx]
	for i := range day.ParkFees {
		if day.ParkFees[i].ItemID == itemID {
			day.ParkFees[i].Excluded = excluded
			return out, nil
		}
	}
	return d, fmt.Errorf("%w: %s", ErrFeeNotFound, itemID)
}

// SetQuantity overrides an item's planning quantity. Explicit overrides are
// tagged manual and survive traveler changes.
func (r *Reducer) SetQuantity(d Draft, itemID string, quantity int) (Draft, error) {
	if quantity < 0 {
		return d, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	out := d.Clone()
	out.ItemQuantities[itemID] = quantity
	out.QuantitySources[itemID] = SourceManual
	return out, nil
}

// SetTravelers changes the party size. Shrinking the party drops every
// auto-seeded quantity so capacity-derived defaults get recomputed on the next
// relevant selection instead of overstating vehicle or aircraft counts.
func (r *Reducer) SetTravelers(d Draft, travelers int) (Draft, error) {
	if travelers < 1 {
		return d, fmt.Errorf("%w: %d", ErrInvalidTravelers, travelers)
	}
	out := d.Clone()
	if travelers < out.Travelers {
		for id, src := range out.QuantitySources {
			if src == SourceAuto {
				delete(out.ItemQuantities, id)
				delete(out.QuantitySources, id)
			}
		}
	}
	out.Travelers = travelers
	return out, nil
}

// SetDays resizes the itinerary. New trailing days start empty; shrinking
// discards the dropped days' selections entirely.
func (r *Reducer) SetDays(d Draft, days int) (Draft, error) {
	if days < 1 {
		return d, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	out := d.Clone()
	switch {
	case days > len(out.TripDays):
		for n := len(out.TripDays) + 1; n <= days; n++ {
			out.TripDays = append(out.TripDays, Day{DayNumber: n})
		}
	case days < len(out.TripDays):
		out.TripDays = out.TripDays[:days]
	}
	out.Days = days
	return out, nil
}

// SetTier changes the draft's budget tier.
func (r *Reducer) SetTier(d Draft, tier Tier) (Draft, error) {
	tier = ParseTier(string(tier))
	if !tier.Known() {
		return d, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	out := d.Clone()
	out.Tier = tier
	return out, nil
}

// SetStartDate sets or clears the trip start date used for season resolution.
// Existing lodging allocations keep the rates they were added with.
func (r *Reducer) SetStartDate(d Draft, startDate string) (Draft, error) {
	startDate = strings.TrimSpace(startDate)
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return d, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
		}
	}
	out := d.Clone()
	out.StartDate = startDate
	return out, nil
}

// syncParkFees reconciles the day's fee entries against the catalog for the
// current park. Landing fees are owned by the arrival sync and skipped here.
func (r *Reducer) syncParkFees(day *Day) {
	applicable := map[string]bool{}
	if day.ParkID != nil && strings.TrimSpace(*day.ParkID) != "" {
		for _, item := range r.Catalog.ApplicableToPark(catalog.CategoryParkFees, *day.ParkID) {
			if item.Active && !isLandingFee(item) {
				applicable[item.ID] = true
			}
		}
	}
	kept := day.ParkFees[:0]
	for _, fee := range day.ParkFees {
		// Excluded entries record a user override and are retained even when
		// stale, so a later resync can never flip them back to billable.
		if fee.Source == SourceManual || fee.Excluded {
			kept = append(kept, fee)
			continue
		}
		if item, ok := r.lookup(fee.ItemID); ok && isLandingFee(item) {
			kept = append(kept, fee)
			continue
		}
		if applicable[fee.ItemID] {
			kept = append(kept, fee)
			delete(applicable, fee.ItemID)
		}
	}
	day.ParkFees = kept
	for _, item := range r.parkFeeCandidates(day) {
		if applicable[item.ID] && !hasFee(day.ParkFees, item.ID) {
			day.ParkFees = append(day.ParkFees, ParkFeeRef{ItemID: item.ID, Source: SourceAuto})
		}
	}
}

// syncLandingFee reconciles the auto landing-fee entry with the day's arrival.
// Helicopter arrivals take the helicopter landing fee, fixed-wing arrivals the
// airstrip fee, and a cleared arrival retracts the auto entry. Manual landing
// fees are never touched, and excluded entries survive retraction: the record
// of the override must outlive the arrival that produced it, or re-selecting
// the same arrival would re-add the fee as billable.
func (r *Reducer) syncLandingFee(day *Day) {
	target, hasTarget := r.landingFeeFor(day)
	kept := day.ParkFees[:0]
	for _, fee := range day.ParkFees {
		if fee.Source == SourceAuto && !fee.Excluded {
			if item, ok := r.lookup(fee.ItemID); ok && isLandingFee(item) && (!hasTarget || fee.ItemID != target.ID) {
				continue
			}
		}
		kept = append(kept, fee)
	}
	day.ParkFees = kept
	if hasTarget && !hasFee(day.ParkFees, target.ID) {
		day.ParkFees = append(day.ParkFees, ParkFeeRef{ItemID: target.ID, Source: SourceAuto})
	}
}

func (r *Reducer) landingFeeFor(day *Day) (catalog.Item, bool) {
	if day.Arrival == nil {
		return catalog.Item{}, false
	}
	arrival, ok := r.lookup(*day.Arrival)
	if !ok || arrival.Category != catalog.CategoryAviation {
		return catalog.Item{}, false
	}
	heli := isHelicopter(arrival)
	var fallback catalog.Item
	var haveFallback bool
	for _, item := range r.parkFeeCandidates(day) {
		if !item.Active || !isLandingFee(item) {
			continue
		}
		name := strings.ToLower(item.Name)
		if heli == strings.Contains(name, "helicopter") {
			return item, true
		}
		if !haveFallback && !heli && !strings.Contains(name, "helicopter") {
			fallback, haveFallback = item, true
		}
	}
	return fallback, haveFallback
}

// parkFeeCandidates lists park-fee and permit items in scope for the day, in
// catalog order.
func (r *Reducer) parkFeeCandidates(day *Day) []catalog.Item {
	var out []catalog.Item
	if day.ParkID != nil && strings.TrimSpace(*day.ParkID) != "" {
		out = r.Catalog.ApplicableToPark(catalog.CategoryParkFees, *day.ParkID)
		out = append(out, r.Catalog.ApplicableToPark(catalog.CategoryPermits, *day.ParkID)...)
		return out
	}
	out = r.Catalog.FindByCategoryAndPark(catalog.CategoryParkFees, nil)
	out = append(out, r.Catalog.FindByCategoryAndPark(catalog.CategoryPermits, nil)...)
	return out
}

func (r *Reducer) lookup(itemID string) (catalog.Item, bool) {
	if r == nil || r.Catalog == nil {
		return catalog.Item{}, false
	}
	return r.Catalog.FindByID(itemID)
}

func (d *Draft) seedQuantity(item catalog.Item, quantity int) {
	if _, exists := d.ItemQuantities[item.ID]; exists {
		return
	}
	d.ItemQuantities[item.ID] = quantity
	d.QuantitySources[item.ID] = SourceAuto
}

func (d *Draft) seedUnitQuantities(itemIDs []string) {
	for _, id := range itemIDs {
		if _, exists := d.ItemQuantities[id]; !exists {
			d.ItemQuantities[id] = 1
			d.QuantitySources[id] = SourceAuto
		}
	}
}

// defaultQuantity derives the unit count a party needs: ceil(travelers over
// capacity) for capacity-bound items, otherwise one.
func defaultQuantity(item catalog.Item, travelers int) int {
	if item.Capacity <= 0 || travelers <= 0 {
		return 1
	}
	qty := (travelers + item.Capacity - 1) / item.Capacity
	if qty < 1 {
		return 1
	}
	return qty
}

func isLandingFee(item catalog.Item) bool {
	if item.Category != catalog.CategoryParkFees && item.Category != catalog.CategoryPermits {
		return false
	}
	return strings.Contains(strings.ToLower(item.Name), "landing")
}

func isHelicopter(item catalog.Item) bool {
	name := strings.ToLower(item.Name)
	return strings.Contains(name, "helicopter") || strings.Contains(name, "heli ")
}

func hasFee(fees []ParkFeeRef, itemID string) bool {
	for _, fee := range fees {
		if fee.ItemID == itemID {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
