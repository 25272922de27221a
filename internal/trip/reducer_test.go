package trip

import (
	"errors"
	"reflect"
	"testing"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
)

func ptr(v string) *string { return &v }

func money(v int64) *int64 { return &v }

func reducerSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Item{
		{ID: "fee-serengeti", Name: "Serengeti Park Fee", Category: catalog.CategoryParkFees, ParkID: ptr("serengeti"), BasePrice: 8300, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "fee-ngoro", Name: "Ngorongoro Crater Fee", Category: catalog.CategoryParkFees, ParkID: ptr("ngorongoro"), BasePrice: 29500, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "fee-conservation", Name: "Conservation Levy", Category: catalog.CategoryParkFees, BasePrice: 1000, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "fee-retired", Name: "Retired Serengeti Fee", Category: catalog.CategoryParkFees, ParkID: ptr("serengeti"), BasePrice: 5000, CostModel: catalog.CostPerPerson, Active: false},
		{ID: "fee-heli-landing", Name: "Helicopter Landing Fee", Category: catalog.CategoryParkFees, BasePrice: 2000, CostModel: catalog.CostFixed, Active: true},
		{ID: "fee-airstrip-landing", Name: "Airstrip Landing Fee", Category: catalog.CategoryParkFees, BasePrice: 1500, CostModel: catalog.CostFixed, Active: true},
		{ID: "heli-transfer", Name: "Helicopter Transfer", Category: catalog.CategoryAviation, BasePrice: 120000, CostModel: catalog.CostFixed, SplitAcrossTravelers: true, Capacity: 13, Active: true},
		{ID: "caravan-flight", Name: "Caravan Flight to Seronera", Category: catalog.CategoryAviation, BasePrice: 40000, CostModel: catalog.CostPerPerson, Capacity: 12, Active: true},
		{ID: "road-transfer", Name: "Road Transfer from Arusha", Category: catalog.CategoryLogistics, BasePrice: 20000, CostModel: catalog.CostFixed, Active: true},
		{ID: "land-cruiser", Name: "Land Cruiser with Driver Guide", Category: catalog.CategoryVehicle, BasePrice: 35000, CostModel: catalog.CostPerDayFixed, Capacity: 4, Active: true},
		{ID: "game-drive", Name: "Full Day Game Drive", Category: catalog.CategoryActivities, BasePrice: 25000, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "balloon", Name: "Balloon Safari", Category: catalog.CategoryActivities, BasePrice: 55000, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "camp-kuro", Name: "Kuro Camp", Category: catalog.CategoryLodging, ParkID: ptr("serengeti"), CostModel: catalog.CostHierarchicalLodging, Active: true, Lodging: &lodging.Meta{
			Rooms: []lodging.Room{{ID: "deluxe", Name: "Deluxe Tent", Pricing: map[string]map[string]lodging.Rate{
				"high": {"double": {PerRoom: money(258200)}},
				"low":  {"double": {PerRoom: money(180000)}},
			}}},
			Seasons: []lodging.Season{
				{ID: "high", Name: "High Season", Periods: []lodging.Period{{Start: "06-01", End: "10-31"}}},
				{ID: "low", Name: "Low Season", Periods: []lodging.Period{{Start: "11-01", End: "05-31"}}},
			},
		}},
	})
}

func newReducer() *Reducer {
	return &Reducer{Catalog: reducerSnapshot()}
}

// mustApply returns a helper that unwraps a transition's result, failing the
// test on error. The closure form lets call sites forward the reducer's two
// return values directly.
func mustApply(t *testing.T) func(Draft, error) Draft {
	t.Helper()
	return func(d Draft, err error) Draft {
		t.Helper()
		if err != nil {
			t.Fatalf("transition failed: %v", err)
		}
		return d
	}
}

func feeIDs(day Day) []string {
	out := make([]string, 0, len(day.ParkFees))
	for _, fee := range day.ParkFees {
		out = append(out, fee.ItemID)
	}
	return out
}

func findFee(t *testing.T, day Day, itemID string) ParkFeeRef {
	t.Helper()
	for _, fee := range day.ParkFees {
		if fee.ItemID == itemID {
			return fee
		}
	}
	t.Fatalf("fee %s not present on day, have %v", itemID, feeIDs(day))
	return ParkFeeRef{}
}

func TestSelectParkDerivesFees(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)

	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	day := d.TripDays[0]
	want := []string{"fee-serengeti", "fee-conservation"}
	if !reflect.DeepEqual(feeIDs(day), want) {
		t.Fatalf("fees = %v, want %v", feeIDs(day), want)
	}
	for _, fee := range day.ParkFees {
		if fee.Source != SourceAuto || fee.Excluded {
			t.Fatalf("derived fee should be auto and billable: %+v", fee)
		}
	}
}

func TestSelectParkIsIdempotent(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))

	again := apply(r.SelectPark(d, 1, ptr("serengeti")))
	if !reflect.DeepEqual(d.TripDays[0].ParkFees, again.TripDays[0].ParkFees) {
		t.Fatalf("repeat selection changed fees: %v vs %v", d.TripDays[0].ParkFees, again.TripDays[0].ParkFees)
	}
}

func TestSelectParkPreservesManualAndExcluded(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.AddParkFee(d, 1, "fee-ngoro"))
	d = apply(r.SetParkFeeExcluded(d, 1, "fee-serengeti", true))

	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	day := d.TripDays[0]
	if fee := findFee(t, day, "fee-serengeti"); !fee.Excluded || fee.Source != SourceAuto {
		t.Fatalf("exclusion flag lost on resync: %+v", fee)
	}
	if fee := findFee(t, day, "fee-ngoro"); fee.Source != SourceManual {
		t.Fatalf("manual fee lost provenance: %+v", fee)
	}
	if len(day.ParkFees) != 3 {
		t.Fatalf("unexpected fee set: %v", feeIDs(day))
	}
}

func TestSelectParkRetractsStaleAutoFees(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.SelectPark(d, 1, ptr("ngorongoro")))

	day := d.TripDays[0]
	want := []string{"fee-conservation", "fee-ngoro"}
	if !reflect.DeepEqual(feeIDs(day), want) {
		t.Fatalf("fees after park switch = %v, want %v", feeIDs(day), want)
	}
}

func TestSelectParkSkipsInactiveFees(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	for _, fee := range d.TripDays[0].ParkFees {
		if fee.ItemID == "fee-retired" {
			t.Fatal("inactive fee was derived")
		}
	}
}

func TestAddParkFeeNeverDuplicates(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	before := len(d.TripDays[0].ParkFees)

	d = apply(r.AddParkFee(d, 1, "fee-serengeti"))
	if len(d.TripDays[0].ParkFees) != before {
		t.Fatalf("duplicate fee entry: %v", feeIDs(d.TripDays[0]))
	}
	if fee := findFee(t, d.TripDays[0], "fee-serengeti"); fee.Source != SourceAuto {
		t.Fatalf("re-add overwrote provenance: %+v", fee)
	}
}

func TestArrivalDerivesLandingFeeByKind(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))

	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	fee := findFee(t, d.TripDays[0], "fee-heli-landing")
	if fee.Source != SourceAuto {
		t.Fatalf("landing fee provenance: %+v", fee)
	}

	// Switching to a fixed-wing flight swaps the landing fee.
	d = apply(r.SelectArrival(d, 1, ptr("caravan-flight")))
	day := d.TripDays[0]
	for _, f := range day.ParkFees {
		if f.ItemID == "fee-heli-landing" {
			t.Fatalf("stale helicopter landing fee kept: %v", feeIDs(day))
		}
	}
	findFee(t, day, "fee-airstrip-landing")
}

func TestRoadArrivalDerivesNoLandingFee(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))

	d = apply(r.SelectArrival(d, 1, ptr("road-transfer")))
	for _, fee := range d.TripDays[0].ParkFees {
		if fee.ItemID == "fee-heli-landing" || fee.ItemID == "fee-airstrip-landing" {
			t.Fatalf("road arrival kept a landing fee: %v", feeIDs(d.TripDays[0]))
		}
	}
}

func TestExcludedLandingFeeSurvivesResync(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	d = apply(r.SetParkFeeExcluded(d, 1, "fee-heli-landing", true))

	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	if fee := findFee(t, d.TripDays[0], "fee-heli-landing"); !fee.Excluded {
		t.Fatalf("resync un-excluded the landing fee: %+v", fee)
	}
}

func TestExcludedLandingFeeSurvivesParkReselect(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	d = apply(r.SetParkFeeExcluded(d, 1, "fee-heli-landing", true))

	// Re-selecting the park clears the arrival. The excluded entry must
	// outlive that retraction so a fresh arrival cannot bill the fee again.
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	if fee := findFee(t, d.TripDays[0], "fee-heli-landing"); !fee.Excluded {
		t.Fatalf("park re-selection dropped the exclusion: %+v", fee)
	}

	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	fee := findFee(t, d.TripDays[0], "fee-heli-landing")
	if !fee.Excluded || fee.Source != SourceAuto {
		t.Fatalf("arrival re-trigger flipped the fee back to billable: %+v", fee)
	}
	seen := 0
	for _, f := range d.TripDays[0].ParkFees {
		if f.ItemID == "fee-heli-landing" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("landing fee duplicated: %v", feeIDs(d.TripDays[0]))
	}
}

func TestClearArrivalRetractsAutoLandingFee(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SelectPark(d, 1, ptr("serengeti")))
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))

	d = apply(r.ToggleArrivalNA(d, 1, true))
	day := d.TripDays[0]
	if day.Arrival != nil || !day.ArrivalNA {
		t.Fatalf("NA toggle left arrival set: %+v", day)
	}
	for _, fee := range day.ParkFees {
		if fee.ItemID == "fee-heli-landing" {
			t.Fatalf("auto landing fee kept without arrival: %v", feeIDs(day))
		}
	}
}

func TestArrivalSeedsCapacityQuantity(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 30, 5, TierStandard)
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	if d.ItemQuantities["heli-transfer"] != 3 {
		t.Fatalf("quantity = %d, want ceil(30/13) = 3", d.ItemQuantities["heli-transfer"])
	}
	if d.QuantitySources["heli-transfer"] != SourceAuto {
		t.Fatalf("seed source: %v", d.QuantitySources["heli-transfer"])
	}

	// An existing quantity is never overwritten by reselection.
	d = apply(r.SetQuantity(d, "heli-transfer", 5))
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	if d.ItemQuantities["heli-transfer"] != 5 {
		t.Fatalf("reselection clobbered manual quantity: %d", d.ItemQuantities["heli-transfer"])
	}
}

func TestTravelerDecreaseDropsAutoQuantities(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 30, 5, TierStandard)
	d = apply(r.SelectArrival(d, 1, ptr("heli-transfer")))
	d = apply(r.SetVehicle(d, 2, ptr("land-cruiser")))
	d = apply(r.SetQuantity(d, "land-cruiser", 9))

	d = apply(r.SetTravelers(d, 4))
	if _, ok := d.ItemQuantities["heli-transfer"]; ok {
		t.Fatal("auto quantity survived traveler decrease")
	}
	if d.ItemQuantities["land-cruiser"] != 9 {
		t.Fatalf("manual override dropped: %v", d.ItemQuantities)
	}

	// Increases leave all quantities alone.
	d = apply(r.SetVehicle(d, 3, ptr("land-cruiser")))
	d = apply(r.SetTravelers(d, 40))
	if d.ItemQuantities["land-cruiser"] != 9 {
		t.Fatalf("traveler increase touched quantities: %v", d.ItemQuantities)
	}
}

func TestActivitiesNAMutualExclusion(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SetActivities(d, 2, []string{"game-drive", "game-drive", "balloon"}))
	if !reflect.DeepEqual(d.TripDays[1].Activities, []string{"game-drive", "balloon"}) {
		t.Fatalf("activities = %v", d.TripDays[1].Activities)
	}
	if d.ItemQuantities["game-drive"] != 1 || d.ItemQuantities["balloon"] != 1 {
		t.Fatalf("unit quantities not seeded: %v", d.ItemQuantities)
	}

	d = apply(r.ToggleActivitiesNA(d, 2, true))
	if d.TripDays[1].Activities != nil || !d.TripDays[1].ActivitiesNA {
		t.Fatalf("NA did not clear activities: %+v", d.TripDays[1])
	}

	d = apply(r.SetActivities(d, 2, []string{"balloon"}))
	if d.TripDays[1].ActivitiesNA {
		t.Fatal("selection did not clear NA flag")
	}
}

func TestLodgingAllocationFlow(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)

	if _, err := r.AddLodgingAllocation(d, 1, "deluxe", "high", "double", 1, 2); !errors.Is(err, ErrNoLodgingSelected) {
		t.Fatalf("expected ErrNoLodgingSelected, got %v", err)
	}

	d = apply(r.SetLodging(d, 1, ptr("camp-kuro")))
	d = apply(r.AddLodgingAllocation(d, 1, "deluxe", "high", "double", 1, 2))
	if len(d.TripDays[0].LodgingAllocations) != 1 {
		t.Fatalf("allocations = %+v", d.TripDays[0].LodgingAllocations)
	}
	if got := d.TripDays[0].LodgingAllocations[0].UnitPrice; got != 258200 {
		t.Fatalf("unit price = %d", got)
	}

	d = apply(r.RemoveLodgingAllocation(d, 1, 0))
	if len(d.TripDays[0].LodgingAllocations) != 0 {
		t.Fatalf("allocation not removed: %+v", d.TripDays[0].LodgingAllocations)
	}
}

func TestLodgingSeasonResolvedFromStartDate(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 5, TierStandard)
	d = apply(r.SetStartDate(d, "2026-11-28"))
	d = apply(r.SetLodging(d, 3, ptr("camp-kuro")))

	// Day 3 falls on Nov 30, in the low season.
	d = apply(r.AddLodgingAllocation(d, 3, "deluxe", "", "double", 1, 2))
	alloc := d.TripDays[2].LodgingAllocations[0]
	if alloc.SeasonID != "low" || alloc.UnitPrice != 180000 {
		t.Fatalf("resolved allocation: %+v", alloc)
	}
}

func TestFreeHandLineCRUD(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 3, TierStandard)
	d = apply(r.AddFreeHandLine(d, 2, "Maasai village visit", 5000))
	d = apply(r.UpdateFreeHandLine(d, 2, 0, "Maasai village visit", 7500))
	if got := d.TripDays[1].FreeHand[0].Amount; got != 7500 {
		t.Fatalf("amount = %d", got)
	}

	if _, err := r.UpdateFreeHandLine(d, 2, 4, "x", 1); !errors.Is(err, ErrLineOutOfRange) {
		t.Fatalf("expected ErrLineOutOfRange, got %v", err)
	}

	d = apply(r.RemoveFreeHandLine(d, 2, 0))
	if len(d.TripDays[1].FreeHand) != 0 {
		t.Fatalf("line not removed: %+v", d.TripDays[1].FreeHand)
	}
}

func TestSetDaysResizes(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	d := NewDraft("t", 2, 3, TierStandard)
	d = apply(r.SetNotes(d, 3, "drive to the crater rim"))

	d = apply(r.SetDays(d, 5))
	if len(d.TripDays) != 5 || d.TripDays[4].DayNumber != 5 {
		t.Fatalf("grow: %+v", d.TripDays)
	}
	if d.TripDays[2].Logistics.Notes != "drive to the crater rim" {
		t.Fatal("grow dropped existing day state")
	}

	d = apply(r.SetDays(d, 2))
	if len(d.TripDays) != 2 || d.Days != 2 {
		t.Fatalf("shrink: %+v", d.TripDays)
	}

	if _, err := r.SetNotes(d, 3, "gone"); !errors.Is(err, ErrDayOutOfRange) {
		t.Fatalf("expected ErrDayOutOfRange, got %v", err)
	}
	if _, err := r.SetDays(d, 0); !errors.Is(err, ErrInvalidDays) {
		t.Fatalf("expected ErrInvalidDays, got %v", err)
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	r := newReducer()
	apply := mustApply(t)
	original := NewDraft("t", 2, 3, TierStandard)
	snapshotBefore := original.Clone()

	_ = apply(r.SelectPark(original, 1, ptr("serengeti")))
	_ = apply(r.SetActivities(original, 2, []string{"game-drive"}))
	if _, err := r.SetTravelers(original, 0); !errors.Is(err, ErrInvalidTravelers) {
		t.Fatalf("expected ErrInvalidTravelers, got %v", err)
	}

	if !reflect.DeepEqual(original, snapshotBefore) {
		t.Fatalf("input draft mutated:\nbefore %+v\nafter  %+v", snapshotBefore, original)
	}
}
