package pricing

import (
	"testing"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
	"github.com/noah-isme/safari-quote/internal/trip"
)

func ptr(v string) *string { return &v }

func quoteSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Item{
		{
			ID: "heli-transfer", Name: "Helicopter Transfer", Category: catalog.CategoryAviation,
			ParkID: ptr("serengeti"), BasePrice: 120000, CostModel: catalog.CostFixed,
			SplitAcrossTravelers: true, Capacity: 13, Active: true,
		},
		{
			ID: "fee-heli-landing", Name: "Helicopter Landing Fee", Category: catalog.CategoryParkFees,
			BasePrice: 0, CostModel: catalog.CostPerPerson, Active: true,
		},
		{
			ID: "camp-kuro", Name: "Kuro Camp", Category: catalog.CategoryLodging,
			ParkID: ptr("serengeti"), CostModel: catalog.CostHierarchicalLodging, Active: true,
			Lodging: &lodging.Meta{
				Rooms: []lodging.Room{{
					ID: "deluxe", Name: "Deluxe Tent",
					Pricing: map[string]map[string]lodging.Rate{
						"high": {"double": {PerRoom: money(258200)}},
					},
				}},
				Seasons: []lodging.Season{{ID: "high", Name: "High Season", Periods: []lodging.Period{{Start: "06-01", End: "10-31"}}}},
			},
		},
		{
			ID: "game-drive", Name: "Full Day Game Drive", Category: catalog.CategoryActivities,
			BasePrice: 25000, CostModel: catalog.CostPerPerson, Active: false,
		},
	})
}

// Prices the walkthrough itinerary: two travelers over five days, a split
// helicopter transfer, one deluxe double at high-season rate, and a
// zero-priced landing fee derived from the arrival.
func TestCalculateFullQuote(t *testing.T) {
	snap := quoteSnapshot()
	r := &trip.Reducer{Catalog: snap}

	d := trip.NewDraft("trip-1", 2, 5, trip.TierLuxury)
	var err error
	if d, err = r.SelectPark(d, 1, ptr("serengeti")); err != nil {
		t.Fatalf("select park: %v", err)
	}
	if d, err = r.SelectArrival(d, 1, ptr("heli-transfer")); err != nil {
		t.Fatalf("select arrival: %v", err)
	}
	if d, err = r.SetLodging(d, 1, ptr("camp-kuro")); err != nil {
		t.Fatalf("set lodging: %v", err)
	}
	if d, err = r.AddLodgingAllocation(d, 1, "deluxe", "high", "double", 1, 2); err != nil {
		t.Fatalf("add allocation: %v", err)
	}

	result := Calculate(d, snap)
	if result.GrandTotal != 378200 {
		t.Fatalf("grand total = %d, want 378200", result.GrandTotal)
	}
	if result.PerPersonTotal != 189100 {
		t.Fatalf("per person total = %d, want 189100", result.PerPersonTotal)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %+v", result.Lines)
	}

	byID := map[string]LineItem{}
	for _, line := range result.Lines {
		byID[line.ItemID] = line
	}
	if byID["heli-transfer"].Total != 120000 {
		t.Fatalf("helicopter line: %+v", byID["heli-transfer"])
	}
	if byID["camp-kuro"].Total != 258200 {
		t.Fatalf("lodging line: %+v", byID["camp-kuro"])
	}
	if byID["fee-heli-landing"].Total != 0 {
		t.Fatalf("landing fee line: %+v", byID["fee-heli-landing"])
	}
}

func TestCalculateSkipsInvalidSelections(t *testing.T) {
	snap := quoteSnapshot()
	d := trip.NewDraft("trip-2", 2, 3, trip.TierStandard)
	deleted := "item-deleted"
	inactive := "game-drive"
	d.TripDays[0].Extras = []string{deleted}
	d.TripDays[0].Activities = []string{inactive}

	result := Calculate(d, snap)
	if len(result.Lines) != 0 || result.GrandTotal != 0 {
		t.Fatalf("expected empty quote, got %+v", result)
	}
}

func TestCalculateNASuppressesSelections(t *testing.T) {
	snap := quoteSnapshot()
	d := trip.NewDraft("trip-3", 2, 3, trip.TierStandard)
	arrival := "heli-transfer"
	d.TripDays[0].Arrival = &arrival
	d.TripDays[0].ArrivalNA = true

	result := Calculate(d, snap)
	if result.GrandTotal != 0 {
		t.Fatalf("NA arrival still priced: %+v", result)
	}
}

func TestCalculateExcludedFeesAndFreeHand(t *testing.T) {
	snap := quoteSnapshot()
	d := trip.NewDraft("trip-4", 2, 2, trip.TierBudget)
	d.TripDays[0].ParkFees = []trip.ParkFeeRef{
		{ItemID: "fee-heli-landing", Source: trip.SourceAuto, Excluded: true},
	}
	d.TripDays[1].FreeHand = []trip.FreeHandLine{
		{Description: "Maasai village visit", Amount: 5000},
	}

	result := Calculate(d, snap)
	if len(result.Lines) != 1 {
		t.Fatalf("expected only the free-hand line, got %+v", result.Lines)
	}
	line := result.Lines[0]
	if line.ItemName != "Maasai village visit" || line.Total != 5000 || line.ItemID != "" {
		t.Fatalf("free-hand line: %+v", line)
	}
	if result.GrandTotal != 5000 || result.PerPersonTotal != 2500 {
		t.Fatalf("totals: %+v", result)
	}
}

func TestCalculateZeroTravelers(t *testing.T) {
	snap := quoteSnapshot()
	d := trip.Draft{ID: "trip-5", Travelers: 0, Days: 1, TripDays: []trip.Day{{DayNumber: 1, FreeHand: []trip.FreeHandLine{{Description: "deposit", Amount: 10000}}}}}

	result := Calculate(d, snap)
	if result.GrandTotal != 10000 || result.PerPersonTotal != 0 {
		t.Fatalf("zero travelers: %+v", result)
	}
}

func TestTax(t *testing.T) {
	if got := Tax(378200, 1800); got != 68076 {
		t.Fatalf("tax = %d, want 68076", got)
	}
	if got := Tax(100, 0); got != 0 {
		t.Fatalf("zero bps tax = %d", got)
	}
	if got := Tax(-500, 1800); got != 0 {
		t.Fatalf("negative total tax = %d", got)
	}
}
