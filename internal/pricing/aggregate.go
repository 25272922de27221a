package pricing

import (
	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// LineItem is one row of the quote breakdown.
type LineItem struct {
	Day         int               `json:"day"`
	Park        string            `json:"park,omitempty"`
	Category    catalog.Category  `json:"category"`
	ItemID      string            `json:"itemId,omitempty"`
	ItemName    string            `json:"itemName"`
	CostModel   catalog.CostModel `json:"costModel,omitempty"`
	BasePrice   Money             `json:"basePrice"`
	Quantity    int               `json:"quantity,omitempty"`
	Explanation string            `json:"explanation"`
	Total       Money             `json:"total"`
}

// Result is the full priced quote for a draft.
type Result struct {
	Lines          []LineItem `json:"lines"`
	GrandTotal     Money      `json:"grandTotal"`
	PerPersonTotal Money      `json:"perPersonTotal"`
}

// Calculate walks the draft day by day and prices every effective selection
// against the catalog snapshot. Selections referencing missing or inactive
// items are skipped rather than failing: a stale draft still yields a usable
// quote for everything that remains valid. Free-hand lines bypass the catalog
// entirely. The quantity on a line is the planning quantity for display; cost
// models alone determine the money.
func Calculate(d trip.Draft, snapshot *catalog.Snapshot) Result {
	agg := aggregator{draft: d, snapshot: snapshot}
	for i := range d.TripDays {
		agg.priceDay(&d.TripDays[i])
	}
	result := Result{Lines: agg.lines, GrandTotal: agg.total}
	if result.Lines == nil {
		result.Lines = []LineItem{}
	}
	if d.Travelers > 0 {
		result.PerPersonTotal = result.GrandTotal / int64(d.Travelers)
	}
	return result
}

// Tax computes a basis-point tax on a total, rounding down.
func Tax(total Money, bps int) Money {
	if bps <= 0 || total <= 0 {
		return 0
	}
	return total * int64(bps) / 10000
}

type aggregator struct {
	draft    trip.Draft
	snapshot *catalog.Snapshot
	lines    []LineItem
	total    Money
}

func (a *aggregator) priceDay(day *trip.Day) {
	if !day.ArrivalNA && day.Arrival != nil {
		a.priceItem(day, *day.Arrival, nil)
	}
	if day.Lodging != nil {
		a.priceItem(day, *day.Lodging, day.LodgingAllocations)
	}
	if !day.ActivitiesNA {
		for _, id := range day.Activities {
			a.priceItem(day, id, nil)
		}
	}
	for _, id := range day.Extras {
		a.priceItem(day, id, nil)
	}
	if day.Logistics.Vehicle != nil {
		a.priceItem(day, *day.Logistics.Vehicle, nil)
	}
	for _, id := range day.Logistics.InternalMovements {
		a.priceItem(day, id, nil)
	}
	for _, fee := range day.ParkFees {
		if !fee.Excluded {
			a.priceItem(day, fee.ItemID, nil)
		}
	}
	for _, line := range day.FreeHand {
		a.push(LineItem{
			Day:         day.DayNumber,
			Park:        parkOf(day),
			Category:    catalog.CategoryExtras,
			ItemName:    line.Description,
			BasePrice:   line.Amount,
			Explanation: "free-hand " + FormatAmount(line.Amount),
			Total:       line.Amount,
		})
	}
}

func (a *aggregator) priceItem(day *trip.Day, itemID string, allocations []lodging.Allocation) {
	item, ok := a.snapshot.FindByID(itemID)
	if !ok || !item.Active {
		return
	}
	line := Evaluate(item, Context{
		Travelers:   a.draft.Travelers,
		Days:        a.draft.Days,
		Nights:      a.draft.Nights(),
		Allocations: allocations,
	})
	a.push(LineItem{
		Day:         day.DayNumber,
		Park:        parkOf(day),
		Category:    item.Category,
		ItemID:      item.ID,
		ItemName:    item.Name,
		CostModel:   item.CostModel,
		BasePrice:   item.BasePrice,
		Quantity:    a.draft.ItemQuantities[item.ID],
		Explanation: line.Explanation,
		Total:       line.Total,
	})
}

func (a *aggregator) push(line LineItem) {
	a.lines = append(a.lines, line)
	a.total += line.Total
}

func parkOf(day *trip.Day) string {
	if day.ParkID == nil {
		return ""
	}
	return *day.ParkID
}
