package pricing

import (
	"fmt"
	"strings"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
)

// Context carries the trip cardinalities a cost model scales against.
// Allocations are only read by hierarchical lodging items.
type Context struct {
	Travelers   int
	Days        int
	Nights      int
	Allocations []lodging.Allocation
}

// Line is the outcome of evaluating one item: an exact minor-unit total plus a
// human-readable derivation for the quote sheet.
type Line struct {
	Total       Money
	Explanation string
}

// Evaluate computes an item's cost under the given context. Unknown cost
// models evaluate to zero with an explanatory string so one bad catalog row
// degrades a single line instead of failing the whole calculation.
func Evaluate(item catalog.Item, ctx Context) Line {
	travelers := ctx.Travelers
	if travelers < 0 {
		travelers = 0
	}
	days := ctx.Days
	if days < 0 {
		days = 0
	}
	nights := ctx.Nights
	if nights < 0 {
		nights = 0
	}

	switch item.CostModel {
	case catalog.CostPerPerson:
		total := item.BasePrice * int64(travelers)
		return Line{
			Total:       total,
			Explanation: fmt.Sprintf("%s x %d travelers = %s", FormatAmount(item.BasePrice), travelers, FormatAmount(total)),
		}
	case catalog.CostFixed:
		if item.SplitAcrossTravelers && travelers > 0 {
			perTraveler := item.BasePrice / int64(travelers)
			return Line{
				Total:       item.BasePrice,
				Explanation: fmt.Sprintf("fixed %s (%s per traveler)", FormatAmount(item.BasePrice), FormatAmount(perTraveler)),
			}
		}
		return Line{
			Total:       item.BasePrice,
			Explanation: fmt.Sprintf("fixed %s", FormatAmount(item.BasePrice)),
		}
	case catalog.CostPerDayFixed:
		total := item.BasePrice * int64(days)
		return Line{
			Total:       total,
			Explanation: fmt.Sprintf("%s x %d days = %s", FormatAmount(item.BasePrice), days, FormatAmount(total)),
		}
	case catalog.CostPerNightPerPerson:
		total := item.BasePrice * int64(nights) * int64(travelers)
		return Line{
			Total:       total,
			Explanation: fmt.Sprintf("%s x %d nights x %d travelers = %s", FormatAmount(item.BasePrice), nights, travelers, FormatAmount(total)),
		}
	case catalog.CostPerNightFixed:
		total := item.BasePrice * int64(nights)
		return Line{
			Total:       total,
			Explanation: fmt.Sprintf("%s x %d nights = %s", FormatAmount(item.BasePrice), nights, FormatAmount(total)),
		}
	case catalog.CostHierarchicalLodging:
		return evaluateLodging(ctx.Allocations)
	default:
		return Line{Total: 0, Explanation: fmt.Sprintf("unknown pricing model %q", string(item.CostModel))}
	}
}

// evaluateLodging sums allocation line totals. The item's own base price is
// irrelevant here: each allocation already carries the rate resolved from the
// room/season/occupancy table when it was added.
func evaluateLodging(allocations []lodging.Allocation) Line {
	if len(allocations) == 0 {
		return Line{Total: 0, Explanation: "no lodging allocations"}
	}
	var total Money
	parts := make([]string, 0, len(allocations))
	for _, a := range allocations {
		line := lodging.LineTotal(a)
		total += line
		switch a.PriceBasis {
		case lodging.BasisPerPerson:
			parts = append(parts, fmt.Sprintf("%s %s/%s: %s x %d guests = %s",
				a.RoomTypeID, a.SeasonID, a.OccupancyKey, FormatAmount(a.UnitPrice), a.Guests, FormatAmount(line)))
		default:
			parts = append(parts, fmt.Sprintf("%s %s/%s: %s x %d = %s",
				a.RoomTypeID, a.SeasonID, a.OccupancyKey, FormatAmount(a.UnitPrice), a.Quantity, FormatAmount(line)))
		}
	}
	return Line{Total: total, Explanation: strings.Join(parts, "; ")}
}
