package tier

import (
	"sort"
	"strings"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// band is the minor-unit nightly price range a tier targets for lodging.
type band struct {
	min int64
	max int64
}

func (b band) mid() int64  { return (b.min + b.max) / 2 }
func (b band) half() int64 { return (b.max - b.min) / 2 }

var lodgingBands = map[trip.Tier]band{
	trip.TierBudget:   {min: 5000, max: 15000},
	trip.TierStandard: {min: 15000, max: 35000},
	trip.TierLuxury:   {min: 35000, max: 80000},
	trip.TierUltraLux: {min: 80000, max: 200000},
}

// activityPivots are the per-tier activity price sweet spots.
var activityPivots = map[trip.Tier]int64{
	trip.TierBudget:   10000,
	trip.TierStandard: 25000,
	trip.TierLuxury:   50000,
	trip.TierUltraLux: 100000,
}

var preferredKeywords = map[trip.Tier][]string{
	trip.TierBudget:   {"camp", "basic", "public", "shared"},
	trip.TierStandard: {"lodge", "tented", "comfort"},
	trip.TierLuxury:   {"luxury", "boutique", "suite", "spa"},
	trip.TierUltraLux: {"exclusive", "private", "villa", "ultra"},
}

var excludedKeywords = map[trip.Tier][]string{
	trip.TierBudget:   {"luxury", "exclusive", "villa", "suite", "private"},
	trip.TierStandard: {"ultra", "exclusive", "villa"},
	trip.TierLuxury:   {"basic", "budget", "public", "shared"},
	trip.TierUltraLux: {"basic", "budget", "public", "shared"},
}

// premiumKeywords flag activities that read as splurges regardless of price.
var premiumKeywords = []string{"balloon", "helicopter", "private", "champagne", "fly-in"}

// Score rates how well a catalog item fits a budget tier. Lodging is scored
// against the tier's nightly price band plus name/notes keywords; everything
// else is scored by price direction (higher tiers favor pricier options) plus
// a premium-name adjustment. Pure: no input is mutated.
func Score(item catalog.Item, tier trip.Tier) float64 {
	if item.Category == catalog.CategoryLodging {
		return lodgingScore(item, tier)
	}
	return activityScore(item, tier)
}

func lodgingScore(item catalog.Item, tier trip.Tier) float64 {
	b, ok := lodgingBands[tier]
	if !ok {
		return 0
	}
	price := representativePrice(item)
	var score float64
	switch {
	case price < b.min:
		score = -20
	case price > b.max:
		if tier == trip.TierBudget {
			score = -30
		} else {
			score = -10
		}
	default:
		dist := price - b.mid()
		if dist < 0 {
			dist = -dist
		}
		if half := b.half(); half > 0 {
			score = 50 * (1 - float64(dist)/float64(half))
		} else {
			score = 50
		}
	}
	return score + keywordScore(item, tier)
}

func activityScore(item catalog.Item, tier trip.Tier) float64 {
	pivot, ok := activityPivots[tier]
	if !ok {
		return 0
	}
	price := item.BasePrice
	var score float64
	switch tier {
	case trip.TierLuxury, trip.TierUltraLux:
		if price >= pivot {
			score = 20
		} else if price < pivot/2 {
			score = -10
		}
	case trip.TierBudget:
		if price <= pivot {
			score = 20
		} else if price > 2*pivot {
			score = -10
		}
	default:
		if price >= pivot/2 && price <= 2*pivot {
			score = 15
		}
	}
	if matchesAny(item, premiumKeywords) {
		switch tier {
		case trip.TierBudget:
			score -= 20
		case trip.TierStandard:
			score -= 5
		default:
			score += 15
		}
	}
	return score
}

func keywordScore(item catalog.Item, tier trip.Tier) float64 {
	var score float64
	text := strings.ToLower(item.Name + " " + item.Notes)
	for _, kw := range preferredKeywords[tier] {
		if strings.Contains(text, kw) {
			score += 10
		}
	}
	for _, kw := range excludedKeywords[tier] {
		if strings.Contains(text, kw) {
			score -= 15
		}
	}
	return score
}

// representativePrice picks the number the band comparison uses. Hierarchical
// lodging items usually carry a zero base price, so the cheapest rate in the
// room table stands in for it.
func representativePrice(item catalog.Item) int64 {
	if item.BasePrice > 0 || item.Lodging == nil {
		return item.BasePrice
	}
	var lowest int64 = -1
	for _, room := range item.Lodging.Rooms {
		for _, seasons := range room.Pricing {
			for _, rate := range seasons {
				for _, p := range []*int64{rate.PerPerson, rate.PerRoom, rate.PerVilla} {
					if p != nil && (lowest < 0 || *p < lowest) {
						lowest = *p
					}
				}
			}
		}
	}
	if lowest < 0 {
		return 0
	}
	return lowest
}

func matchesAny(item catalog.Item, keywords []string) bool {
	text := strings.ToLower(item.Name + " " + item.Notes)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Scored pairs an item with its tier score.
type Scored struct {
	Item  catalog.Item `json:"item"`
	Score float64      `json:"score"`
}

// BestForTier returns the highest-scoring item. Ties keep the earliest item.
// Empty input reports ok=false.
func BestForTier(items []catalog.Item, tier trip.Tier) (catalog.Item, bool) {
	if len(items) == 0 {
		return catalog.Item{}, false
	}
	best := items[0]
	bestScore := Score(items[0], tier)
	for _, item := range items[1:] {
		if s := Score(item, tier); s > bestScore {
			best, bestScore = item, s
		}
	}
	return best, true
}

// Recommended returns all items sorted by descending score. The sort is
// stable, so equally scored items keep their catalog order.
func Recommended(items []catalog.Item, tier trip.Tier) []Scored {
	out := make([]Scored, 0, len(items))
	for _, item := range items {
		out = append(out, Scored{Item: item, Score: Score(item, tier)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
