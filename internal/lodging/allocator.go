package lodging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrRoomNotFound is returned when the room type id is absent from the price table.
	ErrRoomNotFound = errors.New("lodging: room type not found")
	// ErrRateNotFound is returned when no rate exists for the season/occupancy combination.
	ErrRateNotFound = errors.New("lodging: no rate for season and occupancy")
	// ErrInvalidQuantity is returned when the requested room quantity is not positive.
	ErrInvalidQuantity = errors.New("lodging: quantity must be positive")
)

// Basis identifies how an allocation's unit price applies.
type Basis string

// Price bases supported by hierarchical lodging tables.
const (
	BasisPerRoom   Basis = "perRoom"
	BasisPerPerson Basis = "perPerson"
	BasisPerVilla  Basis = "perVilla"
)

// Period is a recurring calendar span expressed as MM-DD boundaries. Periods
// may wrap the year boundary (e.g. 12-15 through 01-10).
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Season names a rate season and the calendar periods it covers.
type Season struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Periods []Period `json:"periods"`
}

// Rate holds the minor-unit prices offered for one room/season/occupancy cell.
// A nil field means that basis is not offered.
type Rate struct {
	PerRoom   *int64 `json:"perRoom,omitempty"`
	PerPerson *int64 `json:"perPerson,omitempty"`
	PerVilla  *int64 `json:"perVilla,omitempty"`
}

// Room is one bookable room type with its nested season/occupancy price table.
type Room struct {
	ID      string                     `json:"id"`
	Name    string                     `json:"name"`
	Pricing map[string]map[string]Rate `json:"pricing"`
}

// Meta is the full hierarchical price table attached to a lodging catalog item.
// Seasons are ordered; the first declared season is the default for undated trips.
type Meta struct {
	Rooms   []Room   `json:"rooms"`
	Seasons []Season `json:"seasons"`
}

// Allocation is one concrete room booking line resolved from the price table.
type Allocation struct {
	RoomTypeID   string `json:"roomTypeId"`
	SeasonID     string `json:"seasonId"`
	OccupancyKey string `json:"occupancyKey"`
	UnitPrice    int64  `json:"unitPrice"`
	PriceBasis   Basis  `json:"priceBasis"`
	Quantity     int    `json:"quantity"`
	Guests       int    `json:"guests"`
}

// ResolveSeason returns the season id covering the travel date. Each period is
// matched independently so seasons spanning the year boundary resolve
// correctly. A zero travel date falls back to the first declared season.
func ResolveSeason(meta Meta, travelDate time.Time) string {
	if len(meta.Seasons) == 0 {
		return ""
	}
	if travelDate.IsZero() {
		return meta.Seasons[0].ID
	}
	month := int(travelDate.Month())
	day := travelDate.Day()
	for _, season := range meta.Seasons {
		for _, period := range season.Periods {
			if periodContains(period, month, day) {
				return season.ID
			}
		}
	}
	return meta.Seasons[0].ID
}

func periodContains(p Period, month, day int) bool {
	sm, sd, ok := parseMonthDay(p.Start)
	if !ok {
		return false
	}
	em, ed, ok := parseMonthDay(p.End)
	if !ok {
		return false
	}
	point := month*100 + day
	start := sm*100 + sd
	end := em*100 + ed
	if start <= end {
		return point >= start && point <= end
	}
	// wraps the year boundary
	return point >= start || point <= end
}

func parseMonthDay(v string) (month, day int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(v), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil || d < 1 || d > 31 {
		return 0, 0, false
	}
	return m, d, true
}

// AddAllocation resolves the rate for the requested room/season/occupancy and
// appends a new allocation. Existing allocations are never merged: two
// identical double-room bookings stay as distinct lines so per-unit pricing
// remains visible. The input slice is not mutated.
func AddAllocation(meta Meta, existing []Allocation, roomID, seasonID, occupancyKey string, quantity, guests int) ([]Allocation, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if guests < 0 {
		guests = 0
	}
	room, ok := findRoom(meta, roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	rate, ok := room.Pricing[seasonID][occupancyKey]
	if !ok {
		return nil, fmt.Errorf("%w: season %s occupancy %s", ErrRateNotFound, seasonID, occupancyKey)
	}
	basis, unit, ok := pickRate(rate)
	if !ok {
		return nil, fmt.Errorf("%w: season %s occupancy %s", ErrRateNotFound, seasonID, occupancyKey)
	}
	out := make([]Allocation, len(existing), len(existing)+1)
	copy(out, existing)
	out = append(out, Allocation{
		RoomTypeID:   roomID,
		SeasonID:     seasonID,
		OccupancyKey: occupancyKey,
		UnitPrice:    unit,
		PriceBasis:   basis,
		Quantity:     quantity,
		Guests:       guests,
	})
	return out, nil
}

// RemoveAllocation drops the allocation at the given position. Out-of-range
// indices leave the slice unchanged.
func RemoveAllocation(allocations []Allocation, index int) []Allocation {
	if index < 0 || index >= len(allocations) {
		return allocations
	}
	out := make([]Allocation, 0, len(allocations)-1)
	out = append(out, allocations[:index]...)
	out = append(out, allocations[index+1:]...)
	return out
}

// LineTotal computes the minor-unit cost of a single allocation.
func LineTotal(a Allocation) int64 {
	switch a.PriceBasis {
	case BasisPerPerson:
		return a.UnitPrice * int64(a.Guests)
	default:
		// perRoom and perVilla both scale by unit count
		return a.UnitPrice * int64(a.Quantity)
	}
}

// TotalGuests sums guests across allocations. Display-only: the allocator
// never enforces that guests cover the trip's traveler count.
func TotalGuests(allocations []Allocation) int {
	var total int
	for _, a := range allocations {
		total += a.Guests
	}
	return total
}

func findRoom(meta Meta, roomID string) (Room, bool) {
	for _, room := range meta.Rooms {
		if room.ID == roomID {
			return room, true
		}
	}
	return Room{}, false
}

func pickRate(rate Rate) (Basis, int64, bool) {
	switch {
	case rate.PerRoom != nil:
		return BasisPerRoom, *rate.PerRoom, true
	case rate.PerVilla != nil:
		return BasisPerVilla, *rate.PerVilla, true
	case rate.PerPerson != nil:
		return BasisPerPerson, *rate.PerPerson, true
	default:
		return "", 0, false
	}
}
