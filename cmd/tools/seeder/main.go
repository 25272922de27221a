package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/lodging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	store := &catalog.Store{Pool: pool}

	log.Println("Seeding catalog items...")
	seeded := 0
	for _, item := range catalogItems() {
		if err := store.UpsertItem(ctx, item); err != nil {
			log.Printf("Failed to seed item %s: %v", item.ID, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeding completed: %d items", seeded)
}

func ptr(v string) *string { return &v }

func money(v int64) *int64 { return &v }

// catalogItems returns the demo catalog: two parks worth of arrivals, lodging,
// activities, fees and logistics, enough to price a full trip end to end.
func catalogItems() []catalog.Item {
	return []catalog.Item{
		// Aviation and ground arrivals.
		{
			ID: "arr-serengeti-heli", Name: "Helicopter Transfer to Serengeti",
			Category: catalog.CategoryAviation, ParkID: ptr("serengeti"),
			BasePrice: 120000, CostModel: catalog.CostFixed,
			SplitAcrossTravelers: true, Capacity: 5, Active: true,
		},
		{
			ID: "arr-serengeti-caravan", Name: "Caravan Flight to Seronera Airstrip",
			Category: catalog.CategoryAviation, ParkID: ptr("serengeti"),
			BasePrice: 45000, CostModel: catalog.CostPerPerson,
			Capacity: 12, Active: true,
		},
		{
			ID: "arr-ngoro-road", Name: "Road Transfer to Ngorongoro",
			Category: catalog.CategoryLogistics, ParkID: ptr("ngorongoro"),
			BasePrice: 25000, CostModel: catalog.CostFixed,
			SplitAcrossTravelers: true, Capacity: 6, Active: true,
		},

		// Park and landing fees. Landing fees are derived automatically from
		// the selected arrival, so they carry a zero base price here and the
		// real charge lives on the arrival item.
		{
			ID: "fee-serengeti-entry", Name: "Serengeti Park Entry Fee",
			Category: catalog.CategoryParkFees, ParkID: ptr("serengeti"),
			BasePrice: 8300, CostModel: catalog.CostPerPerson, Active: true,
		},
		{
			ID: "fee-ngoro-crater", Name: "Ngorongoro Crater Service Fee",
			Category: catalog.CategoryParkFees, ParkID: ptr("ngorongoro"),
			BasePrice: 29500, CostModel: catalog.CostFixed, Active: true,
		},
		{
			ID: "fee-conservation", Name: "Conservation Levy",
			Category:  catalog.CategoryPermits,
			BasePrice: 1000, CostModel: catalog.CostPerPerson, Active: true,
		},
		{
			ID: "fee-heli-landing", Name: "Helicopter Landing Fee",
			Category:  catalog.CategoryParkFees,
			BasePrice: 2000, CostModel: catalog.CostFixed, Active: true,
		},
		{
			ID: "fee-airstrip-landing", Name: "Airstrip Landing Fee",
			Category:  catalog.CategoryParkFees,
			BasePrice: 1500, CostModel: catalog.CostFixed, Active: true,
		},

		// Lodging, including one hierarchical price table.
		{
			ID: "lodge-kuro-camp", Name: "Kuro Tented Camp",
			Category: catalog.CategoryLodging, ParkID: ptr("serengeti"),
			CostModel: catalog.CostHierarchicalLodging, Active: true,
			Notes:   "classic tented camp near the river crossing",
			Lodging: kuroCampMeta(),
		},
		{
			ID: "lodge-crater-rim", Name: "Crater Rim Lodge",
			Category: catalog.CategoryLodging, ParkID: ptr("ngorongoro"),
			BasePrice: 42000, CostModel: catalog.CostPerNightPerPerson, Active: true,
		},
		{
			ID: "lodge-budget-bandas", Name: "Park Bandas",
			Category: catalog.CategoryLodging, ParkID: ptr("serengeti"),
			BasePrice: 9000, CostModel: catalog.CostPerNightPerPerson, Active: true,
			Notes: "simple self-catering bandas",
		},

		// Activities.
		{
			ID: "act-game-drive", Name: "Full Day Game Drive",
			Category: catalog.CategoryActivities, ParkID: ptr("serengeti"),
			BasePrice: 25000, CostModel: catalog.CostPerPerson, Active: true,
		},
		{
			ID: "act-balloon", Name: "Hot Air Balloon Safari with Champagne Breakfast",
			Category: catalog.CategoryActivities, ParkID: ptr("serengeti"),
			BasePrice: 59900, CostModel: catalog.CostPerPerson, Active: true,
		},
		{
			ID: "act-crater-tour", Name: "Crater Floor Tour",
			Category: catalog.CategoryActivities, ParkID: ptr("ngorongoro"),
			BasePrice: 30000, CostModel: catalog.CostPerPerson, Active: true,
		},

		// Vehicles and extras.
		{
			ID: "veh-land-cruiser", Name: "Private Land Cruiser with Driver Guide",
			Category:  catalog.CategoryVehicle,
			BasePrice: 35000, CostModel: catalog.CostPerDayFixed,
			Capacity: 4, Active: true,
		},
		{
			ID: "ext-flying-doctors", Name: "Flying Doctors Evacuation Cover",
			Category:  catalog.CategoryExtras,
			BasePrice: 1500, CostModel: catalog.CostPerPerson, Active: true,
		},
	}
}

func kuroCampMeta() *lodging.Meta {
	return &lodging.Meta{
		Seasons: []lodging.Season{
			{ID: "high", Name: "High Season", Periods: []lodging.Period{{Start: "06-01", End: "10-31"}}},
			{ID: "low", Name: "Green Season", Periods: []lodging.Period{{Start: "11-01", End: "05-31"}}},
		},
		Rooms: []lodging.Room{
			{
				ID: "deluxe", Name: "Deluxe Tent",
				Pricing: map[string]map[string]lodging.Rate{
					"high": {
						"double": {PerRoom: money(258200)},
						"single": {PerRoom: money(198000)},
					},
					"low": {
						"double": {PerRoom: money(180000)},
						"single": {PerRoom: money(140000)},
					},
				},
			},
			{
				ID: "family", Name: "Family Tent",
				Pricing: map[string]map[string]lodging.Rate{
					"high": {"quad": {PerRoom: money(412000)}},
					"low":  {"quad": {PerRoom: money(300000)}},
				},
			},
		},
	}
}
