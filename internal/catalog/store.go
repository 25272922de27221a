package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/safari-quote/internal/lodging"
)

// Store loads catalog items from Postgres. The catalog is maintained by an
// external admin tool; this side only reads it into snapshots, plus an upsert
// used by the seeder.
type Store struct {
	Pool *pgxpool.Pool
}

// LoadSnapshot reads every catalog item into an indexed snapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("catalog store not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, category, park_id, base_price, cost_model,
		       split_across_travelers, capacity, active, notes, metadata
		FROM catalog_items
		ORDER BY category, name, id`)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item     Item
			category string
			model    string
			parkID   *string
			notes    *string
			metadata []byte
		)
		if err := rows.Scan(&item.ID, &item.Name, &category, &parkID, &item.BasePrice, &model,
			&item.SplitAcrossTravelers, &item.Capacity, &item.Active, &notes, &metadata); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		item.Category = ParseCategory(category)
		item.CostModel = ParseCostModel(model)
		item.ParkID = parkID
		if notes != nil {
			item.Notes = *notes
		}
		if len(metadata) > 0 {
			var meta lodging.Meta
			if err := json.Unmarshal(metadata, &meta); err == nil {
				item.Lodging = &meta
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return NewSnapshot(items), nil
}

// UpsertItem inserts or replaces one catalog item. Used by the seeder tool.
func (s *Store) UpsertItem(ctx context.Context, item Item) error {
	if s == nil || s.Pool == nil {
		return errors.New("catalog store not configured")
	}
	var metadata []byte
	if item.Lodging != nil {
		encoded, err := json.Marshal(item.Lodging)
		if err != nil {
			return fmt.Errorf("encode lodging metadata: %w", err)
		}
		metadata = encoded
	}
	var notes *string
	if item.Notes != "" {
		notes = &item.Notes
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO catalog_items (id, name, category, park_id, base_price, cost_model,
		                           split_across_travelers, capacity, active, notes, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			park_id = EXCLUDED.park_id,
			base_price = EXCLUDED.base_price,
			cost_model = EXCLUDED.cost_model,
			split_across_travelers = EXCLUDED.split_across_travelers,
			capacity = EXCLUDED.capacity,
			active = EXCLUDED.active,
			notes = EXCLUDED.notes,
			metadata = EXCLUDED.metadata`,
		item.ID, item.Name, string(item.Category), item.ParkID, item.BasePrice, string(item.CostModel),
		item.SplitAcrossTravelers, item.Capacity, item.Active, notes, metadata)
	if err != nil {
		return fmt.Errorf("upsert catalog item %s: %w", item.ID, err)
	}
	return nil
}
