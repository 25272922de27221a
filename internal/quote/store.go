package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists frozen quotes as JSONB rows. Quotes are append-only: there is
// no update path by design.
type Store struct {
	Pool *pgxpool.Pool
}

// Insert writes one frozen quote.
func (s *Store) Insert(ctx context.Context, q Quote) error {
	if s == nil || s.Pool == nil {
		return errors.New("quote store not configured")
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO quotes (id, trip_id, grand_total, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.TripID, q.TotalWithTax, payload, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote %s: %w", q.ID, err)
	}
	return nil
}

// Get loads one frozen quote by id.
func (s *Store) Get(ctx context.Context, id string) (Quote, error) {
	if s == nil || s.Pool == nil {
		return Quote{}, errors.New("quote store not configured")
	}
	var payload []byte
	err := s.Pool.QueryRow(ctx, `SELECT payload FROM quotes WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("load quote %s: %w", id, err)
	}
	var q Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return Quote{}, fmt.Errorf("decode quote %s: %w", id, err)
	}
	return q, nil
}
