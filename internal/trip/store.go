package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDraftNotFound is returned when no draft exists for the requested id.
var ErrDraftNotFound = errors.New("trip: draft not found")

// Store persists trip drafts as JSONB documents. Drafts are single-writer
// working documents, so a whole-document upsert keeps the storage model as
// simple as the reducer's whole-draft transitions.
type Store struct {
	Pool *pgxpool.Pool
}

// Create inserts a new draft.
func (s *Store) Create(ctx context.Context, d Draft) error {
	if s == nil || s.Pool == nil {
		return errors.New("trip store not configured")
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO trip_drafts (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $3)`,
		d.ID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert draft %s: %w", d.ID, err)
	}
	return nil
}

// Get loads a draft by id.
func (s *Store) Get(ctx context.Context, id string) (Draft, error) {
	if s == nil || s.Pool == nil {
		return Draft{}, errors.New("trip store not configured")
	}
	var payload []byte
	err := s.Pool.QueryRow(ctx, `SELECT payload FROM trip_drafts WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return Draft{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	var d Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

// Save replaces the stored draft document.
func (s *Store) Save(ctx context.Context, d Draft) error {
	if s == nil || s.Pool == nil {
		return errors.New("trip store not configured")
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE trip_drafts SET payload = $2, updated_at = $3 WHERE id = $1`,
		d.ID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, d.ID)
	}
	return nil
}
