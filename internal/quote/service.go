package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/obs"
	"github.com/noah-isme/safari-quote/internal/pricing"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// ErrQuoteNotFound is returned when no frozen quote exists for the id.
var ErrQuoteNotFound = errors.New("quote: not found")

// DraftSource loads trip drafts for pricing.
type DraftSource interface {
	Get(ctx context.Context, id string) (trip.Draft, error)
}

// SnapshotProvider supplies the catalog snapshot a calculation runs against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// QuoteStore persists frozen quote snapshots.
type QuoteStore interface {
	Insert(ctx context.Context, q Quote) error
	Get(ctx context.Context, id string) (Quote, error)
}

// Preview is a speculative pricing run. Nothing is persisted; the draft stays
// the source of truth and the numbers are recomputed on every call.
type Preview struct {
	TripID       string         `json:"tripId"`
	Currency     string         `json:"currency"`
	Result       pricing.Result `json:"result"`
	TaxBps       int            `json:"taxBps"`
	TaxTotal     pricing.Money  `json:"taxTotal"`
	TotalWithTax pricing.Money  `json:"totalWithTax"`
}

// Quote is an immutable priced snapshot of a draft at freeze time. The frozen
// draft is stored alongside the result so the quote can be audited even after
// the live draft or the catalog moves on.
type Quote struct {
	ID           string         `json:"id"`
	TripID       string         `json:"tripId"`
	Currency     string         `json:"currency"`
	Tier         trip.Tier      `json:"tier"`
	Travelers    int            `json:"travelers"`
	Days         int            `json:"days"`
	Result       pricing.Result `json:"result"`
	TaxBps       int            `json:"taxBps"`
	TaxTotal     pricing.Money  `json:"taxTotal"`
	TotalWithTax pricing.Money  `json:"totalWithTax"`
	Draft        trip.Draft     `json:"draft"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Service prices drafts and freezes quotes.
type Service struct {
	drafts   DraftSource
	catalog  SnapshotProvider
	store    QuoteStore
	currency string
	taxBps   int
	now      func() time.Time
}

// ServiceConfig bundles Service dependencies.
type ServiceConfig struct {
	Drafts   DraftSource
	Catalog  SnapshotProvider
	Store    QuoteStore
	Currency string
	TaxBps   int
}

// NewService validates dependencies and builds a Service. Store may be nil for
// preview-only wiring (the pricecheck tool).
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Drafts == nil {
		return nil, errors.New("quote: draft source is required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("quote: catalog provider is required")
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Service{
		drafts:   cfg.Drafts,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		currency: cfg.Currency,
		taxBps:   cfg.TaxBps,
		now:      time.Now,
	}, nil
}

// Price computes a preview for the draft without persisting anything.
func (s *Service) Price(ctx context.Context, tripID string) (Preview, error) {
	d, err := s.drafts.Get(ctx, tripID)
	if err != nil {
		return Preview{}, err
	}
	result, err := s.calculate(ctx, d, "preview")
	if err != nil {
		return Preview{}, err
	}
	tax := pricing.Tax(result.GrandTotal, s.taxBps)
	return Preview{
		TripID:       d.ID,
		Currency:     s.currency,
		Result:       result,
		TaxBps:       s.taxBps,
		TaxTotal:     tax,
		TotalWithTax: result.GrandTotal + tax,
	}, nil
}

// Freeze prices the draft and persists the result as an immutable quote row.
func (s *Service) Freeze(ctx context.Context, tripID string) (Quote, error) {
	if s.store == nil {
		return Quote{}, errors.New("quote: store not configured")
	}
	d, err := s.drafts.Get(ctx, tripID)
	if err != nil {
		countFreeze("rejected")
		return Quote{}, err
	}
	result, err := s.calculate(ctx, d, "quote")
	if err != nil {
		countFreeze("error")
		return Quote{}, err
	}
	tax := pricing.Tax(result.GrandTotal, s.taxBps)
	q := Quote{
		ID:           uuid.NewString(),
		TripID:       d.ID,
		Currency:     s.currency,
		Tier:         d.Tier,
		Travelers:    d.Travelers,
		Days:         d.Days,
		Result:       result,
		TaxBps:       s.taxBps,
		TaxTotal:     tax,
		TotalWithTax: result.GrandTotal + tax,
		Draft:        d,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, q); err != nil {
		countFreeze("error")
		return Quote{}, err
	}
	countFreeze("ok")
	return q, nil
}

// Get loads a frozen quote.
func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	if s.store == nil {
		return Quote{}, errors.New("quote: store not configured")
	}
	return s.store.Get(ctx, id)
}

func (s *Service) calculate(ctx context.Context, d trip.Draft, trigger string) (pricing.Result, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return pricing.Result{}, err
	}
	start := time.Now()
	result := pricing.Calculate(d, snapshot)
	if obs.PricingCalcDuration != nil {
		obs.PricingCalcDuration.Observe(float64(time.Since(start).Milliseconds()))
	}
	if obs.PricingCalcTotal != nil {
		obs.PricingCalcTotal.WithLabelValues(trigger).Inc()
	}
	return result, nil
}

func countFreeze(result string) {
	if obs.QuoteFreezeTotal != nil {
		obs.QuoteFreezeTotal.WithLabelValues(result).Inc()
	}
}
