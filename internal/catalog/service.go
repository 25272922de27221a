package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/safari-quote/internal/obs"
)

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Service hands out catalog snapshots, preferring the shared cache and falling
// back to Postgres. A snapshot is stable for the duration of one calculation.
type Service struct {
	loader snapshotLoader
	cache  *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Loader snapshotLoader
	Cache  *Cache
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Loader == nil {
		return nil, errors.New("catalog: snapshot loader is required")
	}
	return &Service{loader: cfg.Loader, cache: cfg.Cache}, nil
}

// Snapshot returns the current catalog snapshot.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.loader == nil {
		return nil, errors.New("catalog service not configured")
	}
	if s.cache != nil {
		snapshot, ok, err := s.cache.GetSnapshot(ctx)
		if err == nil && ok {
			countReload("cache")
			return snapshot, nil
		}
	}
	return s.Reload(ctx)
}

// Reload loads a fresh snapshot from storage and repopulates the cache.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.loader == nil {
		return nil, errors.New("catalog service not configured")
	}
	snapshot, err := s.loader.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}
	countReload("db")
	if s.cache != nil {
		_ = s.cache.SetSnapshot(ctx, snapshot)
	}
	return snapshot, nil
}

func countReload(source string) {
	if obs.CatalogSnapshotReloads != nil {
		obs.CatalogSnapshotReloads.WithLabelValues(source).Inc()
	}
}
