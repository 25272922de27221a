package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// TripIntentTotal counts reducer intents applied to trip drafts by type and outcome.
	TripIntentTotal *prometheus.CounterVec
	// PricingCalcTotal counts pricing calculations by trigger (preview, quote, harness).
	PricingCalcTotal *prometheus.CounterVec
	// PricingCalcDuration records pricing calculation latency in milliseconds.
	PricingCalcDuration prometheus.Histogram
	// QuoteFreezeTotal counts quote snapshot freezes by outcome.
	QuoteFreezeTotal *prometheus.CounterVec
	// CatalogSnapshotReloads counts catalog snapshot loads by source (db, cache).
	CatalogSnapshotReloads *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		TripIntentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trip_intent_total",
			Help:      "Count of trip draft intents applied by type and result.",
		}, []string{"intent", "result"})
		PricingCalcTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_calc_total",
			Help:      "Count of pricing calculations by trigger.",
		}, []string{"trigger"})
		PricingCalcDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_calc_duration_ms",
			Help:      "Pricing calculation latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		QuoteFreezeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_freeze_total",
			Help:      "Count of quote snapshot freezes by outcome.",
		}, []string{"result"})
		CatalogSnapshotReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_snapshot_reloads_total",
			Help:      "Count of catalog snapshot loads by source.",
		}, []string{"source"})

		mustRegisterCollector(reg, TripIntentTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				TripIntentTotal = v
			}
		})
		mustRegisterCollector(reg, PricingCalcTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingCalcTotal = v
			}
		})
		mustRegisterCollector(reg, PricingCalcDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PricingCalcDuration = v
			}
		})
		mustRegisterCollector(reg, QuoteFreezeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteFreezeTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogSnapshotReloads, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogSnapshotReloads = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
