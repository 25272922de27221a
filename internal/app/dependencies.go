package app

import (
	"context"

	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Dependencies enumerates core services shared across modules to make the
// wiring in cmd/api explicit.
type Dependencies struct {
	Context         context.Context
	DB              *pgxpool.Pool
	Redis           *redis.Client
	Validator       *validator.Validate
	LimiterStore    limiter.Store
	MetricsRegistry *prometheus.Registry
	TracerProvider  trace.TracerProvider
}

// NewValidator builds the request validator shared by all handlers.
func NewValidator() *validator.Validate {
	return validator.New()
}

// NewLimiterStore wires a rate limiter store backed by Redis.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "safari-quote"})
}

// Tracer returns the default OpenTelemetry tracer for instrumentation hooks.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
