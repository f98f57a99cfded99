package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "apuntes-marketplace"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SignupRequestsTotal         metric.Int64Counter
	SigninRequestsTotal         metric.Int64Counter
	ListingQueriesTotal         metric.Int64Counter
	ListingQueryDurationSeconds metric.Float64Histogram
	DbQueryDurationSeconds      metric.Float64Histogram
	DbQueryErrorsTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Only
// the first call has any effect, so it must run after the provider is set.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		var err error
		m := &AppMetrics{}

		m.SignupRequestsTotal, err = meter.Int64Counter(
			"signup_requests_total",
			metric.WithDescription("Total number of signup requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create signup_requests_total: %v", err)
		}

		m.SigninRequestsTotal, err = meter.Int64Counter(
			"signin_requests_total",
			metric.WithDescription("Total number of signin attempts by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create signin_requests_total: %v", err)
		}

		m.ListingQueriesTotal, err = meter.Int64Counter(
			"listing_queries_total",
			metric.WithDescription("Total number of listing search queries"),
			metric.WithUnit("{query}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create listing_queries_total: %v", err)
		}

		m.ListingQueryDurationSeconds, err = meter.Float64Histogram(
			"listing_query_duration_seconds",
			metric.WithDescription("Duration of listing search queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create listing_query_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the application instruments, creating them on first use. When
// no MeterProvider was installed they are backed by the otel no-op meter.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
