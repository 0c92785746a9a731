// Package telemetry содержит метрики Prometheus и настройку трассировки OpenTelemetry.
package telemetry

import (
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics собирает метрики HTTP-запросов, хранилища и реестра.
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	storeOpsTotal   *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec

	eventsPublishedTotal *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в registerer (по умолчанию — глобальный реестр).
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifeflow_http_requests_total",
				Help: "Total HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lifeflow_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds by route and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lifeflow_http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
		storeOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifeflow_store_operations_total",
				Help: "Total record store calls by operation, collection and status.",
			},
			[]string{"op", "collection", "status"},
		),
		storeOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lifeflow_store_operation_duration_seconds",
				Help:    "Record store call duration in seconds by operation and collection.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "collection"},
		),
		eventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifeflow_events_published_total",
				Help: "Registry events by type and publish status.",
			},
			[]string{"type", "status"},
		),
	}

	registerer.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.storeOpsTotal,
		m.storeOpDuration,
		m.eventsPublishedTotal,
	)

	return m
}

func (m *Metrics) ObserveHTTP(route, method, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}

	m.httpRequestsInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}

	m.httpRequestsInFlight.Dec()
}

// ObserveStore реализует storage.Observer.
func (m *Metrics) ObserveStore(op, collection, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.storeOpsTotal.WithLabelValues(op, collection, status).Inc()
	m.storeOpDuration.WithLabelValues(op, collection).Observe(duration.Seconds())
}

func (m *Metrics) ObserveEvent(eventType, status string) {
	if m == nil {
		return
	}

	m.eventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

// RegisterDBPoolMetrics экспортирует статистику пула соединений PostgreSQL.
func RegisterDBPoolMetrics(db *sql.DB, registerer prometheus.Registerer) error {
	if db == nil {
		return errors.New("db is nil")
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "lifeflow_db_pool_open_connections",
				Help: "Open database connections.",
			},
			func() float64 { return float64(db.Stats().OpenConnections) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "lifeflow_db_pool_in_use_connections",
				Help: "In-use database connections.",
			},
			func() float64 { return float64(db.Stats().InUse) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "lifeflow_db_pool_wait_count_total",
				Help: "Total number of waits for a free connection.",
			},
			func() float64 { return float64(db.Stats().WaitCount) },
		),
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}

	return nil
}
