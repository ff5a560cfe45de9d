package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus instruments. Served on
// /metrics via promhttp.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	invoiceCreated *prometheus.CounterVec
	dteTransmitted *prometheus.CounterVec
	overrideGrants *prometheus.CounterVec
}

// New registers the instruments on the given registerer. Pass
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facturacion_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		invoiceCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_invoices_created_total",
			Help: "Invoices created by document type.",
		}, []string{"document_type"}),
		dteTransmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_dte_transmissions_total",
			Help: "DTE transmission attempts by document type and outcome.",
		}, []string{"document_type", "status"}),
		overrideGrants: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_price_override_validations_total",
			Help: "Price override code validations by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveHTTP records one completed HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordInvoiceCreated increments invoice creation counts.
func (m *Metrics) RecordInvoiceCreated(documentType string) {
	if m == nil {
		return
	}
	m.invoiceCreated.WithLabelValues(documentType).Inc()
}

// RecordDTETransmission increments DTE transmission counts.
func (m *Metrics) RecordDTETransmission(documentType, status string) {
	if m == nil {
		return
	}
	m.dteTransmitted.WithLabelValues(documentType, status).Inc()
}

// RecordOverrideValidation increments override validation counts.
func (m *Metrics) RecordOverrideValidation(outcome string) {
	if m == nil {
		return
	}
	m.overrideGrants.WithLabelValues(outcome).Inc()
}
