// Package metrics provides Prometheus instrumentation for the ration service.
//
// All methods are safe to call on a nil *Metrics, so services can run
// without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rations"

// Metrics holds every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal            *prometheus.CounterVec
	DistributionsTotal     prometheus.Counter
	DistributedQuantity    *prometheus.CounterVec
	DistributionRejections *prometheus.CounterVec
	ComplaintsFiled        prometheus.Counter
	ComplaintsResolved     prometheus.Counter
	StockUpdates           *prometheus.CounterVec

	HTTPInFlight        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry. Each call is independent,
// so tests may create as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		DistributionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributions_total",
			Help:      "Successful distribution operations.",
		}),
		DistributedQuantity: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributed_quantity_total",
			Help:      "Quantity handed out per item, in the item's unit.",
		}, []string{"item"}),
		DistributionRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distribution_rejections_total",
			Help:      "Rejected distribution requests by reason.",
		}, []string{"reason"}),
		ComplaintsFiled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_filed_total",
			Help:      "Complaints filed by beneficiaries.",
		}),
		ComplaintsResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_resolved_total",
			Help:      "Complaints moved from Pending to Resolved.",
		}),
		StockUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_updates_total",
			Help:      "Committed stock changes by kind (adjust, set, distribute).",
		}, []string{"kind"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLogin records a login attempt. role is whatever the client sent,
// normalised by the caller.
func (m *Metrics) ObserveLogin(role string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.LoginsTotal.WithLabelValues(role, outcome).Inc()
}

// ObserveDistribution records one committed distribution and the quantity
// handed out per item.
func (m *Metrics) ObserveDistribution(quantities map[string]float64) {
	if m == nil {
		return
	}
	m.DistributionsTotal.Inc()
	m.StockUpdates.WithLabelValues("distribute").Inc()
	for item, q := range quantities {
		if q > 0 {
			m.DistributedQuantity.WithLabelValues(item).Add(q)
		}
	}
}

// ObserveDistributionRejected records a distribution that was not committed.
func (m *Metrics) ObserveDistributionRejected(reason string) {
	if m == nil {
		return
	}
	m.DistributionRejections.WithLabelValues(reason).Inc()
}

// IncrementComplaintFiled records a new complaint.
func (m *Metrics) IncrementComplaintFiled() {
	if m == nil {
		return
	}
	m.ComplaintsFiled.Inc()
}

// IncrementComplaintResolved records a Pending to Resolved transition.
func (m *Metrics) IncrementComplaintResolved() {
	if m == nil {
		return
	}
	m.ComplaintsResolved.Inc()
}

// IncrementStockUpdate records a committed adjust or set on a shop's stock.
func (m *Metrics) IncrementStockUpdate(kind string) {
	if m == nil {
		return
	}
	m.StockUpdates.WithLabelValues(kind).Inc()
}

// Instrument measures request count, latency and in-flight requests. The
// route label is the chi route pattern so ids in paths do not explode
// cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPInFlight.Inc()
		defer m.HTTPInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)
		m.HTTPRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
