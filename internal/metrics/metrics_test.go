package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLogin("admin", true)
		m.ObserveDistribution(map[string]float64{"Wheat": 1})
		m.ObserveDistributionRejected("insufficient_stock")
		m.IncrementComplaintFiled()
		m.IncrementComplaintResolved()
		m.IncrementStockUpdate("set")
	})
	assert.Nil(t, m.Registry())

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.Instrument(h))
}

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveLogin("dealer", true)
	m.ObserveLogin("dealer", false)
	m.ObserveLogin("dealer", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("dealer", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("dealer", "failure")))

	m.ObserveDistribution(map[string]float64{"Wheat": 10, "Rice": 0, "Kerosene": 2.5})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DistributionsTotal))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.DistributedQuantity.WithLabelValues("Wheat")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.DistributedQuantity.WithLabelValues("Kerosene")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockUpdates.WithLabelValues("distribute")))

	m.IncrementComplaintResolved()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplaintsResolved))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.IncrementComplaintFiled()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ComplaintsFiled))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ComplaintsFiled))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/shops/{shopID}/stock", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/shops/101/stock")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/shops/{shopID}/stock", "418")))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "rations_http_requests_total"))
}
