package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("test")

	m.BookingTransition("pending", "confirmed", "host")
	m.BookingTransition("pending", "confirmed", "host")
	m.PaymentDecision("verified")
	m.AccessDenied("trial_expired")
	m.ObserveHTTP(http.MethodGet, "/api/v1/properties", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingTransition.WithLabelValues("pending", "confirmed", "host")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentDecisions.WithLabelValues("verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.accessDenials.WithLabelValues("trial_expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/properties", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_booking_transitions_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingTransition("a", "b", "c")
		m.PaymentDecision("rejected")
		m.AccessDenied("no_subscription")
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
