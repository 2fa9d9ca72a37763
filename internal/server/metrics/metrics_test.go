package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Signup()
	m.Signin(ResultSuccess)
	m.Signin(ResultInvalidPassword)
	m.Signin(ResultInvalidPassword)
	m.ResetRequest(ResultSuccess)
	m.ResetConfirmation(ResultInvalidToken)
	m.MailFailure()
	m.Request("GET", "/api/me", 200, 5*time.Millisecond)
	m.RateLimitHit("/api/signin")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.signups))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.signins.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.signins.WithLabelValues(ResultInvalidPassword)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resetRequests.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resetConfirmations.WithLabelValues(ResultInvalidToken)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mailFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/me", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitHits.WithLabelValues("/api/signin")))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	first.Signup()
	second.Signup()

	assert.Equal(t, 2.0, testutil.ToFloat64(first.signups))
	assert.Same(t, first.signins, second.signins)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Signup()
		m.Signin(ResultSuccess)
		m.ResetRequest(ResultError)
		m.ResetConfirmation(ResultSuccess)
		m.MailFailure()
		m.Request("GET", "/", 200, time.Second)
		m.RateLimitHit("/")
	})
}
