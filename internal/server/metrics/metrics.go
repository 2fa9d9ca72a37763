// Package metrics holds the storefront Prometheus collectors.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for auth outcomes.
const (
	ResultSuccess         = "success"
	ResultUserNotFound    = "user_not_found"
	ResultInvalidPassword = "invalid_password"
	ResultInvalidToken    = "invalid_token"
	ResultMismatch        = "password_mismatch"
	ResultError           = "error"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics groups the collectors recorded by services and the HTTP layer.
// A nil *Metrics records nothing.
type Metrics struct {
	signups            prometheus.Counter
	signins            *prometheus.CounterVec
	resetRequests      *prometheus.CounterVec
	resetConfirmations *prometheus.CounterVec
	mailFailures       prometheus.Counter
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Collectors already
// registered by an earlier call are reused.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Number of accounts created",
		}),
		signins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "auth",
			Name:      "signins_total",
			Help:      "Signin attempts by result",
		}, []string{"result"}),
		resetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "auth",
			Name:      "reset_requests_total",
			Help:      "Password reset requests by result",
		}, []string{"result"}),
		resetConfirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "auth",
			Name:      "reset_confirmations_total",
			Help:      "Password reset confirmations by result",
		}, []string{"result"}),
		mailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "mail",
			Name:      "send_failures_total",
			Help:      "Mails that could not be delivered",
		}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"}),
	}

	m.signups = register(reg, m.signups)
	m.signins = register(reg, m.signins)
	m.resetRequests = register(reg, m.resetRequests)
	m.resetConfirmations = register(reg, m.resetConfirmations)
	m.mailFailures = register(reg, m.mailFailures)
	m.requestTotal = register(reg, m.requestTotal)
	m.requestLatency = register(reg, m.requestLatency)
	m.rateLimitHits = register(reg, m.rateLimitHits)

	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) Signup() {
	if m == nil {
		return
	}
	m.signups.Inc()
}

func (m *Metrics) Signin(result string) {
	if m == nil {
		return
	}
	m.signins.WithLabelValues(result).Inc()
}

func (m *Metrics) ResetRequest(result string) {
	if m == nil {
		return
	}
	m.resetRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ResetConfirmation(result string) {
	if m == nil {
		return
	}
	m.resetConfirmations.WithLabelValues(result).Inc()
}

func (m *Metrics) MailFailure() {
	if m == nil {
		return
	}
	m.mailFailures.Inc()
}

func (m *Metrics) Request(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) RateLimitHit(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(route).Inc()
}
