// Package metrics exposes Prometheus metrics for the membership service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/membership-slim/pkg/domain"
)

// Submission outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Metrics holds the service collectors on a private registry.
// All methods are safe on a nil receiver, which records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	applications    *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers the service collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Membership applications by intake channel and outcome.",
		}, []string{"channel", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "member_status_transitions_total",
			Help: "Member status changes made by admins.",
		}, []string{"from", "to"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.applications, m.transitions, m.requestDuration)
	return m
}

// ApplicationSubmitted counts one intake attempt.
func (m *Metrics) ApplicationSubmitted(channel, outcome string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(channel, outcome).Inc()
}

// StatusChanged counts one status transition.
func (m *Metrics) StatusChanged(from, to domain.MemberStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

