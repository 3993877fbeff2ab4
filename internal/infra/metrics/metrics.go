// Package metrics exposes the portal's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the portal.
type Collector struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	logins           *prometheus.CounterVec
	superseded       *prometheus.CounterVec
	resetFlows       *prometheus.GaugeVec
	sessionEvents    *prometheus.CounterVec
}

// New creates all collectors on a dedicated registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_upstream_requests_total",
				Help: "Total number of upstream API calls",
			},
			[]string{"tenant", "method", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_upstream_request_duration_seconds",
				Help:    "Duration of upstream API calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"tenant", "method"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"tenant", "outcome"},
		),
		superseded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_superseded_responses_total",
				Help: "List responses discarded because a newer request was issued",
			},
			[]string{"tenant", "page"},
		),
		resetFlows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "portal_reset_flows_active",
				Help: "Password reset flows currently tracked",
			},
			[]string{"tenant"},
		),
		sessionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_session_events_total",
				Help: "Session audit events received by the worker",
			},
			[]string{"tenant", "type"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.upstreamRequests,
		c.upstreamDuration,
		c.logins,
		c.superseded,
		c.resetFlows,
		c.sessionEvents,
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// UpstreamRequest records one upstream call. status 0 means a transport failure.
func (c *Collector) UpstreamRequest(tenant, method string, status int, d time.Duration) {
	c.upstreamRequests.WithLabelValues(tenant, method, statusClass(status)).Inc()
	c.upstreamDuration.WithLabelValues(tenant, method).Observe(d.Seconds())
}

// Login counts a login attempt.
func (c *Collector) Login(tenant string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(tenant, outcome).Inc()
}

// Superseded counts a discarded list response.
func (c *Collector) Superseded(tenant, page string) {
	c.superseded.WithLabelValues(tenant, page).Inc()
}

// SetResetFlows sets the reset flow gauge.
func (c *Collector) SetResetFlows(tenant string, n int) {
	c.resetFlows.WithLabelValues(tenant).Set(float64(n))
}

// SessionEvent counts an audit event received by the worker.
func (c *Collector) SessionEvent(tenant, eventType string) {
	c.sessionEvents.WithLabelValues(tenant, eventType).Inc()
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}

	return strconv.Itoa(status/100) + "xx"
}
