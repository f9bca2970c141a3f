// Package metrics defines the Prometheus metrics of the study-platform server.
//
// Metric naming follows Prometheus conventions:
//   - study_platform_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
//
// Metrics are registered on a dedicated registry so that tests can build
// independent instances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login and verification outcomes used as label values.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultRateLimited        = "rate_limited"
	ResultExpired            = "expired"
	ResultInvalidSignature   = "invalid_signature"
	ResultMalformed          = "malformed"
	ResultError              = "error"
)

// Recorder is what the services and handlers report to.
type Recorder interface {
	ObserveLogin(result string)
	ObserveTokenVerification(result string)
	ObserveAccessDecision(decision string)
	ObserveRegistration(result string)
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Metrics is the Prometheus-backed [Recorder].
type Metrics struct {
	registry *prometheus.Registry

	loginsTotal        *prometheus.CounterVec
	registrationsTotal *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
	decisionsTotal     *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates the metrics and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		loginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_platform_logins_total",
				Help: "Total login attempts by result.",
			},
			[]string{"result"},
		),
		registrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_platform_registrations_total",
				Help: "Total registration attempts by result.",
			},
			[]string{"result"},
		),
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_platform_token_verifications_total",
				Help: "Total session token verifications by result.",
			},
			[]string{"result"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_platform_access_decisions_total",
				Help: "Total role gate decisions by outcome.",
			},
			[]string{"decision"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_platform_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "study_platform_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loginsTotal,
		m.registrationsTotal,
		m.verificationsTotal,
		m.decisionsTotal,
		m.requestsTotal,
		m.requestDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveLogin(result string) {
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRegistration(result string) {
	m.registrationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveTokenVerification(result string) {
	m.verificationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveAccessDecision(decision string) {
	m.decisionsTotal.WithLabelValues(decision).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

type nopRecorder struct{}

// Nop returns a [Recorder] that records nothing.
func Nop() Recorder {
	return nopRecorder{}
}

func (nopRecorder) ObserveLogin(string)                                   {}
func (nopRecorder) ObserveRegistration(string)                            {}
func (nopRecorder) ObserveTokenVerification(string)                       {}
func (nopRecorder) ObserveAccessDecision(string)                          {}
func (nopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
