// Package metrics provides Prometheus metrics collection for the gateway.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "vendix"
	subsystem = "domains"
)

// Collectors live behind atomic pointers so the Record helpers are safe
// no-ops before Init and lock-free afterwards.
var (
	requestsTotal      atomic.Pointer[prometheus.CounterVec]
	requestDuration    atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal  atomic.Pointer[prometheus.CounterVec]
	cacheHitsTotal     atomic.Pointer[prometheus.Counter]
	cacheMissesTotal   atomic.Pointer[prometheus.Counter]
	dnsChecksTotal     atomic.Pointer[prometheus.CounterVec]
	verificationsTotal atomic.Pointer[prometheus.CounterVec]
)

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

// Init builds and registers all gateway metrics. Call once at startup.
func Init(reg prometheus.Registerer) error {
	requests := counterVec("requests_total",
		"Total number of HTTP requests handled by the gateway",
		"method", "path", "status")
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	authFailures := counterVec("auth_failures_total",
		"Total number of authentication failures", "reason")
	cacheHits := counter("resolve_cache_hits_total",
		"Total number of hostname resolutions served from cache")
	cacheMisses := counter("resolve_cache_misses_total",
		"Total number of hostname resolutions that queried storage")
	dnsChecks := counterVec("dns_checks_total",
		"Total number of DNS checks run during verification",
		"check", "outcome")
	verifications := counterVec("verifications_total",
		"Total number of domain verification runs", "outcome")
	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "info",
		Help:      "Gateway version and build information",
	}, []string{"version"})

	for name, c := range map[string]prometheus.Collector{
		"requests_total":             requests,
		"request_duration_seconds":   duration,
		"auth_failures_total":        authFailures,
		"resolve_cache_hits_total":   cacheHits,
		"resolve_cache_misses_total": cacheMisses,
		"dns_checks_total":           dnsChecks,
		"verifications_total":        verifications,
		"info":                       info,
	} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	info.WithLabelValues("1.0.0").Set(1)

	requestsTotal.Store(requests)
	requestDuration.Store(duration)
	authFailuresTotal.Store(authFailures)
	cacheHitsTotal.Store(&cacheHits)
	cacheMissesTotal.Store(&cacheMisses)
	dnsChecksTotal.Store(dnsChecks)
	verificationsTotal.Store(verifications)

	return nil
}

// RecordRequest counts one handled request. Path must already be normalized.
func RecordRequest(method, path, status string) {
	if c := requestsTotal.Load(); c != nil {
		c.WithLabelValues(method, path, status).Inc()
	}
}

// RecordRequestDuration observes request latency in seconds.
func RecordRequestDuration(method, path, status string, seconds float64) {
	if h := requestDuration.Load(); h != nil {
		h.WithLabelValues(method, path, status).Observe(seconds)
	}
}

// RecordAuthFailure counts one failed authentication attempt.
// Known reasons: "missing_token", "invalid_token".
func RecordAuthFailure(reason string) {
	if c := authFailuresTotal.Load(); c != nil {
		c.WithLabelValues(reason).Inc()
	}
}

// RecordResolveCacheHit counts a resolution served from cache.
func RecordResolveCacheHit() {
	if c := cacheHitsTotal.Load(); c != nil {
		(*c).Inc()
	}
}

// RecordResolveCacheMiss counts a resolution that had to query storage.
func RecordResolveCacheMiss() {
	if c := cacheMissesTotal.Load(); c != nil {
		(*c).Inc()
	}
}

// RecordDNSCheck counts one DNS check outcome ("pass" or "fail").
func RecordDNSCheck(check, outcome string) {
	if c := dnsChecksTotal.Load(); c != nil {
		c.WithLabelValues(check, outcome).Inc()
	}
}

// RecordVerification counts one verification run outcome ("verified" or "failed").
func RecordVerification(outcome string) {
	if c := verificationsTotal.Load(); c != nil {
		c.WithLabelValues(outcome).Inc()
	}
}

// Handler serves the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GetMetricsText renders a registry to Prometheus text format, for tests.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}
	return string(body), nil
}
