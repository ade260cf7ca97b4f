package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestInitRegistersAllMetrics verifies that Init() registers the full metric set.
func TestInitRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	if err := Init(reg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Record some data so every metric appears in Gather output.
	RecordRequest("GET", "/domains/resolve/:hostname", "OK")
	RecordRequestDuration("GET", "/domains/resolve/:hostname", "OK", 0.002)
	RecordAuthFailure("invalid_token")
	RecordResolveCacheHit()
	RecordResolveCacheMiss()
	RecordDNSCheck("txt", "pass")
	RecordVerification("verified")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	expected := []string{
		"vendix_domains_requests_total",
		"vendix_domains_request_duration_seconds",
		"vendix_domains_auth_failures_total",
		"vendix_domains_resolve_cache_hits_total",
		"vendix_domains_resolve_cache_misses_total",
		"vendix_domains_dns_checks_total",
		"vendix_domains_verifications_total",
		"vendix_domains_info",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %s not registered; got %v", name, names)
		}
	}
}

func TestGetMetricsText(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	RecordDNSCheck("cname", "fail")

	text, err := GetMetricsText(reg)
	if err != nil {
		t.Fatalf("GetMetricsText failed: %v", err)
	}
	if !strings.Contains(text, "vendix_domains_dns_checks_total") {
		t.Errorf("metrics text missing dns check counter:\n%s", text)
	}
}

func TestRecordBeforeInitIsSafe(t *testing.T) {
	// The global pointers are swapped by other tests; nil loads must not panic
	// in a fresh process, and repeated records after Init never do either.
	RecordResolveCacheHit()
	RecordVerification("failed")
}
