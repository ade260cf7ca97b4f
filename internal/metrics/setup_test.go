package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMain(m *testing.M) {
	// Initialize metrics with a test registry once before all tests run
	// so the global metric pointers are set before any test records data.
	testRegistry := prometheus.NewRegistry()
	_ = Init(testRegistry)

	m.Run()
}
