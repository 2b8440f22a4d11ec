package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestSimCollectorRecordsEngineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.IncSpawns(true)
	collector.IncSpawns(true)
	collector.IncSpawns(false)
	collector.AddCollisions(2)
	collector.SetEnergy(-1.428)
	collector.ObserveTick(0.0004, 3)

	if got := testutil.ToFloat64(collector.SpawnsTotal.WithLabelValues("accepted")); got != 2 {
		t.Errorf("sim_spawns_total{outcome=accepted} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.SpawnsTotal.WithLabelValues("rejected")); got != 1 {
		t.Errorf("sim_spawns_total{outcome=rejected} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.CollisionsTotal); got != 2 {
		t.Errorf("sim_collisions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.BodiesActive); got != 3 {
		t.Errorf("sim_bodies_active = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.PrimaryEnergy); got != -1.428 {
		t.Errorf("sim_primary_energy = %v, want -1.428", got)
	}

	if count := histogramSampleCount(t, reg, "sim_tick_duration_seconds"); count != 1 {
		t.Errorf("sim_tick_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestSimCollectorHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.ObserveTick(0.001, 1)
	collector.IncSpawns(true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_bodies_active",
		"sim_spawns_total",
		"sim_tick_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("/metrics output missing %s", metric)
		}
	}
}

func TestSimCollectorTolerantOfReRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewSimCollector(reg); err != nil {
		t.Fatalf("first NewSimCollector: %v", err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector on same registry: %v", err)
	}
	second.IncSpawns(true)
	if got := testutil.ToFloat64(second.SpawnsTotal.WithLabelValues("accepted")); got != 1 {
		t.Errorf("re-registered counter = %v, want 1", got)
	}
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found *dto.Histogram
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			found = m.GetHistogram()
		}
	}
	if found == nil {
		t.Fatalf("histogram %s not found", name)
	}
	return found.GetSampleCount()
}
