package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestCountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/cart/add", 200, 15*time.Millisecond)
	m.ObserveRequest("POST", "/cart/add", 200, 20*time.Millisecond)
	m.ObserveRequest("PATCH", "/cart/{cartId}", 422, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			counts[labelValue(metric, "route")+"|"+labelValue(metric, "status")] = metric.GetCounter().GetValue()
		}
	}
	if counts["/cart/add|200"] != 2 {
		t.Fatalf("expected 2 add requests, got %v", counts["/cart/add|200"])
	}
	if counts["/cart/{cartId}|422"] != 1 {
		t.Fatalf("expected 1 patch rejection, got %v", counts["/cart/{cartId}|422"])
	}
}

func TestObserveRequestNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("", "", 500, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		metric := family.GetMetric()[0]
		if labelValue(metric, "method") != "unknown" || labelValue(metric, "route") != "unknown" {
			t.Fatalf("expected unknown labels, got %v", metric.GetLabel())
		}
	}
}

func TestTrackInFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	done := m.TrackInFlight()
	if got := gaugeValue(t, reg, "http_requests_in_flight"); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}
	done()
	if got := gaugeValue(t, reg, "http_requests_in_flight"); got != 0 {
		t.Fatalf("expected 0 in flight, got %v", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/cart", 200, time.Millisecond)
	m.TrackInFlight()()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/cart", 200, time.Millisecond)
	empty.TrackInFlight()()
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
