package telemetry

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonHandler(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestStatsClient_NewShape(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t,
		`{"ok":true,"fecha":"2026-02-07","mes":"Febrero","cantidadDia":1234,"cantidadMes":90000}`))
	defer srv.Close()

	counts, err := NewStatsClient(srv.URL).FetchCounts(context.Background(), "2026-02-07")
	if err != nil {
		t.Fatalf("FetchCounts() error = %v", err)
	}

	if counts.DailyCount != 1234 || counts.MonthlyCount != 90000 || !counts.HasMonthly {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if counts.Month != "Febrero" {
		t.Fatalf("expected month Febrero, got %q", counts.Month)
	}
}

func TestStatsClient_LegacyShape(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":true,"fecha":"2026-02-07","cantidad":500}`))
	defer srv.Close()

	counts, err := NewStatsClient(srv.URL).FetchCounts(context.Background(), "2026-02-07")
	if err != nil {
		t.Fatalf("FetchCounts() error = %v", err)
	}

	if counts.DailyCount != 500 {
		t.Fatalf("expected daily count 500, got %d", counts.DailyCount)
	}
	if counts.HasMonthly {
		t.Fatal("legacy shape must not report a monthly count")
	}
}

func TestStatsClient_NotOK(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":false,"msg":"sin datos"}`))
	defer srv.Close()

	if _, err := NewStatsClient(srv.URL).FetchCounts(context.Background(), "2026-02-07"); err == nil {
		t.Fatal("expected error for ok=false response")
	}
}

func TestStatsClient_MissingCountField(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":true,"fecha":"2026-02-07"}`))
	defer srv.Close()

	if _, err := NewStatsClient(srv.URL).FetchCounts(context.Background(), "2026-02-07"); err == nil {
		t.Fatal("expected error for response without count fields")
	}
}

func TestMonitoringClient_ParsesRows(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":true,"rows":[
		{"id":17,"fecha":"2026-02-07T12:00:00Z","api":120.5,"ml":null,"cola":"timeout"},
		{"id":16,"fecha":"2026-02-07T11:59:00Z","api":90,"ml":80,"cola":70}
	]}`))
	defer srv.Close()

	series, err := NewMonitoringClient(srv.URL).FetchLatencySeries(context.Background(), "2026-02-07")
	if err != nil {
		t.Fatalf("FetchLatencySeries() error = %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(series))
	}

	first := series[0]
	if first.Timestamp != "2026-02-07T12:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", first.Timestamp)
	}
	if _, tracked := first.Latencies["id"]; tracked {
		t.Fatal("id must not be tracked as a microservice")
	}
	if _, tracked := first.Latencies["fecha"]; tracked {
		t.Fatal("fecha must not be tracked as a microservice")
	}
	if v := first.Latencies["api"]; v == nil || *v != 120.5 {
		t.Fatalf("unexpected api latency: %v", v)
	}
	if v := first.Latencies["ml"]; v != nil {
		t.Fatalf("null latency must decode to nil, got %v", *v)
	}
	if v := first.Latencies["cola"]; v == nil || !math.IsNaN(*v) {
		t.Fatalf("non-numeric latency must decode to NaN, got %v", v)
	}
}

func TestMonitoringClient_NotOK(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":false}`))
	defer srv.Close()

	if _, err := NewMonitoringClient(srv.URL).FetchLatencySeries(context.Background(), "2026-02-07"); err == nil {
		t.Fatal("expected error for ok=false response")
	}
}

func TestMetricsClient_FirstRow(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":true,"rows":[
		{"cpu":85.5,"ram":40,"disco":null,"host":"dw01"},
		{"cpu":10,"ram":10,"disco":10}
	]}`))
	defer srv.Close()

	snapshot, err := NewMetricsClient(srv.URL).FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot() error = %v", err)
	}

	if snapshot.CPUPercent == nil || *snapshot.CPUPercent != 85.5 {
		t.Fatalf("unexpected cpu: %v", snapshot.CPUPercent)
	}
	if snapshot.DiskPercent != nil {
		t.Fatalf("null disk must decode to nil, got %v", *snapshot.DiskPercent)
	}
}

func TestMetricsClient_NoRows(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"ok":true,"rows":[]}`))
	defer srv.Close()

	if _, err := NewMetricsClient(srv.URL).FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected error for empty rows")
	}
}

func TestClient_Non200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewStatsClient(srv.URL).FetchCounts(context.Background(), "2026-02-07"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
