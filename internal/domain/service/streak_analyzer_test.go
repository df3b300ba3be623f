package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

func ms(v float64) *float64 {
	return &v
}

func sample(latencies map[string]*float64) valueobject.LatencySample {
	return valueobject.LatencySample{ID: "1", Timestamp: "2026-02-07", Latencies: latencies}
}

func TestComputeConsecutiveFails_EmptySeries(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	summary := analyzer.ComputeConsecutiveFails(valueobject.LatencySeries{})

	if summary.MaxStreak != 0 {
		t.Fatalf("expected maxStreak 0, got %d", summary.MaxStreak)
	}
	if len(summary.Affected) != 0 {
		t.Fatalf("expected no affected services, got %v", summary.Affected)
	}
}

func TestComputeConsecutiveFails_NullNewestCountsAtLeastOne(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	series := valueobject.LatencySeries{
		sample(map[string]*float64{"ml": nil}),
		sample(map[string]*float64{"ml": ms(100)}),
		sample(map[string]*float64{"ml": ms(50)}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	if summary.MaxStreak != 1 {
		t.Fatalf("expected maxStreak 1, got %d", summary.MaxStreak)
	}
	if len(summary.Affected) != 1 || summary.Affected[0].Service != "ml" {
		t.Fatalf("unexpected affected: %v", summary.Affected)
	}
}

func TestComputeConsecutiveFails_StreakIsContiguousFromNewest(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	// Newest sample is healthy, so the older spike does not count.
	series := valueobject.LatencySeries{
		sample(map[string]*float64{"m1": ms(100)}),
		sample(map[string]*float64{"m1": ms(3000)}),
		sample(map[string]*float64{"m1": ms(50)}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	if summary.MaxStreak != 0 {
		t.Fatalf("expected maxStreak 0, got %d", summary.MaxStreak)
	}
	if len(summary.Affected) != 0 {
		t.Fatalf("expected no affected services, got %v", summary.Affected)
	}
}

func TestComputeConsecutiveFails_NewestFailureCounts(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	series := valueobject.LatencySeries{
		sample(map[string]*float64{"m1": ms(3000)}),
		sample(map[string]*float64{"m1": ms(100)}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	if summary.MaxStreak != 1 {
		t.Fatalf("expected maxStreak 1, got %d", summary.MaxStreak)
	}
}

func TestComputeConsecutiveFails_NonFiniteIsFailing(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	nan := math.NaN()
	series := valueobject.LatencySeries{
		sample(map[string]*float64{"api": &nan}),
		sample(map[string]*float64{"api": ms(120)}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	if summary.MaxStreak != 1 {
		t.Fatalf("expected maxStreak 1 for NaN latency, got %d", summary.MaxStreak)
	}
}

func TestComputeConsecutiveFails_SortByStreakThenName(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	series := valueobject.LatencySeries{
		sample(map[string]*float64{"zeta": nil, "alfa": nil, "beta": nil, "sano": ms(10)}),
		sample(map[string]*float64{"zeta": nil, "alfa": ms(9000), "beta": ms(100), "sano": ms(10)}),
		sample(map[string]*float64{"zeta": ms(50), "alfa": ms(50), "beta": ms(50), "sano": ms(10)}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	want := []FailureStreak{
		{Service: "alfa", Count: 2},
		{Service: "zeta", Count: 2},
		{Service: "beta", Count: 1},
	}
	if !reflect.DeepEqual(summary.Affected, want) {
		t.Fatalf("unexpected affected order: got %v, want %v", summary.Affected, want)
	}
	if summary.MaxStreak != 2 {
		t.Fatalf("expected maxStreak 2, got %d", summary.MaxStreak)
	}
}

func TestComputeConsecutiveFails_TrackedServicesComeFromFirstSample(t *testing.T) {
	analyzer := NewStreakAnalyzer()

	// "nuevo" appears only in an older sample and must not be tracked.
	series := valueobject.LatencySeries{
		sample(map[string]*float64{"api": ms(100)}),
		sample(map[string]*float64{"api": ms(100), "nuevo": nil}),
	}

	summary := analyzer.ComputeConsecutiveFails(series)

	if len(summary.Affected) != 0 {
		t.Fatalf("expected no affected services, got %v", summary.Affected)
	}
}

func TestMonitoringSummarySeverity(t *testing.T) {
	tests := []struct {
		maxStreak int
		want      valueobject.Severity
	}{
		{0, valueobject.SeverityOK},
		{1, valueobject.SeverityOKAlerts},
		{2, valueobject.SeverityAttention},
		{3, valueobject.SeverityHigh},
		{5, valueobject.SeverityCritical},
	}

	for _, tt := range tests {
		got := MonitoringSummary{MaxStreak: tt.maxStreak}.Severity()
		if got != tt.want {
			t.Fatalf("maxStreak %d: expected %s, got %s", tt.maxStreak, tt.want, got)
		}
	}
}
