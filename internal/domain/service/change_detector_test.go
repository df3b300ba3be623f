package service

import (
	"testing"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

func TestHashPayload_KeyOrderIndependent(t *testing.T) {
	detector := NewChangeDetector()

	first, err := detector.HashPayload(map[string]interface{}{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}
	second, err := detector.HashPayload(map[string]interface{}{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}

	if first != second {
		t.Fatalf("expected identical hashes, got %s and %s", first, second)
	}
}

func TestHashPayload_NestedKeysAreSorted(t *testing.T) {
	detector := NewChangeDetector()

	first, err := detector.HashPayload(map[string]interface{}{
		"outer": map[string]interface{}{"x": 1, "y": 2},
	})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}
	second, err := detector.HashPayload(map[string]interface{}{
		"outer": map[string]interface{}{"y": 2, "x": 1},
	})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}

	if first != second {
		t.Fatalf("expected identical hashes for nested maps, got %s and %s", first, second)
	}
}

func TestHashPayload_ArrayOrderPreserved(t *testing.T) {
	detector := NewChangeDetector()

	first, err := detector.HashPayload(map[string]interface{}{"items": []int{1, 2}})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}
	second, err := detector.HashPayload(map[string]interface{}{"items": []int{2, 1}})
	if err != nil {
		t.Fatalf("HashPayload() error = %v", err)
	}

	if first == second {
		t.Fatal("expected different hashes for differently ordered arrays")
	}
}

func buildPayload(monthlyCount int64) LogicalPayload {
	return LogicalPayload{
		Date:         "2026-02-07",
		Month:        "Febrero",
		DailyCount:   1234,
		MonthlyCount: monthlyCount,
		MaxStreak:    2,
		Affected:     []FailureStreak{{Service: "api", Count: 2}},
		Metrics:      MetricSeverity{OverThresholdCount: 1, Level: valueobject.SeverityAttention},
	}
}

func TestEvaluate_SendWhenNoPriorHash(t *testing.T) {
	detector := NewChangeDetector()

	decision, err := detector.Evaluate("", false, buildPayload(90000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if !decision.Send {
		t.Fatal("expected send=true with no prior hash")
	}
	if decision.Hash == "" {
		t.Fatal("expected non-empty hash")
	}
}

func TestEvaluate_SuppressWhenUnchanged(t *testing.T) {
	detector := NewChangeDetector()

	first, err := detector.Evaluate("", false, buildPayload(90000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	second, err := detector.Evaluate(first.Hash, true, buildPayload(90000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if second.Send {
		t.Fatal("expected send=false for identical payload")
	}
	if second.Hash != first.Hash {
		t.Fatalf("expected stable hash, got %s and %s", first.Hash, second.Hash)
	}
}

func TestEvaluate_SendWhenMonthlyCountChanges(t *testing.T) {
	detector := NewChangeDetector()

	first, err := detector.Evaluate("", false, buildPayload(90000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	second, err := detector.Evaluate(first.Hash, true, buildPayload(90001))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if !second.Send {
		t.Fatal("expected send=true when monthlyCount changed")
	}
}
