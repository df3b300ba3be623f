package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/infrastructure/registry/memory"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

type scriptedDispatcher struct {
	calls   []string
	results map[string]error
	skipped map[string]bool
}

func (d *scriptedDispatcher) Execute(_ context.Context, recipient port.Recipient, _ string) (usecase.DispatchResult, error) {
	d.calls = append(d.calls, recipient.Token)
	if err := d.results[recipient.Token]; err != nil {
		return usecase.DispatchResult{}, err
	}
	return usecase.DispatchResult{Skipped: d.skipped[recipient.Token]}, nil
}

type recordingMetrics struct {
	published []port.CycleStats
}

func (m *recordingMetrics) PublishCycle(_ context.Context, stats port.CycleStats) error {
	m.published = append(m.published, stats)
	return nil
}

func (m *recordingMetrics) Close() error { return nil }

func registryWith(t *testing.T, tokens ...string) *memory.DeviceRegistry {
	t.Helper()
	reg := memory.NewDeviceRegistry()
	for i, token := range tokens {
		if err := reg.Register(context.Background(), port.Device{UserID: "u", Token: token, Platform: "android"}); err != nil {
			t.Fatalf("register device %d: %v", i, err)
		}
	}
	return reg
}

func TestRunOnce_SequentialOverAllRecipients(t *testing.T) {
	reg := registryWith(t, "t1", "t2", "t3")
	dispatcher := &scriptedDispatcher{results: map[string]error{}, skipped: map[string]bool{"t2": true}}
	runner := NewRunner(reg, dispatcher, nil, logger.New("error"), time.Minute)

	summary, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(dispatcher.calls) != 3 {
		t.Fatalf("expected 3 dispatches, got %d", len(dispatcher.calls))
	}
	if dispatcher.calls[0] != "t1" || dispatcher.calls[1] != "t2" || dispatcher.calls[2] != "t3" {
		t.Fatalf("unexpected dispatch order: %v", dispatcher.calls)
	}
	if summary.Sent != 2 || summary.Suppressed != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunOnce_FailureDoesNotAbortPass(t *testing.T) {
	reg := registryWith(t, "t1", "t2", "t3")
	dispatcher := &scriptedDispatcher{
		results: map[string]error{"t1": errors.New("telemetry down")},
		skipped: map[string]bool{},
	}
	runner := NewRunner(reg, dispatcher, nil, logger.New("error"), time.Minute)

	summary, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(dispatcher.calls) != 3 {
		t.Fatalf("failing recipient must not abort the pass, got %d calls", len(dispatcher.calls))
	}
	if summary.Failed != 1 || summary.Sent != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunOnce_PublishesCycleMetrics(t *testing.T) {
	reg := registryWith(t, "t1", "t2")
	dispatcher := &scriptedDispatcher{results: map[string]error{}, skipped: map[string]bool{"t2": true}}
	metrics := &recordingMetrics{}
	runner := NewRunner(reg, dispatcher, metrics, logger.New("error"), time.Minute)

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(metrics.published) != 1 {
		t.Fatalf("expected 1 cycle stats publication, got %d", len(metrics.published))
	}
	stats := metrics.published[0]
	if stats.Recipients != 2 || stats.Sent != 1 || stats.Suppressed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSnapshot_ReflectsLastRun(t *testing.T) {
	reg := registryWith(t, "t1")
	dispatcher := &scriptedDispatcher{results: map[string]error{}, skipped: map[string]bool{}}
	runner := NewRunner(reg, dispatcher, nil, logger.New("error"), time.Minute)

	before := runner.Snapshot()
	if before.LastSummary != nil {
		t.Fatal("expected no summary before first run")
	}

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	after := runner.Snapshot()
	if after.LastSummary == nil || after.LastSummary.Recipients != 1 {
		t.Fatalf("unexpected snapshot: %+v", after)
	}
	if after.LastError != "" {
		t.Fatalf("unexpected error in snapshot: %q", after.LastError)
	}
	if after.LastRunAt.IsZero() {
		t.Fatal("expected LastRunAt to be set")
	}
}

func TestRunOnce_DeactivatesUnregisteredToken(t *testing.T) {
	reg := registryWith(t, "t-stale", "t-live")
	dispatcher := &scriptedDispatcher{
		results: map[string]error{
			"t-stale": fmt.Errorf("%w: %w", usecase.ErrPushFailure, port.ErrUnregisteredToken),
		},
		skipped: map[string]bool{},
	}
	runner := NewRunner(reg, dispatcher, nil, logger.New("error"), time.Minute)

	summary, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if summary.Failed != 1 || summary.Sent != 1 {
		t.Fatalf("summary = %+v, want 1 failed, 1 sent", summary)
	}

	remaining, err := reg.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Token != "t-live" {
		t.Fatalf("remaining = %v, want only t-live", remaining)
	}
}

func TestRunOnce_OrdinaryFailureKeepsToken(t *testing.T) {
	reg := registryWith(t, "t-flaky")
	dispatcher := &scriptedDispatcher{
		results: map[string]error{"t-flaky": errors.New("upstream timeout")},
		skipped: map[string]bool{},
	}
	runner := NewRunner(reg, dispatcher, nil, logger.New("error"), time.Minute)

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	remaining, err := reg.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("transient failure deactivated the token: %v", remaining)
	}
}
