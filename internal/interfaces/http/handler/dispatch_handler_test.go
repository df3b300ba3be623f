package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/infrastructure/registry/memory"
	"github.com/lightdata/push-dispatch/internal/scheduler"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

type stubDispatcher struct {
	result usecase.DispatchResult
	calls  int
}

func (d *stubDispatcher) Execute(_ context.Context, _ port.Recipient, _ string) (usecase.DispatchResult, error) {
	d.calls++
	return d.result, nil
}

func newDispatchHandler(t *testing.T, dispatcher *stubDispatcher) *DispatchHandler {
	t.Helper()
	log := logger.New("error")
	registry := memory.NewDeviceRegistry()
	if err := registry.Register(context.Background(), port.Device{UserID: "u-1", Token: "tok-1", Platform: "android"}); err != nil {
		t.Fatalf("seed registry: %v", err)
	}
	runner := scheduler.NewRunner(registry, dispatcher, nil, log, time.Minute)
	return NewDispatchHandler(nil, runner, log)
}

func TestDispatchHandlerOneShotRequiresToken(t *testing.T) {
	h := newDispatchHandler(t, &stubDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/resumen/push", strings.NewReader(`{"dia":"2026-02-10"}`))
	rec := httptest.NewRecorder()

	h.OneShot(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDispatchHandlerStatusAfterRun(t *testing.T) {
	dispatcher := &stubDispatcher{result: usecase.DispatchResult{Skipped: true, Hash: "abc"}}
	h := newDispatchHandler(t, dispatcher)

	runReq := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch/run", nil)
	runRec := httptest.NewRecorder()
	h.RunNow(runRec, runReq)

	if runRec.Code != http.StatusOK {
		t.Fatalf("run status = %d, want 200 (body: %s)", runRec.Code, runRec.Body.String())
	}
	if dispatcher.calls != 1 {
		t.Fatalf("dispatcher calls = %d, want 1", dispatcher.calls)
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/status", nil)
	statusRec := httptest.NewRecorder()
	h.Status(statusRec, statusReq)

	if statusRec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d, want 200", statusRec.Code)
	}

	var resp struct {
		LastSummary *scheduler.PassSummary `json:"last_summary"`
	}
	if err := json.Unmarshal(statusRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if resp.LastSummary == nil {
		t.Fatal("last_summary missing after manual run")
	}
	if resp.LastSummary.Recipients != 1 || resp.LastSummary.Suppressed != 1 {
		t.Fatalf("summary = %+v, want 1 recipient suppressed", resp.LastSummary)
	}
}

func TestDispatchHandlerRunMethodNotAllowed(t *testing.T) {
	h := newDispatchHandler(t, &stubDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/run", nil)
	rec := httptest.NewRecorder()

	h.RunNow(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
