package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/infrastructure/registry/memory"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

func newDeviceHandler(t *testing.T) (*DeviceHandler, *memory.DeviceRegistry) {
	t.Helper()
	registry := memory.NewDeviceRegistry()
	log := logger.New("error")
	uc := usecase.NewRegisterDeviceUseCase(registry, log)
	return NewDeviceHandler(uc, log), registry
}

func TestDeviceHandlerRegister(t *testing.T) {
	h, registry := newDeviceHandler(t)

	body := `{"idUsuario":"u-1","token":"tok-abc","plataforma":"android"}`
	req := httptest.NewRequest(http.MethodPost, "/device/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if ok, _ := resp["ok"].(bool); !ok {
		t.Fatalf("response ok = %v, want true", resp["ok"])
	}

	devices, err := registry.ListActive(req.Context())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(devices) != 1 || devices[0].Token != "tok-abc" {
		t.Fatalf("registry state = %+v, want single tok-abc", devices)
	}
}

func TestDeviceHandlerRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"idUsuario":`},
		{"missing token", `{"idUsuario":"u-1"}`},
		{"missing user", `{"token":"tok-abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newDeviceHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/device/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestDeviceHandlerRegisterMethodNotAllowed(t *testing.T) {
	h, _ := newDeviceHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/device/register", nil)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
