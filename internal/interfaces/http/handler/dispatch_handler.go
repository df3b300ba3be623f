package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/middleware"
	"github.com/lightdata/push-dispatch/internal/presentation"
	"github.com/lightdata/push-dispatch/internal/scheduler"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

const maxDispatchBodyBytes = 64 * 1024

// DispatchHandler управляет циклом рассылки: разовый прогон на токен,
// статус runner'а и ручной запуск полного прохода
type DispatchHandler struct {
	dispatch *usecase.DispatchSummaryUseCase
	runner   *scheduler.Runner
	logger   *logger.Logger
	now      func() time.Time
}

// NewDispatchHandler создает новый handler
func NewDispatchHandler(dispatch *usecase.DispatchSummaryUseCase, runner *scheduler.Runner, log *logger.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatch: dispatch,
		runner:   runner,
		logger:   log,
		now:      time.Now,
	}
}

type oneShotRequest struct {
	Token string `json:"token"`
	Date  string `json:"dia"`
}

// OneShot обрабатывает POST /resumen/push: прогоняет полный цикл
// (fetch -> analyze -> render -> upload -> push) для одного токена
func (h *DispatchHandler) OneShot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req oneShotRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDispatchBodyBytes)).Decode(&req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "invalid JSON body",
		})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "token is required",
		})
		return
	}
	if req.Date == "" {
		req.Date = presentation.LocalDate(h.now())
	}

	result, err := h.dispatch.Execute(r.Context(), port.Recipient{Token: req.Token}, req.Date)
	if err != nil {
		h.logger.Error("One-shot dispatch failed", err, "date", req.Date)
		middleware.WriteJSON(w, oneShotStatus(err), map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	resp := map[string]any{
		"ok":        true,
		"fecha":     req.Date,
		"enviado":   !result.Skipped,
		"suprimido": result.Skipped,
	}
	if !result.Skipped {
		resp["imagen"] = result.ImageURL
		resp["pushId"] = result.PushID
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Status обрабатывает GET /api/v1/dispatch/status
func (h *DispatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.runner.Snapshot()
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"started_at":   snap.StartedAt,
		"interval":     snap.Interval.String(),
		"last_run_at":  snap.LastRunAt,
		"last_error":   snap.LastError,
		"last_summary": snap.LastSummary,
	})
}

// RunNow обрабатывает POST /api/v1/dispatch/run: синхронно запускает
// один проход по всем активным получателям
func (h *DispatchHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.runner.RunOnce(r.Context())
	if err != nil {
		h.logger.Error("Manual dispatch pass failed", err)
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"summary": summary,
	})
}

func oneShotStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrTelemetryUnavailable),
		errors.Is(err, usecase.ErrUploadFailure),
		errors.Is(err, usecase.ErrPushFailure):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrRenderFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
