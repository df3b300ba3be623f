package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/middleware"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

const maxRegisterBodyBytes = 64 * 1024

// DeviceHandler регистрирует токены устройств для рассылки
type DeviceHandler struct {
	register *usecase.RegisterDeviceUseCase
	logger   *logger.Logger
}

// NewDeviceHandler создает новый handler
func NewDeviceHandler(register *usecase.RegisterDeviceUseCase, log *logger.Logger) *DeviceHandler {
	return &DeviceHandler{register: register, logger: log}
}

type registerDeviceRequest struct {
	UserID   string `json:"idUsuario"`
	Token    string `json:"token"`
	Platform string `json:"plataforma"`
}

// Register обрабатывает POST /device/register
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerDeviceRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRegisterBodyBytes)).Decode(&req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "invalid JSON body",
		})
		return
	}

	err := h.register.Execute(r.Context(), usecase.RegisterDeviceCommand{
		UserID:   req.UserID,
		Token:    req.Token,
		Platform: req.Platform,
	})
	if err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
