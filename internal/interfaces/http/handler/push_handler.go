package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lightdata/push-dispatch/internal/application/usecase"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/middleware"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

const maxPushBodyBytes = 256 * 1024

// PushHandler отправляет произвольный push на один токен
type PushHandler struct {
	send   *usecase.SendPushUseCase
	logger *logger.Logger
}

// NewPushHandler создает новый handler
func NewPushHandler(send *usecase.SendPushUseCase, log *logger.Logger) *PushHandler {
	return &PushHandler{send: send, logger: log}
}

type sendPushRequest struct {
	Token string            `json:"token"`
	Title string            `json:"titulo"`
	Body  string            `json:"cuerpo"`
	Data  map[string]string `json:"data"`
}

// Send обрабатывает POST /fcm/send
func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendPushRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPushBodyBytes)).Decode(&req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "invalid JSON body",
		})
		return
	}

	id, err := h.send.Execute(r.Context(), usecase.SendPushCommand{
		Token: req.Token,
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrPushFailure) {
			status = http.StatusBadGateway
		}
		middleware.WriteJSON(w, status, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"id": id,
	})
}
