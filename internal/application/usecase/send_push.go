package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/lightdata/push-dispatch/internal/application/dto"
	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

// SendPushCommand - прямая отправка push на один токен
type SendPushCommand struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// SendPushUseCase отправляет произвольное уведомление на конкретный токен
type SendPushUseCase struct {
	push   port.PushSender
	logger *logger.Logger
}

// NewSendPushUseCase создает новый use case
func NewSendPushUseCase(push port.PushSender, log *logger.Logger) *SendPushUseCase {
	return &SendPushUseCase{push: push, logger: log}
}

// Execute отправляет сообщение и возвращает идентификатор провайдера
func (uc *SendPushUseCase) Execute(ctx context.Context, cmd SendPushCommand) (string, error) {
	if strings.TrimSpace(cmd.Token) == "" {
		return "", fmt.Errorf("token is required")
	}
	if cmd.Data == nil {
		cmd.Data = map[string]string{}
	}

	id, err := uc.push.Send(ctx, port.PushMessage{
		Token: cmd.Token,
		Title: cmd.Title,
		Body:  cmd.Body,
		Data:  cmd.Data,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPushFailure, err)
	}

	uc.logger.Info("Push sent", "token", dto.MaskToken(cmd.Token), "push_id", id)
	return id, nil
}
