package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/lightdata/push-dispatch/internal/application/dto"
	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/pkg/logger"
)

// RegisterDeviceCommand - входные данные регистрации устройства
type RegisterDeviceCommand struct {
	UserID   string
	Token    string
	Platform string
}

// RegisterDeviceUseCase сохраняет токен устройства в реестре
type RegisterDeviceUseCase struct {
	registry port.DeviceRegistry
	logger   *logger.Logger
}

// NewRegisterDeviceUseCase создает новый use case
func NewRegisterDeviceUseCase(registry port.DeviceRegistry, log *logger.Logger) *RegisterDeviceUseCase {
	return &RegisterDeviceUseCase{registry: registry, logger: log}
}

// Execute валидирует команду и делает upsert по токену
func (uc *RegisterDeviceUseCase) Execute(ctx context.Context, cmd RegisterDeviceCommand) error {
	if strings.TrimSpace(cmd.UserID) == "" {
		return fmt.Errorf("idUsuario is required")
	}
	if strings.TrimSpace(cmd.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if cmd.Platform == "" {
		cmd.Platform = "android"
	}

	if err := uc.registry.Register(ctx, port.Device{
		UserID:   cmd.UserID,
		Token:    cmd.Token,
		Platform: cmd.Platform,
	}); err != nil {
		return fmt.Errorf("register device: %w", err)
	}

	uc.logger.Info("Device registered",
		"user_id", cmd.UserID,
		"token", dto.MaskToken(cmd.Token),
		"platform", cmd.Platform,
	)

	return nil
}
