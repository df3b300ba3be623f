package port

import "context"

// Recipient - зарегистрированное устройство-получатель
type Recipient struct {
	Token string
}

// Device - данные регистрации устройства
type Device struct {
	UserID   string
	Token    string
	Platform string
}

// DeviceRegistry определяет интерфейс реестра устройств (Port)
type DeviceRegistry interface {
	// Register сохраняет устройство (upsert по токену)
	Register(ctx context.Context, device Device) error

	// ListActive возвращает все известные активные токены
	ListActive(ctx context.Context) ([]Recipient, error)

	// Deactivate снимает токен с рассылки
	Deactivate(ctx context.Context, token string) error
}
