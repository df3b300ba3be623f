// Package memory реализует реестр устройств в памяти процесса: эталонное
// поведение, при котором токены живут только пока жив процесс. Используется
// без настроенной базы и в тестах.
package memory

import (
	"context"
	"sync"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

// DeviceRegistry - реестр устройств в памяти
type DeviceRegistry struct {
	mu      sync.RWMutex
	devices map[string]port.Device // токен -> устройство
	order   []string
}

// NewDeviceRegistry создает пустой реестр
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{devices: make(map[string]port.Device)}
}

// Register сохраняет устройство (upsert по токену)
func (r *DeviceRegistry) Register(_ context.Context, device port.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[device.Token]; !exists {
		r.order = append(r.order, device.Token)
	}
	r.devices[device.Token] = device
	return nil
}

// ListActive возвращает токены в порядке регистрации
func (r *DeviceRegistry) ListActive(_ context.Context) ([]port.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipients := make([]port.Recipient, 0, len(r.order))
	for _, token := range r.order {
		recipients = append(recipients, port.Recipient{Token: token})
	}
	return recipients, nil
}

// Deactivate удаляет токен из реестра
func (r *DeviceRegistry) Deactivate(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[token]; !exists {
		return nil
	}
	delete(r.devices, token)

	for i, t := range r.order {
		if t == token {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
