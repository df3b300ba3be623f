package port

import "github.com/lightdata/push-dispatch/internal/application/dto"

// NotificationService определяет интерфейс для рассылки результатов
// диспатча подключенным клиентам (Port, реализация - WebSocket Hub)
type NotificationService interface {
	// Broadcast отправляет резюме диспатча всем подключенным клиентам
	Broadcast(summary *dto.DispatchSummaryDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
