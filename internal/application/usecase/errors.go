package usecase

import "errors"

// Таксономия ошибок диспатча. Все они терминальны для текущего получателя:
// ошибка логируется, хэш не обновляется, повтор - на следующем проходе
// планировщика.
var (
	// ErrTelemetryUnavailable - stats/monitoring/metrics вызов упал,
	// истек таймаут или ответ пришел без признака успеха
	ErrTelemetryUnavailable = errors.New("telemetry unavailable")

	// ErrRenderFailure - рендерер не смог нарисовать картинку
	ErrRenderFailure = errors.New("render failure")

	// ErrUploadFailure - хостинг не вернул валидный URL
	ErrUploadFailure = errors.New("upload failure")

	// ErrPushFailure - push-провайдер отклонил или не принял сообщение
	ErrPushFailure = errors.New("push failure")
)
