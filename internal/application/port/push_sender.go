package port

import (
	"context"
	"errors"
)

// ErrUnregisteredToken - провайдер больше не знает этот токен (приложение
// удалено или токен ротирован). Такой токен снимается с рассылки.
var ErrUnregisteredToken = errors.New("push token is no longer registered")

// PushMessage - одно push-уведомление. Все значения в Data обязаны быть
// строками: ограничение data-канала мобильного push-транспорта.
type PushMessage struct {
	Token    string
	Title    string
	Body     string
	Data     map[string]string
	ImageURL string
	Priority string
}

// PushSender определяет интерфейс push-провайдера (Port)
type PushSender interface {
	// Send отправляет сообщение и возвращает идентификатор провайдера
	Send(ctx context.Context, msg PushMessage) (string, error)
}
