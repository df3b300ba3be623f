package port

import "context"

// StateStore хранит последний отправленный хэш по получателю (Port).
// Реализация по умолчанию - in-memory map: состояние живет пока жив процесс
// и теряется при рестарте. Redis-реализация делает его персистентным,
// что меняет это документированное поведение.
type StateStore interface {
	// GetLastHash возвращает последний хэш и признак его наличия
	GetLastHash(ctx context.Context, recipientToken string) (string, bool, error)

	// SetLastHash записывает хэш после успешной отправки
	SetLastHash(ctx context.Context, recipientToken, hash string) error
}
