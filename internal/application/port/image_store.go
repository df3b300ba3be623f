package port

import "context"

// ImageStore определяет интерфейс файлового хостинга картинок (Port).
// Реализации: HTTP-хостинг (base64 JSON) и S3.
type ImageStore interface {
	// Upload загружает PNG и возвращает публично доступный URL
	Upload(ctx context.Context, name string, png []byte) (string, error)
}
