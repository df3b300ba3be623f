// Package filehost загружает картинки на HTTP-хостинг: JSON с base64-телом,
// в ответ приходит голый URL текстом (или {"url": ...}).
package filehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Хостинг отвечает медленно на больших файлах, поэтому таймаут щедрый
const uploadTimeout = 200 * time.Second

type uploadRequest struct {
	Foto   string `json:"foto"`
	Nombre string `json:"nombre"`
}

// ImageStore - клиент HTTP-хостинга картинок
type ImageStore struct {
	url    string
	client *http.Client
}

// NewImageStore создает клиент хостинга
func NewImageStore(url string) *ImageStore {
	return &ImageStore{
		url:    url,
		client: &http.Client{Timeout: uploadTimeout},
	}
}

// Upload отправляет PNG как base64 JSON и возвращает URL из ответа.
// Префикс "image/png;base64," обязателен: хостинг определяет по нему тип файла.
func (s *ImageStore) Upload(ctx context.Context, name string, png []byte) (string, error) {
	payload := uploadRequest{
		Foto:   "image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Nombre: name,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload to %s: unexpected status %d", s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	return extractURL(body), nil
}

// extractURL достает URL из ответа: обычно это голый текст,
// но встречается и JSON-объект с полем url
func extractURL(body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "{") {
		var parsed struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return strings.TrimSpace(parsed.URL)
		}
	}

	return trimmed
}
