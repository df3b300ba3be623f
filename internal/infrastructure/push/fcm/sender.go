// Package fcm отправляет push-уведомления через Firebase Cloud Messaging
package fcm

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/lightdata/push-dispatch/internal/application/port"
)

// Sender - push-провайдер поверх FCM
type Sender struct {
	client *messaging.Client
}

// NewSender инициализирует Firebase app по файлу сервисного аккаунта
func NewSender(ctx context.Context, credentialsFile string) (*Sender, error) {
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, fmt.Errorf("fcm credentials file is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	return &Sender{client: client}, nil
}

// Send отправляет сообщение на один токен и возвращает message ID провайдера.
// Значения data-канала уже строки: это контракт порта.
func (s *Sender) Send(ctx context.Context, msg port.PushMessage) (string, error) {
	message := &messaging.Message{
		Token: msg.Token,
		Data:  msg.Data,
	}

	if msg.Title != "" || msg.Body != "" {
		message.Notification = &messaging.Notification{
			Title:    msg.Title,
			Body:     msg.Body,
			ImageURL: msg.ImageURL,
		}
	}

	if msg.ImageURL != "" || msg.Priority != "" {
		android := &messaging.AndroidConfig{}
		if msg.ImageURL != "" {
			android.Notification = &messaging.AndroidNotification{ImageURL: msg.ImageURL}
		}
		if strings.EqualFold(msg.Priority, "high") {
			android.Priority = "high"
		}
		message.Android = android
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		if messaging.IsUnregistered(err) {
			return "", fmt.Errorf("%w: %v", port.ErrUnregisteredToken, err)
		}
		return "", fmt.Errorf("fcm send: %w", err)
	}

	return id, nil
}
