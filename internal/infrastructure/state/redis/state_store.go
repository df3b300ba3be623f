// Package redis реализует хранилище хэшей поверх Redis. В отличие от
// in-memory реализации состояние переживает рестарт процесса: после
// перезапуска подавление повторных отправок продолжает работать.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dispatch:lasthash:"

// StateStore - последний отправленный хэш по получателю, в Redis
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore подключается к Redis и проверяет соединение
func NewStateStore(addr, password string, db int, ttl time.Duration) (*StateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &StateStore{client: client, ttl: ttl}, nil
}

// GetLastHash возвращает последний хэш получателя
func (s *StateStore) GetLastHash(ctx context.Context, recipientToken string) (string, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+recipientToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get last hash: %w", err)
	}
	return val, true, nil
}

// SetLastHash записывает хэш получателя
func (s *StateStore) SetLastHash(ctx context.Context, recipientToken, hash string) error {
	if err := s.client.Set(ctx, keyPrefix+recipientToken, hash, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set last hash: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (s *StateStore) Close() error {
	return s.client.Close()
}
