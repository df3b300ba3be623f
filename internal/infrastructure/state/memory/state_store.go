// Package memory реализует хранилище хэшей в памяти процесса.
// Это эталонное поведение: вся таблица теряется при рестарте, после чего
// первый же проход отправит всем получателям заново.
package memory

import (
	"context"
	"sync"
)

// StateStore - последний отправленный хэш по токену получателя
type StateStore struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewStateStore создает пустое хранилище
func NewStateStore() *StateStore {
	return &StateStore{hashes: make(map[string]string)}
}

// GetLastHash возвращает последний хэш получателя
func (s *StateStore) GetLastHash(_ context.Context, recipientToken string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.hashes[recipientToken]
	return hash, ok, nil
}

// SetLastHash записывает хэш получателя
func (s *StateStore) SetLastHash(_ context.Context, recipientToken, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[recipientToken] = hash
	return nil
}
