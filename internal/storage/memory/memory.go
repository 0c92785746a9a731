// Package memory хранит коллекции записей в памяти процесса.
// Используется в тестах и при storage.driver = memory.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// Store потокобезопасное хранилище коллекций в памяти.
type Store struct {
	mu   sync.RWMutex
	data map[storage.Collection][]json.RawMessage
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: make(map[storage.Collection][]json.RawMessage)}
}

// Get возвращает копию коллекции.
func (s *Store) Get(_ context.Context, c storage.Collection) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data[c]), nil
}

// Put заменяет коллекцию копией переданных записей.
func (s *Store) Put(_ context.Context, c storage.Collection, records []json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(records) == 0 {
		delete(s.data, c)
		return nil
	}
	s.data[c] = clone(records)
	return nil
}

func clone(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
