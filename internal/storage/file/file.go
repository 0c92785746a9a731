// Package file хранит каждую коллекцию в отдельном JSON-файле каталога.
// Это локальный аналог хранилища браузера для однопользовательского клиента.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// Store файловое хранилище коллекций.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New создаёт каталог при необходимости и возвращает хранилище.
func New(dir string) (*Store, error) {
	const op = "storage.file.New"
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(c storage.Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// Get читает коллекцию. Отсутствующий файл означает пустую коллекцию.
func (s *Store) Get(ctx context.Context, c storage.Collection) ([]json.RawMessage, error) {
	const op = "storage.file.Get"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, storage.Unavailable(op, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, storage.Unavailable(op, err)
	}
	return records, nil
}

// Put записывает коллекцию во временный файл и атомарно переименовывает его.
func (s *Store) Put(ctx context.Context, c storage.Collection, records []json.RawMessage) error {
	const op = "storage.file.Put"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, string(c)+".*.tmp")
	if err != nil {
		return storage.Unavailable(op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storage.Unavailable(op, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return storage.Unavailable(op, err)
	}
	if err := tmp.Close(); err != nil {
		return storage.Unavailable(op, err)
	}
	if err := os.Rename(tmp.Name(), s.path(c)); err != nil {
		return storage.Unavailable(op, err)
	}
	return nil
}
