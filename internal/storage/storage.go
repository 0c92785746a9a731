// Package storage описывает хранилище записей: коллекции JSON-документов,
// которые читаются и перезаписываются целиком. Конкретные реализации
// (PostgreSQL, Redis, файл, память) лежат во вложенных пакетах.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Collection имя коллекции записей.
type Collection string

const (
	Donors   Collection = "donors"
	Accounts Collection = "accounts"
	Session  Collection = "session"
)

// Collections возвращает все коллекции, известные хранилищу.
func Collections() []Collection {
	return []Collection{Donors, Accounts, Session}
}

// RecordStore хранилище коллекций записей.
//
// Get возвращает записи коллекции в сохранённом порядке; отсутствующая коллекция
// означает пустой срез без ошибки. Недоступность хранилища возвращается как
// ошибка, оборачивающая models.ErrStorageUnavailable.
//
// Put атомарно заменяет всю коллекцию: читатель видит либо старое, либо новое содержимое.
type RecordStore interface {
	Get(ctx context.Context, c Collection) ([]json.RawMessage, error)
	Put(ctx context.Context, c Collection, records []json.RawMessage) error
}

// Unavailable оборачивает ошибку бэкенда в models.ErrStorageUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorageUnavailable, err)
}

// Load читает коллекцию и декодирует каждую запись в T.
// Повреждённое содержимое считается недоступностью хранилища.
func Load[T any](ctx context.Context, s RecordStore, c Collection) ([]T, error) {
	const op = "storage.Load"
	raw, err := s.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, Unavailable(op, fmt.Errorf("corrupt record in %s: %w", c, err))
		}
		items = append(items, item)
	}
	return items, nil
}

// Save кодирует элементы и заменяет ими коллекцию.
func Save[T any](ctx context.Context, s RecordStore, c Collection, items []T) error {
	const op = "storage.Save"
	raw := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		raw = append(raw, b)
	}
	return s.Put(ctx, c, raw)
}
