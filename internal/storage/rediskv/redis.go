// Package rediskv хранит каждую коллекцию записей одним JSON-документом в Redis.
// Ключи повторяют ключи браузерного хранилища: donors, accounts, session.
package rediskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

const keyPrefix = "lifeflow:"

// Store хранилище коллекций поверх Redis.
type Store struct {
	Db *redis.Client
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "storage.rediskv.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

func key(c storage.Collection) string {
	return keyPrefix + string(c)
}

// Get читает коллекцию. Отсутствующий ключ означает пустую коллекцию.
func (s *Store) Get(ctx context.Context, c storage.Collection) ([]json.RawMessage, error) {
	const op = "storage.rediskv.Get"
	val, err := s.Db.Get(ctx, key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, storage.Unavailable(op, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(val, &records); err != nil {
		return nil, storage.Unavailable(op, err)
	}
	return records, nil
}

// Put заменяет коллекцию одной командой SET, пустая коллекция удаляет ключ.
func (s *Store) Put(ctx context.Context, c storage.Collection, records []json.RawMessage) error {
	const op = "storage.rediskv.Put"
	if len(records) == 0 {
		if err := s.Db.Del(ctx, key(c)).Err(); err != nil {
			return storage.Unavailable(op, err)
		}
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, key(c), data, 0).Err(); err != nil {
		return storage.Unavailable(op, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *Store) Close() error {
	return s.Db.Close()
}
