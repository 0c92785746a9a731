// Package postgresql реализует хранилище записей на основе PostgreSQL.
// Каждая запись коллекции хранится строкой таблицы records с номером позиции;
// Put заменяет коллекцию целиком в одной транзакции.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// NewWithDB оборачивает уже открытое соединение.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{DB: db}
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(ctx context.Context, s *Storage) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'records'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("required table records query error: %w", err)
	}
	if !exists {
		return fmt.Errorf("required table records missing")
	}
	return nil
}

// Get возвращает записи коллекции в порядке позиций.
func (s *Storage) Get(ctx context.Context, c storage.Collection) ([]json.RawMessage, error) {
	const op = "storage.postgresql.Get"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT body
			  FROM records
			  WHERE collection = $1
			  ORDER BY position`
	rows, err := s.DB.QueryContext(ctx, query, string(c))
	if err != nil {
		return nil, storage.Unavailable(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []json.RawMessage{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, storage.Unavailable(op, err)
		}
		result = append(result, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable(op, err)
	}
	return result, nil
}

// Put заменяет коллекцию: удаляет старые строки и вставляет новые в одной транзакции.
func (s *Storage) Put(ctx context.Context, c storage.Collection, records []json.RawMessage) error {
	const op = "storage.postgresql.Put"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Unavailable(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, string(c)); err != nil {
		return storage.Unavailable(op, err)
	}

	query := `INSERT INTO records (collection, position, body)
			  VALUES ($1, $2, $3)`
	for i, r := range records {
		if _, err := tx.ExecContext(ctx, query, string(c), i, string(r)); err != nil {
			return storage.Unavailable(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Unavailable(op, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
