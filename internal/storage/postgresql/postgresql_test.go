package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lifeflow/internal/models"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Storage) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock, NewWithDB(db)
}

func TestStorage_Get(t *testing.T) {
	_, mock, s := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"body"}).
		AddRow([]byte(`{"id":"1"}`)).
		AddRow([]byte(`{"id":"2"}`))
	mock.ExpectQuery(`SELECT body\s+FROM records`).
		WithArgs("donors").
		WillReturnRows(rows)

	got, err := s.Get(context.Background(), storage.Donors)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, `{"id":"1"}`, string(got[0]))
	assert.JSONEq(t, `{"id":"2"}`, string(got[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetEmpty(t *testing.T) {
	_, mock, s := setupMockDB(t)

	mock.ExpectQuery(`SELECT body`).
		WithArgs("accounts").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	got, err := s.Get(context.Background(), storage.Accounts)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetQueryError(t *testing.T) {
	_, mock, s := setupMockDB(t)

	mock.ExpectQuery(`SELECT body`).
		WithArgs("donors").
		WillReturnError(errors.New("connection refused"))

	_, err := s.Get(context.Background(), storage.Donors)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Put(t *testing.T) {
	_, mock, s := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records WHERE collection = \$1`).
		WithArgs("donors").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("donors", 0, `{"id":"a"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("donors", 1, `{"id":"b"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Put(context.Background(), storage.Donors, []json.RawMessage{
		[]byte(`{"id":"a"}`),
		[]byte(`{"id":"b"}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_PutRollsBackOnInsertError(t *testing.T) {
	_, mock, s := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records`).
		WithArgs("session").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("session", 0, `{"account_id":"x"}`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Put(context.Background(), storage.Session, []json.RawMessage{[]byte(`{"account_id":"x"}`)})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CanceledContext(t *testing.T) {
	_, mock, s := setupMockDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, storage.Donors)
	assert.ErrorIs(t, err, context.Canceled)

	err = s.Put(ctx, storage.Donors, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
