package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lifeflow/internal/models"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
	"github.com/magabrotheeeer/lifeflow/internal/storage/memory"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, storage.Collection) ([]json.RawMessage, error) {
	return nil, storage.Unavailable("broken.Get", errors.New("connection refused"))
}

func (brokenStore) Put(context.Context, storage.Collection, []json.RawMessage) error {
	return storage.Unavailable("broken.Put", errors.New("connection refused"))
}

type observation struct {
	op, collection, status string
}

type recorder struct {
	got []observation
}

func (r *recorder) ObserveStore(op, collection, status string, _ time.Duration) {
	r.got = append(r.got, observation{op, collection, status})
}

func TestLoadSave_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	in := []models.Account{
		{ID: "b", Email: "b@example.com"},
		{ID: "a", Email: "a@example.com"},
	}
	require.NoError(t, storage.Save(ctx, s, storage.Accounts, in))

	out, err := storage.Load[models.Account](ctx, s, storage.Accounts)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
}

func TestLoad_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Put(ctx, storage.Donors, []json.RawMessage{[]byte(`not-json`)}))

	_, err := storage.Load[models.Donor](ctx, s, storage.Donors)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestInstrumented_ReportsStatus(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}

	ok := storage.Instrumented(memory.New(), rec)
	_, err := ok.Get(ctx, storage.Donors)
	require.NoError(t, err)
	require.NoError(t, ok.Put(ctx, storage.Donors, nil))

	broken := storage.Instrumented(brokenStore{}, rec)
	_, err = broken.Get(ctx, storage.Session)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)

	assert.Equal(t, []observation{
		{"get", "donors", "ok"},
		{"put", "donors", "ok"},
		{"get", "session", "unavailable"},
	}, rec.got)
}
