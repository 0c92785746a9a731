package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
	"github.com/magabrotheeeer/lifeflow/internal/services/account"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
	"github.com/magabrotheeeer/lifeflow/internal/storage/memory"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) FindActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccounts) Get(ctx context.Context, id string) (models.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Account), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, email, proof string) bool {
	return m.Called(ctx, email, proof).Bool(0)
}

type failingPutStore struct {
	*memory.Store
}

func (failingPutStore) Put(context.Context, storage.Collection, []json.RawMessage) error {
	return storage.Unavailable("failing.Put", errors.New("read-only"))
}

func demoCredentials(t *testing.T) *HashedCredentials {
	t.Helper()
	creds, err := NewHashedCredentials([]config.Credential{
		{Email: "admin@example.com", Password: "admin123"},
		{Email: "user@example.com", Password: "user123"},
	})
	require.NoError(t, err)
	return creds
}

func TestGate_LoginScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	log := sl.NewDiscardLogger()
	accounts := account.New(log, store, nil)
	gate := NewGate(log, accounts, demoCredentials(t), store)

	ok, err := gate.Login(ctx, "admin@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, gate.CurrentAccount())
	assert.False(t, gate.IsAuthenticated())

	ok, err = gate.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, gate.CurrentAccount())
	assert.Equal(t, models.RoleAdmin, gate.CurrentAccount().Role)
	assert.True(t, gate.IsAuthenticated())
	assert.True(t, gate.IsAdmin())

	pointers, err := storage.Load[models.SessionPointer](ctx, store, storage.Session)
	require.NoError(t, err)
	require.Len(t, pointers, 1)
	assert.Equal(t, account.SeedAdminID, pointers[0].AccountID)

	require.NoError(t, gate.Logout(ctx))
	assert.Nil(t, gate.CurrentAccount())
	assert.False(t, gate.IsAdmin())

	raw, err := store.Get(ctx, storage.Session)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestGate_LoginRejections(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	log := sl.NewDiscardLogger()
	accounts := account.New(log, store, nil)
	gate := NewGate(log, accounts, demoCredentials(t), store)

	inactive := models.AccountInput{Name: "Off", Email: "user@example.com", Role: "user", Status: "inactive"}
	_, err := accounts.Add(ctx, inactive)
	require.NoError(t, err)

	tests := []struct {
		name, email, proof string
	}{
		{name: "неактивная учётная запись", email: "user@example.com", proof: "user123"},
		{name: "нет учётной записи", email: "ghost@example.com", proof: "admin123"},
		{name: "чужой пароль", email: "admin@example.com", proof: "user123"},
		{name: "пустой пароль", email: "admin@example.com", proof: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := gate.Login(ctx, tt.email, tt.proof)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.False(t, gate.IsAuthenticated())
		})
	}
}

func TestGate_ConfiguredUserNeedsAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	log := sl.NewDiscardLogger()
	accounts := account.New(log, store, nil)
	gate := NewGate(log, accounts, demoCredentials(t), store)

	ok, err := gate.Login(ctx, "user@example.com", "user123")
	require.NoError(t, err)
	assert.False(t, ok, "засевается только администратор")

	_, err = accounts.Add(ctx, models.AccountInput{
		Name: "Regular", Email: "user@example.com", Role: "user", Status: "active",
	})
	require.NoError(t, err)

	ok, err = gate.Login(ctx, "user@example.com", "user123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, gate.IsAuthenticated())
	assert.False(t, gate.IsAdmin())
}

func TestGate_LoginStorageFailure(t *testing.T) {
	ctx := context.Background()
	accounts := new(MockAccounts)
	verifier := new(MockVerifier)
	gate := NewGate(sl.NewDiscardLogger(), accounts, verifier, memory.New())

	accounts.On("FindActiveByEmail", mock.Anything, "admin@example.com").
		Return(nil, storage.Unavailable("mock", errors.New("down")))

	ok, err := gate.Login(ctx, "admin@example.com", "admin123")
	require.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.False(t, ok)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestGate_LoginPointerNotSaved(t *testing.T) {
	ctx := context.Background()
	admin := &models.Account{ID: "a-1", Role: models.RoleAdmin, Status: models.StatusActive}
	accounts := new(MockAccounts)
	accounts.On("FindActiveByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "admin@example.com", "admin123").Return(true)

	gate := NewGate(sl.NewDiscardLogger(), accounts, verifier, failingPutStore{memory.New()})

	ok, err := gate.Login(ctx, "admin@example.com", "admin123")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, gate.CurrentAccount())
}

func TestGate_Restore(t *testing.T) {
	ctx := context.Background()
	active := models.Account{ID: "a-1", Role: models.RoleUser, Status: models.StatusActive}
	inactive := models.Account{ID: "a-2", Role: models.RoleAdmin, Status: models.StatusInactive}

	tests := []struct {
		name        string
		session     []json.RawMessage
		setup       func(m *MockAccounts)
		wantCurrent string
		wantPointer bool
	}{
		{
			name:    "пустое хранилище",
			session: nil,
			setup:   func(*MockAccounts) {},
		},
		{
			name:    "активная учётная запись",
			session: []json.RawMessage{[]byte(`{"account_id":"a-1"}`)},
			setup: func(m *MockAccounts) {
				m.On("Get", mock.Anything, "a-1").Return(active, nil)
			},
			wantCurrent: "a-1",
			wantPointer: true,
		},
		{
			name:    "неактивная учётная запись",
			session: []json.RawMessage{[]byte(`{"account_id":"a-2"}`)},
			setup: func(m *MockAccounts) {
				m.On("Get", mock.Anything, "a-2").Return(inactive, nil)
			},
		},
		{
			name:    "удалённая учётная запись",
			session: []json.RawMessage{[]byte(`{"account_id":"gone"}`)},
			setup: func(m *MockAccounts) {
				m.On("Get", mock.Anything, "gone").Return(models.Account{}, models.ErrNotFound)
			},
		},
		{
			name:    "повреждённый указатель",
			session: []json.RawMessage{[]byte(`{broken`)},
			setup:   func(*MockAccounts) {},
		},
		{
			name:    "сбой хранилища учётных записей",
			session: []json.RawMessage{[]byte(`{"account_id":"a-1"}`)},
			setup: func(m *MockAccounts) {
				m.On("Get", mock.Anything, "a-1").Return(models.Account{}, storage.Unavailable("mock", errors.New("down")))
			},
			wantPointer: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			if tt.session != nil {
				require.NoError(t, store.Put(ctx, storage.Session, tt.session))
			}
			accounts := new(MockAccounts)
			tt.setup(accounts)
			gate := NewGate(sl.NewDiscardLogger(), accounts, new(MockVerifier), store)

			assert.NotPanics(t, func() { gate.Restore(ctx) })
			gate.Restore(ctx)

			if tt.wantCurrent == "" {
				assert.Nil(t, gate.CurrentAccount())
			} else {
				require.NotNil(t, gate.CurrentAccount())
				assert.Equal(t, tt.wantCurrent, gate.CurrentAccount().ID)
			}

			raw, err := store.Get(ctx, storage.Session)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPointer, len(raw) > 0)
		})
	}
}

func TestHashedCredentials(t *testing.T) {
	creds := demoCredentials(t)
	ctx := context.Background()

	assert.True(t, creds.Verify(ctx, "admin@example.com", "admin123"))
	assert.True(t, creds.Verify(ctx, "ADMIN@example.com", "admin123"))
	assert.False(t, creds.Verify(ctx, "admin@example.com", "user123"))
	assert.False(t, creds.Verify(ctx, "nobody@example.com", "admin123"))

	_, err := NewHashedCredentials([]config.Credential{{Email: "a@example.com", PasswordHash: "plain"}})
	require.Error(t, err)

	_, err = NewHashedCredentials([]config.Credential{{Email: "a@example.com"}})
	require.Error(t, err)
}
