// Package session реализует шлюз сессии: вход по учётным данным,
// выход и восстановление текущей учётной записи из сохранённого указателя.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/models"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// AccountFinder часть реестра учётных записей, нужная шлюзу. Шлюз только читает учётные записи.
type AccountFinder interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.Account, error)
	Get(ctx context.Context, id string) (models.Account, error)
}

// Gate машина состояний Anonymous / Authenticated(account).
// Указатель на текущую учётную запись хранится в коллекции session.
type Gate struct {
	accounts AccountFinder
	creds    CredentialVerifier
	store    storage.RecordStore
	log      *slog.Logger

	mu      sync.RWMutex
	current *models.Account
}

// NewGate создаёт шлюз в состоянии Anonymous.
func NewGate(log *slog.Logger, accounts AccountFinder, creds CredentialVerifier, store storage.RecordStore) *Gate {
	return &Gate{
		accounts: accounts,
		creds:    creds,
		store:    store,
		log:      log,
	}
}

// Authenticate проверяет email и пароль, не меняя состояние шлюза.
// Неверные учётные данные дают (nil, nil); ошибка возвращается только при сбое хранилища.
func (g *Gate) Authenticate(ctx context.Context, email, proof string) (*models.Account, error) {
	const op = "services.session.Authenticate"
	a, err := g.accounts.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if a == nil || !g.creds.Verify(ctx, email, proof) {
		return nil, nil
	}
	return a, nil
}

// Login выполняет вход и сохраняет указатель сессии. Неверные учётные данные
// возвращают false без ошибки, состояние остаётся Anonymous.
func (g *Gate) Login(ctx context.Context, email, proof string) (bool, error) {
	const op = "services.session.Login"
	a, err := g.Authenticate(ctx, email, proof)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if a == nil {
		g.log.Info("login rejected", slog.String("email", email))
		return false, nil
	}

	err = storage.Save(ctx, g.store, storage.Session, []models.SessionPointer{{AccountID: a.ID}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	g.mu.Lock()
	g.current = a
	g.mu.Unlock()

	g.log.Info("logged in", slog.String("account_id", a.ID), slog.String("role", string(a.Role)))
	return true, nil
}

// Logout переводит шлюз в Anonymous безусловно и очищает сохранённый указатель.
// Ошибка очистки возвращается, но состояние уже Anonymous.
func (g *Gate) Logout(ctx context.Context) error {
	const op = "services.session.Logout"
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	if err := g.store.Put(ctx, storage.Session, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CurrentAccount возвращает копию текущей учётной записи или nil.
func (g *Gate) CurrentAccount() *models.Account {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	a := *g.current
	return &a
}

// IsAuthenticated сообщает, выполнен ли вход активной учётной записью.
func (g *Gate) IsAuthenticated() bool {
	a := g.CurrentAccount()
	return a != nil && a.IsActive()
}

// IsAdmin сообщает, выполнен ли вход администратором.
func (g *Gate) IsAdmin() bool {
	a := g.CurrentAccount()
	return a != nil && a.IsActive() && a.IsAdmin()
}

// Restore восстанавливает сессию из сохранённого указателя. Вызывается при старте,
// идемпотентен и не возвращает ошибок: пустое, повреждённое или недоступное
// хранилище оставляет шлюз в Anonymous.
func (g *Gate) Restore(ctx context.Context) {
	pointers, err := storage.Load[models.SessionPointer](ctx, g.store, storage.Session)
	if err != nil {
		g.log.Warn("session pointer unreadable", sl.Err(err))
		g.reset(ctx)
		return
	}
	if len(pointers) == 0 || pointers[0].AccountID == "" {
		g.setCurrent(nil)
		return
	}

	a, err := g.accounts.Get(ctx, pointers[0].AccountID)
	switch {
	case errors.Is(err, models.ErrNotFound), err == nil && !a.IsActive():
		g.log.Info("stored session no longer valid", slog.String("account_id", pointers[0].AccountID))
		g.reset(ctx)
		return
	case err != nil:
		g.log.Warn("failed to resolve session account", sl.Err(err))
		g.setCurrent(nil)
		return
	}

	g.setCurrent(&a)
	g.log.Info("session restored", slog.String("account_id", a.ID))
}

func (g *Gate) setCurrent(a *models.Account) {
	g.mu.Lock()
	g.current = a
	g.mu.Unlock()
}

// reset сбрасывает сессию и по возможности очищает указатель.
func (g *Gate) reset(ctx context.Context) {
	g.setCurrent(nil)
	if err := g.store.Put(ctx, storage.Session, nil); err != nil {
		g.log.Warn("failed to clear session pointer", sl.Err(err))
	}
}
