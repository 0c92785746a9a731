// Package account реализует реестр учётных записей: CRUD с уникальностью email,
// поиск активной записи по email для входа и засев администратора по умолчанию.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/lifeflow/internal/events"
	"github.com/magabrotheeeer/lifeflow/internal/lib/sl"
	"github.com/magabrotheeeer/lifeflow/internal/lib/validation"
	"github.com/magabrotheeeer/lifeflow/internal/models"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
)

// Учётная запись администратора, создаваемая в пустом хранилище.
const (
	SeedAdminEmail = "admin@example.com"
	SeedAdminName  = "Admin User"
)

// SeedAdminID детерминированный идентификатор засеянного администратора.
var SeedAdminID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("lifeflow:account:"+SeedAdminEmail)).String()

// Registry типизированные операции над коллекцией учётных записей.
type Registry struct {
	store    storage.RecordStore
	events   events.Publisher
	validate *validator.Validate
	log      *slog.Logger

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// New создаёт реестр учётных записей. publisher может быть nil.
func New(log *slog.Logger, store storage.RecordStore, publisher events.Publisher) *Registry {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Registry{
		store:    store,
		events:   publisher,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ValidateAccountInput проверяет форму учётной записи и нормализует её:
// email в нижнем регистре, поля без крайних пробелов.
func (r *Registry) ValidateAccountInput(in models.AccountInput) (models.AccountInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))

	if err := validation.Struct(r.validate, in).OrNil(); err != nil {
		return in, err
	}
	return in, nil
}

// List возвращает все учётные записи, при пустом хранилище сначала засевает администратора.
// Ошибка хранилища даёт пустой список.
func (r *Registry) List(ctx context.Context) ([]models.Account, error) {
	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	r.mu.Unlock()
	if err != nil {
		r.log.Warn("account list degraded to empty", sl.Err(err))
		return []models.Account{}, nil
	}
	return accounts, nil
}

// Get возвращает учётную запись по идентификатору.
func (r *Registry) Get(ctx context.Context, id string) (models.Account, error) {
	const op = "services.account.Get"
	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	r.mu.Unlock()
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(accounts, id)
	if i < 0 {
		return models.Account{}, fmt.Errorf("%s: account %s: %w", op, id, models.ErrNotFound)
	}
	return accounts[i], nil
}

// FindActiveByEmail ищет активную учётную запись по email без учёта регистра.
// Возвращает nil, если такой нет.
func (r *Registry) FindActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "services.account.FindActiveByEmail"
	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range accounts {
		if a.Email == email && a.IsActive() {
			return &a, nil
		}
	}
	return nil, nil
}

// Add создаёт учётную запись.
func (r *Registry) Add(ctx context.Context, in models.AccountInput) (models.Account, error) {
	const op = "services.account.Add"

	in, err := r.ValidateAccountInput(in)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	if err != nil {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if emailTaken(accounts, in.Email, "") {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, models.ErrDuplicateEmail)
	}

	now := r.now().UTC()
	a := models.Account{
		ID:        r.newID(),
		CreatedAt: now,
	}
	apply(&a, in, now)

	if err := storage.Save(ctx, r.store, storage.Accounts, append(accounts, a)); err != nil {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("account created", slog.String("id", a.ID), slog.String("role", string(a.Role)))
	r.publish(ctx, events.New(events.AccountCreated, a.ID, a))
	return a, nil
}

// Update заменяет имя, email, роль и статус учётной записи.
func (r *Registry) Update(ctx context.Context, id string, in models.AccountInput) (models.Account, error) {
	const op = "services.account.Update"

	in, err := r.ValidateAccountInput(in)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	if err != nil {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(accounts, id)
	if i < 0 {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: account %s: %w", op, id, models.ErrNotFound)
	}
	if emailTaken(accounts, in.Email, id) {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, models.ErrDuplicateEmail)
	}

	apply(&accounts[i], in, r.now().UTC())
	a := accounts[i]

	if err := storage.Save(ctx, r.store, storage.Accounts, accounts); err != nil {
		r.mu.Unlock()
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("account updated", slog.String("id", a.ID))
	r.publish(ctx, events.New(events.AccountUpdated, a.ID, a))
	return a, nil
}

// Remove удаляет учётную запись. Если удалена последняя, при следующем
// обращении администратор будет засеян заново.
func (r *Registry) Remove(ctx context.Context, id string) error {
	const op = "services.account.Remove"

	r.mu.Lock()
	accounts, err := r.loadSeeded(ctx)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(accounts, id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%s: account %s: %w", op, id, models.ErrNotFound)
	}
	accounts = append(accounts[:i], accounts[i+1:]...)

	if err := storage.Save(ctx, r.store, storage.Accounts, accounts); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("account removed", slog.String("id", id))
	r.publish(ctx, events.New(events.AccountDeleted, id, nil))
	return nil
}

// Search отбирает учётные записи, у которых имя, email или роль содержат q без учёта регистра.
func (r *Registry) Search(ctx context.Context, q string) ([]models.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return accounts, nil
	}
	result := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(a.Email, q) ||
			strings.Contains(string(a.Role), q) {
			result = append(result, a)
		}
	}
	return result, nil
}

// loadSeeded читает коллекцию и засевает администратора, если она пуста.
// Вызывается под r.mu. Нечитаемое хранилище не засевается.
func (r *Registry) loadSeeded(ctx context.Context) ([]models.Account, error) {
	accounts, err := storage.Load[models.Account](ctx, r.store, storage.Accounts)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	now := r.now().UTC()
	admin := models.Account{
		ID:        SeedAdminID,
		Name:      SeedAdminName,
		Email:     SeedAdminEmail,
		Role:      models.RoleAdmin,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	accounts = []models.Account{admin}
	if err := storage.Save(ctx, r.store, storage.Accounts, accounts); err != nil {
		return nil, err
	}
	r.log.Info("seeded default admin account", slog.String("email", admin.Email))
	return accounts, nil
}

func (r *Registry) publish(ctx context.Context, e events.Event) {
	if err := r.events.Publish(ctx, e); err != nil {
		r.log.Warn("failed to publish event", slog.String("type", e.Type), sl.Err(err))
	}
}

func apply(a *models.Account, in models.AccountInput, now time.Time) {
	a.Name = in.Name
	a.Email = in.Email
	a.Role = models.Role(in.Role)
	a.Status = models.Status(in.Status)
	a.UpdatedAt = now
}

func indexOf(accounts []models.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func emailTaken(accounts []models.Account, email, exceptID string) bool {
	for _, a := range accounts {
		if a.ID != exceptID && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}
