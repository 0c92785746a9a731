// Package donor реализует реестр доноров: проверку входных данных,
// уникальность телефона, поиск по справочнику и агрегированную статистику
// поверх хранилища записей.
package donor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
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

// DefaultRecentWindow окно «недавних» регистраций по умолчанию.
const DefaultRecentWindow = 30 * 24 * time.Hour

// Options настройки реестра.
type Options struct {
	RecentWindow time.Duration
	PhonePrefix  string
	StrictPhone  bool
}

// Registry типизированные операции над коллекцией доноров.
// Циклы чтение-изменение-запись сериализуются мьютексом.
type Registry struct {
	store    storage.RecordStore
	events   events.Publisher
	validate *validator.Validate
	log      *slog.Logger
	opts     Options

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// New создаёт реестр доноров. publisher может быть nil.
func New(log *slog.Logger, store storage.RecordStore, publisher events.Publisher, opts Options) *Registry {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = DefaultRecentWindow
	}
	return &Registry{
		store:    store,
		events:   publisher,
		validate: validation.New(),
		log:      log,
		opts:     opts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ValidateDonorInput проверяет форму донора и возвращает нормализованную копию:
// поля без крайних пробелов, дата донации в UTC, при строгом формате — телефон DDDDD-DDDDDD.
// Если не указаны ни дата, ни признак «не сдавал», выставляется NeverDonated.
func (r *Registry) ValidateDonorInput(in models.DonorInput) (models.DonorInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BloodType = strings.ToUpper(strings.TrimSpace(in.BloodType))
	in.Address = strings.TrimSpace(in.Address)

	verr := validation.Struct(r.validate, in)

	if in.Phone != "" {
		switch {
		case !validPhoneChars(in.Phone):
			verr.Add("phone", "must contain only digits, spaces and + - ( )")
		case r.opts.StrictPhone:
			d := phoneDigits(in.Phone)
			if len(d) != 11 || !strings.HasPrefix(d, r.opts.PhonePrefix) {
				verr.Add("phone", fmt.Sprintf("must be 11 digits starting with %s", r.opts.PhonePrefix))
			} else {
				in.Phone = formatStrictPhone(d)
			}
		case phoneDigits(in.Phone) == "":
			verr.Add("phone", "must contain digits")
		}
	}

	switch {
	case in.LastDonationDate != nil && in.NeverDonated:
		verr.Add("last_donation_date", "cannot be set together with never_donated")
	case in.LastDonationDate != nil:
		d := in.LastDonationDate.UTC()
		if d.After(r.now()) {
			verr.Add("last_donation_date", "must not be in the future")
		}
		in.LastDonationDate = &d
	default:
		in.NeverDonated = true
	}

	if err := verr.OrNil(); err != nil {
		return in, err
	}
	return in, nil
}

// List возвращает всех доноров, новые регистрации первыми.
// Ошибка чтения хранилища даёт пустой список.
func (r *Registry) List(ctx context.Context) ([]models.Donor, error) {
	donors, err := r.load(ctx)
	if err != nil {
		r.log.Warn("donor list degraded to empty", sl.Err(err))
		return []models.Donor{}, nil
	}
	sortDonors(donors)
	return donors, nil
}

// Get возвращает донора по идентификатору.
func (r *Registry) Get(ctx context.Context, id string) (models.Donor, error) {
	const op = "services.donor.Get"
	donors, err := r.load(ctx)
	if err != nil {
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(donors, id)
	if i < 0 {
		return models.Donor{}, fmt.Errorf("%s: donor %s: %w", op, id, models.ErrNotFound)
	}
	return donors[i], nil
}

// Add регистрирует нового донора.
func (r *Registry) Add(ctx context.Context, in models.DonorInput) (models.Donor, error) {
	const op = "services.donor.Add"

	in, err := r.ValidateDonorInput(in)
	if err != nil {
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	donors, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}
	if phoneTaken(donors, in.Phone, "") {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, models.ErrDuplicatePhone)
	}

	now := r.now().UTC()
	d := models.Donor{
		ID:           r.newID(),
		RegisteredAt: now,
	}
	apply(&d, in, now)

	if err := storage.Save(ctx, r.store, storage.Donors, append(donors, d)); err != nil {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("donor registered", slog.String("id", d.ID), slog.String("blood_type", string(d.BloodType)))
	r.publish(ctx, events.New(events.DonorCreated, d.ID, d))
	return d, nil
}

// Update полностью заменяет поля донора, сохраняя id и дату регистрации.
func (r *Registry) Update(ctx context.Context, id string, in models.DonorInput) (models.Donor, error) {
	const op = "services.donor.Update"

	in, err := r.ValidateDonorInput(in)
	if err != nil {
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	donors, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(donors, id)
	if i < 0 {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: donor %s: %w", op, id, models.ErrNotFound)
	}
	if phoneTaken(donors, in.Phone, id) {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, models.ErrDuplicatePhone)
	}

	apply(&donors[i], in, r.now().UTC())
	d := donors[i]

	if err := storage.Save(ctx, r.store, storage.Donors, donors); err != nil {
		r.mu.Unlock()
		return models.Donor{}, fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("donor updated", slog.String("id", d.ID))
	r.publish(ctx, events.New(events.DonorUpdated, d.ID, d))
	return d, nil
}

// Remove удаляет донора.
func (r *Registry) Remove(ctx context.Context, id string) error {
	const op = "services.donor.Remove"

	r.mu.Lock()
	donors, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	i := indexOf(donors, id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%s: donor %s: %w", op, id, models.ErrNotFound)
	}
	donors = append(donors[:i], donors[i+1:]...)

	if err := storage.Save(ctx, r.store, storage.Donors, donors); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("donor removed", slog.String("id", id))
	r.publish(ctx, events.New(events.DonorDeleted, id, nil))
	return nil
}

// Clear удаляет всех доноров и возвращает количество удалённых записей.
func (r *Registry) Clear(ctx context.Context) (int, error) {
	const op = "services.donor.Clear"

	r.mu.Lock()
	donors, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := storage.Save(ctx, r.store, storage.Donors, []models.Donor{}); err != nil {
		r.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	r.mu.Unlock()

	r.log.Info("donors cleared", slog.Int("count", len(donors)))
	r.publish(ctx, events.New(events.DonorsCleared, "", map[string]int{"count": len(donors)}))
	return len(donors), nil
}

// Search отбирает доноров по подстроке (имя, телефон, группа, адрес) и группе крови.
// Пустой запрос совпадает со всеми, фильтр "all" или "" отключает отбор по группе,
// неизвестная группа не совпадает ни с чем.
func (r *Registry) Search(ctx context.Context, f models.DonorFilter) ([]models.Donor, error) {
	donors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var want models.BloodType
	filter := strings.TrimSpace(f.BloodType)
	if filter != "" && !strings.EqualFold(filter, models.BloodTypeAll) {
		bt, ok := models.ParseBloodType(strings.ToUpper(filter))
		if !ok {
			return []models.Donor{}, nil
		}
		want = bt
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	qDigits := phoneDigits(q)

	result := make([]models.Donor, 0, len(donors))
	for _, d := range donors {
		if want != "" && d.BloodType != want {
			continue
		}
		if q != "" && !matches(d, q, qDigits) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// Stats считает доноров всего, по каждой группе крови (включая нулевые)
// и зарегистрированных за последние window. window <= 0 означает окно из настроек.
func (r *Registry) Stats(ctx context.Context, window time.Duration) (models.DonorStats, error) {
	if window <= 0 {
		window = r.opts.RecentWindow
	}
	donors, err := r.List(ctx)
	if err != nil {
		return models.DonorStats{}, err
	}

	counts := make(map[models.BloodType]int, 8)
	since := r.now().Add(-window)
	recent := 0
	for _, d := range donors {
		counts[d.BloodType]++
		if !d.RegisteredAt.Before(since) {
			recent++
		}
	}

	total := len(donors)
	per := make([]models.BloodTypeCount, 0, 8)
	for _, bt := range models.BloodTypes() {
		per = append(per, models.BloodTypeCount{
			BloodType:  bt,
			Count:      counts[bt],
			Percentage: percentage(counts[bt], total),
		})
	}

	return models.DonorStats{
		Total:        total,
		PerBloodType: per,
		RecentCount:  recent,
		RecentWindow: window,
		RecentDays:   int(window / (24 * time.Hour)),
	}, nil
}

func (r *Registry) load(ctx context.Context) ([]models.Donor, error) {
	return storage.Load[models.Donor](ctx, r.store, storage.Donors)
}

func (r *Registry) publish(ctx context.Context, e events.Event) {
	if err := r.events.Publish(ctx, e); err != nil {
		r.log.Warn("failed to publish event", slog.String("type", e.Type), sl.Err(err))
	}
}

func apply(d *models.Donor, in models.DonorInput, now time.Time) {
	bt, _ := models.ParseBloodType(in.BloodType)
	d.Name = in.Name
	d.Phone = in.Phone
	d.BloodType = bt
	d.Address = in.Address
	d.LastDonationDate = in.LastDonationDate
	d.NeverDonated = in.NeverDonated
	d.UpdatedAt = now
}

func indexOf(donors []models.Donor, id string) int {
	for i := range donors {
		if donors[i].ID == id {
			return i
		}
	}
	return -1
}

func phoneTaken(donors []models.Donor, phone, exceptID string) bool {
	key := phoneKey(phone)
	for _, d := range donors {
		if d.ID != exceptID && phoneKey(d.Phone) == key {
			return true
		}
	}
	return false
}

func matches(d models.Donor, q, qDigits string) bool {
	if strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(strings.ToLower(d.Phone), q) ||
		strings.Contains(strings.ToLower(string(d.BloodType)), q) ||
		strings.Contains(strings.ToLower(d.Address), q) {
		return true
	}
	// Запрос из одних цифр и разделителей сравнивается с телефоном без форматирования.
	return qDigits != "" && validPhoneChars(q) && strings.Contains(phoneDigits(d.Phone), qDigits)
}

func sortDonors(donors []models.Donor) {
	sort.SliceStable(donors, func(i, j int) bool {
		if !donors[i].RegisteredAt.Equal(donors[j].RegisteredAt) {
			return donors[i].RegisteredAt.After(donors[j].RegisteredAt)
		}
		return donors[i].ID < donors[j].ID
	})
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}
