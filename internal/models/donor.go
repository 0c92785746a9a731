// Package models содержит доменные структуры реестра доноров крови:
// запись донора, учётную запись пользователя, входные данные форм,
// агрегированную статистику и ошибки бизнес-логики.
package models

import "time"

// Donor представляет зарегистрированного донора крови.
// Ровно одно из условий выполняется всегда: LastDonationDate != nil либо NeverDonated == true.
type Donor struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	BloodType        BloodType  `json:"blood_type"`
	Address          string     `json:"address"`
	RegisteredAt     time.Time  `json:"registered_at"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	NeverDonated     bool       `json:"never_donated"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DonorInput используется для приёма данных формы регистрации и редактирования.
// Редактирование заменяет все поля записи, частичных обновлений нет.
type DonorInput struct {
	Name             string     `json:"name" validate:"required"`
	Phone            string     `json:"phone" validate:"required"`
	BloodType        string     `json:"blood_type" validate:"required,bloodtype"`
	Address          string     `json:"address" validate:"required"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	NeverDonated     bool       `json:"never_donated"`
}

// DonorFilter задаёт параметры поиска по справочнику доноров.
// Пустой Query совпадает со всеми записями, BloodType "all" или "" отключает фильтр по группе.
type DonorFilter struct {
	Query     string
	BloodType string
}

// BloodTypeCount количество доноров одной группы крови и их доля в процентах.
type BloodTypeCount struct {
	BloodType  BloodType `json:"blood_type"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
}

// MaxRecentWindowDays верхняя граница окна недавних регистраций в днях.
const MaxRecentWindowDays = 36500

// DonorStats агрегированная статистика по справочнику доноров.
type DonorStats struct {
	Total        int              `json:"total"`
	PerBloodType []BloodTypeCount `json:"per_blood_type"`
	RecentCount  int              `json:"recent_count"`
	RecentWindow time.Duration    `json:"-"`
	RecentDays   int              `json:"recent_window_days"`
}
