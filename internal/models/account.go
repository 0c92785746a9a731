package models

import "time"

// Role роль учётной записи.
type Role string

// Status состояние учётной записи.
type Status string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"

	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Account учётная запись пользователя системы.
// Пароль здесь не хранится: проверкой учётных данных занимается отдельный компонент.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive сообщает, может ли учётная запись входить в систему.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}

// IsAdmin сообщает, есть ли у учётной записи права администратора.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountInput данные формы создания и редактирования учётной записи.
type AccountInput struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,role"`
	Status string `json:"status" validate:"required,status"`
}

// SessionPointer единственная сохраняемая часть сессии: идентификатор текущей учётной записи.
type SessionPointer struct {
	AccountID string `json:"account_id"`
}
