// Package models содержит доменные модели витрины: пользователей, товары,
// корзины, подписчиков рассылки и почтовые сообщения.
package models

import "time"

// Role определяет уровень привилегий пользователя.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

// rank задаёт порядок ролей USER < ADMIN < OWNER.
func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// AtLeast сообщает, не ниже ли роль r заданной роли other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank()
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	PasswordHash        string     `json:"-"`
	Role                Role       `json:"role"`
	ResetCode           *string    `json:"-"`
	ResetCodeExpiresAt  *time.Time `json:"-"`
	ResetGrantHash      *string    `json:"-"`
	ResetGrantExpiresAt *time.Time `json:"-"`
	PaymentCustomerID   *string    `json:"paymentCustomerId,omitempty"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// PublicUser проекция пользователя, безопасная для отдачи клиенту.
type PublicUser struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Role              Role       `json:"role"`
	PaymentCustomerID *string    `json:"paymentCustomerId,omitempty"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Public возвращает проекцию пользователя без хэша пароля и кодов сброса.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		PaymentCustomerID: u.PaymentCustomerID,
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
