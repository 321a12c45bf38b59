package entity

import "time"

type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleOrganizer UserRole = "organizer"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         UserRole  `json:"role" db:"role"`
	TelegramID   string    `json:"telegram_id,omitempty" db:"telegram_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
