package identity

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser maps to the admin_user table.
type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateUserInput is the payload for adding a dashboard user.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Credentials is the dashboard login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned on successful login.
type Session struct {
	Token string     `json:"token"`
	User  *AdminUser `json:"user"`
}
