package hospital

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Hospital maps to the hospital table. PasswordHash never leaves the API.
type Hospital struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	Name             string       `db:"name" json:"name"`
	Phone            string       `db:"phone" json:"phone"`
	Email            string       `db:"email" json:"email"`
	PasswordHash     string       `db:"password_hash" json:"-"`
	City             string       `db:"city" json:"city"`
	Address          string       `db:"address" json:"address"`
	NeededBloodGroup *blood.Group `db:"needed_blood_group" json:"needed_blood_group,omitempty"`
	IsApproved       bool         `db:"is_approved" json:"is_approved"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

// RegisterInput is the portal self-registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
	Address  string `json:"address"`
}

// Credentials is the portal login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned on successful login.
type Session struct {
	Token    string    `json:"token"`
	Hospital *Hospital `json:"hospital"`
}
