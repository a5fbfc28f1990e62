package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message senders. Each hospital has one thread shared between its users
// and the admin team.
const (
	SenderAdmin    = "admin"
	SenderHospital = "hospital"
)

// Message maps to the chat_message table.
type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Sender     string    `db:"sender" json:"sender"`
	Body       string    `db:"body" json:"body"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ThreadSummary is one hospital's thread in the admin inbox.
type ThreadSummary struct {
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	HospitalName string    `db:"hospital_name" json:"hospital_name"`
	LastMessage  string    `db:"last_message" json:"last_message"`
	LastAt       time.Time `db:"last_at" json:"last_at"`
	Unread       int       `db:"unread" json:"unread"`
}
