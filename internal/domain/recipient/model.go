package recipient

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Recipient maps to the recipient table.
type Recipient struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Age          int         `db:"age" json:"age"`
	Sex          string      `db:"sex" json:"sex"`
	Phone        string      `db:"phone" json:"phone"`
	BloodGroup   blood.Group `db:"blood_group" json:"blood_group"`
	Quantity     int         `db:"quantity" json:"quantity"`
	City         string      `db:"city" json:"city"`
	RegisteredAt time.Time   `db:"registered_at" json:"registered_at"`
}
