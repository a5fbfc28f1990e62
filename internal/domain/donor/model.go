package donor

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Donor maps to the donor table.
type Donor struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Age          int         `db:"age" json:"age"`
	Sex          string      `db:"sex" json:"sex"`
	Phone        string      `db:"phone" json:"phone"`
	BloodGroup   blood.Group `db:"blood_group" json:"blood_group"`
	City         string      `db:"city" json:"city"`
	RegisteredAt time.Time   `db:"registered_at" json:"registered_at"`
}

// Filter narrows donor listings.
type Filter struct {
	BloodGroup blood.Group
	City       string
	Search     string
}
