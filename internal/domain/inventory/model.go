package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Specimen status values.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusUsed      = "used"
)

// Specimen maps to the blood_specimen table: one collected bag.
type Specimen struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	SpecimenNumber string      `db:"specimen_number" json:"specimen_number"`
	BloodGroup     blood.Group `db:"blood_group" json:"blood_group"`
	Status         string      `db:"status" json:"status"`
	CollectionDate time.Time   `db:"collection_date" json:"collection_date"`
	ExpiryDate     time.Time   `db:"expiry_date" json:"expiry_date"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// StockLevel is the aggregate unit count for one blood group.
type StockLevel struct {
	BloodGroup blood.Group `db:"blood_group" json:"blood_group"`
	Units      int         `db:"units" json:"units"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
	IsLow      bool        `db:"-" json:"is_low"`
}

// SpecimenFilter narrows specimen listings.
type SpecimenFilter struct {
	BloodGroup blood.Group
	Status     string
}
