package camp

import (
	"time"

	"github.com/google/uuid"
)

// Camp statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Camp maps to the donation_camp table.
type Camp struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description"`
	CampDate         time.Time `db:"camp_date" json:"camp_date"`
	StartTime        string    `db:"start_time" json:"start_time"`
	EndTime          string    `db:"end_time" json:"end_time"`
	LocationName     string    `db:"location_name" json:"location_name"`
	Address          string    `db:"address" json:"address"`
	City             string    `db:"city" json:"city"`
	Latitude         *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64  `db:"longitude" json:"longitude,omitempty"`
	Organizer        string    `db:"organizer" json:"organizer"`
	ContactName      string    `db:"contact_name" json:"contact_name"`
	ContactPhone     string    `db:"contact_phone" json:"contact_phone"`
	ContactEmail     string    `db:"contact_email" json:"contact_email"`
	ExpectedDonors   int       `db:"expected_donors" json:"expected_donors"`
	RegisteredDonors int       `db:"registered_donors" json:"registered_donors"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Filter narrows camp listings.
type Filter struct {
	Status string
	City   string
}

func validStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
