package emergency

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Emergency status values.
const (
	StatusActive    = "active"
	StatusResolved  = "resolved"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Urgency levels for an emergency broadcast. These are tighter than request
// urgencies: routine emergencies do not exist.
const (
	UrgencyCritical = "critical"
	UrgencyUrgent   = "urgent"
)

// Emergency maps to the emergency_request table.
type Emergency struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	HospitalID       uuid.UUID   `db:"hospital_id" json:"hospital_id"`
	HospitalName     string      `db:"hospital_name" json:"hospital_name"`
	BloodGroup       blood.Group `db:"blood_group" json:"blood_group"`
	UnitsNeeded      int         `db:"units_needed" json:"units_needed"`
	UrgencyLevel     string      `db:"urgency_level" json:"urgency_level"`
	PatientCondition string      `db:"patient_condition" json:"patient_condition"`
	Address          string      `db:"address" json:"address"`
	Latitude         *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64    `db:"longitude" json:"longitude,omitempty"`
	DonorsNotified   int         `db:"donors_notified" json:"donors_notified"`
	ResponseCount    int         `db:"response_count" json:"response_count"`
	Status           string      `db:"status" json:"status"`
	ExpiresAt        time.Time   `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
}

// Response maps to the emergency_response table: one donor pledging to come
// in for one emergency.
type Response struct {
	EmergencyID uuid.UUID `db:"emergency_id" json:"emergency_id"`
	DonorID     uuid.UUID `db:"donor_id" json:"donor_id"`
	RespondedAt time.Time `db:"responded_at" json:"responded_at"`
}
