package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// Request status values.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
)

// transitions is the request lifecycle: terminal states have no entry.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusFulfilled},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Request maps to the hospital_request table. HospitalName and HospitalEmail
// are joined in for display and notification.
type Request struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	HospitalID     uuid.UUID     `db:"hospital_id" json:"hospital_id"`
	HospitalName   string        `db:"-" json:"hospital_name,omitempty"`
	HospitalEmail  string        `db:"-" json:"-"`
	BloodGroup     blood.Group   `db:"blood_group" json:"blood_group"`
	Quantity       int           `db:"quantity" json:"quantity"`
	Urgency        blood.Urgency `db:"urgency" json:"urgency"`
	Status         string        `db:"status" json:"status"`
	Reason         string        `db:"reason" json:"reason"`
	PatientDetails *string       `db:"patient_details" json:"patient_details,omitempty"`
	RequiredBy     *time.Time    `db:"required_by" json:"required_by,omitempty"`
	AdminNotes     *string       `db:"admin_notes" json:"admin_notes,omitempty"`
	RespondedBy    *string       `db:"responded_by" json:"responded_by,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Filter narrows request listings.
type Filter struct {
	HospitalID uuid.UUID
	Status     string
	Urgency    blood.Urgency
}

// Stats summarizes the request workload for the dashboard.
type Stats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	FulfillmentRate float64        `json:"fulfillment_rate"`
}
