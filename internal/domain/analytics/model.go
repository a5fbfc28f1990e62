package analytics

import (
	"time"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// StockSummary is one blood group's position.
type StockSummary struct {
	BloodGroup blood.Group `json:"blood_group"`
	Units      int         `json:"units"`
	IsLow      bool        `json:"is_low"`
}

// TrendBucket is one month of donations.
type TrendBucket struct {
	Month     string `json:"month"`
	Donations int    `json:"donations"`
}

// ExpiringSpecimen is a unit approaching its use-by date.
type ExpiringSpecimen struct {
	SpecimenNumber string      `json:"specimen_number"`
	BloodGroup     blood.Group `json:"blood_group"`
	ExpiryDate     time.Time   `json:"expiry_date"`
	DaysLeft       int         `json:"days_left"`
}

// Counts are the dashboard headline numbers.
type Counts struct {
	Donors            int `json:"donors"`
	Recipients        int `json:"recipients"`
	Hospitals         int `json:"hospitals"`
	PendingHospitals  int `json:"pending_hospitals"`
	ActiveEmergencies int `json:"active_emergencies"`
	PendingRequests   int `json:"pending_requests"`
	UpcomingCamps     int `json:"upcoming_camps"`
}

// Dashboard is the full admin dashboard payload, recomputed per request.
type Dashboard struct {
	Counts        Counts              `json:"counts"`
	Stock         []*StockSummary     `json:"stock"`
	LowStock      []*StockSummary     `json:"low_stock"`
	NearExpiry    []*ExpiringSpecimen `json:"near_expiry"`
	DonationTrend []*TrendBucket      `json:"donation_trend"`
	GeneratedAt   time.Time           `json:"generated_at"`
}
