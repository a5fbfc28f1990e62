// Package eraktkosh integrates the national blood-stock (eRaktKosh) and
// facility-registry (ABDM) gateways. Both are modelled as interfaces: the
// mock provider serves curated data for development and demos, the resty
// client talks to a real gateway when one is configured.
package eraktkosh

import (
	"context"
	"strings"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// StockListing is one nearby blood-bank stock entry.
type StockListing struct {
	ID           int     `json:"id"`
	HospitalName string  `json:"hospitalName"`
	DistanceKM   float64 `json:"distance"`
	Address      string  `json:"address"`
	Contact      string  `json:"contact"`
	Component    string  `json:"component"`
	StockUnits   int     `json:"stockUnits"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Facility is one nearby healthcare facility from the registry.
type Facility struct {
	ID           int     `json:"id"`
	FacilityID   string  `json:"facilityId"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Pincode      string  `json:"pincode"`
	Contact      string  `json:"contact"`
	Email        string  `json:"email"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DistanceKM   float64 `json:"distance"`
	FacilityType string  `json:"facilityType"`
}

// StockProvider fetches nearby blood-bank stock for a blood group.
type StockProvider interface {
	NearbyStock(ctx context.Context, lat, lng float64, group blood.Group) ([]StockListing, error)
}

// FacilityRegistry fetches nearby healthcare facilities.
type FacilityRegistry interface {
	NearbyFacilities(ctx context.Context, lat, lng float64, radiusKM float64) ([]Facility, error)
}

// NormalizeGroup canonicalizes a user-supplied blood group string
// ("o +", "ab-") into the enum form. Returns O+ for unrecognized input,
// matching the gateway's fallback behavior.
func NormalizeGroup(raw string) blood.Group {
	g := blood.Group(strings.ToUpper(strings.ReplaceAll(raw, " ", "")))
	if !g.Valid() {
		return blood.OPositive
	}
	return g
}
