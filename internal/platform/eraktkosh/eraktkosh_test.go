package eraktkosh

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

func TestNormalizeGroup(t *testing.T) {
	cases := []struct {
		raw  string
		want blood.Group
	}{
		{"A+", blood.APositive},
		{"ab-", blood.ABNegative},
		{"o +", blood.OPositive},
		{"B-", blood.BNegative},
		{"garbage", blood.OPositive},
		{"", blood.OPositive},
	}
	for _, tc := range cases {
		if got := NormalizeGroup(tc.raw); got != tc.want {
			t.Errorf("NormalizeGroup(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestMockProvider_NearbyStock(t *testing.T) {
	p := NewMockProvider(42)

	listings, err := p.NearbyStock(context.Background(), 19.07, 72.87, blood.APositive)
	if err != nil {
		t.Fatalf("NearbyStock: %v", err)
	}
	if len(listings) == 0 {
		t.Fatal("expected listings for A+")
	}
	for _, l := range listings {
		if l.StockUnits < 1 {
			t.Errorf("listing %q has %d units, want >= 1", l.HospitalName, l.StockUnits)
		}
	}
}

func TestMockProvider_NearbyStock_FallsBackToOPositive(t *testing.T) {
	p := NewMockProvider(1)

	// AB- has one curated entry; an unknown group would never reach the
	// provider thanks to NormalizeGroup, but the provider still guards.
	listings, err := p.NearbyStock(context.Background(), 0, 0, blood.Group("X+"))
	if err != nil {
		t.Fatalf("NearbyStock: %v", err)
	}
	if len(listings) != len(mockBloodBanks[blood.OPositive]) {
		t.Errorf("got %d listings, want O+ fallback of %d", len(listings), len(mockBloodBanks[blood.OPositive]))
	}
}

func TestMockProvider_NearbyFacilities_RadiusFilter(t *testing.T) {
	p := NewMockProvider(1)

	all, err := p.NearbyFacilities(context.Background(), 0, 0, 100)
	if err != nil {
		t.Fatalf("NearbyFacilities: %v", err)
	}
	if len(all) != len(mockFacilities) {
		t.Fatalf("got %d facilities, want %d", len(all), len(mockFacilities))
	}

	near, err := p.NearbyFacilities(context.Background(), 0, 0, 3)
	if err != nil {
		t.Fatalf("NearbyFacilities: %v", err)
	}
	for _, f := range near {
		if f.DistanceKM > 3 {
			t.Errorf("facility %s at %.1f km exceeds 3 km radius", f.FacilityID, f.DistanceKM)
		}
	}
	if len(near) == 0 || len(near) >= len(all) {
		t.Errorf("radius filter returned %d of %d facilities", len(near), len(all))
	}
}

func TestHandler_NearbyStock(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewMockProvider(7), NewMockProvider(7))

	req := httptest.NewRequest(http.MethodGet, "/api/eraktkosh/nearby-blood-stock?lat=19.07&long=72.87&bg=B%2B", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.NearbyStock(c); err != nil {
		t.Fatalf("NearbyStock: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp stockResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.BloodGroup != "B+" {
		t.Errorf("bloodGroup = %q, want B+", resp.BloodGroup)
	}
	if resp.Count != len(resp.Data) || resp.Count == 0 {
		t.Errorf("count = %d with %d entries", resp.Count, len(resp.Data))
	}
}

func TestHandler_NearbyStock_InvalidLatitude(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewMockProvider(7), NewMockProvider(7))

	req := httptest.NewRequest(http.MethodGet, "/api/eraktkosh/nearby-blood-stock?lat=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.NearbyStock(c)
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestHandler_NearbyFacilities_Defaults(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewMockProvider(7), NewMockProvider(7))

	req := httptest.NewRequest(http.MethodGet, "/api/eraktkosh/nearby-facilities", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.NearbyFacilities(c); err != nil {
		t.Fatalf("NearbyFacilities: %v", err)
	}

	var resp facilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.RadiusKM != 10 {
		t.Errorf("radiusKm = %v, want default 10", resp.RadiusKM)
	}
	if resp.Count == 0 {
		t.Error("expected facilities within default radius")
	}
}
