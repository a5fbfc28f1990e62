package eraktkosh

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

// Handler exposes the national gateway lookups to the dashboard and portal.
type Handler struct {
	stock      StockProvider
	facilities FacilityRegistry
}

func NewHandler(stock StockProvider, facilities FacilityRegistry) *Handler {
	return &Handler{stock: stock, facilities: facilities}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/eraktkosh/nearby-blood-stock", h.NearbyStock)
	g.GET("/eraktkosh/nearby-facilities", h.NearbyFacilities)
}

type stockResponse struct {
	Success    bool           `json:"success"`
	BloodGroup string         `json:"bloodGroup"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Count      int            `json:"count"`
	Data       []StockListing `json:"data"`
}

// NearbyStock handles GET /api/eraktkosh/nearby-blood-stock.
func (h *Handler) NearbyStock(c echo.Context) error {
	lat, err := parseCoord(c.QueryParam("lat"), 19.0760)
	if err != nil {
		return httpx.Validation("invalid lat")
	}
	lng, err := parseCoord(c.QueryParam("long"), 72.8777)
	if err != nil {
		return httpx.Validation("invalid long")
	}
	group := NormalizeGroup(c.QueryParam("bg"))

	listings, err := h.stock.NearbyStock(c.Request().Context(), lat, lng, group)
	if err != nil {
		return httpx.Internal(err)
	}

	return c.JSON(http.StatusOK, stockResponse{
		Success:    true,
		BloodGroup: string(group),
		Latitude:   lat,
		Longitude:  lng,
		Count:      len(listings),
		Data:       listings,
	})
}

type facilityResponse struct {
	Success  bool       `json:"success"`
	RadiusKM float64    `json:"radiusKm"`
	Count    int        `json:"count"`
	Data     []Facility `json:"data"`
}

// NearbyFacilities handles GET /api/eraktkosh/nearby-facilities.
func (h *Handler) NearbyFacilities(c echo.Context) error {
	lat, err := parseCoord(c.QueryParam("lat"), 19.0760)
	if err != nil {
		return httpx.Validation("invalid lat")
	}
	lng, err := parseCoord(c.QueryParam("long"), 72.8777)
	if err != nil {
		return httpx.Validation("invalid long")
	}
	radius, err := parseCoord(c.QueryParam("radius"), 10)
	if err != nil || radius < 0 {
		return httpx.Validation("invalid radius")
	}

	facilities, err := h.facilities.NearbyFacilities(c.Request().Context(), lat, lng, radius)
	if err != nil {
		return httpx.Internal(err)
	}

	return c.JSON(http.StatusOK, facilityResponse{
		Success:  true,
		RadiusKM: radius,
		Count:    len(facilities),
		Data:     facilities,
	})
}

func parseCoord(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
