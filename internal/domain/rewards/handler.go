package rewards

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/rewards")

	// The leaderboard is public: it backs the donor-facing site.
	g.GET("/leaderboard", h.Leaderboard)

	admin := g.Group("", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("/:id", h.DonorSummary)
	admin.POST("/donations", h.RecordDonation)
}

func (h *Handler) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.svc.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *Handler) DonorSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	summary, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

type donationRequest struct {
	DonorID     uuid.UUID `json:"donor_id"`
	Description string    `json:"description"`
}

func (h *Handler) RecordDonation(c echo.Context) error {
	var body donationRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	if body.Description == "" {
		body.Description = "Blood donation"
	}
	if err := h.svc.RecordDonation(c.Request().Context(), body.DonorID, body.Description); err != nil {
		return err
	}
	summary, err := h.svc.Summary(c.Request().Context(), body.DonorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, summary)
}
