package camp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/camps")

	// The upcoming feed and registration are public: the donor site links
	// straight here.
	g.GET("/upcoming", h.Upcoming)
	g.POST("/:id/register", h.RegisterDonor)

	admin := g.Group("", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.PATCH("/:id/status", h.UpdateStatus)
	admin.POST("/:id/remind", h.SendReminders)
	admin.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleManager))
}

func (h *Handler) Create(c echo.Context) error {
	var camp Camp
	if err := c.Bind(&camp); err != nil {
		return httpx.Validation("invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &camp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, camp)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	camp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var camp Camp
	if err := c.Bind(&camp); err != nil {
		return httpx.Validation("invalid request body")
	}
	camp.ID = id
	if err := h.svc.Update(c.Request().Context(), &camp); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		Status: c.QueryParam("status"),
		City:   c.QueryParam("city"),
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Upcoming(c echo.Context) error {
	items, err := h.svc.Upcoming(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var body statusRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	camp, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) RegisterDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	camp, err := h.svc.RegisterDonor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":           true,
		"registered_donors": camp.RegisteredDonors,
	})
}

func (h *Handler) SendReminders(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	sent, err := h.svc.SendReminders(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"sent":    sent,
	})
}
