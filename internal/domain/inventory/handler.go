package inventory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
	"github.com/bloodlink/bloodlink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// requireSession admits any authenticated principal; hospitals can see stock
// levels, only admins can mutate them.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.ActorFromContext(c.Request().Context()) == "" {
			return httpx.Unauthenticated("session required")
		}
		return next(c)
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/inventory")
	g.GET("/stock", h.Levels, requireSession)

	admin := g.Group("", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.POST("/stock/add", h.AddStock)
	admin.GET("/specimens", h.ListSpecimens)
	admin.POST("/specimens", h.AddSpecimen)
	admin.GET("/specimens/expiring", h.Expiring)
	admin.GET("/specimens/:id", h.GetSpecimen)
	admin.PATCH("/specimens/:id/status", h.UpdateSpecimenStatus)
	admin.DELETE("/specimens/:id", h.DeleteSpecimen, auth.RequireRole(auth.RoleManager))
}

func (h *Handler) Levels(c echo.Context) error {
	levels, err := h.svc.Levels(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": levels})
}

type addStockRequest struct {
	BloodGroup blood.Group `json:"blood_group"`
	Units      int         `json:"units"`
}

func (h *Handler) AddStock(c echo.Context) error {
	var req addStockRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Validation("invalid request body")
	}
	if err := h.svc.AddStock(c.Request().Context(), req.BloodGroup, req.Units); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) AddSpecimen(c echo.Context) error {
	var sp Specimen
	if err := c.Bind(&sp); err != nil {
		return httpx.Validation("invalid request body")
	}
	if err := h.svc.AddSpecimen(c.Request().Context(), &sp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *Handler) GetSpecimen(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	sp, err := h.svc.GetSpecimen(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) ListSpecimens(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := SpecimenFilter{
		BloodGroup: blood.Group(c.QueryParam("blood_group")),
		Status:     c.QueryParam("status"),
	}
	items, total, err := h.svc.ListSpecimens(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateSpecimenStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Validation("invalid request body")
	}
	sp, err := h.svc.UpdateSpecimenStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) DeleteSpecimen(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	if err := h.svc.DeleteSpecimen(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Expiring(c echo.Context) error {
	items, err := h.svc.ExpiringSoon(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}
