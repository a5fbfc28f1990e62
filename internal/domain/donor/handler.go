package donor

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/donors", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/compatible", h.Compatible)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleManager))
}

func (h *Handler) Create(c echo.Context) error {
	var d Donor
	if err := c.Bind(&d); err != nil {
		return httpx.Validation("invalid request body")
	}
	if err := h.svc.Register(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		BloodGroup: blood.Group(c.QueryParam("blood_group")),
		City:       c.QueryParam("city"),
		Search:     c.QueryParam("search"),
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var d Donor
	if err := c.Bind(&d); err != nil {
		return httpx.Validation("invalid request body")
	}
	d.ID = id
	if err := h.svc.Update(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
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

// Compatible handles GET /api/donors/compatible?blood_group=A+ and lists
// donors able to give to a patient of that group.
func (h *Handler) Compatible(c echo.Context) error {
	group := blood.Group(c.QueryParam("blood_group"))
	donors, err := h.svc.Compatible(c.Request().Context(), group)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(donors),
		"data":    donors,
	})
}
