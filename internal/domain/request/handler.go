package request

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
	// Portal: a hospital manages its own requests.
	portal := api.Group("/hospital/requests", auth.RequireHospital())
	portal.GET("", h.ListMine)
	portal.POST("", h.Create)
	portal.GET("/stats", h.MyStats)
	portal.GET("/:id", h.GetMine)
	portal.PATCH("/:id/cancel", h.Cancel)

	// Dashboard: admins review the queue.
	admin := api.Group("/requests", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("", h.List)
	admin.GET("/stats", h.Stats)
	admin.GET("/:id", h.Get)
	admin.PATCH("/:id/approve", h.Approve)
	admin.PATCH("/:id/reject", h.Reject)
	admin.PATCH("/:id/fulfill", h.Fulfill)
}

func (h *Handler) Create(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return httpx.Validation("invalid request body")
	}
	hospitalID := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), hospitalID, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) ListMine(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		HospitalID: auth.SubjectFromContext(c.Request().Context()),
		Status:     c.QueryParam("status"),
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetMine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	hospitalID := auth.SubjectFromContext(c.Request().Context())
	req, err := h.svc.Get(c.Request().Context(), id, hospitalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	hospitalID := auth.SubjectFromContext(c.Request().Context())
	req, err := h.svc.Cancel(c.Request().Context(), id, hospitalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		Status:  c.QueryParam("status"),
		Urgency: blood.Urgency(c.QueryParam("urgency")),
	}
	if raw := c.QueryParam("hospital_id"); raw != "" {
		hid, err := uuid.Parse(raw)
		if err != nil {
			return httpx.Validation("invalid hospital_id")
		}
		filter.HospitalID = hid
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	req, err := h.svc.Get(c.Request().Context(), id, uuid.Nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

type respondRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) Approve(c echo.Context) error {
	return h.respond(c, true)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.respond(c, false)
}

func (h *Handler) respond(c echo.Context, approve bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var body respondRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	respondedBy := auth.NameFromContext(c.Request().Context())
	req, err := h.svc.Respond(c.Request().Context(), id, approve, body.Notes, respondedBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Fulfill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	respondedBy := auth.NameFromContext(c.Request().Context())
	req, err := h.svc.Fulfill(c.Request().Context(), id, respondedBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": stats})
}

func (h *Handler) MyStats(c echo.Context) error {
	hospitalID := auth.SubjectFromContext(c.Request().Context())
	stats, err := h.svc.StatsFor(c.Request().Context(), hospitalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": stats})
}
