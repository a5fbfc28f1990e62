package chat

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
	hospital := api.Group("/hospital/chat", auth.RequireHospital())
	hospital.GET("", h.HospitalThread)
	hospital.POST("", h.HospitalSend)
	hospital.GET("/unread", h.HospitalUnread)

	admin := api.Group("/chat", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("/threads", h.Threads)
	admin.GET("/:hospitalId", h.AdminThread)
	admin.POST("/:hospitalId", h.AdminSend)
}

type sendRequest struct {
	Body string `json:"body"`
}

func (h *Handler) HospitalSend(c echo.Context) error {
	var body sendRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	m, err := h.svc.Send(ctx, auth.SubjectFromContext(ctx), SenderHospital, body.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) HospitalThread(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.Thread(ctx, auth.SubjectFromContext(ctx), SenderHospital, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) HospitalUnread(c echo.Context) error {
	ctx := c.Request().Context()
	count, err := h.svc.Unread(ctx, auth.SubjectFromContext(ctx), SenderHospital)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"unread":  count,
	})
}

func (h *Handler) AdminSend(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return httpx.Validation("invalid hospital id")
	}
	var body sendRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	m, err := h.svc.Send(c.Request().Context(), hospitalID, SenderAdmin, body.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) AdminThread(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return httpx.Validation("invalid hospital id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Thread(c.Request().Context(), hospitalID, SenderAdmin, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Threads(c echo.Context) error {
	items, err := h.svc.Threads(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}
