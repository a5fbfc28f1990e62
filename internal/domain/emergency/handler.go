package emergency

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
	g := api.Group("/emergencies")

	// The active feed and donor responses are public: donors follow an SMS
	// link without a portal account.
	g.GET("/active", h.GetActive)
	g.POST("/:id/respond", h.Respond)

	g.POST("", h.Broadcast, auth.RequireHospital())
	g.PATCH("/:id/status", h.UpdateStatus, requireSession)

	admin := g.Group("", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.GET("/:id/responses", h.Responses)
}

func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.ActorFromContext(c.Request().Context()) == "" {
			return httpx.Unauthenticated("session required")
		}
		return next(c)
	}
}

func (h *Handler) Broadcast(c echo.Context) error {
	var e Emergency
	if err := c.Bind(&e); err != nil {
		return httpx.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	hospitalID := auth.SubjectFromContext(ctx)
	hospitalName := auth.NameFromContext(ctx)
	if err := h.svc.Broadcast(ctx, hospitalID, hospitalName, &e); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetActive(c echo.Context) error {
	items, err := h.svc.GetActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type respondRequest struct {
	DonorID uuid.UUID `json:"donor_id"`
}

func (h *Handler) Respond(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	var body respondRequest
	if err := c.Bind(&body); err != nil {
		return httpx.Validation("invalid request body")
	}
	if body.DonorID == uuid.Nil {
		return httpx.Validation("donor_id is required")
	}

	e, added, err := h.svc.Respond(c.Request().Context(), id, body.DonorID)
	if err != nil {
		return err
	}
	message := "response recorded"
	if !added {
		message = "already responded"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        message,
		"response_count": e.ResponseCount,
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

	ctx := c.Request().Context()
	hospitalID := uuid.Nil
	if auth.ActorFromContext(ctx) == auth.ActorHospital {
		hospitalID = auth.SubjectFromContext(ctx)
	}
	e, err := h.svc.UpdateStatus(ctx, id, body.Status, hospitalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Responses(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	items, err := h.svc.Responses(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}
