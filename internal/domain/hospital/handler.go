package hospital

import (
	"net/http"
	"strconv"

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
	// Portal auth is public.
	portal := api.Group("/hospital-auth")
	portal.POST("/register", h.Register)
	portal.POST("/login", h.Login)

	// Hospital self-service.
	me := api.Group("/hospital", auth.RequireHospital())
	me.GET("/me", h.Me)

	// Dashboard registry.
	admin := api.Group("/hospitals", auth.RequireRole(auth.RoleManager, auth.RoleStaff))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleManager))
	admin.PATCH("/:id/approve", h.Approve, auth.RequireRole(auth.RoleManager))
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return httpx.Validation("invalid request body")
	}
	hosp, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":  true,
		"message":  "registration received, pending approval",
		"hospital": hosp,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return httpx.Validation("invalid request body")
	}
	session, err := h.svc.Login(c.Request().Context(), creds)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"token":    session.Token,
		"hospital": session.Hospital,
	})
}

// Me returns the authenticated hospital's own record.
func (h *Handler) Me(c echo.Context) error {
	id := auth.SubjectFromContext(c.Request().Context())
	hosp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) Create(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return httpx.Validation("invalid request body")
	}
	if err := h.svc.CreateByAdmin(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	hosp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	var approved *bool
	if raw := c.QueryParam("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return httpx.Validation("invalid approved filter")
		}
		approved = &v
	}
	items, total, err := h.svc.List(c.Request().Context(), approved, pg.Limit, pg.Offset)
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
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return httpx.Validation("invalid request body")
	}
	hosp.ID = id
	if err := h.svc.Update(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
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

func (h *Handler) Approve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Validation("invalid id")
	}
	hosp, err := h.svc.Approve(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp)
}
