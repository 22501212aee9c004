package scheduling

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments", auth.Gate(auth.RequireAuthenticated))
	g.GET("/", h.List)
	g.POST("/", h.Book, auth.Gate(auth.RequirePatient))
	g.GET("/:id/", h.Get)
	g.PATCH("/:id/status/", h.UpdateStatus)
}

// ParseID reads the :id path parameter shared by the appointment routes.
func ParseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierr.InvalidID("appointment")
	}
	return id, nil
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	a, err := h.svc.Book(c.Request().Context(), auth.IdentityFromEcho(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.View())
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	as, total, err := h.svc.ListMine(c.Request().Context(), auth.IdentityFromEcho(c), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, Views(as), total, p))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := ParseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), auth.IdentityFromEcho(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.View())
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := ParseID(c)
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), auth.IdentityFromEcho(c), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.View())
}
