package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Public: the auth middleware lets these through without a token.
	api.POST("/register/", h.Register)
	api.POST("/login/", h.Login)
	api.POST("/login/refresh/", h.Refresh)
	api.POST("/logout/", h.Logout)

	acct := api.Group("/account", auth.Gate(auth.RequireAuthenticated))
	acct.GET("/", h.GetAccount)
	acct.PATCH("/", h.UpdateAccount)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	a, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.View(h.svc.now()))
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	access, err := h.svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AccessResponse{Access: access})
}

func (h *Handler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	if err := h.svc.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}
	return c.NoContent(http.StatusResetContent)
}

func (h *Handler) GetAccount(c echo.Context) error {
	v, err := h.svc.GetAccount(c.Request().Context(), auth.IdentityFromEcho(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateAccount(c echo.Context) error {
	var u Update
	if err := c.Bind(&u); err != nil {
		return apierr.Bind(err)
	}
	v, err := h.svc.UpdateAccount(c.Request().Context(), auth.IdentityFromEcho(c), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
