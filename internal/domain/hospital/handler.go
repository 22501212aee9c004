package hospital

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/pagination"
)

type Handler struct {
	svc         *Service
	store       blobstore.Store
	mediaPrefix string
}

func NewHandler(svc *Service, store blobstore.Store, mediaPrefix string) *Handler {
	return &Handler{svc: svc, store: store, mediaPrefix: mediaPrefix}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.Gate(auth.RequireHospitalAdmin)
	api.POST("/profile/hospital/", h.Create, admin)

	api.GET("/hospitals/", h.List)
	api.GET("/hospitals/mine/", h.ListMine, admin)
	api.GET("/hospitals/:id/", h.Get)
	api.POST("/hospitals/:id/admins/", h.AddAdmin, admin)
}

func bindInput(c echo.Context) (Input, error) {
	var in Input
	if !blobstore.IsMultipart(c) {
		if err := c.Bind(&in); err != nil {
			return in, apierr.Bind(err)
		}
		return in, nil
	}
	in.Name = c.FormValue("name")
	in.Address = c.FormValue("address")
	in.ContactNo1 = c.FormValue("contact_no1")
	in.ContactNo2 = c.FormValue("contact_no2")
	in.Email = c.FormValue("email")
	in.Website = c.FormValue("website")
	in.LicenseNo = c.FormValue("license_no")
	in.OperatingHours = c.FormValue("operating_hours")
	if raw := strings.TrimSpace(c.FormValue("num_departments")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, apierr.Field("num_departments", "A valid integer is required.")
		}
		in.NumDepartments = &n
	}
	return in, nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierr.InvalidID("hospital")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	photo, err := blobstore.SaveFormFile(ctx, h.store, c, "photo", blobstore.HospitalPhotos)
	if err != nil {
		return err
	}
	hosp, err := h.svc.CreateHospital(ctx, auth.IdentityFromEcho(c), in, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hosp.View(h.mediaPrefix))
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	hs, total, err := h.svc.ListHospitals(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, Views(hs, h.mediaPrefix), total, p))
}

func (h *Handler) ListMine(c echo.Context) error {
	p := pagination.FromContext(c)
	hs, total, err := h.svc.ListMyHospitals(c.Request().Context(), auth.IdentityFromEcho(c), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, Views(hs, h.mediaPrefix), total, p))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hosp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hosp.View(h.mediaPrefix))
}

func (h *Handler) AddAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AddAdminRequest
	if err := c.Bind(&req); err != nil {
		return apierr.Bind(err)
	}
	if err := h.svc.AddHospitalAdmin(c.Request().Context(), auth.IdentityFromEcho(c), id, req.CustomID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
