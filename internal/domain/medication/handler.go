package medication

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
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
	authn := auth.Gate(auth.RequireAuthenticated)
	doctor := auth.Gate(auth.RequireDoctor)

	meds := api.Group("/medications", authn)
	meds.GET("/", h.ListMedications)
	meds.POST("/", h.CreateMedication, doctor)
	meds.DELETE("/:id/", h.DeleteMedication, doctor)

	rx := api.Group("/appointments/:id/prescriptions", authn)
	rx.GET("/", h.ListPrescriptions)
	rx.POST("/", h.Prescribe, doctor)
}

func (h *Handler) ListMedications(c echo.Context) error {
	p := pagination.FromContext(c)
	ms, total, err := h.svc.ListMedications(c.Request().Context(), auth.IdentityFromEcho(c), c.QueryParam("search"), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, ms, total, p))
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var in MedicationInput
	if err := c.Bind(&in); err != nil {
		return apierr.Bind(err)
	}
	m, err := h.svc.CreateMedication(c.Request().Context(), auth.IdentityFromEcho(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.InvalidID("medication")
	}
	if err := h.svc.DeleteMedication(c.Request().Context(), auth.IdentityFromEcho(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Prescribe(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	var in PrescriptionInput
	if err := c.Bind(&in); err != nil {
		return apierr.Bind(err)
	}
	p, err := h.svc.Prescribe(c.Request().Context(), auth.IdentityFromEcho(c), apptID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p.View())
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	ps, total, err := h.svc.ListPrescriptions(c.Request().Context(), auth.IdentityFromEcho(c), apptID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, PrescriptionViews(ps), total, p))
}
