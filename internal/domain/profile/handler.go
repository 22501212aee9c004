package profile

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
	patient := api.Group("/profile/patient", auth.Gate(auth.RequirePatient))
	patient.POST("/", h.CreatePatient)
	patient.GET("/", h.GetPatient)
	patient.PUT("/", h.UpdatePatient)

	doctor := api.Group("/profile/doctor", auth.Gate(auth.RequireDoctor))
	doctor.POST("/", h.CreateDoctor)
	doctor.GET("/", h.GetDoctor)
	doctor.PUT("/", h.UpdateDoctor)

	api.GET("/doctors/", h.ListDoctors, auth.Gate(auth.RequireAuthenticated))
}

func bindPatient(c echo.Context) (PatientInput, error) {
	var in PatientInput
	if blobstore.IsMultipart(c) {
		in.BloodGroup = c.FormValue("blood_group")
		in.EmergencyContactNo = c.FormValue("emergency_contact_no")
		in.EmergencyContactRelation = c.FormValue("emergency_contact_relation")
		in.Allergies = c.FormValue("allergies")
		return in, nil
	}
	if err := c.Bind(&in); err != nil {
		return in, apierr.Bind(err)
	}
	return in, nil
}

func bindDoctor(c echo.Context) (DoctorInput, error) {
	var in DoctorInput
	if !blobstore.IsMultipart(c) {
		if err := c.Bind(&in); err != nil {
			return in, apierr.Bind(err)
		}
		return in, nil
	}

	in.Specialization = c.FormValue("specialization")
	in.Qualification = c.FormValue("qualification")
	in.AvailableDays = c.FormValue("available_days")
	in.LanguagesSpoken = c.FormValue("languages_spoken")

	var v apierr.Validation
	if raw := strings.TrimSpace(c.FormValue("experience_years")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("experience_years", "A valid integer is required.")
		} else {
			in.ExperienceYears = &n
		}
	}
	if raw := strings.TrimSpace(c.FormValue("hospital")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			v.Add("hospital", "Must be a valid UUID.")
		} else {
			in.Hospital = &id
		}
	}
	return in, v.Err()
}

func (h *Handler) CreatePatient(c echo.Context) error {
	in, err := bindPatient(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	photo, err := blobstore.SaveFormFile(ctx, h.store, c, "photo", blobstore.PatientPhotos)
	if err != nil {
		return err
	}
	p, err := h.svc.CreatePatientProfile(ctx, auth.IdentityFromEcho(c), in, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p.View(h.mediaPrefix))
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetMyPatientProfile(c.Request().Context(), auth.IdentityFromEcho(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.View(h.mediaPrefix))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	in, err := bindPatient(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	photo, err := blobstore.SaveFormFile(ctx, h.store, c, "photo", blobstore.PatientPhotos)
	if err != nil {
		return err
	}
	p, err := h.svc.UpdatePatientProfile(ctx, auth.IdentityFromEcho(c), in, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.View(h.mediaPrefix))
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	in, err := bindDoctor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	photo, err := blobstore.SaveFormFile(ctx, h.store, c, "photo", blobstore.DoctorPhotos)
	if err != nil {
		return err
	}
	d, err := h.svc.CreateDoctorProfile(ctx, auth.IdentityFromEcho(c), in, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d.View(h.mediaPrefix))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.svc.GetMyDoctorProfile(c.Request().Context(), auth.IdentityFromEcho(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View(h.mediaPrefix))
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	in, err := bindDoctor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	photo, err := blobstore.SaveFormFile(ctx, h.store, c, "photo", blobstore.DoctorPhotos)
	if err != nil {
		return err
	}
	d, err := h.svc.UpdateDoctorProfile(ctx, auth.IdentityFromEcho(c), in, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View(h.mediaPrefix))
}

func (h *Handler) ListDoctors(c echo.Context) error {
	var f DoctorFilter
	if raw := c.QueryParam("hospital"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apierr.Field("hospital", "Must be a valid UUID.")
		}
		f.HospitalID = &id
	}
	f.Specialization = strings.TrimSpace(c.QueryParam("specialization"))

	p := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), auth.IdentityFromEcho(c), f, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, doctors, total, p))
}
