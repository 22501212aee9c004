package clinical

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/pagination"
)

type Handler struct {
	svc   *Service
	store blobstore.Store
}

func NewHandler(svc *Service, store blobstore.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	authn := auth.Gate(auth.RequireAuthenticated)
	doctor := auth.Gate(auth.RequireDoctor)

	reports := api.Group("/appointments/:id/reports", authn)
	reports.GET("/", h.ListReports)
	reports.POST("/", h.UploadReport, doctor)
	reports.GET("/:report_id/", h.GetReport)
	reports.GET("/:report_id/file/", h.DownloadReport)

	api.GET("/articles/", h.ListArticles)
	api.POST("/articles/", h.CreateArticle, doctor)
	api.GET("/articles/:id/", h.GetArticle)
	api.PUT("/articles/:id/", h.UpdateArticle, doctor)
	api.POST("/articles/:id/publish/", h.PublishArticle, doctor)
}

func parseUUID(c echo.Context, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apierr.InvalidID(what)
	}
	return id, nil
}

// -- Medical reports --

func (h *Handler) UploadReport(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	in := ReportInput{
		ReportType:  c.FormValue("report_type"),
		Description: c.FormValue("description"),
	}
	ctx := c.Request().Context()
	file, err := blobstore.SaveFormFile(ctx, h.store, c, "report_file", blobstore.MedicalReports)
	if err != nil {
		return err
	}
	r, err := h.svc.UploadReport(ctx, auth.IdentityFromEcho(c), apptID, in, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r.View())
}

func (h *Handler) ListReports(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	rs, total, err := h.svc.ListReports(c.Request().Context(), auth.IdentityFromEcho(c), apptID, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, ReportViews(rs), total, p))
}

func (h *Handler) GetReport(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	reportID, err := parseUUID(c, "report_id", "medical report")
	if err != nil {
		return err
	}
	r, err := h.svc.GetReport(c.Request().Context(), auth.IdentityFromEcho(c), apptID, reportID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (h *Handler) DownloadReport(c echo.Context) error {
	apptID, err := scheduling.ParseID(c)
	if err != nil {
		return err
	}
	reportID, err := parseUUID(c, "report_id", "medical report")
	if err != nil {
		return err
	}
	rc, obj, err := h.svc.OpenReportFile(c.Request().Context(), auth.IdentityFromEcho(c), apptID, reportID)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": obj.FileName}))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Stream(http.StatusOK, obj.ContentType, rc)
}

// -- Articles --

func (h *Handler) ListArticles(c echo.Context) error {
	mine, _ := strconv.ParseBool(c.QueryParam("mine"))
	p := pagination.FromContext(c)
	as, total, err := h.svc.ListArticles(c.Request().Context(), auth.IdentityFromEcho(c), mine, p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(c, ArticleViews(as), total, p))
}

func (h *Handler) CreateArticle(c echo.Context) error {
	var in ArticleInput
	if err := c.Bind(&in); err != nil {
		return apierr.Bind(err)
	}
	a, err := h.svc.CreateArticle(c.Request().Context(), auth.IdentityFromEcho(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.View())
}

func (h *Handler) GetArticle(c echo.Context) error {
	id, err := parseUUID(c, "id", "article")
	if err != nil {
		return err
	}
	a, err := h.svc.GetArticle(c.Request().Context(), auth.IdentityFromEcho(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.View())
}

func (h *Handler) UpdateArticle(c echo.Context) error {
	id, err := parseUUID(c, "id", "article")
	if err != nil {
		return err
	}
	var in ArticleInput
	if err := c.Bind(&in); err != nil {
		return apierr.Bind(err)
	}
	a, err := h.svc.UpdateArticle(c.Request().Context(), auth.IdentityFromEcho(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.View())
}

func (h *Handler) PublishArticle(c echo.Context) error {
	id, err := parseUUID(c, "id", "article")
	if err != nil {
		return err
	}
	a, err := h.svc.PublishArticle(c.Request().Context(), auth.IdentityFromEcho(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.View())
}
