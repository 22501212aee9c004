package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
)

// Handler serves objects of the public categories below the media prefix.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts GET <prefix>/* on e.
func (h *Handler) RegisterRoutes(e *echo.Echo, prefix string) {
	e.GET(prefix+"/*", h.serve)
}

func (h *Handler) serve(c echo.Context) error {
	key := c.Param("*")
	if !ValidKey(key) || !CategoryOf(key).Public() {
		return apierr.NotFound("not_found", "Not found.")
	}

	rc, meta, err := h.store.Open(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidKey) {
			return apierr.NotFound("not_found", "Not found.")
		}
		return fmt.Errorf("open media %s: %w", key, err)
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

// IsMultipart reports whether the request body is multipart/form-data.
func IsMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// SaveFormFile stores the multipart file named field, if the request has
// one. It returns nil without error when the field is absent.
func SaveFormFile(ctx context.Context, store Store, c echo.Context, field string, category Category) (*Object, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apierr.Field(field, "The submitted data was not a file.").Wrap(err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	obj, err := store.Put(ctx, category, fh.Filename, src)
	if err != nil {
		return nil, fieldError(field, err)
	}
	return obj, nil
}

func fieldError(field string, err error) error {
	switch {
	case errors.Is(err, ErrEmptyFile):
		return apierr.Field(field, "The submitted file is empty.")
	case errors.Is(err, ErrFileTooLarge):
		return apierr.Field(field, "The submitted file is too large.")
	case errors.Is(err, ErrInvalidContentType):
		if field == "report_file" {
			return apierr.Field(field, "Upload a valid image, PDF or text file.")
		}
		return apierr.Field(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	default:
		return err
	}
}
