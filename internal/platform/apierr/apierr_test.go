package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("Kind(%d).Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestField(t *testing.T) {
	err := Field("password", "Passwords must match.")
	if err.Kind != KindValidation {
		t.Errorf("expected validation kind, got %d", err.Kind)
	}
	if got := err.Fields["password"]; len(got) != 1 || got[0] != "Passwords must match." {
		t.Errorf("unexpected fields: %v", err.Fields)
	}
}

func TestValidation_Err(t *testing.T) {
	var v Validation
	if v.Err() != nil {
		t.Fatal("empty validation should produce nil error")
	}

	v.Add("email", "This field is required.")
	v.AddIf(false, "role", "never added")
	v.AddIf(true, "password", "This field is required.")
	v.Add("email", "Enter a valid email address.")

	err := v.Err()
	e, ok := As(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(e.Fields["email"]) != 2 {
		t.Errorf("expected two email messages, got %v", e.Fields["email"])
	}
	if v.Has("role") {
		t.Error("role should not have been added")
	}
	if e.Message != "This field is required." {
		t.Errorf("expected first message as summary, got %q", e.Message)
	}
}

func TestErrorIs(t *testing.T) {
	sentinel := Conflict("profile_exists", "profile already exists")
	wrapped := fmt.Errorf("create: %w", sentinel.Wrap(errors.New("duplicate key")))

	if !errors.Is(wrapped, sentinel) {
		t.Error("expected errors.Is to match on kind and code")
	}
	if errors.Is(wrapped, Conflict("other", "x")) {
		t.Error("different code must not match")
	}
	if KindOf(wrapped) != KindConflict {
		t.Errorf("KindOf() = %d", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("plain errors are internal")
	}
}

func TestFromError_EchoHTTPError(t *testing.T) {
	e := FromError(echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"))
	if e.Status() != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", e.Status())
	}
	if e.Code != "throttled" || e.Message != "rate limit exceeded" {
		t.Errorf("unexpected envelope: %+v", e)
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	handler := HTTPErrorHandler(zerolog.Nop())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Field("email", "A user with that email already exists."), 400, "validation_error"},
		{"forbidden", Forbidden("wrong role"), 403, "permission_denied"},
		{"echo not found", echo.ErrNotFound, 404, "not_found"},
		{"plain", errors.New("db down"), 500, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
			handler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, body["code"])
			}
		})
	}
}

func TestHTTPErrorHandler_FieldsRendered(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/register/", nil), rec)

	HTTPErrorHandler(zerolog.Nop())(Field("password", "Passwords must match."), c)

	var body struct {
		Fields map[string][]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Fields["password"][0] != "Passwords must match." {
		t.Errorf("unexpected fields: %v", body.Fields)
	}
}
