package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
)

func newTestHandler(t *testing.T) (*Handler, *fixture, *echo.Echo) {
	f := newFixture(t)
	e := echo.New()
	e.HTTPErrorHandler = apierr.HTTPErrorHandler(zerolog.Nop())
	return NewHandler(f.svc), f, e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_Register(t *testing.T) {
	h, _, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register/",
		`{"email":"new@example.com","role":"doctor","password":"pw12345","password2":"pw12345"}`), rec)
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["role"] != "doctor" || !strings.HasPrefix(body["custom_id"].(string), "DC-") {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["password"]; ok {
		t.Error("password must not be returned")
	}
	if v, ok := body["age"]; !ok || v != nil {
		t.Errorf("expected age null, got %v", v)
	}
}

func TestHandler_Register_Mismatch(t *testing.T) {
	h, _, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register/",
		`{"email":"new@example.com","role":"patient","password":"a","password2":"b"}`), rec)
	err := h.Register(c)
	e.HTTPErrorHandler(err, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Fields map[string][]string `json:"fields"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Fields["password"]) != 1 || body.Fields["password"][0] != "Passwords must match." {
		t.Errorf("unexpected fields %v", body.Fields)
	}
}

func TestHandler_LoginRefreshLogout(t *testing.T) {
	h, f, e := newTestHandler(t)
	f.register(t, "p@example.com", auth.RolePatient)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login/",
		`{"username":"p@example.com","password":"s3cret-pass"}`), rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	var tokens TokenResponse
	json.Unmarshal(rec.Body.Bytes(), &tokens)
	if tokens.Access == "" || tokens.Refresh == "" || tokens.Role != auth.RolePatient || tokens.ProfileComplete {
		t.Fatalf("unexpected tokens %+v", tokens)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/login/refresh/", `{"refresh":"`+tokens.Refresh+`"}`), rec)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	var access AccessResponse
	json.Unmarshal(rec.Body.Bytes(), &access)
	if access.Access == "" {
		t.Error("expected access token")
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/logout/", `{"refresh":"`+tokens.Refresh+`"}`), rec)
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusResetContent {
		t.Errorf("expected 205, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/login/refresh/", `{"refresh":"`+tokens.Refresh+`"}`), rec)
	e.HTTPErrorHandler(h.Refresh(c), c)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout: expected 401, got %d", rec.Code)
	}
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h, f, e := newTestHandler(t)
	f.register(t, "p@example.com", auth.RolePatient)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login/",
		`{"email":"p@example.com","password":"nope"}`), rec)
	e.HTTPErrorHandler(h.Login(c), c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"invalid_credentials"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_Account(t *testing.T) {
	h, f, e := newTestHandler(t)
	a := f.register(t, "d@example.com", auth.RoleDoctor)

	req := jsonRequest(http.MethodPatch, "/account/", `{"last_name":"Rao","date_of_birth":"1980-01-02"}`)
	req = req.WithContext(auth.WithIdentity(req.Context(), identityOf(a)))
	rec := httptest.NewRecorder()
	if err := h.UpdateAccount(e.NewContext(req, rec)); err != nil {
		t.Fatalf("patch: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/account/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), identityOf(a)))
	rec = httptest.NewRecorder()
	if err := h.GetAccount(e.NewContext(req, rec)); err != nil {
		t.Fatalf("get: %v", err)
	}
	var v View
	json.Unmarshal(rec.Body.Bytes(), &v)
	if v.LastName != "Rao" || v.Age == nil || *v.Age != 46 || v.Email != "d@example.com" {
		t.Errorf("unexpected view %+v", v)
	}

	rec = httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/account/", nil), rec)
	e.HTTPErrorHandler(h.GetAccount(c), c)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	h, _, e := newTestHandler(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register/", `{"email":`), rec)
	e.HTTPErrorHandler(h.Register(c), c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
