package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/pkg/token"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, body["error"]
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{token.ErrInvalid, http.StatusUnauthorized},
		{token.ErrExpired, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrSelfDelete, http.StatusBadRequest},
		{domain.ErrPasswordMismatch, http.StatusBadRequest},
		{domain.ErrUpstream, http.StatusBadGateway},
	}
	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	wrapped := fmt.Errorf("list appliances: %w", domain.ErrUpstream)
	if code, _ := render(t, wrapped); code != http.StatusBadGateway {
		t.Fatalf("wrapped upstream error not mapped, got %d", code)
	}
}

func TestErrorHandler_CredentialFailuresShareBody(t *testing.T) {
	_, badPassword := render(t, domain.ErrInvalidCredentials)
	_, badToken := render(t, token.ErrInvalid)
	_, expired := render(t, token.ErrExpired)

	if badPassword != badToken || badToken != expired {
		t.Fatalf("credential failures distinguishable: %q %q %q", badPassword, badToken, expired)
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, msg := render(t, errors.New("pg: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
