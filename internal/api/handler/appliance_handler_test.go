package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esop/appliance-portal/internal/core/domain"
)

type stubApplianceService struct {
	appliances []domain.Appliance
	leases     domain.LeaseMap
	gotNePk    string
	err        error
}

func (s *stubApplianceService) Appliances(context.Context) ([]domain.Appliance, error) {
	return s.appliances, s.err
}

func (s *stubApplianceService) Leases(context.Context) (domain.LeaseMap, error) {
	return s.leases, s.err
}

func (s *stubApplianceService) ApplianceLeases(_ context.Context, nePk string) (domain.LeaseMap, error) {
	s.gotNePk = nePk
	return s.leases, s.err
}

func TestApplianceHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewApplianceHandler(&stubApplianceService{
		appliances: []domain.Appliance{{ID: "1", NePk: "7.NE", Site: "HQ"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/appliances", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string][]domain.Appliance
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp["appliances"]) != 1 || resp["appliances"][0].NePk != "7.NE" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestApplianceHandler_Clients_UpstreamFailure(t *testing.T) {
	e := newTestEcho()
	h := NewApplianceHandler(&stubApplianceService{err: domain.ErrUpstream})

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Clients(c); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestApplianceHandler_Leases_PassesNePk(t *testing.T) {
	e := newTestEcho()
	svc := &stubApplianceService{leases: domain.LeaseMap{}}
	h := NewApplianceHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/appliances/7.NE/leases", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("nePk")
	c.SetParamValues("7.NE")

	if err := h.Leases(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.gotNePk != "7.NE" {
		t.Fatalf("nePk not forwarded: %q", svc.gotNePk)
	}
}
