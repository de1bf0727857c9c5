package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
)

// ApplianceHandler proxies appliance and DHCP lease lookups.
type ApplianceHandler struct {
	service ports.ApplianceService
}

func NewApplianceHandler(service ports.ApplianceService) *ApplianceHandler {
	return &ApplianceHandler{service: service}
}

type appliancesResponse struct {
	Appliances []domain.Appliance `json:"appliances"`
}

type clientsResponse struct {
	Clients domain.LeaseMap `json:"clients"`
}

// List handles GET /appliances.
//
// @Summary      List managed appliances
// @Tags         appliances
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  appliancesResponse
// @Failure      502  {object}  errorResponse
// @Router       /appliances [get]
func (h *ApplianceHandler) List(c echo.Context) error {
	appliances, err := h.service.Appliances(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appliancesResponse{Appliances: appliances})
}

// Clients handles GET /clients: all active DHCP leases keyed by IP.
//
// @Summary      List DHCP clients
// @Tags         appliances
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientsResponse
// @Failure      502  {object}  errorResponse
// @Router       /clients [get]
func (h *ApplianceHandler) Clients(c echo.Context) error {
	leases, err := h.service.Leases(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientsResponse{Clients: leases})
}

// Leases handles GET /appliances/:nePk/leases: leases for one appliance.
//
// @Summary      List DHCP leases for a single appliance
// @Tags         appliances
// @Produce      json
// @Security     BearerAuth
// @Param        nePk  path      string  true  "Appliance nePk"
// @Success      200   {object}  clientsResponse
// @Failure      502   {object}  errorResponse
// @Router       /appliances/{nePk}/leases [get]
func (h *ApplianceHandler) Leases(c echo.Context) error {
	nePk := c.Param("nePk")
	if nePk == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing appliance nePk")
	}

	leases, err := h.service.ApplianceLeases(c.Request().Context(), nePk)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientsResponse{Clients: leases})
}
