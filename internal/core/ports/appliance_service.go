package ports

import (
	"context"

	"github.com/esop/appliance-portal/internal/core/domain"
)

// ApplianceService proxies the upstream appliance-management API.
type ApplianceService interface {
	Appliances(ctx context.Context) ([]domain.Appliance, error)
	Leases(ctx context.Context) (domain.LeaseMap, error)
	ApplianceLeases(ctx context.Context, nePk string) (domain.LeaseMap, error)
}

// UpstreamClient is the raw HTTP client to the appliance-management API,
// without caching.
type UpstreamClient interface {
	Appliances(ctx context.Context) ([]domain.Appliance, error)
	Leases(ctx context.Context) (domain.LeaseMap, error)
	ApplianceLeases(ctx context.Context, nePk string) (domain.LeaseMap, error)
}
